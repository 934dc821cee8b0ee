// Package logger builds the structured diagnostic logger. The terminal
// belongs to the step log, so diagnostics go to a file and, on request,
// to stderr.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-stack/stack"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// Options selects where and how diagnostics are written.
type Options struct {
	File   string
	Level  string
	Format string

	// Stderr, when set, receives a copy of every record.
	Stderr io.Writer
}

type compositeLogger struct {
	loggers []log.Logger
}

func (c *compositeLogger) Log(keyvals ...interface{}) error {
	var multiErr *multierror.Error
	for _, logger := range c.loggers {
		if err := logger.Log(keyvals...); err != nil {
			multiErr = multierror.Append(multiErr, err)
		}
	}
	return multiErr.ErrorOrNil()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the logger described by opts and the closer of its log file.
// With neither a file nor stderr it returns a no-op logger.
func New(fs afero.Fs, opts Options) (log.Logger, io.Closer, error) {
	var (
		loggers []log.Logger
		closer  io.Closer = nopCloser{}
	)

	if opts.File != "" {
		f, err := fs.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		closer = f
		loggers = append(loggers, build(f, opts.Format, opts.Level))
	}
	if opts.Stderr != nil {
		loggers = append(loggers, build(opts.Stderr, opts.Format, opts.Level))
	}

	var logger log.Logger
	switch len(loggers) {
	case 0:
		return log.NewNopLogger(), closer, nil
	case 1:
		logger = loggers[0]
	default:
		logger = &compositeLogger{loggers: loggers}
	}
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", pathCaller(callerDepth)), closer, nil
}

// callerDepth skips the valuer, bindValues and the context's Log. The
// timestamp and caller are bound above the sinks so every sink sees the
// same call site.
const callerDepth = 3

func build(w io.Writer, format, lvl string) log.Logger {
	return withLevel(withFormat(format, log.NewSyncWriter(w)), lvl)
}

func withFormat(format string, w io.Writer) log.Logger {
	switch format {
	case "json":
		return log.NewJSONLogger(w)
	default:
		return log.NewLogfmtLogger(w)
	}
}

func withLevel(logger log.Logger, lvl string) log.Logger {
	switch lvl {
	case "debug":
		return level.NewFilter(logger, level.AllowDebug())
	case "", "info":
		return level.NewFilter(logger, level.AllowInfo())
	case "warn":
		return level.NewFilter(logger, level.AllowWarn())
	case "error":
		return level.NewFilter(logger, level.AllowError())
	case "off":
		return level.NewFilter(logger, level.AllowNone())
	default:
		logger.Log("msg", "unknown log level, using debug", "received", lvl)
		return level.NewFilter(logger, level.AllowDebug())
	}
}

func pathCaller(depth int) log.Valuer {
	return func() interface{} {
		return fmt.Sprintf("%+v", stack.Caller(depth))
	}
}
