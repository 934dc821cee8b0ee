// Package materialize writes a filetree.Tree to disk, copying each file from
// a source root and reporting every entry as it goes.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/afero"

	"github.com/tormodhaugland/skeleton/internal/filetree"
)

const dirPerm = 0755

// EventKind says whether an entry was written or failed.
type EventKind int

const (
	EventCreated EventKind = iota
	EventFailed
)

func (k EventKind) String() string {
	if k == EventFailed {
		return "failed"
	}
	return "created"
}

// Event reports the outcome of one entry. Err is set for EventFailed.
// Skipped counts the entries below a failed directory, which are never
// attempted and get no events of their own.
type Event struct {
	Kind    EventKind
	Name    string
	RelPath string
	Path    string
	IsDir   bool
	Skipped int
	Err     error
}

// Observer receives events in walk order.
type Observer func(Event)

// Result accumulates the events of one walk.
type Result struct {
	Created []Event
	Failed  []Event
}

// FailedNames returns the bare names of failed entries, for the diagram.
func (r *Result) FailedNames() map[string]bool {
	names := make(map[string]bool, len(r.Failed))
	for _, ev := range r.Failed {
		names[ev.Name] = true
	}
	return names
}

// HasFailures returns true if any entry failed.
func (r *Result) HasFailures() bool {
	return len(r.Failed) > 0
}

// Materializer copies trees onto FS.
type Materializer struct {
	FS     afero.Fs
	Logger log.Logger

	// DetectConflicts reports an existing destination file as a failure
	// instead of overwriting it.
	DetectConflicts bool
}

// New returns a Materializer with conflict detection enabled.
func New(fs afero.Fs, logger log.Logger) *Materializer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Materializer{FS: fs, Logger: logger, DetectConflicts: true}
}

// Materialize walks tree depth-first in list order. Entry failures are
// reported to observe and collected in the Result; the returned error is
// only set when the destination root cannot be created or ctx is done.
func (m *Materializer) Materialize(ctx context.Context, tree filetree.Tree, sourceRoot, destRoot string, observe Observer) (*Result, error) {
	if observe == nil {
		observe = func(Event) {}
	}
	result := &Result{}

	if err := m.FS.MkdirAll(destRoot, dirPerm); err != nil {
		return result, &SetupError{Path: destRoot, Err: err}
	}
	if info, err := m.FS.Stat(destRoot); err != nil {
		return result, &SetupError{Path: destRoot, Err: err}
	} else if !info.IsDir() {
		return result, &SetupError{Path: destRoot, Err: errors.New("not a directory")}
	}

	w := walker{m: m, ctx: ctx, result: result, observe: observe}
	if err := w.walk(tree, sourceRoot, destRoot, ""); err != nil {
		return result, err
	}

	level.Debug(m.logger()).Log("event", "materialize.done", "dest", destRoot,
		"created", len(result.Created), "failed", len(result.Failed))
	return result, nil
}

func (m *Materializer) logger() log.Logger {
	if m.Logger == nil {
		return log.NewNopLogger()
	}
	return m.Logger
}

type walker struct {
	m       *Materializer
	ctx     context.Context
	result  *Result
	observe Observer
}

func (w *walker) walk(nodes filetree.Tree, src, dest, rel string) error {
	for _, n := range nodes {
		if err := w.ctx.Err(); err != nil {
			return err
		}

		relPath := path.Join(rel, n.Name)
		destPath := filepath.Join(dest, n.Name)

		if n.IsDir() {
			if err := w.m.FS.MkdirAll(destPath, dirPerm); err != nil {
				w.fail(n, relPath, destPath, &EntryError{DestPath: destPath, Err: err})
				continue
			}
			w.ok(n, relPath, destPath)

			srcDir := n.Origin
			if srcDir == "" {
				srcDir = filepath.Join(src, n.SourceName())
			}
			if err := w.walk(n.Children, srcDir, destPath, relPath); err != nil {
				return err
			}
			continue
		}

		srcPath := n.Origin
		if srcPath == "" {
			srcPath = filepath.Join(src, n.SourceName())
		}

		if w.m.DetectConflicts {
			exists, err := afero.Exists(w.m.FS, destPath)
			if err != nil {
				w.fail(n, relPath, destPath, &EntryError{SrcPath: srcPath, DestPath: destPath, Err: err})
				continue
			}
			if exists {
				w.fail(n, relPath, destPath, &ConflictError{Path: relPath})
				continue
			}
		}

		if err := CopyFile(w.m.FS, srcPath, destPath); err != nil {
			w.fail(n, relPath, destPath, &EntryError{SrcPath: srcPath, DestPath: destPath, Err: err})
			continue
		}
		w.ok(n, relPath, destPath)
	}
	return nil
}

func (w *walker) ok(n filetree.Node, relPath, destPath string) {
	ev := Event{Kind: EventCreated, Name: n.Name, RelPath: relPath, Path: destPath, IsDir: n.IsDir()}
	w.result.Created = append(w.result.Created, ev)
	level.Debug(w.m.logger()).Log("event", "entry.created", "path", relPath, "dir", n.IsDir())
	w.observe(ev)
}

func (w *walker) fail(n filetree.Node, relPath, destPath string, err error) {
	ev := Event{Kind: EventFailed, Name: n.Name, RelPath: relPath, Path: destPath, IsDir: n.IsDir(), Err: err}
	if n.IsDir() {
		ev.Skipped = filetree.Count(n.Children)
	}
	w.result.Failed = append(w.result.Failed, ev)
	level.Warn(w.m.logger()).Log("event", "entry.failed", "path", relPath, "skipped", ev.Skipped, "err", err)
	w.observe(ev)
}

// CopyFile copies src to dest byte for byte, keeping the source mode.
// The parent of dest must already exist.
func CopyFile(fsys afero.Fs, src, dest string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source %s is a directory", src)
	}

	srcFile, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer srcFile.Close()

	destFile, err := fsys.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		return fmt.Errorf("copying content: %w", err)
	}
	if err := destFile.Close(); err != nil {
		return fmt.Errorf("closing destination: %w", err)
	}
	return nil
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsNotExist reports whether err wraps a missing-file error.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
