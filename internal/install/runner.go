package install

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Stream says which output pipe a line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// LineFunc receives output lines. Calls are serialised; lines keep their
// order within a stream.
type LineFunc func(Stream, string)

// CommandFunc builds the process for name and args. Tests swap it out.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Runner runs package manager installs.
type Runner struct {
	Logger  log.Logger
	Command CommandFunc
	Env     []string
}

// NewRunner returns a Runner that spawns real processes.
func NewRunner(logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{Logger: logger, Command: exec.CommandContext}
}

// Run executes the install command of manager in dir and streams its output
// to onLine. It returns an *InstallError on spawn failure or non-zero exit.
// There is no retry.
func (r *Runner) Run(ctx context.Context, manager Manager, dir string, onLine LineFunc) error {
	logger := r.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	command := r.Command
	if command == nil {
		command = exec.CommandContext
	}
	if onLine == nil {
		onLine = func(Stream, string) {}
	}

	cmd := command(ctx, string(manager), manager.Args()...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.Env...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &InstallError{Manager: manager, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &InstallError{Manager: manager, Err: err}
	}

	level.Info(logger).Log("event", "install.start", "manager", manager, "dir", dir, "cmd", manager.CommandLine())
	start := time.Now()
	if err := cmd.Start(); err != nil {
		level.Error(logger).Log("event", "install.spawn_failed", "manager", manager, "err", err)
		return &InstallError{Manager: manager, Err: err}
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	emit := func(s Stream, line string) {
		mu.Lock()
		defer mu.Unlock()
		onLine(s, line)
	}
	wg.Add(2)
	go scanLines(&wg, stdout, Stdout, emit)
	go scanLines(&wg, stderr, Stderr, emit)
	wg.Wait()

	err = cmd.Wait()
	duration := time.Since(start)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			level.Error(logger).Log("event", "install.failed", "manager", manager, "exit_code", exitErr.ExitCode(), "duration", duration)
			return &InstallError{Manager: manager, ExitCode: exitErr.ExitCode(), Err: err}
		}
		level.Error(logger).Log("event", "install.failed", "manager", manager, "err", err, "duration", duration)
		return &InstallError{Manager: manager, Err: err}
	}

	level.Info(logger).Log("event", "install.done", "manager", manager, "duration", duration)
	return nil
}

func scanLines(wg *sync.WaitGroup, r io.Reader, s Stream, emit LineFunc) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		emit(s, scanner.Text())
	}
	// Drain so the child never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}
