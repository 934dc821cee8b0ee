package install

import "fmt"

// UnknownManagerError indicates an unsupported package manager name.
type UnknownManagerError struct {
	Name       string
	Suggestion string
}

func (e *UnknownManagerError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown package manager %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown package manager %q", e.Name)
}

// InstallError indicates the package manager could not be started or exited
// non-zero.
type InstallError struct {
	Manager  Manager
	ExitCode int
	Err      error
}

func (e *InstallError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("%s exited with code %d", e.Manager.CommandLine(), e.ExitCode)
	}
	return fmt.Sprintf("%s failed: %v", e.Manager.CommandLine(), e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}
