package materialize

import "fmt"

// SetupError indicates the destination root could not be prepared. It aborts
// the whole run.
type SetupError struct {
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("cannot create destination %s: %v", e.Path, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// ConflictError indicates the destination entry already exists.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Path)
}

// EntryError indicates a single entry failed to copy or be created.
type EntryError struct {
	SrcPath  string
	DestPath string
	Err      error
}

func (e *EntryError) Error() string {
	if e.SrcPath == "" {
		return fmt.Sprintf("failed to create %s: %v", e.DestPath, e.Err)
	}
	return fmt.Sprintf("failed to copy %s → %s: %v", e.SrcPath, e.DestPath, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
