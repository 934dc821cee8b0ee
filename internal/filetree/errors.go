package filetree

import (
	"errors"
	"fmt"
)

var (
	errEmptyName     = errors.New("name is empty")
	errDotName       = errors.New("name must not be . or ..")
	errSeparatorName = errors.New("name must not contain a path separator")
)

// DuplicateNameError indicates two siblings share a name.
type DuplicateNameError struct {
	Path string
	Name string
}

func (e *DuplicateNameError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("duplicate entry %q at top level", e.Name)
	}
	return fmt.Sprintf("duplicate entry %q in %s", e.Name, e.Path)
}

// InvalidNameError indicates a node name that is not a single path segment.
type InvalidNameError struct {
	Path   string
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	where := e.Path
	if where == "" {
		where = "top level"
	}
	return fmt.Sprintf("invalid entry %q in %s: %s", e.Name, where, e.Reason)
}
