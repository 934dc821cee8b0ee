package skeleton

import "fmt"

// PresetNotFoundError indicates a requested preset is not defined.
type PresetNotFoundError struct {
	Name       string
	Suggestion string
}

func (e *PresetNotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("preset not found: %s (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("preset not found: %s", e.Name)
}

// VariantNotFoundError indicates the variant's template directory is missing.
type VariantNotFoundError struct {
	Variant string
	Path    string
	Err     error
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("template for variant %q not found at %s", e.Variant, e.Path)
}

func (e *VariantNotFoundError) Unwrap() error {
	return e.Err
}
