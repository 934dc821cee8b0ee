// Package install runs a JavaScript package manager in a generated project.
package install

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Manager identifies a supported package manager.
type Manager string

const (
	NPM  Manager = "npm"
	Yarn Manager = "yarn"
	PNPM Manager = "pnpm"
	Bun  Manager = "bun"
)

// DefaultManager is preselected when asking the user.
const DefaultManager = NPM

// Managers returns the supported managers in prompt order.
func Managers() []Manager {
	return []Manager{NPM, Yarn, PNPM, Bun}
}

// Names returns Managers as strings.
func Names() []string {
	managers := Managers()
	names := make([]string, len(managers))
	for i, m := range managers {
		names[i] = string(m)
	}
	return names
}

// ParseManager resolves a manager name, case-insensitively.
func ParseManager(name string) (Manager, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, m := range Managers() {
		if string(m) == needle {
			return m, nil
		}
	}
	return "", &UnknownManagerError{Name: name, Suggestion: Suggest(needle)}
}

// Suggest returns the closest supported manager name for input, or "" when
// nothing is close.
func Suggest(input string) string {
	if input == "" {
		return ""
	}
	matches := fuzzy.Find(strings.ToLower(input), Names())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// Args returns the arguments that install dependencies. Yarn installs when
// run bare.
func (m Manager) Args() []string {
	if m == Yarn {
		return nil
	}
	return []string{"install"}
}

// CommandLine returns the full command for display.
func (m Manager) CommandLine() string {
	return strings.Join(append([]string{string(m)}, m.Args()...), " ")
}
