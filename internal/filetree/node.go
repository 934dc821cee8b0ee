// Package filetree describes the directory structure a scaffold run produces,
// and provides the merge, scan and diagram operations over it.
package filetree

import (
	"path"
	"strings"
)

// Kind tags a Node as a file or a directory.
type Kind string

const (
	KindFile Kind = "file"
	KindDir  Kind = "dir"
)

// Node is one entry of a Tree.
//
// Name is the name used in the destination. Source, when set, is the name
// read from the source tree instead of Name. Origin, when set, is an absolute
// source path that bypasses the source-root walk entirely; preset overlays
// use it for files stored outside the variant directory.
type Node struct {
	Kind     Kind   `json:"type" yaml:"type"`
	Name     string `json:"name" yaml:"name"`
	Source   string `json:"src,omitempty" yaml:"src,omitempty"`
	Origin   string `json:"origin,omitempty" yaml:"origin,omitempty"`
	Children Tree   `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree is an ordered list of sibling nodes.
type Tree []Node

// File returns a file node read from and written to name.
func File(name string) Node {
	return Node{Kind: KindFile, Name: name}
}

// RenamedFile returns a file node written to name but read from source.
func RenamedFile(name, source string) Node {
	return Node{Kind: KindFile, Name: name, Source: source}
}

// Dir returns a directory node with the given children.
func Dir(name string, children ...Node) Node {
	if children == nil {
		children = Tree{}
	}
	return Node{Kind: KindDir, Name: name, Children: children}
}

func (n Node) IsDir() bool {
	return n.Kind == KindDir
}

// SourceName returns the name to read from in the source tree.
func (n Node) SourceName() string {
	if n.Source != "" {
		return n.Source
	}
	return n.Name
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	c := n
	if n.Children != nil {
		c.Children = n.Children.Clone()
	}
	return c
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for i, n := range t {
		out[i] = n.Clone()
	}
	return out
}

// Find returns the index of the first node named name, or -1.
func (t Tree) Find(name string) int {
	for i, n := range t {
		if n.Name == name {
			return i
		}
	}
	return -1
}

// Count returns the number of nodes in the tree, directories included.
func Count(t Tree) int {
	total := 0
	for _, n := range t {
		total++
		if n.IsDir() {
			total += Count(n.Children)
		}
	}
	return total
}

// Equal reports whether two trees have the same shape, names and sources.
// A nil and an empty child list compare equal.
func Equal(a, b Tree) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Kind != y.Kind || x.Name != y.Name || x.Source != y.Source || x.Origin != y.Origin {
			return false
		}
		if !Equal(x.Children, y.Children) {
			return false
		}
	}
	return true
}

// Validate checks that every name is a single path segment and that no two
// siblings share a name.
func Validate(t Tree) error {
	return validate(t, "")
}

func validate(t Tree, parent string) error {
	seen := make(map[string]bool, len(t))
	for _, n := range t {
		if err := ValidateName(n.Name); err != nil {
			return &InvalidNameError{Path: parent, Name: n.Name, Reason: err.Error()}
		}
		if seen[n.Name] {
			return &DuplicateNameError{Path: parent, Name: n.Name}
		}
		seen[n.Name] = true

		if n.Kind != KindFile && n.Kind != KindDir {
			return &InvalidNameError{Path: parent, Name: n.Name, Reason: "unknown node type " + string(n.Kind)}
		}
		if n.IsDir() {
			if err := validate(n.Children, path.Join(parent, n.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateName rejects empty names, "." and "..", and names containing a
// path separator.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errEmptyName
	case name == "." || name == "..":
		return errDotName
	case strings.ContainsAny(name, `/\`):
		return errSeparatorName
	}
	return nil
}
