package filetree

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/afero"
)

// Scanner builds a Tree from a directory on an afero filesystem.
type Scanner struct {
	FS      afero.Fs
	Logger  log.Logger
	Exclude []string
}

// NewScanner returns a scanner over fs using DefaultExcludes.
func NewScanner(fs afero.Fs, logger log.Logger) *Scanner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Scanner{
		FS:      fs,
		Logger:  logger,
		Exclude: append([]string{}, DefaultExcludes...),
	}
}

// Scan lists root recursively. Entries come back in directory-read order,
// which afero sorts by name. Symlinks are skipped.
func (s *Scanner) Scan(root string) (Tree, error) {
	info, err := s.FS.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning %s: not a directory", root)
	}
	return s.scan(root, "")
}

func (s *Scanner) scan(dir, rel string) (Tree, error) {
	entries, err := afero.ReadDir(s.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	tree := make(Tree, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		relPath := path.Join(rel, name)

		if excluded(s.Exclude, relPath) {
			level.Debug(s.logger()).Log("event", "scan.exclude", "path", relPath)
			continue
		}
		if entry.Mode()&os.ModeSymlink != 0 {
			level.Debug(s.logger()).Log("event", "scan.symlink.skip", "path", relPath)
			continue
		}

		if entry.IsDir() {
			children, err := s.scan(filepath.Join(dir, name), relPath)
			if err != nil {
				return nil, err
			}
			tree = append(tree, Dir(name, children...))
			continue
		}
		tree = append(tree, File(name))
	}
	return tree, nil
}

func (s *Scanner) logger() log.Logger {
	if s.Logger == nil {
		return log.NewNopLogger()
	}
	return s.Logger
}

// ApplyRules renames top-level entries whose name is a key of rules. The
// renamed node keeps its original name as Source so it is still read from
// the right place. Nested entries are left alone.
func ApplyRules(t Tree, rules map[string]string) Tree {
	out := t.Clone()
	if len(rules) == 0 {
		return out
	}
	for i, n := range out {
		dest, ok := rules[n.Name]
		if !ok || dest == "" || dest == n.Name {
			continue
		}
		if n.Source == "" {
			out[i].Source = n.Name
		}
		out[i].Name = dest
	}
	return out
}
