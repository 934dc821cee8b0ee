package filetree

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultExcludes lists the entries never copied out of a template.
var DefaultExcludes = []string{
	"**/node_modules",
	"**/.git",
	"**/.DS_Store",
}

// MatchGlob matches a slash-separated relative path against a glob.
// Supports:
//   - * matches any sequence of non-separator characters
//   - ** as a whole segment matches zero or more segments
//   - ? matches any single non-separator character
func MatchGlob(pattern, relPath string) bool {
	pattern = strings.Trim(filepath.ToSlash(pattern), "/")
	relPath = strings.Trim(filepath.ToSlash(relPath), "/")
	if pattern == "" {
		return relPath == ""
	}
	var segs []string
	if relPath != "" {
		segs = strings.Split(relPath, "/")
	}
	return matchSegments(strings.Split(pattern, "/"), segs)
}

func matchSegments(pattern, segs []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		if head == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		ok, err := path.Match(head, segs[0])
		if err != nil || !ok {
			return false
		}
		pattern, segs = pattern[1:], segs[1:]
	}
	return len(segs) == 0
}

func excluded(patterns []string, relPath string) bool {
	for _, p := range patterns {
		if MatchGlob(p, relPath) {
			return true
		}
	}
	return false
}
