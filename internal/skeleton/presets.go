package skeleton

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/tormodhaugland/skeleton/internal/filetree"
)

// PresetFiles are tried in order under the source root.
var PresetFiles = []string{"generator-presets.yaml", "generator-presets.yml", "generator-presets.json"}

// RulesFile holds the top-level rename table under the source root.
const RulesFile = "replace-rules.json"

// presetAliases maps alternative names onto the canonical preset key.
var presetAliases = map[string]string{
	"tailwind": "tailwindcss",
}

// Extra copies one file from the source root into the project.
type Extra struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Preset is a named set of extra files layered on top of a variant.
type Preset struct {
	Extra []Extra `yaml:"extra" json:"extra"`
}

// Presets is the decoded presets file.
type Presets map[string]Preset

// LoadPresets reads the first presets file found under sourceDir. A missing
// file yields an empty set.
func LoadPresets(fs afero.Fs, sourceDir string) (Presets, error) {
	for _, name := range PresetFiles {
		p := filepath.Join(sourceDir, name)
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			if exists, _ := afero.Exists(fs, p); !exists {
				continue
			}
			return nil, fmt.Errorf("reading presets: %w", err)
		}

		presets := Presets{}
		if err := yaml.Unmarshal(data, &presets); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return presets, nil
	}
	return Presets{}, nil
}

// Names returns the preset names in sorted order.
func (ps Presets) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves name, following aliases in either direction.
func (ps Presets) Lookup(name string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if p, ok := ps[key]; ok {
		return p, nil
	}
	if canonical, ok := presetAliases[key]; ok {
		if p, ok := ps[canonical]; ok {
			return p, nil
		}
	}
	for alias, canonical := range presetAliases {
		if canonical == key {
			if p, ok := ps[alias]; ok {
				return p, nil
			}
		}
	}

	err := &PresetNotFoundError{Name: name}
	if matches := fuzzy.Find(key, ps.Names()); len(matches) > 0 {
		err.Suggestion = matches[0].Str
	}
	return Preset{}, err
}

// Overlay turns the extras into a tree rooted at the project. Each file
// records its absolute source in Origin since extras live outside the
// variant directory.
func (p Preset) Overlay(sourceDir string) (filetree.Tree, error) {
	var overlay filetree.Tree
	for _, extra := range p.Extra {
		if extra.From == "" || extra.To == "" {
			return nil, fmt.Errorf("preset extra needs both from and to (got from=%q to=%q)", extra.From, extra.To)
		}

		segments := strings.Split(path.Clean(filepath.ToSlash(extra.To)), "/")
		for _, seg := range segments {
			if err := filetree.ValidateName(seg); err != nil {
				return nil, fmt.Errorf("preset target %q: %w", extra.To, err)
			}
		}

		node := filetree.Node{
			Kind:   filetree.KindFile,
			Name:   segments[len(segments)-1],
			Origin: filepath.Join(sourceDir, filepath.FromSlash(extra.From)),
		}
		for i := len(segments) - 2; i >= 0; i-- {
			node = filetree.Dir(segments[i], node)
		}
		overlay = filetree.Merge(overlay, filetree.Tree{node})
	}
	return overlay, nil
}

// LoadRules reads the rename table under sourceDir. A missing file yields
// no rules.
func LoadRules(fs afero.Fs, sourceDir string) (map[string]string, error) {
	p := filepath.Join(sourceDir, RulesFile)
	exists, err := afero.Exists(fs, p)
	if err != nil || !exists {
		return nil, err
	}

	data, err := afero.ReadFile(fs, p)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	rules := map[string]string{}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", RulesFile, err)
	}
	return rules, nil
}
