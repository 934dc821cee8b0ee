package skeleton

import (
	"fmt"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/tormodhaugland/skeleton/internal/filetree"
)

// VariantFiles returns the definition files tried for variant, in order,
// when the source root has no skeleton-<variant> directory.
func VariantFiles(variant string) []string {
	base := "variant-" + variant
	return []string{base + ".yaml", base + ".yml", base + ".json"}
}

// Variant is a resolved template variant: the tree to create and the
// directory its relative source names are read from.
type Variant struct {
	Name string
	Root string
	Tree filetree.Tree

	// Definition is the file the tree was decoded from, empty for a
	// scanned directory.
	Definition string
}

// LoadVariant resolves variant under sourceDir. A skeleton-<variant>
// directory is scanned and read from directly. Otherwise a variant-<variant>
// definition file is decoded into a tree whose entries name files relative
// to sourceDir, which lets several variants share one source root:
//
//	- type: file
//	  name: narraleaf.config.js
//	  src: narraleaf.config-js.js
//	- type: dir
//	  name: main
//	  children:
//	    - {type: file, name: index.js}
func LoadVariant(fs afero.Fs, logger log.Logger, sourceDir, variant string) (*Variant, error) {
	dir := filepath.Join(sourceDir, "skeleton-"+variant)
	if isDir, _ := afero.IsDir(fs, dir); isDir {
		tree, err := filetree.NewScanner(fs, logger).Scan(dir)
		if err != nil {
			return nil, &VariantNotFoundError{Variant: variant, Path: dir, Err: err}
		}
		return &Variant{Name: variant, Root: dir, Tree: tree}, nil
	}

	for _, name := range VariantFiles(variant) {
		p := filepath.Join(sourceDir, name)
		if exists, _ := afero.Exists(fs, p); !exists {
			continue
		}
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return nil, fmt.Errorf("reading variant %s: %w", variant, err)
		}

		var tree filetree.Tree
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if tree == nil {
			tree = filetree.Tree{}
		}
		return &Variant{Name: variant, Root: sourceDir, Tree: tree, Definition: p}, nil
	}

	return nil, &VariantNotFoundError{Variant: variant, Path: dir}
}
