package skeleton

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tormodhaugland/skeleton/internal/console"
	"github.com/tormodhaugland/skeleton/internal/filetree"
)

const jsVariant = `
- type: file
  name: narraleaf.config.js
  src: narraleaf.config-js.js
- type: dir
  name: main
  children:
    - {type: file, name: index.js}
- type: dir
  name: renderer
  children:
    - type: file
      name: app.jsx
    - type: dir
      name: pages
      children:
        - {type: file, name: home.jsx}
`

// seedSharedRoot lays out a source root where only the TypeScript variant
// has its own directory and the JavaScript files sit at the top.
func seedSharedRoot(t *testing.T, fs afero.Fs) {
	t.Helper()
	files := map[string]string{
		"/tpl/skeleton-ts/narraleaf.config.js": "ts config",
		"/tpl/skeleton-ts/main/index.ts":       "main ts",
		"/tpl/skeleton-ts/renderer/app.tsx":    "app ts",
		"/tpl/narraleaf.config-js.js":          "js config",
		"/tpl/narraleaf.config-ts.js":          "ts config",
		"/tpl/main/index.js":                   "main js",
		"/tpl/main/index.ts":                   "main ts",
		"/tpl/renderer/app.jsx":                "app js",
		"/tpl/renderer/app.tsx":                "app ts",
		"/tpl/renderer/pages/home.jsx":         "home js",
		"/tpl/variant-js.yaml":                 jsVariant,
	}
	for p, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0644))
	}
}

func TestLoadVariant_Definition(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedSharedRoot(t, fs)

	v, err := LoadVariant(fs, nil, "/tpl", "js")
	require.NoError(t, err)

	assert.Equal(t, "/tpl", v.Root)
	assert.Equal(t, "/tpl/variant-js.yaml", v.Definition)

	want := filetree.Tree{
		filetree.RenamedFile("narraleaf.config.js", "narraleaf.config-js.js"),
		{Kind: filetree.KindDir, Name: "main", Children: filetree.Tree{filetree.File("index.js")}},
		{Kind: filetree.KindDir, Name: "renderer", Children: filetree.Tree{
			filetree.File("app.jsx"),
			{Kind: filetree.KindDir, Name: "pages", Children: filetree.Tree{filetree.File("home.jsx")}},
		}},
	}
	if diff := deep.Equal(v.Tree, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestLoadVariant_DirectoryWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedSharedRoot(t, fs)
	require.NoError(t, afero.WriteFile(fs, "/tpl/variant-ts.yaml", []byte(jsVariant), 0644))

	v, err := LoadVariant(fs, nil, "/tpl", "ts")
	require.NoError(t, err)
	assert.Equal(t, "/tpl/skeleton-ts", v.Root)
	assert.Empty(t, v.Definition)
	assert.Equal(t, 5, filetree.Count(v.Tree))
}

func TestLoadVariant_JSONDefinition(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tpl/variant-mini.json",
		[]byte(`[{"type": "file", "name": "README.md", "src": "README.template.md"}]`), 0644))

	v, err := LoadVariant(fs, nil, "/tpl", "mini")
	require.NoError(t, err)
	assert.True(t, filetree.Equal(v.Tree, filetree.Tree{filetree.RenamedFile("README.md", "README.template.md")}))
}

func TestLoadVariant_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tpl/variant-broken.yaml", []byte("- type: [\n"), 0644))

	_, err := LoadVariant(fs, nil, "/tpl", "missing")
	var notFound *VariantNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "/tpl/skeleton-missing", notFound.Path)

	_, err = LoadVariant(fs, nil, "/tpl", "broken")
	require.Error(t, err)
	assert.False(t, errors.As(err, &notFound))
}

func TestCreator_PlanDefinitionRejectsBadKind(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tpl/variant-odd.yaml", []byte("- {type: link, name: x}\n"), 0644))
	c, _ := newTestCreator(fs)

	_, err := c.Plan(Options{SourceDir: "/tpl", Variant: "odd"})
	var invalid *filetree.InvalidNameError
	assert.True(t, errors.As(err, &invalid))
}

func TestCreator_CreateFromSharedRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedSharedRoot(t, fs)
	prompter := &scriptedPrompter{confirm: false}
	c, _ := newTestCreator(fs, console.WithPrompter(prompter))

	result, err := c.Create(context.Background(), Options{
		Dest:            "/work/js-app",
		SourceDir:       "/tpl",
		DetectConflicts: true,
		NoInstall:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Use TypeScript?"}, prompter.asked)
	assert.Equal(t, "js", result.Variant)
	assert.Equal(t, "/tpl", result.Source)
	assert.Empty(t, result.Copy.Failed)

	for p, want := range map[string]string{
		"/work/js-app/narraleaf.config.js":     "js config",
		"/work/js-app/main/index.js":           "main js",
		"/work/js-app/renderer/app.jsx":        "app js",
		"/work/js-app/renderer/pages/home.jsx": "home js",
	} {
		data, err := afero.ReadFile(fs, p)
		require.NoError(t, err, p)
		assert.Equal(t, want, string(data), p)
	}

	for _, p := range []string{"/work/js-app/main/index.ts", "/work/js-app/renderer/app.tsx"} {
		exists, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.False(t, exists, p)
	}
}
