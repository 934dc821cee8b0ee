package filetree

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_FileOverride(t *testing.T) {
	base := Tree{File("a.txt"), File("b.txt")}
	overlay := Tree{RenamedFile("a.txt", "a-alt.txt")}

	merged := Merge(base, overlay)

	require.Len(t, merged, 2)
	assert.Equal(t, "a.txt", merged[0].Name)
	assert.Equal(t, "a-alt.txt", merged[0].Source)
	assert.Equal(t, "b.txt", merged[1].Name)
}

func TestMerge_AppendsInOverlayOrder(t *testing.T) {
	base := Tree{File("a"), File("b")}
	overlay := Tree{File("z"), File("a"), File("c")}

	merged := Merge(base, overlay)

	names := make([]string, 0, len(merged))
	for _, n := range merged {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"a", "b", "z", "c"}, names)
}

func TestMerge_DirectoriesMergeRecursively(t *testing.T) {
	base := Tree{Dir("renderer", File("a"))}
	overlay := Tree{Dir("renderer", File("b"))}

	merged := Merge(base, overlay)

	want := Tree{Dir("renderer", File("a"), File("b"))}
	if diff := deep.Equal(merged, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestMerge_DeepRecursion(t *testing.T) {
	base := Tree{
		Dir("renderer",
			Dir("src", File("story.ts"), File("plugins.ts")),
			File("app.tsx"),
		),
		File("package.json"),
	}
	overlay := Tree{
		Dir("renderer",
			Dir("src", RenamedFile("story.ts", "story-tailwind.ts"), File("styles.css")),
		),
		File("postcss.config.js"),
	}

	merged := Merge(base, overlay)

	want := Tree{
		Dir("renderer",
			Dir("src", RenamedFile("story.ts", "story-tailwind.ts"), File("plugins.ts"), File("styles.css")),
			File("app.tsx"),
		),
		File("package.json"),
		File("postcss.config.js"),
	}
	assert.True(t, Equal(merged, want), "got %+v", merged)
}

func TestMerge_TypeMismatchOverlayWins(t *testing.T) {
	tests := []struct {
		name    string
		base    Tree
		overlay Tree
		want    Tree
	}{
		{
			name:    "file replaces directory",
			base:    Tree{Dir("config", File("a.json")), File("x")},
			overlay: Tree{File("config")},
			want:    Tree{File("config"), File("x")},
		},
		{
			name:    "directory replaces file",
			base:    Tree{File("x"), File("config")},
			overlay: Tree{Dir("config", File("b.json"))},
			want:    Tree{File("x"), Dir("config", File("b.json"))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.base, tt.overlay)
			assert.True(t, Equal(got, tt.want), "got %+v", got)
		})
	}
}

func TestMerge_EmptyOverlayIsIdentity(t *testing.T) {
	trees := []Tree{
		{},
		{File("a")},
		{Dir("main", File("index.ts")), File("README.md")},
		{Dir("a", Dir("b", Dir("c"))), RenamedFile("x", "y")},
	}

	for _, tree := range trees {
		assert.True(t, Equal(Merge(tree, Tree{}), tree))
		assert.True(t, Equal(Merge(tree, nil), tree))
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := Tree{Dir("renderer", File("a"))}
	overlay := Tree{Dir("renderer", File("b"))}
	baseCopy := base.Clone()
	overlayCopy := overlay.Clone()

	merged := Merge(base, overlay)
	merged[0].Children[0].Name = "changed"

	assert.True(t, Equal(base, baseCopy))
	assert.True(t, Equal(overlay, overlayCopy))
}

func TestMergeAll_FoldsSequentially(t *testing.T) {
	base := Tree{File("a")}
	ov1 := Tree{RenamedFile("a", "a1"), File("b")}
	ov2 := Tree{RenamedFile("a", "a2")}

	got := MergeAll(base, ov1, ov2)
	want := Merge(Merge(base, ov1), ov2)

	assert.True(t, Equal(got, want))
	assert.Equal(t, "a2", got[0].Source)
}

func TestMergeAll_NoOverlays(t *testing.T) {
	got := MergeAll(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
