package filetree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceName(t *testing.T) {
	assert.Equal(t, "a.txt", File("a.txt").SourceName())
	assert.Equal(t, "a-alt.txt", RenamedFile("a.txt", "a-alt.txt").SourceName())
}

func TestCount(t *testing.T) {
	tree := Tree{
		Dir("main", File("index.ts"), Dir("lib")),
		File("README.md"),
	}
	assert.Equal(t, 4, Count(tree))
	assert.Equal(t, 0, Count(nil))
}

func TestEqual_NilAndEmptyChildren(t *testing.T) {
	a := Tree{{Kind: KindDir, Name: "d"}}
	b := Tree{Dir("d")}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, Tree{File("d")}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tree    Tree
		wantErr bool
	}{
		{"empty tree", Tree{}, false},
		{"valid nested", Tree{Dir("main", File("index.ts")), File("README.md")}, false},
		{"empty dir", Tree{Dir("empty")}, false},
		{"empty name", Tree{File("")}, true},
		{"dot name", Tree{File(".")}, true},
		{"dotdot name", Tree{Dir("..")}, true},
		{"slash in name", Tree{File("a/b")}, true},
		{"backslash in name", Tree{File(`a\b`)}, true},
		{"nested bad name", Tree{Dir("main", File("x/y"))}, true},
		{"unknown kind", Tree{{Kind: "link", Name: "x"}}, true},
		{"dotfile is fine", Tree{File(".gitignore")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tree)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_DuplicateSiblings(t *testing.T) {
	tree := Tree{
		Dir("renderer", File("app.tsx"), File("app.tsx")),
	}

	err := Validate(tree)
	require.Error(t, err)

	var dup *DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "renderer", dup.Path)
	assert.Equal(t, "app.tsx", dup.Name)
}

func TestValidate_SameNameInDifferentDirs(t *testing.T) {
	tree := Tree{
		Dir("main", File("index.ts")),
		Dir("renderer", File("index.ts")),
	}
	assert.NoError(t, Validate(tree))
}

func TestClone_IsDeep(t *testing.T) {
	orig := Tree{Dir("a", File("b"))}
	c := orig.Clone()
	c[0].Children[0].Name = "changed"
	assert.Equal(t, "b", orig[0].Children[0].Name)
}
