package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/h0rv/gridsort/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photosTOML = `
[[item]]
id = "a"
title = "Sunset"
url = "https://example.com/a.jpg"

[[item]]
id = "b"
title = "Harbor"
kind = "Issue"
body = "two lines\nof text"

[[item]]
id = "c"
title = "Dunes"
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_Load(t *testing.T) {
	items, err := NewFileSource(writeFile(t, photosTOML)).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, domain.IDs(items))
	assert.Equal(t, domain.KindPhoto, items[0].Kind)
	assert.Equal(t, "https://example.com/a.jpg", items[0].URL)
	assert.Equal(t, domain.KindIssue, items[1].Kind)
	assert.Equal(t, "two lines\nof text", items[1].Body)
}

func TestFileSource_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", ErrEmptySource},
		{"duplicate", "[[item]]\nid = \"a\"\n[[item]]\nid = \"a\"\n", ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileSource(writeFile(t, tt.content)).Load(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileSource_LoadMissingID(t *testing.T) {
	_, err := NewFileSource(writeFile(t, "[[item]]\ntitle = \"x\"\n")).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestFileSource_LoadBadSyntax(t *testing.T) {
	_, err := NewFileSource(writeFile(t, "[[item]\n")).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFileSource_SaveKeepsOrder(t *testing.T) {
	src := NewFileSource(writeFile(t, photosTOML))
	items, err := src.Load(context.Background())
	require.NoError(t, err)

	reordered := []domain.Item{items[2], items[0], items[1]}
	require.NoError(t, src.Save(reordered))

	again, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reordered, again)

	_, err = os.Stat(src.Path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileSource_SaveCreatesDir(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "new", "items.toml"))
	require.NoError(t, src.Save([]domain.Item{{ID: "x", Title: "X", Kind: domain.KindPhoto}}))

	data, err := os.ReadFile(src.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[item]]")
	assert.NotContains(t, string(data), "kind")
}
