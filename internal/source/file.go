package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/h0rv/gridsort/internal/domain"
)

// itemsFile is the on-disk layout:
//
//	[[item]]
//	id = "sunset"
//	title = "Sunset over the bay"
//	url = "https://example.com/sunset.jpg"
type itemsFile struct {
	Item []fileItem `toml:"item"`
}

type fileItem struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
	URL   string `toml:"url,omitempty"`
	Kind  string `toml:"kind,omitempty"`
	Body  string `toml:"body,omitempty"`
}

// FileSource reads items from a TOML file and can write a new order back.
type FileSource struct {
	Path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load decodes the file. Items without a kind are photos.
func (f *FileSource) Load(_ context.Context) ([]domain.Item, error) {
	var raw itemsFile
	if _, err := toml.DecodeFile(f.Path, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}

	items := make([]domain.Item, 0, len(raw.Item))
	for _, it := range raw.Item {
		kind := it.Kind
		if kind == "" {
			kind = domain.KindPhoto
		}
		items = append(items, domain.Item{
			ID:    it.ID,
			Title: it.Title,
			URL:   it.URL,
			Kind:  kind,
			Body:  it.Body,
		})
	}
	if err := checkIDs(items); err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return items, nil
}

// Save rewrites the file with items in the given order. The file is written
// to a temporary sibling first and renamed into place.
func (f *FileSource) Save(items []domain.Item) error {
	raw := itemsFile{Item: make([]fileItem, 0, len(items))}
	for _, it := range items {
		kind := it.Kind
		if kind == domain.KindPhoto {
			kind = ""
		}
		raw.Item = append(raw.Item, fileItem{
			ID:    it.ID,
			Title: it.Title,
			URL:   it.URL,
			Kind:  kind,
			Body:  it.Body,
		})
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create items dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write items: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("replace items: %w", err)
	}
	return nil
}
