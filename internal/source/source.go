// Package source loads grid items from a TOML file, a generated sample set or
// a GitHub Project.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/h0rv/gridsort/internal/domain"
)

var (
	// ErrEmptySource is returned when a source yields no items.
	ErrEmptySource = errors.New("source has no items")
	// ErrDuplicateID is returned when two items share an id.
	ErrDuplicateID = errors.New("duplicate item id")
)

// Loader produces the initial item sequence.
type Loader interface {
	Load(ctx context.Context) ([]domain.Item, error)
}

// Saver persists a committed order. Only the file source implements it.
type Saver interface {
	Save(items []domain.Item) error
}

// checkIDs rejects empty and duplicate ids.
func checkIDs(items []domain.Item) error {
	if len(items) == 0 {
		return ErrEmptySource
	}
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("item %d: missing id", i)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}
