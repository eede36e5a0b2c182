package source

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/h0rv/gridsort/internal/domain"
)

// SampleSource generates N placeholder photos.
type SampleSource struct {
	N int
}

// Load returns N items titled "Photo 1".."Photo N" with random ids.
func (s SampleSource) Load(_ context.Context) ([]domain.Item, error) {
	if s.N <= 0 {
		return nil, ErrEmptySource
	}
	items := make([]domain.Item, s.N)
	for i := range items {
		items[i] = domain.Item{
			ID:    uuid.NewString(),
			Title: fmt.Sprintf("Photo %d", i+1),
			Kind:  domain.KindPhoto,
		}
	}
	return items, nil
}
