package source

import (
	"context"
	"fmt"

	"github.com/h0rv/gridsort/internal/domain"
	"github.com/h0rv/gridsort/internal/gh"
)

// ProjectItems is the part of the GitHub client the source needs.
type ProjectItems interface {
	AllItems(ctx context.Context, projectID string, pageSize int) ([]domain.Item, error)
}

// GitHubSource loads the items of one GitHub Project v2, in project order.
type GitHubSource struct {
	Client    ProjectItems
	ProjectID string
	PageSize  int
}

// Load pages through the project's items.
func (g *GitHubSource) Load(ctx context.Context) ([]domain.Item, error) {
	size := g.PageSize
	if size <= 0 {
		size = gh.DefaultPageSize
	}
	items, err := g.Client.AllItems(ctx, g.ProjectID, size)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", g.ProjectID, err)
	}
	if err := checkIDs(items); err != nil {
		return nil, fmt.Errorf("project %s: %w", g.ProjectID, err)
	}
	return items, nil
}
