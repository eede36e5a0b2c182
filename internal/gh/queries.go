package gh

import (
	"context"
	"fmt"

	"github.com/h0rv/gridsort/internal/domain"
	"github.com/machinebox/graphql"
)

// OwnerType represents whether an owner is an organization or user.
type OwnerType string

const (
	OwnerTypeOrganization OwnerType = "Organization"
	OwnerTypeUser         OwnerType = "User"
)

// Owner is an account that can own projects.
type Owner struct {
	Login string
	ID    string
	Type  OwnerType
}

// ListOwners returns the authenticated user followed by their organizations.
func (c *Client) ListOwners(ctx context.Context) ([]Owner, error) {
	req := graphql.NewRequest(`
		query {
			viewer {
				login
				id
				organizations(first: 100) {
					nodes {
						login
						id
					}
				}
			}
		}
	`)

	var resp struct {
		Viewer struct {
			Login         string `json:"login"`
			ID            string `json:"id"`
			Organizations struct {
				Nodes []struct {
					Login string `json:"login"`
					ID    string `json:"id"`
				} `json:"nodes"`
			} `json:"organizations"`
		} `json:"viewer"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}

	owners := []Owner{{Login: resp.Viewer.Login, ID: resp.Viewer.ID, Type: OwnerTypeUser}}
	for _, org := range resp.Viewer.Organizations.Nodes {
		owners = append(owners, Owner{Login: org.Login, ID: org.ID, Type: OwnerTypeOrganization})
	}
	return owners, nil
}

// DefaultPageSize is how many project items are fetched per request.
const DefaultPageSize = 100

// Page is one page of project items.
type Page struct {
	Items      []domain.Item
	NextCursor string
	HasMore    bool
}

// ResolveOwner determines if a login is an organization or user.
// Returns the owner type, owner ID, and error if the login doesn't exist.
func (c *Client) ResolveOwner(ctx context.Context, login string) (OwnerType, string, error) {
	req := graphql.NewRequest(`
		query($login: String!) {
			organization(login: $login) {
				id
			}
			user(login: $login) {
				id
			}
		}
	`)
	req.Var("login", login)

	var resp struct {
		Organization *struct {
			ID string `json:"id"`
		} `json:"organization"`
		User *struct {
			ID string `json:"id"`
		} `json:"user"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return "", "", fmt.Errorf("failed to resolve owner: %w", err)
	}

	if resp.Organization != nil {
		return OwnerTypeOrganization, resp.Organization.ID, nil
	}
	if resp.User != nil {
		return OwnerTypeUser, resp.User.ID, nil
	}

	return "", "", fmt.Errorf("login '%s' not found (neither organization nor user)", login)
}

// ListProjects lists up to 100 projects for a resolved owner.
func (c *Client) ListProjects(ctx context.Context, ownerType OwnerType, ownerID string, login string) ([]domain.Project, error) {
	query := `
		query($id: ID!, $first: Int!) {
			node(id: $id) {
				... on %s {
					projectsV2(first: $first) {
						nodes {
							id
							number
							title
						}
					}
				}
			}
		}
	`
	req := graphql.NewRequest(fmt.Sprintf(query, ownerType))
	req.Var("id", ownerID)
	req.Var("first", 100)

	var resp struct {
		Node struct {
			ProjectsV2 struct {
				Nodes []struct {
					ID     string `json:"id"`
					Number int    `json:"number"`
					Title  string `json:"title"`
				} `json:"nodes"`
			} `json:"projectsV2"`
		} `json:"node"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]domain.Project, 0, len(resp.Node.ProjectsV2.Nodes))
	for _, node := range resp.Node.ProjectsV2.Nodes {
		projects = append(projects, domain.Project{
			ID:     node.ID,
			Number: node.Number,
			Title:  node.Title,
			Owner:  login,
		})
	}
	return projects, nil
}

// itemContent is the shared shape of Issue, PullRequest and DraftIssue content.
type itemContent struct {
	Typename  string `json:"__typename"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	URL       string `json:"url"`
	Number    int    `json:"number"`
	CreatedAt string `json:"createdAt"`
	Author    *struct {
		Login string `json:"login"`
	} `json:"author"`
	Repository *struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`
}

// GetItems fetches one page of project items in the project's own order.
func (c *Client) GetItems(ctx context.Context, projectID string, cursor string, limit int) (Page, error) {
	req := graphql.NewRequest(`
		query($projectId: ID!, $first: Int!, $after: String) {
			node(id: $projectId) {
				... on ProjectV2 {
					items(first: $first, after: $after) {
						pageInfo {
							hasNextPage
							endCursor
						}
						nodes {
							id
							content {
								__typename
								... on Issue {
									title
									body
									url
									number
									createdAt
									author { login }
									repository { nameWithOwner }
								}
								... on PullRequest {
									title
									body
									url
									number
									createdAt
									author { login }
									repository { nameWithOwner }
								}
								... on DraftIssue {
									title
									body
									createdAt
								}
							}
						}
					}
				}
			}
		}
	`)
	req.Var("projectId", projectID)
	req.Var("first", limit)
	if cursor != "" {
		req.Var("after", cursor)
	} else {
		req.Var("after", nil)
	}

	var resp struct {
		Node struct {
			Items struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []struct {
					ID      string       `json:"id"`
					Content *itemContent `json:"content"`
				} `json:"nodes"`
			} `json:"items"`
		} `json:"node"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return Page{}, fmt.Errorf("failed to get items: %w", err)
	}

	items := make([]domain.Item, 0, len(resp.Node.Items.Nodes))
	for _, node := range resp.Node.Items.Nodes {
		items = append(items, toItem(node.ID, node.Content))
	}

	return Page{
		Items:      items,
		NextCursor: resp.Node.Items.PageInfo.EndCursor,
		HasMore:    resp.Node.Items.PageInfo.HasNextPage,
	}, nil
}

// AllItems pages through every item of a project.
func (c *Client) AllItems(ctx context.Context, projectID string, pageSize int) ([]domain.Item, error) {
	var all []domain.Item
	cursor := ""
	for {
		page, err := c.GetItems(ctx, projectID, cursor, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if !page.HasMore || page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

// toItem normalizes the content union (Issue/PR/Draft/null).
func toItem(id string, content *itemContent) domain.Item {
	item := domain.Item{ID: id}

	if content == nil {
		// Null content (private or deleted item)
		item.Kind = domain.KindPrivate
		item.Title = "(private item)"
		return item
	}

	item.Title = content.Title
	item.Body = content.Body
	item.URL = content.URL
	item.Created = content.CreatedAt
	if content.Author != nil {
		item.Author = content.Author.Login
	}

	switch content.Typename {
	case "Issue", "PullRequest":
		item.Kind = domain.KindIssue
		if content.Typename == "PullRequest" {
			item.Kind = domain.KindPullRequest
		}
		item.Number = content.Number
		if content.Repository != nil {
			item.Repo = content.Repository.NameWithOwner
		}
	case "DraftIssue":
		item.Kind = domain.KindDraftIssue
	default:
		item.Kind = domain.KindPrivate
		item.Title = "(unknown item type)"
	}
	return item
}
