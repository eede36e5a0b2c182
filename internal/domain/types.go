// Package domain defines the normalized domain types shared by the item sources,
// the store and the terminal UI. They are independent of where items come from.
package domain

// Item is one tile in the grid.
type Item struct {
	ID      string // Stable identifier, unique within a grid
	Title   string // Caption shown on the tile
	URL     string // Optional link opened when the item is activated
	Kind    string // Item kind (see Kind constants)
	Body    string // Optional longer description for the detail view
	Repo    string // Repository nameWithOwner, only for GitHub issues/PRs
	Number  int    // Issue/PR number, 0 when not applicable
	Author  string // Author login, empty when unknown
	Created string // ISO8601 creation timestamp, empty when unknown
}

// Project represents a GitHub Project v2 instance used as an item source.
type Project struct {
	ID     string // GitHub Project node ID
	Number int    // Project number within the owner's namespace
	Title  string // Project title
	Owner  string // Owner login (organization or user)
}

// Kind constants for items.
const (
	KindPhoto       = "Photo"
	KindIssue       = "Issue"
	KindPullRequest = "PullRequest"
	KindDraftIssue  = "DraftIssue"
	KindPrivate     = "Private"
)

// IDs returns the identifiers of items in order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
