// Package gh provides a GraphQL client for the GitHub Projects v2 API, used as
// a read-only item source: project items become grid tiles.
package gh

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/h0rv/gridsort/internal/auth"
	"github.com/machinebox/graphql"
)

// DefaultEndpoint is the public GitHub GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// Client is a GitHub GraphQL API client for Projects v2.
type Client struct {
	gql   *graphql.Client
	token string
}

// New creates a client authenticated through provider. A nil provider uses
// auth.GetToken (gh CLI, then GITHUB_TOKEN).
func New(provider auth.TokenProvider) (*Client, error) {
	var (
		token string
		err   error
	)
	if provider != nil {
		token, err = provider.GetToken()
	} else {
		token, err = auth.GetToken()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain GitHub token: %w", err)
	}
	return NewWithToken(DefaultEndpoint, token), nil
}

// NewWithToken creates a client for an explicit endpoint and token.
func NewWithToken(endpoint, token string) *Client {
	return &Client{
		gql:   graphql.NewClient(endpoint),
		token: token,
	}
}

// SetLogger routes the GraphQL client's request/response trace to l at debug level.
func (c *Client) SetLogger(l *log.Logger) {
	c.gql.Log = func(s string) { l.Debug(s) }
}

// makeRequest executes a GraphQL request with authentication.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.gql.Run(ctx, req, resp)
}
