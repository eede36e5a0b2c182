// Package auth obtains the GitHub token used by the GitHub Projects item source.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TokenProvider defines the interface for obtaining a GitHub authentication token.
type TokenProvider interface {
	GetToken() (string, error)
}

// GhCliProvider obtains tokens by shelling out to the GitHub CLI (`gh auth token`).
type GhCliProvider struct {
	// Hostname defaults to github.com
	Hostname string
}

// GetToken runs `gh auth token` and returns its trimmed output.
func (g *GhCliProvider) GetToken() (string, error) {
	host := g.Hostname
	if host == "" {
		host = "github.com"
	}

	output, err := exec.Command("gh", "auth", "token", "--hostname", host).Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}
	return token, nil
}

// EnvProvider reads the token from an environment variable.
type EnvProvider struct {
	// Var defaults to GITHUB_TOKEN
	Var string
}

// GetToken returns the variable's value or an error if it is unset or empty.
func (e *EnvProvider) GetToken() (string, error) {
	name := e.Var
	if name == "" {
		name = "GITHUB_TOKEN"
	}
	token := os.Getenv(name)
	if token == "" {
		return "", fmt.Errorf("%s environment variable not set or empty", name)
	}
	return token, nil
}

// Chain tries each provider in order and returns the first token found.
type Chain []TokenProvider

// GetToken returns the first successful token, or all failures joined.
func (c Chain) GetToken() (string, error) {
	var errs []error
	for _, p := range c {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err)
	}
	return "", errors.Join(errs...)
}

// GetToken tries the gh CLI first and falls back to GITHUB_TOKEN.
func GetToken() (string, error) {
	token, err := Chain{&GhCliProvider{}, &EnvProvider{}}.GetToken()
	if err != nil {
		return "", fmt.Errorf(
			"failed to obtain GitHub token (%v).\n"+
				"Please either:\n"+
				"  1. Run 'gh auth login' to authenticate with GitHub CLI, or\n"+
				"  2. Set the GITHUB_TOKEN environment variable with a personal access token",
			err,
		)
	}
	return token, nil
}
