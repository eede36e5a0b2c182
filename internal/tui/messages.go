// Package tui provides the Bubble Tea models for the interactive grid.
package tui

import (
	"time"

	"github.com/h0rv/gridsort/internal/domain"
	"github.com/h0rv/gridsort/internal/gh"
)

// OwnerSelectedMsg is emitted when the user selects an owner.
type OwnerSelectedMsg struct {
	Owner gh.Owner
}

// ProjectSelectedMsg is emitted when the user selects a project.
type ProjectSelectedMsg struct {
	Project domain.Project
}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// Internal messages.
type (
	ownersLoadedMsg struct {
		owners []gh.Owner
	}

	ownerResolvedMsg struct {
		owner gh.Owner
	}

	projectsLoadedMsg struct {
		projects []domain.Project
	}

	itemsLoadedMsg struct {
		title string
		items []domain.Item
	}

	openDetailMsg struct {
		item  domain.Item
		index int
	}

	closeDetailMsg struct{}

	// frameMsg drives the drag and reflow animation.
	frameMsg time.Time

	savedMsg struct {
		err error
	}
)
