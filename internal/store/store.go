// Package store provides the in-memory authoritative item sequence for a grid.
// It owns the display order; the reorder engine only proposes permutations,
// which the store validates and applies with one level of undo.
package store

import (
	"errors"
	"fmt"
	"slices"

	"github.com/h0rv/gridsort/internal/domain"
)

var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrNotPermutation indicates a proposed order is not a permutation of the current one.
	ErrNotPermutation = errors.New("order is not a permutation of the current items")
	// ErrNoRollback indicates there is no previous order to restore.
	ErrNoRollback = errors.New("no rollback state available")
	// ErrDuplicateID indicates two items share an identifier.
	ErrDuplicateID = errors.New("duplicate item id")
)

// Store manages the items shown in the grid and their order.
type Store struct {
	// Source description shown in the header (file path, project title, ...)
	title string

	// Item storage
	items map[string]*domain.Item // ID -> Item

	// Display order
	order []string

	// Rollback state for the last applied reorder
	rollbackOrder []string
}

// New creates a new empty Store instance.
func New() *Store {
	return &Store{
		items: make(map[string]*domain.Item),
	}
}

// SetTitle sets the description of where the items came from.
func (s *Store) SetTitle(title string) {
	s.title = title
}

// Title returns the source description.
func (s *Store) Title() string {
	return s.title
}

// SetItems replaces all items. The slice order becomes the display order.
// Returns ErrDuplicateID if two items share an ID; the store is unchanged then.
func (s *Store) SetItems(items []domain.Item) error {
	byID := make(map[string]*domain.Item, len(items))
	order := make([]string, 0, len(items))
	for i := range items {
		item := items[i]
		if _, dup := byID[item.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
		byID[item.ID] = &item
		order = append(order, item.ID)
	}

	s.items = byID
	s.order = order
	s.rollbackOrder = nil
	return nil
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.order)
}

// Order returns a copy of the display order.
func (s *Store) Order() []string {
	return slices.Clone(s.order)
}

// Items returns the items in display order.
func (s *Store) Items() []domain.Item {
	out := make([]domain.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

// GetItem retrieves an item by ID, returning ErrItemNotFound if not found.
func (s *Store) GetItem(id string) (*domain.Item, error) {
	item, exists := s.items[id]
	if !exists {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// ItemAt returns the item displayed at index.
func (s *Store) ItemAt(index int) (*domain.Item, error) {
	if index < 0 || index >= len(s.order) {
		return nil, fmt.Errorf("%w: index %d", ErrItemNotFound, index)
	}
	return s.items[s.order[index]], nil
}

// IndexOf returns the display index of id, or -1.
func (s *Store) IndexOf(id string) int {
	return slices.Index(s.order, id)
}

// ApplyOrder replaces the display order with a permutation of it.
// The previous order is saved for RollbackOrder. It returns false when the
// order is unchanged, in which case no rollback state is recorded.
func (s *Store) ApplyOrder(order []string) (bool, error) {
	if err := s.checkPermutation(order); err != nil {
		return false, err
	}
	if slices.Equal(order, s.order) {
		return false, nil
	}

	s.rollbackOrder = s.order
	s.order = slices.Clone(order)
	return true, nil
}

// RollbackOrder reverts the last ApplyOrder.
func (s *Store) RollbackOrder() error {
	if s.rollbackOrder == nil {
		return ErrNoRollback
	}
	s.order = s.rollbackOrder
	s.rollbackOrder = nil
	return nil
}

// CanRollback reports whether RollbackOrder would succeed.
func (s *Store) CanRollback() bool {
	return s.rollbackOrder != nil
}

// RemoveItem deletes an item. Rollback state is dropped because it would
// resurrect the item.
func (s *Store) RemoveItem(id string) error {
	idx := s.IndexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	delete(s.items, id)
	s.order = slices.Delete(slices.Clone(s.order), idx, idx+1)
	s.rollbackOrder = nil
	return nil
}

// checkPermutation verifies order holds exactly the current IDs, once each.
func (s *Store) checkPermutation(order []string) error {
	if len(order) != len(s.order) {
		return fmt.Errorf("%w: have %d items, got %d", ErrNotPermutation, len(s.order), len(order))
	}
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if _, ok := s.items[id]; !ok {
			return fmt.Errorf("%w: unknown id %s", ErrNotPermutation, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: id %s repeated", ErrNotPermutation, id)
		}
		seen[id] = true
	}
	return nil
}
