// Package types provides common type definitions used throughout the carousel
// library and its showcase. This package contains shared types to avoid
// circular dependencies between packages.
package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Item is one navigable unit of carousel content. Identity is by ID; the
// position of an item in its containing slice is its display order.
type Item struct {
	// ID uniquely identifies the item within a collection
	ID string `yaml:"id" json:"id"`
	// Title is the optional slide heading
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	// Description is the optional slide body text
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Image is an optional image URL or path
	Image string `yaml:"image,omitempty" json:"image,omitempty"`
	// Attributes stores any additional presentation or application data
	Attributes map[string]interface{} `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Label returns the title when set, otherwise the id.
func (i Item) Label() string {
	if strings.TrimSpace(i.Title) != "" {
		return i.Title
	}
	return i.ID
}

// EnsureIDs assigns a random UUID to every item without an id. The slice is
// modified in place and returned for convenience.
func EnsureIDs(items []Item) []Item {
	for idx := range items {
		if strings.TrimSpace(items[idx].ID) == "" {
			items[idx].ID = uuid.NewString()
		}
	}
	return items
}

// DuplicateIDError reports an id that appears more than once in a collection.
type DuplicateIDError struct {
	ID    string
	First int
	Again int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate item id %q at positions %d and %d", e.ID, e.First, e.Again)
}

// ValidateItems checks that every item has a non-empty id and that ids are
// unique. It returns one error per problem found, in collection order.
func ValidateItems(items []Item) []error {
	var problems []error
	seen := make(map[string]int, len(items))

	for idx, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			problems = append(problems, fmt.Errorf("item at position %d has no id", idx))
			continue
		}
		if first, ok := seen[item.ID]; ok {
			problems = append(problems, &DuplicateIDError{ID: item.ID, First: first, Again: idx})
			continue
		}
		seen[item.ID] = idx
	}

	return problems
}

// CloneItems returns a shallow copy of the slice so callers cannot mutate
// the owner's backing array.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
