// Package domain contains the research queue's core entities.
package domain

import (
	"slices"
	"time"
)

// Board is a named, user-defined grouping of research items.
// Items holds a replica of every item that lists the board in its BoardIDs,
// in the order the items joined the board.
type Board struct {
	CreatedAt   time.Time      `json:"created_at"`
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Items       []ResearchItem `json:"items"`
}

// ContainsItem checks if the board holds a replica of the item.
func (b *Board) ContainsItem(itemID string) bool {
	return slices.ContainsFunc(b.Items, func(it ResearchItem) bool {
		return it.ID == itemID
	})
}

// Clone returns a deep copy of the board and its item replicas.
func (b Board) Clone() Board {
	out := b
	if b.Items != nil {
		out.Items = make([]ResearchItem, len(b.Items))
		for i, it := range b.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

// CloneBoards deep-copies a board collection.
func CloneBoards(boards []Board) []Board {
	if boards == nil {
		return nil
	}
	out := make([]Board, len(boards))
	for i, b := range boards {
		out[i] = b.Clone()
	}
	return out
}

// BoardUpdate carries a partial board edit. Nil fields are left unchanged.
type BoardUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u BoardUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil
}
