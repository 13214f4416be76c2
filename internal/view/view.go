// Package view derives read-only projections of the board collection.
package view

import (
	"cmp"
	"iter"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

// Filter narrows a projection. Zero values match everything.
type Filter struct {
	BoardID string
	Query   string
}

// AllItems yields every logical item once, as its first replica in board
// order, tagged with its full board membership. The sequence can be ranged
// over any number of times.
func AllItems(boards []domain.Board) iter.Seq[domain.ResearchItem] {
	return func(yield func(domain.ResearchItem) bool) {
		seen := make(map[string]struct{})
		for _, b := range boards {
			for _, it := range b.Items {
				if _, ok := seen[it.ID]; ok {
					continue
				}
				seen[it.ID] = struct{}{}
				if !yield(withMembership(boards, it)) {
					return
				}
			}
		}
	}
}

// withMembership returns a copy of it whose BoardIDs lists every board that
// holds a replica, in board order.
func withMembership(boards []domain.Board, it domain.ResearchItem) domain.ResearchItem {
	out := it.Clone()
	ids := make([]string, 0, len(it.BoardIDs))
	for _, b := range boards {
		if b.ContainsItem(it.ID) {
			ids = append(ids, b.ID)
		}
	}
	out.BoardIDs = ids
	return out
}

// FilteredItems returns the items matching f, newest first. Items with equal
// creation times keep their AllItems order.
func FilteredItems(boards []domain.Board, f Filter) []domain.ResearchItem {
	fold := cases.Fold()
	needle := fold.String(f.Query)

	out := make([]domain.ResearchItem, 0)
	for it := range AllItems(boards) {
		if f.BoardID != "" && !it.InBoard(f.BoardID) {
			continue
		}
		if needle != "" && !matches(fold, it, needle) {
			continue
		}
		out = append(out, it)
	}

	slices.SortStableFunc(out, func(a, b domain.ResearchItem) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out
}

func matches(fold cases.Caser, it domain.ResearchItem, needle string) bool {
	for _, field := range []string{it.Title, it.Description, it.URL} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// CountLabel renders an item count for display.
func CountLabel(n int) string {
	if n == 1 {
		return "1 item"
	}
	return strconv.Itoa(n) + " items"
}

// BoardNames maps board ids to display names, in the order given.
// Ids naming no board render as "Unknown Board".
func BoardNames(boards []domain.Board, ids []string) []string {
	byID := make(map[string]string, len(boards))
	for _, b := range boards {
		byID[b.ID] = b.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := byID[id]
		if !ok {
			name = UnknownBoardName
		}
		names = append(names, name)
	}
	return names
}

// UnknownBoardName labels a board id that resolves to nothing.
const UnknownBoardName = "Unknown Board"
