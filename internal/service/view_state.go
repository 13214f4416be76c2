package service

import (
	"strings"

	"github.com/researchqueue/researchqueue-server/internal/domain"
	"github.com/researchqueue/researchqueue-server/internal/view"
)

// SetBoardFilter narrows FilteredItems to one board. An empty id shows all
// items; an unknown id is accepted and matches nothing.
func (s *BoardService) SetBoardFilter(boardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.BoardID = strings.TrimSpace(boardID)
}

// SetSearchQuery sets the text FilteredItems matches against.
func (s *BoardService) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Query = query
}

// ViewState returns the current filter.
func (s *BoardService) ViewState() view.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// FilteredItems projects the collection through the current filter.
func (s *BoardService) FilteredItems() []domain.ResearchItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.FilteredItems(s.materializeLocked(), s.filter)
}

// ItemsMatching projects the collection through f without touching the
// stored filter.
func (s *BoardService) ItemsMatching(f view.Filter) []domain.ResearchItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.FilteredItems(s.materializeLocked(), f)
}

// Stats summarizes the collection.
type Stats struct {
	Boards   int `json:"boards"`
	Items    int `json:"items"`
	InFlight int `json:"in_flight"`
}

// Stats returns collection counts and the busy signal.
func (s *BoardService) Stats() Stats {
	s.mu.RLock()
	boards := len(s.boards)
	items := 0
	for _, rec := range s.items {
		if len(rec.BoardIDs) > 0 {
			items++
		}
	}
	s.mu.RUnlock()
	return Stats{Boards: boards, Items: items, InFlight: s.InFlight()}
}
