package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/researchqueue/researchqueue-server/internal/domain"
	domainerrors "github.com/researchqueue/researchqueue-server/internal/errors"
	"github.com/researchqueue/researchqueue-server/internal/id"
	"github.com/researchqueue/researchqueue-server/internal/sse"
	"github.com/researchqueue/researchqueue-server/internal/view"
)

// boardEntry is a board without its replicas; itemIDs keeps join order.
type boardEntry struct {
	board   domain.Board
	itemIDs []string
}

// BoardService owns the board collection. The collection is held
// normalized (one record per item plus per-board id lists) and projected
// into the replicated []domain.Board shape on every read and save.
//
// All methods are safe for concurrent use. Resolver calls run without the
// lock; the mutation that follows applies to the collection as it is at
// that moment.
type BoardService struct {
	mu     sync.RWMutex
	boards []*boardEntry
	items  map[string]*domain.ResearchItem
	filter view.Filter

	busyMu   sync.Mutex
	inFlight int

	resolver  Resolver
	persister Persister
	emitter   EventEmitter
	indexer   SearchIndexer
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewBoardService creates an empty board service. Call Load to restore the
// persisted collection.
func NewBoardService(resolver Resolver, persister Persister, logger *slog.Logger) *BoardService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BoardService{
		items:     make(map[string]*domain.ResearchItem),
		resolver:  resolver,
		persister: persister,
		emitter:   NoopEmitter{},
		indexer:   NoopSearchIndexer{},
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     id.New,
	}
}

// SetEventEmitter sets where change events go. Must be called before the
// service is shared.
func (s *BoardService) SetEventEmitter(emitter EventEmitter) {
	s.emitter = emitter
}

// SetSearchIndexer sets the index kept in sync with item changes. Must be
// called before the service is shared.
func (s *BoardService) SetSearchIndexer(indexer SearchIndexer) {
	s.indexer = indexer
}

// Load replaces the collection with the persisted one and rebuilds the
// search index.
func (s *BoardService) Load(ctx context.Context) {
	loaded := s.persister.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.boards = make([]*boardEntry, 0, len(loaded))
	s.items = make(map[string]*domain.ResearchItem)
	seenBoards := make(map[string]struct{}, len(loaded))

	for _, b := range loaded {
		if _, dup := seenBoards[b.ID]; dup {
			s.logger.Warn("skipping duplicate board in stored collection", "board_id", b.ID)
			continue
		}
		seenBoards[b.ID] = struct{}{}

		entry := &boardEntry{board: b, itemIDs: make([]string, 0, len(b.Items))}
		entry.board.Items = nil
		for _, it := range b.Items {
			if slices.Contains(entry.itemIDs, it.ID) {
				continue
			}
			entry.itemIDs = append(entry.itemIDs, it.ID)
			if _, ok := s.items[it.ID]; !ok {
				rec := it.Clone()
				s.items[it.ID] = &rec
			}
		}
		s.boards = append(s.boards, entry)
	}

	// Membership is whatever the replicas say.
	for itemID, rec := range s.items {
		actual := s.membershipLocked(itemID)
		if !slices.Equal(actual, rec.BoardIDs) {
			s.logger.Warn("repaired item board membership",
				"item_id", itemID,
				"stored", rec.BoardIDs,
				"actual", actual,
			)
			rec.BoardIDs = actual
		}
	}

	s.logger.Info("board collection loaded", "boards", len(s.boards), "items", len(s.items))

	if err := s.indexer.Reindex(ctx, s.enumerableItemsLocked()); err != nil {
		s.logger.Error("failed to rebuild search index", "error", err)
	}
}

// Boards returns a deep copy of the collection in the replicated shape.
func (s *BoardService) Boards() []domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.materializeLocked()
}

// Board returns a copy of one board with its replicas.
func (s *BoardService) Board(boardID string) (domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry := s.boardLocked(boardID)
	if entry == nil {
		return domain.Board{}, domainerrors.NotFoundf("board %s not found", boardID)
	}
	return s.projectLocked(entry), nil
}

// Item returns a copy of one item, including items that currently have no
// boards.
func (s *BoardService) Item(itemID string) (domain.ResearchItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[itemID]
	if !ok {
		return domain.ResearchItem{}, domainerrors.NotFoundf("item %s not found", itemID)
	}
	return rec.Clone(), nil
}

// BoardNames returns display names for ids, "Unknown Board" for ids that
// name no board.
func (s *BoardService) BoardNames(ids []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(ids))
	for _, boardID := range ids {
		if entry := s.boardLocked(boardID); entry != nil {
			names = append(names, entry.board.Name)
		} else {
			names = append(names, view.UnknownBoardName)
		}
	}
	return names
}

// CreateBoard appends a board with no items.
func (s *BoardService) CreateBoard(ctx context.Context, name, description string) (domain.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Board{}, domainerrors.ValidationWithDetails("board name cannot be empty",
			map[string]string{"name": "must not be blank"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &boardEntry{
		board: domain.Board{
			ID:          s.newID(),
			Name:        name,
			Description: strings.TrimSpace(description),
			CreatedAt:   s.now(),
		},
		itemIDs: []string{},
	}
	s.boards = append(s.boards, entry)
	s.saveLocked(ctx)

	board := s.projectLocked(entry)
	s.logger.Info("board created", "board_id", board.ID, "name", board.Name)
	s.emitter.Emit(sse.NewBoardCreatedEvent(board))
	return board, nil
}

// UpdateBoard merges a partial edit into one board.
func (s *BoardService) UpdateBoard(ctx context.Context, boardID string, update domain.BoardUpdate) (domain.Board, error) {
	var name string
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
		if name == "" {
			return domain.Board{}, domainerrors.ValidationWithDetails("board name cannot be empty",
				map[string]string{"name": "must not be blank"})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.boardLocked(boardID)
	if entry == nil {
		return domain.Board{}, domainerrors.NotFoundf("board %s not found", boardID)
	}
	if update.IsEmpty() {
		return s.projectLocked(entry), nil
	}

	if update.Name != nil {
		entry.board.Name = name
	}
	if update.Description != nil {
		entry.board.Description = strings.TrimSpace(*update.Description)
	}
	s.saveLocked(ctx)

	board := s.projectLocked(entry)
	s.logger.Info("board updated", "board_id", boardID)
	s.emitter.Emit(sse.NewBoardUpdatedEvent(board))
	return board, nil
}

// DeleteBoard removes a board and every replica it held. Items held by
// other boards keep those memberships. Deleting the board the view is
// filtered on resets the filter to all items.
func (s *BoardService) DeleteBoard(ctx context.Context, boardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.boards, func(e *boardEntry) bool { return e.board.ID == boardID })
	if idx < 0 {
		return domainerrors.NotFoundf("board %s not found", boardID)
	}
	entry := s.boards[idx]
	s.boards = slices.Delete(s.boards, idx, idx+1)

	for _, itemID := range entry.itemIDs {
		rec, ok := s.items[itemID]
		if !ok {
			continue
		}
		rec.BoardIDs = slices.DeleteFunc(rec.BoardIDs, func(b string) bool { return b == boardID })
		s.reindexLocked(ctx, rec)
		s.emitter.Emit(sse.NewItemUpdatedEvent(rec.Clone()))
	}

	if s.filter.BoardID == boardID {
		s.filter.BoardID = ""
	}
	s.saveLocked(ctx)

	s.logger.Info("board deleted", "board_id", boardID, "items", len(entry.itemIDs))
	s.emitter.Emit(sse.NewBoardDeletedEvent(boardID))
	return nil
}

// CreateItem resolves metadata for rawURL and adds the item to every named
// board that still exists once resolution finishes.
func (s *BoardService) CreateItem(ctx context.Context, rawURL string, boardIDs []string) (domain.ResearchItem, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return domain.ResearchItem{}, domainerrors.ValidationWithDetails("url cannot be empty",
			map[string]string{"url": "must not be blank"})
	}
	if len(boardIDs) == 0 {
		return domain.ResearchItem{}, domainerrors.ValidationWithDetails("select at least one board",
			map[string]string{"board_ids": "must contain at least 1 entries"})
	}
	if _, err := domain.ParseAbsoluteURL(rawURL); err != nil {
		return domain.ResearchItem{}, domainerrors.InvalidURL(rawURL).WithCause(err)
	}

	s.mu.RLock()
	known := s.knownBoardIDsLocked(boardIDs)
	s.mu.RUnlock()
	if len(known) == 0 {
		return domain.ResearchItem{}, domainerrors.NotFound("none of the selected boards exist")
	}

	meta := s.resolve(ctx, rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Boards may have been deleted while resolving.
	known = s.knownBoardIDsLocked(boardIDs)
	if len(known) == 0 {
		return domain.ResearchItem{}, domainerrors.NotFound("none of the selected boards exist")
	}

	item := &domain.ResearchItem{
		ID:        s.newID(),
		URL:       rawURL,
		CreatedAt: s.now(),
		BoardIDs:  known,
		Type:      domain.ItemTypeWebsite,
	}
	item.ApplyMetadata(meta)

	s.items[item.ID] = item
	for _, boardID := range known {
		entry := s.boardLocked(boardID)
		entry.itemIDs = append(entry.itemIDs, item.ID)
	}
	s.saveLocked(ctx)
	s.reindexLocked(ctx, item)

	out := item.Clone()
	s.logger.Info("item created", "item_id", item.ID, "url", rawURL, "boards", len(known), "type", item.Type)
	s.emitter.Emit(sse.NewItemCreatedEvent(out))
	return out, nil
}

// DeleteItem removes every replica of an item.
func (s *BoardService) DeleteItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[itemID]
	if !ok {
		return domainerrors.NotFoundf("item %s not found", itemID)
	}

	for _, entry := range s.boards {
		entry.itemIDs = slices.DeleteFunc(entry.itemIDs, func(i string) bool { return i == itemID })
	}
	delete(s.items, itemID)
	s.saveLocked(ctx)

	if err := s.indexer.DeleteItem(ctx, itemID); err != nil {
		s.logger.Warn("failed to remove item from search index", "item_id", itemID, "error", err)
	}

	s.logger.Info("item deleted", "item_id", itemID)
	s.emitter.Emit(sse.NewItemDeletedEvent(itemID, slices.Clone(rec.BoardIDs)))
	return nil
}

// UpdateItemBoards sets an item's membership to exactly boardIDs, after
// dropping duplicates and ids that name no board. An empty result is
// allowed; the item then belongs to no board until re-attached.
func (s *BoardService) UpdateItemBoards(ctx context.Context, itemID string, boardIDs []string) (domain.ResearchItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[itemID]
	if !ok {
		return domain.ResearchItem{}, domainerrors.NotFoundf("item %s not found", itemID)
	}

	next := s.knownBoardIDsLocked(boardIDs)
	if slices.Equal(next, rec.BoardIDs) {
		return rec.Clone(), nil
	}

	for _, entry := range s.boards {
		want := slices.Contains(next, entry.board.ID)
		has := slices.Contains(entry.itemIDs, itemID)
		switch {
		case want && !has:
			entry.itemIDs = append(entry.itemIDs, itemID)
		case !want && has:
			entry.itemIDs = slices.DeleteFunc(entry.itemIDs, func(i string) bool { return i == itemID })
		}
	}
	rec.BoardIDs = next
	s.saveLocked(ctx)
	s.reindexLocked(ctx, rec)

	out := rec.Clone()
	s.logger.Info("item boards updated", "item_id", itemID, "boards", next)
	s.emitter.Emit(sse.NewItemUpdatedEvent(out))
	return out, nil
}

// RefetchItem re-resolves an item's URL and overwrites its metadata. An
// item deleted while resolving stays deleted.
func (s *BoardService) RefetchItem(ctx context.Context, itemID string) (domain.ResearchItem, error) {
	s.mu.RLock()
	rec, ok := s.items[itemID]
	var rawURL string
	if ok {
		rawURL = rec.URL
	}
	s.mu.RUnlock()
	if !ok {
		return domain.ResearchItem{}, domainerrors.NotFoundf("item %s not found", itemID)
	}

	meta := s.resolve(ctx, rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok = s.items[itemID]
	if !ok {
		s.logger.Info("discarding refetch for deleted item", "item_id", itemID)
		return domain.ResearchItem{}, domainerrors.NotFoundf("item %s was deleted", itemID)
	}
	rec.ApplyMetadata(meta)
	s.saveLocked(ctx)
	s.reindexLocked(ctx, rec)

	out := rec.Clone()
	s.logger.Info("item refetched", "item_id", itemID, "title", out.Title)
	s.emitter.Emit(sse.NewItemUpdatedEvent(out))
	return out, nil
}

// Busy reports whether any create or refetch is waiting on the resolver.
func (s *BoardService) Busy() bool {
	return s.InFlight() > 0
}

// InFlight returns how many resolver calls are outstanding.
func (s *BoardService) InFlight() int {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	return s.inFlight
}

// resolve runs the resolver outside the collection lock. The call is
// detached from ctx cancellation; only the resolver's own timeouts bound it.
func (s *BoardService) resolve(ctx context.Context, rawURL string) domain.Metadata {
	s.setInFlight(+1)
	defer s.setInFlight(-1)
	return s.resolver.Resolve(context.WithoutCancel(ctx), rawURL)
}

func (s *BoardService) setInFlight(delta int) {
	s.busyMu.Lock()
	s.inFlight += delta
	n := s.inFlight
	s.emitter.Emit(sse.NewBusyEvent(n))
	s.busyMu.Unlock()
}

// saveLocked persists the projected collection. An empty collection is
// never written. Caller must hold s.mu.
func (s *BoardService) saveLocked(ctx context.Context) {
	if len(s.boards) == 0 {
		s.logger.Debug("skipping save of empty collection")
		return
	}
	s.persister.Save(context.WithoutCancel(ctx), s.materializeLocked())
}

// reindexLocked updates the search document of rec. Items without boards
// are removed from the index. Caller must hold s.mu.
func (s *BoardService) reindexLocked(ctx context.Context, rec *domain.ResearchItem) {
	var err error
	if len(rec.BoardIDs) == 0 {
		err = s.indexer.DeleteItem(ctx, rec.ID)
	} else {
		err = s.indexer.IndexItem(ctx, rec)
	}
	if err != nil {
		s.logger.Warn("failed to update search index", "item_id", rec.ID, "error", err)
	}
}

func (s *BoardService) boardLocked(boardID string) *boardEntry {
	for _, entry := range s.boards {
		if entry.board.ID == boardID {
			return entry
		}
	}
	return nil
}

// knownBoardIDsLocked returns the boards named in ids that exist, once
// each, in board order. This is the same order membershipLocked reports.
func (s *BoardService) knownBoardIDsLocked(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, entry := range s.boards {
		if slices.Contains(ids, entry.board.ID) {
			out = append(out, entry.board.ID)
		}
	}
	return out
}

// membershipLocked lists the boards holding itemID, in board order.
func (s *BoardService) membershipLocked(itemID string) []string {
	ids := make([]string, 0, 1)
	for _, entry := range s.boards {
		if slices.Contains(entry.itemIDs, itemID) {
			ids = append(ids, entry.board.ID)
		}
	}
	return ids
}

func (s *BoardService) projectLocked(entry *boardEntry) domain.Board {
	b := entry.board
	b.Items = make([]domain.ResearchItem, 0, len(entry.itemIDs))
	for _, itemID := range entry.itemIDs {
		if rec, ok := s.items[itemID]; ok {
			b.Items = append(b.Items, rec.Clone())
		}
	}
	return b
}

func (s *BoardService) materializeLocked() []domain.Board {
	out := make([]domain.Board, 0, len(s.boards))
	for _, entry := range s.boards {
		out = append(out, s.projectLocked(entry))
	}
	return out
}

// enumerableItemsLocked returns every item that belongs to at least one
// board, in AllItems order.
func (s *BoardService) enumerableItemsLocked() []domain.ResearchItem {
	return slices.Collect(view.AllItems(s.materializeLocked()))
}
