// Package service holds the authoritative board collection and the
// operations that mutate it.
package service

import (
	"context"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

// Resolver turns a URL into display metadata. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) domain.Metadata
}

// Persister stores the board collection. Save and Load report failures
// through logging only.
type Persister interface {
	Save(ctx context.Context, boards []domain.Board)
	Load(ctx context.Context) []domain.Board
}

// EventEmitter is the interface for emitting SSE events.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// SearchIndexer keeps a search index in sync with item changes.
type SearchIndexer interface {
	IndexItem(ctx context.Context, item *domain.ResearchItem) error
	DeleteItem(ctx context.Context, itemID string) error
	Reindex(ctx context.Context, items []domain.ResearchItem) error
}

// NoopSearchIndexer is a no-op implementation of SearchIndexer.
type NoopSearchIndexer struct{}

// IndexItem is a no-op.
func (NoopSearchIndexer) IndexItem(context.Context, *domain.ResearchItem) error { return nil }

// DeleteItem is a no-op.
func (NoopSearchIndexer) DeleteItem(context.Context, string) error { return nil }

// Reindex is a no-op.
func (NoopSearchIndexer) Reindex(context.Context, []domain.ResearchItem) error { return nil }
