package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

// BoardsKey is the record that holds the whole board collection.
const BoardsKey = "research-boards"

// Persister saves and loads the board collection as a single record.
type Persister struct {
	kv     KV
	logger *slog.Logger
	now    func() time.Time
}

// NewPersister creates a persister over kv.
func NewPersister(kv KV, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Persister{kv: kv, logger: logger, now: time.Now}
}

// Save overwrites the stored collection. Failures are logged, never returned.
func (p *Persister) Save(ctx context.Context, boards []domain.Board) {
	if err := p.SaveErr(ctx, boards); err != nil {
		p.logger.Error("failed to save boards", "error", err, "boards", len(boards))
	}
}

// SaveErr is Save that reports its failure.
func (p *Persister) SaveErr(ctx context.Context, boards []domain.Board) error {
	data, err := encode(boards, p.now())
	if err != nil {
		return &PersistenceError{Op: "save", Key: BoardsKey, Err: err}
	}
	if err := p.kv.Put(ctx, BoardsKey, data); err != nil {
		return &PersistenceError{Op: "save", Key: BoardsKey, Err: err}
	}
	return nil
}

// Load returns the stored collection. An absent, unreadable or malformed
// record yields an empty collection and is logged.
func (p *Persister) Load(ctx context.Context) []domain.Board {
	boards, err := p.LoadErr(ctx)
	if err != nil {
		p.logger.Error("failed to load boards, starting empty", "error", err)
		return []domain.Board{}
	}
	return boards
}

// LoadErr is Load that reports its failure. An absent record is not an error.
func (p *Persister) LoadErr(ctx context.Context) ([]domain.Board, error) {
	data, ok, err := p.kv.Get(ctx, BoardsKey)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: BoardsKey, Err: err}
	}
	if !ok {
		return []domain.Board{}, nil
	}

	boards, version, err := decode(data)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: BoardsKey, Err: err}
	}
	if version == 0 {
		p.logger.Info("loaded legacy board record", "boards", len(boards))
	}
	return boards, nil
}

// Raw returns the stored record bytes, or nil when absent.
func (p *Persister) Raw(ctx context.Context) ([]byte, error) {
	data, ok, err := p.kv.Get(ctx, BoardsKey)
	if err != nil || !ok {
		return nil, err
	}
	return data, nil
}

// IsMalformed reports whether err came from an undecodable record.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, ErrUnsupportedVersion)
}
