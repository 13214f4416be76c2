// Package store persists the board collection to a durable key-value store.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// KV is a minimal durable key-value store.
type KV interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// BadgerKV is a KV backed by a Badger database.
type BadgerKV struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens (or creates) a Badger database in dir.
func OpenBadger(dir string, logger *slog.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync every write so a crash never loses a save
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup
	return openBadger(opts, logger)
}

// OpenBadgerReadOnly opens an existing Badger database without taking the
// write lock. Put fails on the returned store.
func OpenBadgerReadOnly(dir string, logger *slog.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions(dir).WithReadOnly(true)
	opts.Logger = nil
	return openBadger(opts, logger)
}

// OpenBadgerInMemory opens a Badger database that lives only in memory.
func OpenBadgerInMemory(logger *slog.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return openBadger(opts, logger)
}

func openBadger(opts badger.Options, logger *slog.Logger) (*BadgerKV, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Info("Badger database opened", "path", opts.Dir, "in_memory", opts.InMemory)
	return &BadgerKV{db: db, logger: logger}, nil
}

// Get implements KV.
func (s *BadgerKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put implements KV.
func (s *BadgerKV) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Close gracefully closes the database.
func (s *BadgerKV) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}
