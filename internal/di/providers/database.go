package providers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/researchqueue/researchqueue-server/internal/config"
	"github.com/researchqueue/researchqueue-server/internal/logger"
	"github.com/researchqueue/researchqueue-server/internal/sse"
	"github.com/researchqueue/researchqueue-server/internal/store"
	"github.com/researchqueue/researchqueue-server/internal/store/sqlite"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// KVHandle wraps the configured key-value backend with shutdown capability.
type KVHandle struct {
	store.KV
	Backend string
}

// Shutdown implements do.Shutdownable.
func (h *KVHandle) Shutdown() error {
	return h.Close()
}

// ProvideKV opens the storage backend named by the configuration.
func ProvideKV(i do.Injector) (*KVHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		kv   store.KV
		path string
		err  error
	)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		path = filepath.Join(cfg.Storage.DataPath, "researchqueue.db")
		kv, err = sqlite.Open(path, log.Logger)
	default:
		path = filepath.Join(cfg.Storage.DataPath, "db")
		kv, err = store.OpenBadger(path, log.Logger)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}

	log.Info("Database initialized", "backend", cfg.Storage.Backend, "path", path)

	return &KVHandle{KV: kv, Backend: cfg.Storage.Backend}, nil
}

// ProvidePersister provides the board collection persister.
func ProvidePersister(i do.Injector) (*store.Persister, error) {
	kvHandle := do.MustInvoke[*KVHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return store.NewPersister(kvHandle.KV, log.Logger), nil
}
