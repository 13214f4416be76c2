package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/researchqueue/researchqueue-server/internal/logger"
	"github.com/researchqueue/researchqueue-server/internal/metadata"
	"github.com/researchqueue/researchqueue-server/internal/service"
	"github.com/researchqueue/researchqueue-server/internal/store"
)

// ProvideBoardService provides the board service, loaded from storage and
// wired to the event stream and search index.
func ProvideBoardService(i do.Injector) (*service.BoardService, error) {
	resolver := do.MustInvoke[*metadata.Resolver](i)
	persister := do.MustInvoke[*store.Persister](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewBoardService(resolver, persister, log.Logger)
	svc.SetEventEmitter(sseHandle.Manager)
	if searchHandle.SearchIndex != nil {
		svc.SetSearchIndexer(searchHandle.SearchIndex)
	}

	svc.Load(context.Background())

	stats := svc.Stats()
	log.Info("Boards loaded", "boards", stats.Boards, "items", stats.Items)

	return svc, nil
}
