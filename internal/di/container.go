// Package di provides dependency injection configuration for the research queue server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/researchqueue/researchqueue-server/internal/config"
	"github.com/researchqueue/researchqueue-server/internal/di/providers"
	"github.com/researchqueue/researchqueue-server/internal/logger"
	"github.com/researchqueue/researchqueue-server/internal/metadata"
	"github.com/researchqueue/researchqueue-server/internal/service"
	"github.com/researchqueue/researchqueue-server/internal/store"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideKV)
	do.Provide(injector, providers.ProvidePersister)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Metadata layer
	do.Provide(injector, providers.ProvideResolver)

	// Business services
	do.Provide(injector, providers.ProvideBoardService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services in dependency order.
// This triggers lazy initialization and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)

	if _, err := do.Invoke[*providers.KVHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*store.Persister](injector)

	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*metadata.Resolver](injector)
	_ = do.MustInvoke[*service.BoardService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
