// Package di provides dependency injection configuration for the Rasa server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/rasa-media/rasa-server/internal/config"
	"github.com/rasa-media/rasa-server/internal/di/providers"
	"github.com/rasa-media/rasa-server/internal/logger"
	"github.com/rasa-media/rasa-server/internal/metadata"
	"github.com/rasa-media/rasa-server/internal/mood"
	"github.com/rasa-media/rasa-server/internal/service"
	catalogsync "github.com/rasa-media/rasa-server/internal/sync"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Catalog sync layer
	do.Provide(injector, providers.ProvideMoodClassifier)
	do.Provide(injector, providers.ProvideMetadataSource)
	do.Provide(injector, providers.ProvideSyncEngine)
	do.Provide(injector, providers.ProvideOrchestrator)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideInstanceService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services. The orchestrator
// runs the startup sequence (schema migration and the initial catalog sync)
// in the background; the HTTP server starts right away so the health
// endpoint is reachable while the catalog routes wait for readiness.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	_ = do.MustInvoke[*mood.Classifier](injector)
	_ = do.MustInvoke[metadata.Source](injector)
	_ = do.MustInvoke[*catalogsync.Engine](injector)

	if _, err := do.Invoke[*providers.OrchestratorHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.InstanceService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
