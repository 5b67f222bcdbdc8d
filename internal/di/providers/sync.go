package providers

import (
	"github.com/samber/do/v2"

	"github.com/rasa-media/rasa-server/internal/config"
	"github.com/rasa-media/rasa-server/internal/logger"
	"github.com/rasa-media/rasa-server/internal/metadata"
	"github.com/rasa-media/rasa-server/internal/metadata/screenbase"
	"github.com/rasa-media/rasa-server/internal/metadata/seed"
	"github.com/rasa-media/rasa-server/internal/mood"
	catalogsync "github.com/rasa-media/rasa-server/internal/sync"
)

// ProvideMoodClassifier provides the mood classifier. A malformed rule
// table fails startup here rather than surfacing during a sync cycle.
func ProvideMoodClassifier(i do.Injector) (*mood.Classifier, error) {
	return mood.NewClassifier(mood.DefaultRules())
}

// ProvideMetadataSource provides the movie metadata source: the configured
// upstream endpoint, or the bundled dataset when none is configured.
func ProvideMetadataSource(i do.Injector) (metadata.Source, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Sync.SourceURL == "" {
		log.Info("No sync source configured, using bundled dataset")
		return seed.NewSource(), nil
	}

	log.Info("Using metadata source", "url", cfg.Sync.SourceURL)
	return screenbase.NewClient(cfg.Sync.SourceURL, cfg.Sync.APIKey, log.Logger), nil
}

// ProvideSyncEngine provides the catalog sync engine.
func ProvideSyncEngine(i do.Injector) (*catalogsync.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	source := do.MustInvoke[metadata.Source](i)
	classifier := do.MustInvoke[*mood.Classifier](i)

	engineCfg := catalogsync.Config{
		MaxAttempts:    cfg.Sync.MaxAttempts,
		InitialBackoff: cfg.Sync.InitialBackoff,
		MaxBackoff:     cfg.Sync.MaxBackoff,
	}

	return catalogsync.NewEngine(storeHandle.Store, source, classifier, engineCfg, log.Logger), nil
}
