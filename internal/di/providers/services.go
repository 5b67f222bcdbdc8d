package providers

import (
	"github.com/samber/do/v2"

	"github.com/rasa-media/rasa-server/internal/config"
	"github.com/rasa-media/rasa-server/internal/logger"
	"github.com/rasa-media/rasa-server/internal/mood"
	"github.com/rasa-media/rasa-server/internal/service"
)

// ProvideCatalogService provides the catalog read service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	classifier := do.MustInvoke[*mood.Classifier](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, classifier, log.Logger), nil
}

// ProvideInstanceService provides the instance identity service.
func ProvideInstanceService(i do.Injector) (*service.InstanceService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInstanceService(storeHandle.Store, cfg, log.Logger), nil
}
