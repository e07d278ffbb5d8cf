package catalog

import (
	"github.com/academiace/rolesync/internal/catalog/domain"
	"github.com/academiace/rolesync/internal/catalog/woocommerce"
	"github.com/academiace/rolesync/internal/config"
	obsmetrics "github.com/academiace/rolesync/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(provideClient),
)

func provideClient(cfg config.Config, m *obsmetrics.Metrics) (domain.Catalog, error) {
	return woocommerce.New(woocommerce.Config{
		BaseURL: cfg.StoreBaseURL,
		Key:     cfg.StoreKey,
		Secret:  cfg.StoreSecret,
		Timeout: cfg.CatalogTimeout,
	}, m)
}
