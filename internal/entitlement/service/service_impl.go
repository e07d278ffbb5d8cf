package service

import (
	"context"
	"fmt"
	"sort"

	catalogdomain "github.com/academiace/rolesync/internal/catalog/domain"
	"github.com/academiace/rolesync/internal/config"
	"github.com/academiace/rolesync/internal/entitlement/domain"
	obslogger "github.com/academiace/rolesync/internal/observability/logger"
	"go.uber.org/zap"
)

type service struct {
	catalog catalogdomain.Catalog
	tiers   *config.TierTableHolder
	log     *zap.Logger
}

func New(catalog catalogdomain.Catalog, tiers *config.TierTableHolder, log *zap.Logger) domain.Resolver {
	return &service{
		catalog: catalog,
		tiers:   tiers,
		log:     log,
	}
}

// Resolve fetches each line item's product tags and unions the tiers they map
// to. A tag-fetch failure aborts the whole resolution: granting from partial
// data would silently under-grant, and the caller can simply retry.
func (s *service) Resolve(ctx context.Context, order catalogdomain.Order) ([]string, error) {
	table := s.tiers.Get()
	matched := make(map[string]struct{})

	for _, item := range order.LineItems {
		tags, err := s.catalog.FetchProductTags(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve tags for product %d: %w", item.ProductID, err)
		}
		for _, tag := range tags {
			name, ok := table.Lookup(tag)
			if !ok {
				continue
			}
			matched[name] = struct{}{}
		}
	}

	tiers := make([]string, 0, len(matched))
	for name := range matched {
		tiers = append(tiers, name)
	}
	sort.Strings(tiers)

	obslogger.WithOrder(obslogger.WithContext(ctx, s.log), order.ID).Debug("order resolved",
		zap.Int("line_items", len(order.LineItems)),
		zap.Strings("tiers", tiers),
	)
	return tiers, nil
}
