package domain

import (
	"context"

	catalogdomain "github.com/academiace/rolesync/internal/catalog/domain"
)

// Resolver computes the set of access tiers an order entitles its buyer to.
// The result has set semantics: sorted, no duplicates. An empty result is a
// valid outcome, distinct from an error.
type Resolver interface {
	Resolve(ctx context.Context, order catalogdomain.Order) ([]string, error)
}
