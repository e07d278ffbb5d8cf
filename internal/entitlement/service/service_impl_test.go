package service

import (
	"context"
	"testing"

	catalogdomain "github.com/academiace/rolesync/internal/catalog/domain"
	"github.com/academiace/rolesync/internal/config"
	"github.com/academiace/rolesync/internal/tier"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type catalogStub struct {
	tags map[int64][]string
	errs map[int64]error
}

func (c *catalogStub) FetchOrder(ctx context.Context, orderID string) (catalogdomain.Order, error) {
	return catalogdomain.Order{}, catalogdomain.ErrOrderNotFound
}

func (c *catalogStub) FetchProductTags(ctx context.Context, productID int64) ([]string, error) {
	if err, ok := c.errs[productID]; ok {
		return nil, err
	}
	return c.tags[productID], nil
}

func newResolver(stub *catalogStub) *service {
	holder := config.NewStaticTierTableHolder(tier.DefaultTable())
	return &service{catalog: stub, tiers: holder, log: zap.NewNop()}
}

func order(productIDs ...int64) catalogdomain.Order {
	o := catalogdomain.Order{ID: "123"}
	for _, id := range productIDs {
		o.LineItems = append(o.LineItems, catalogdomain.LineItem{ProductID: id})
	}
	return o
}

func TestResolveEmptyOrder(t *testing.T) {
	resolver := newResolver(&catalogStub{})

	tiers, err := resolver.Resolve(context.Background(), order())
	assert.NoError(t, err)
	assert.Empty(t, tiers)
}

func TestResolveNoMatchingTags(t *testing.T) {
	resolver := newResolver(&catalogStub{tags: map[int64][]string{
		11: {"T-Shirt", "Merch"},
	}})

	tiers, err := resolver.Resolve(context.Background(), order(11))
	assert.NoError(t, err)
	assert.Empty(t, tiers)
}

func TestResolveUnionsAcrossProducts(t *testing.T) {
	resolver := newResolver(&catalogStub{tags: map[int64][]string{
		11: {"Club ACE"},
		12: {"Club ACE", "Mentoria"},
	}})

	tiers, err := resolver.Resolve(context.Background(), order(11, 12))
	assert.NoError(t, err)
	assert.Equal(t, []string{"Club ACE", "Mentoría"}, tiers)
}

func TestResolveNormalizesTags(t *testing.T) {
	resolver := newResolver(&catalogStub{tags: map[int64][]string{
		11: {"  CLUB   ace "},
	}})

	tiers, err := resolver.Resolve(context.Background(), order(11))
	assert.NoError(t, err)
	assert.Equal(t, []string{"Club ACE"}, tiers)
}

func TestResolveAbortsOnTagFetchFailure(t *testing.T) {
	// One product resolves fine, the other fails transiently. The whole
	// resolution fails rather than under-granting from partial data.
	resolver := newResolver(&catalogStub{
		tags: map[int64][]string{11: {"Club ACE"}},
		errs: map[int64]error{12: &catalogdomain.TransientError{Op: "fetch_product", StatusCode: 503}},
	})

	tiers, err := resolver.Resolve(context.Background(), order(11, 12))
	assert.Error(t, err)
	assert.True(t, catalogdomain.IsTransient(err))
	assert.Nil(t, tiers)
}
