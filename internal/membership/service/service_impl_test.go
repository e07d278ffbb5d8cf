package service

import (
	"context"
	"errors"
	"testing"

	"github.com/academiace/rolesync/internal/membership/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type storeFake struct {
	roles    []domain.Role
	held     map[string][]string // member id → role ids
	addErr   error
	addCalls int
}

func (f *storeFake) GroupRoles(ctx context.Context) ([]domain.Role, error) {
	return f.roles, nil
}

func (f *storeFake) MemberRoleIDs(ctx context.Context, memberID string) ([]string, error) {
	return f.held[memberID], nil
}

func (f *storeFake) AddMemberRole(ctx context.Context, memberID, roleID string) error {
	f.addCalls++
	if f.addErr != nil {
		return f.addErr
	}
	if f.held == nil {
		f.held = map[string][]string{}
	}
	f.held[memberID] = append(f.held[memberID], roleID)
	return nil
}

func newSync(store domain.Store) domain.Synchronizer {
	return New(store, nil, zap.NewNop())
}

func TestSyncGrantsMissingRoles(t *testing.T) {
	store := &storeFake{
		roles: []domain.Role{
			{ID: "r1", Name: "Club ACE"},
			{ID: "r2", Name: "Mentoría"},
		},
	}
	sync := newSync(store)
	member := domain.Member{ID: "m1"}

	granted, err := sync.Sync(context.Background(), member, []string{"Club ACE", "Mentoría"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Club ACE", "Mentoría"}, granted)
	assert.ElementsMatch(t, []string{"r1", "r2"}, store.held["m1"])
}

func TestSyncIsIdempotent(t *testing.T) {
	store := &storeFake{
		roles: []domain.Role{{ID: "r1", Name: "Club ACE"}},
	}
	sync := newSync(store)
	member := domain.Member{ID: "m1"}
	desired := []string{"Club ACE"}

	first, err := sync.Sync(context.Background(), member, desired)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Club ACE"}, first)

	second, err := sync.Sync(context.Background(), member, desired)
	assert.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 1, store.addCalls)
}

func TestSyncSkipsMissingGroupRole(t *testing.T) {
	// "Diplomatura" exists in the tier table but nobody created the role in
	// the group: a configuration gap, not a caller error.
	store := &storeFake{
		roles: []domain.Role{{ID: "r1", Name: "Club ACE"}},
	}
	sync := newSync(store)

	granted, err := sync.Sync(context.Background(), domain.Member{ID: "m1"}, []string{"Club ACE", "Diplomatura"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Club ACE"}, granted)
}

func TestSyncNeverRevokes(t *testing.T) {
	store := &storeFake{
		roles: []domain.Role{
			{ID: "r1", Name: "Club ACE"},
			{ID: "r2", Name: "Mentoría"},
		},
		held: map[string][]string{"m1": {"r1", "r2"}},
	}
	sync := newSync(store)

	// Shrinking desired set must not touch roles outside it.
	granted, err := sync.Sync(context.Background(), domain.Member{ID: "m1"}, []string{"Club ACE"})
	assert.NoError(t, err)
	assert.Empty(t, granted)
	assert.ElementsMatch(t, []string{"r1", "r2"}, store.held["m1"])

	granted, err = sync.Sync(context.Background(), domain.Member{ID: "m1"}, nil)
	assert.NoError(t, err)
	assert.Empty(t, granted)
	assert.ElementsMatch(t, []string{"r1", "r2"}, store.held["m1"])
}

func TestSyncGrantFailureSurfaces(t *testing.T) {
	store := &storeFake{
		roles:  []domain.Role{{ID: "r1", Name: "Club ACE"}},
		addErr: errors.New("missing permissions"),
	}
	sync := newSync(store)

	_, err := sync.Sync(context.Background(), domain.Member{ID: "m1"}, []string{"Club ACE"})
	assert.Error(t, err)
}

func TestSyncRejectsEmptyMember(t *testing.T) {
	sync := newSync(&storeFake{})

	_, err := sync.Sync(context.Background(), domain.Member{}, []string{"Club ACE"})
	assert.ErrorIs(t, err, domain.ErrInvalidMember)
}
