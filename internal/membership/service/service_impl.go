package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/academiace/rolesync/internal/membership/domain"
	obslogger "github.com/academiace/rolesync/internal/observability/logger"
	obsmetrics "github.com/academiace/rolesync/internal/observability/metrics"
	"go.uber.org/zap"
)

type service struct {
	store   domain.Store
	metrics *obsmetrics.Metrics
	log     *zap.Logger
}

func New(store domain.Store, metrics *obsmetrics.Metrics, log *zap.Logger) domain.Synchronizer {
	return &service{
		store:   store,
		metrics: metrics,
		log:     log,
	}
}

// Sync grants the member every desired tier's group role that exists and is
// not already held. It never removes a role. A desired tier with no matching
// group role is a configuration gap: it is skipped with a warning, not an
// error, so a stale tier table entry cannot break claims for everyone.
func (s *service) Sync(ctx context.Context, member domain.Member, desiredTiers []string) ([]string, error) {
	if strings.TrimSpace(member.ID) == "" {
		return nil, domain.ErrInvalidMember
	}
	if len(desiredTiers) == 0 {
		return []string{}, nil
	}

	roles, err := s.store.GroupRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list group roles: %w", err)
	}
	byName := make(map[string]domain.Role, len(roles))
	for _, role := range roles {
		byName[role.Name] = role
	}

	heldIDs, err := s.store.MemberRoleIDs(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("list member roles: %w", err)
	}
	held := make(map[string]struct{}, len(heldIDs))
	for _, id := range heldIDs {
		held[id] = struct{}{}
	}

	log := obslogger.WithMember(obslogger.WithContext(ctx, s.log), member.ID)

	granted := make([]string, 0, len(desiredTiers))
	for _, tierName := range desiredTiers {
		role, ok := byName[tierName]
		if !ok {
			log.Warn("no group role for tier", zap.String("tier", tierName))
			s.metrics.RecordRoleGap(ctx, tierName)
			continue
		}
		if _, ok := held[role.ID]; ok {
			continue
		}
		if err := s.store.AddMemberRole(ctx, member.ID, role.ID); err != nil {
			return nil, fmt.Errorf("grant role %q: %w", tierName, err)
		}
		held[role.ID] = struct{}{}
		granted = append(granted, tierName)
		s.metrics.RecordRoleGranted(ctx, tierName)
	}

	sort.Strings(granted)
	return granted, nil
}
