package domain

import (
	"context"
	"errors"
)

// Member is an identity in the chat space.
type Member struct {
	ID          string
	DisplayName string
}

// Role is a named group role in the chat space.
type Role struct {
	ID   string
	Name string
}

// Store is the group-membership surface of the chat platform. Role grants are
// atomic and serialized by the platform; granting an already-held role is a
// platform-level no-op.
type Store interface {
	GroupRoles(ctx context.Context) ([]Role, error)
	MemberRoleIDs(ctx context.Context, memberID string) ([]string, error)
	AddMemberRole(ctx context.Context, memberID, roleID string) error
}

// Notifier sends direct informational messages to members. Senders own
// formatting and localization; delivery failures are the caller's to swallow.
type Notifier interface {
	SendWelcome(ctx context.Context, member Member) error
}

// Synchronizer additively reconciles a member's group roles against a set of
// desired access tiers and reports which tiers were newly granted.
type Synchronizer interface {
	Sync(ctx context.Context, member Member, desiredTiers []string) ([]string, error)
}

var (
	ErrInvalidMember = errors.New("invalid_member")
)
