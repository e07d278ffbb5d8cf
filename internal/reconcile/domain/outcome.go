package domain

import (
	"context"

	membershipdomain "github.com/academiace/rolesync/internal/membership/domain"
)

// Kind is the terminal state of a claim request. Every claim produces exactly
// one Outcome, never a partial result.
type Kind string

const (
	KindGranted        Kind = "granted"
	KindNoEntitlements Kind = "no_entitlements"
	KindNotFound       Kind = "not_found"
	KindFailure        Kind = "failure"
)

// Outcome is the single user-facing result of one claim request. MemberID and
// OrderID are always set so NotFound/Failure replies can echo them back.
type Outcome struct {
	Kind     Kind
	OrderID  string
	MemberID string

	// EntitledTiers is every tier the order maps to; GrantedTiers is the
	// subset newly granted by this request. Granted with an empty
	// GrantedTiers means the member already held everything, which is still
	// success.
	EntitledTiers []string
	GrantedTiers  []string

	// Reason is an operator-facing failure detail. It is logged and audited
	// but never shown verbatim to the member.
	Reason string
}

func Granted(orderID, memberID string, entitled, granted []string) Outcome {
	return Outcome{
		Kind:          KindGranted,
		OrderID:       orderID,
		MemberID:      memberID,
		EntitledTiers: entitled,
		GrantedTiers:  granted,
	}
}

func NoEntitlements(orderID, memberID string) Outcome {
	return Outcome{Kind: KindNoEntitlements, OrderID: orderID, MemberID: memberID}
}

func NotFound(orderID, memberID string) Outcome {
	return Outcome{Kind: KindNotFound, OrderID: orderID, MemberID: memberID}
}

func Failure(orderID, memberID, reason string) Outcome {
	return Outcome{Kind: KindFailure, OrderID: orderID, MemberID: memberID, Reason: reason}
}

// Engine reconciles a member's group roles with their storefront purchases.
type Engine interface {
	// HandleClaim resolves the order's entitlements and additively syncs the
	// member's roles. Source names the surface the claim arrived on
	// ("discord", "http") for the audit trail.
	HandleClaim(ctx context.Context, orderID string, member membershipdomain.Member, source string) Outcome

	// HandleJoin grants the baseline free tier to a newly joined member.
	// The welcome notification is sent best-effort and never fails the join.
	HandleJoin(ctx context.Context, member membershipdomain.Member) error
}
