package ratelimit

import (
	"context"
	"time"
)

const (
	claimLockPrefix = "rolesync:claim:"
	claimLockTTL    = 30 * time.Second
)

// ClaimLock serializes in-flight claims per member. With no redis configured
// it degrades to a pass-through and concurrent claims run unserialized.
type ClaimLock struct {
	locker *Locker
}

func NewClaimLock(locker *Locker) *ClaimLock {
	return &ClaimLock{locker: locker}
}

// Acquire attempts to take the member's claim slot. The returned release
// function is always safe to call. Redis trouble fails open: the claim
// proceeds rather than depending on the lock backend being up.
func (c *ClaimLock) Acquire(ctx context.Context, memberID string) (release func(), busy bool) {
	if c == nil || c.locker == nil {
		return func() {}, false
	}

	key := claimLockPrefix + memberID
	token, ok, err := c.locker.TryLock(ctx, key, claimLockTTL)
	if err != nil {
		return func() {}, false
	}
	if !ok {
		return func() {}, true
	}
	return func() {
		_ = c.locker.Release(context.WithoutCancel(ctx), key, token)
	}, false
}
