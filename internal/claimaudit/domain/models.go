package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ClaimRecord is one terminal claim outcome, kept for support: members report
// an order id, operators look up what actually happened. Reconciliation never
// reads this table; entitlements are re-derived from the catalog every time.
type ClaimRecord struct {
	ID        snowflake.ID                `gorm:"primaryKey" json:"id"`
	MemberID  string                      `gorm:"not null;index" json:"member_id"`
	OrderID   string                      `gorm:"index" json:"order_id"`
	Outcome   string                      `gorm:"not null" json:"outcome"`
	Tiers     datatypes.JSONSlice[string] `json:"tiers,omitempty"`
	Reason    string                      `json:"reason,omitempty"`
	Source    string                      `gorm:"not null" json:"source"`
	CreatedAt time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ClaimRecord) TableName() string {
	return "claim_records"
}

// Recorder persists claim outcomes. Recording is best-effort from the
// engine's point of view; a write failure never changes a claim's outcome.
type Recorder interface {
	Record(ctx context.Context, record ClaimRecord) error
	RecentByMember(ctx context.Context, memberID string, limit int) ([]ClaimRecord, error)
}
