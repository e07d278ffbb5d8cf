package repository

import (
	"context"
	"testing"

	"github.com/academiace/rolesync/internal/claimaudit/domain"
	dbpkg "github.com/academiace/rolesync/pkg/db"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

func TestRecordAndRecentByMember(t *testing.T) {
	db, err := dbpkg.NewTest()
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.ClaimRecord{}); err != nil {
		t.Fatalf("failed to migrate claim records: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create id generator: %v", err)
	}

	recorder := Provide(db, node)
	ctx := context.Background()

	records := []domain.ClaimRecord{
		{MemberID: "m1", OrderID: "123", Outcome: "granted", Tiers: datatypes.NewJSONSlice([]string{"Club ACE"}), Source: "discord"},
		{MemberID: "m1", OrderID: "200", Outcome: "no_entitlements", Source: "discord"},
		{MemberID: "m2", OrderID: "999", Outcome: "not_found", Source: "http"},
	}
	for _, record := range records {
		if err := recorder.Record(ctx, record); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	got, err := recorder.RecentByMember(ctx, "m1", 10)
	if err != nil {
		t.Fatalf("recent by member failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records for m1, got %d", len(got))
	}
	for _, record := range got {
		if record.MemberID != "m1" {
			t.Fatalf("unexpected member id %q", record.MemberID)
		}
		if record.ID == 0 {
			t.Fatalf("expected generated id")
		}
	}
}
