package repository

import (
	"context"
	"strings"

	"github.com/academiace/rolesync/internal/claimaudit/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func Provide(db *gorm.DB, genID *snowflake.Node) domain.Recorder {
	return &repository{
		db:    db,
		genID: genID,
	}
}

func (r *repository) Record(ctx context.Context, record domain.ClaimRecord) error {
	if record.ID == 0 {
		record.ID = r.genID.Generate()
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *repository) RecentByMember(ctx context.Context, memberID string, limit int) ([]domain.ClaimRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var records []domain.ClaimRecord
	err := r.db.WithContext(ctx).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
