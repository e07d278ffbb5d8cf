package claimaudit

import (
	"github.com/academiace/rolesync/internal/claimaudit/domain"
	"github.com/academiace/rolesync/internal/claimaudit/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("claimaudit",
	fx.Provide(repository.Provide),
	fx.Invoke(migrate),
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.ClaimRecord{})
}
