package membership

import (
	"github.com/academiace/rolesync/internal/membership/service"
	"go.uber.org/fx"
)

var Module = fx.Module("membership.service",
	fx.Provide(service.New),
)
