package discord

import (
	membershipdomain "github.com/academiace/rolesync/internal/membership/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("platform.discord",
	fx.Provide(NewSession),
	fx.Provide(fx.Annotate(
		NewAdapter,
		fx.As(new(membershipdomain.Store)),
		fx.As(new(membershipdomain.Notifier)),
	)),
	fx.Provide(NewBot),
	fx.Invoke(Register),
)
