package main

import (
	"github.com/academiace/rolesync/internal/catalog"
	"github.com/academiace/rolesync/internal/claimaudit"
	"github.com/academiace/rolesync/internal/config"
	"github.com/academiace/rolesync/internal/entitlement"
	"github.com/academiace/rolesync/internal/membership"
	"github.com/academiace/rolesync/internal/observability"
	"github.com/academiace/rolesync/internal/platform/discord"
	"github.com/academiace/rolesync/internal/ratelimit"
	"github.com/academiace/rolesync/internal/reconcile"
	"github.com/academiace/rolesync/internal/server"
	"github.com/academiace/rolesync/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		ratelimit.Module,

		// Functional domains
		catalog.Module,
		entitlement.Module,
		membership.Module,
		claimaudit.Module,
		reconcile.Module,

		// Surfaces
		discord.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
