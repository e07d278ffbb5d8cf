package server

import (
	"context"
	"net/http"
	"time"

	auditdomain "github.com/academiace/rolesync/internal/claimaudit/domain"
	"github.com/academiace/rolesync/internal/config"
	membershipdomain "github.com/academiace/rolesync/internal/membership/domain"
	"github.com/academiace/rolesync/internal/observability"
	obsmiddleware "github.com/academiace/rolesync/internal/observability/logger"
	obsmetrics "github.com/academiace/rolesync/internal/observability/metrics"
	obstracing "github.com/academiace/rolesync/internal/observability/tracing"
	reconciledomain "github.com/academiace/rolesync/internal/reconcile/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.registerRoutes() }),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// Server exposes the reconciliation engine over HTTP for back-office use:
// support agents retry claims here when the chat flow misbehaves.
type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	recon    reconciledomain.Engine
	store    membershipdomain.Store
	recorder auditdomain.Recorder
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Cfg      config.Config
	Recon    reconciledomain.Engine
	Store    membershipdomain.Store `optional:"true"`
	Recorder auditdomain.Recorder   `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:   p.Gin,
		cfg:      p.Cfg,
		recon:    p.Recon,
		store:    p.Store,
		recorder: p.Recorder,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/claims", s.SubmitClaim)
	v1.GET("/members/:member_id/roles", s.ListMemberRoles)
	v1.GET("/members/:member_id/claims", s.ListMemberClaims)
}
