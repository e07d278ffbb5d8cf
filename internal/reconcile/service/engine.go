package service

import (
	"context"
	"errors"
	"strings"

	catalogdomain "github.com/academiace/rolesync/internal/catalog/domain"
	auditdomain "github.com/academiace/rolesync/internal/claimaudit/domain"
	"github.com/academiace/rolesync/internal/config"
	entitlementdomain "github.com/academiace/rolesync/internal/entitlement/domain"
	membershipdomain "github.com/academiace/rolesync/internal/membership/domain"
	obscontext "github.com/academiace/rolesync/internal/observability/context"
	obslogger "github.com/academiace/rolesync/internal/observability/logger"
	obsmetrics "github.com/academiace/rolesync/internal/observability/metrics"
	"github.com/academiace/rolesync/internal/ratelimit"
	"github.com/academiace/rolesync/internal/reconcile/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const reasonClaimInProgress = "claim_in_progress"

// EngineParam collects the engine's dependencies. Recorder, Notifier, and
// Lock are optional: without them claims still complete, they just lose the
// audit trail, the welcome message, or single-flighting respectively.
type EngineParam struct {
	fx.In

	Catalog  catalogdomain.Catalog
	Resolver entitlementdomain.Resolver
	Sync     membershipdomain.Synchronizer
	Notifier membershipdomain.Notifier `optional:"true"`
	Recorder auditdomain.Recorder      `optional:"true"`
	Lock     *ratelimit.ClaimLock      `optional:"true"`
	Metrics  *obsmetrics.Metrics       `optional:"true"`
	Config   config.Config
	Log      *zap.Logger
}

type engine struct {
	catalog  catalogdomain.Catalog
	resolver entitlementdomain.Resolver
	sync     membershipdomain.Synchronizer
	notifier membershipdomain.Notifier
	recorder auditdomain.Recorder
	lock     *ratelimit.ClaimLock
	metrics  *obsmetrics.Metrics
	freeRole string
	log      *zap.Logger
	tracer   trace.Tracer
}

func New(p EngineParam) domain.Engine {
	return &engine{
		catalog:  p.Catalog,
		resolver: p.Resolver,
		sync:     p.Sync,
		notifier: p.Notifier,
		recorder: p.Recorder,
		lock:     p.Lock,
		metrics:  p.Metrics,
		freeRole: p.Config.FreeRoleName,
		log:      p.Log,
		tracer:   otel.Tracer("rolesync/reconcile"),
	}
}

// HandleClaim walks the claim state machine: fetch order, resolve
// entitlements, sync membership. Each step either advances or pins the claim
// to exactly one terminal outcome; nothing is retried here.
func (e *engine) HandleClaim(ctx context.Context, orderID string, member membershipdomain.Member, source string) domain.Outcome {
	orderID = strings.TrimSpace(orderID)
	ctx = obscontext.WithMemberID(ctx, member.ID)

	ctx, span := e.tracer.Start(ctx, "reconcile.claim")
	defer span.End()
	span.SetAttributes(
		attribute.String("order_id", orderID),
		attribute.String("member_id", member.ID),
	)

	release, busy := e.lock.Acquire(ctx, member.ID)
	if busy {
		return e.finish(ctx, span, source, domain.Failure(orderID, member.ID, reasonClaimInProgress))
	}
	defer release()

	order, err := e.catalog.FetchOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrOrderNotFound) || errors.Is(err, catalogdomain.ErrInvalidOrderID) {
			return e.finish(ctx, span, source, domain.NotFound(orderID, member.ID))
		}
		return e.finish(ctx, span, source, domain.Failure(orderID, member.ID, err.Error()))
	}

	entitled, err := e.resolver.Resolve(ctx, order)
	if err != nil {
		return e.finish(ctx, span, source, domain.Failure(orderID, member.ID, err.Error()))
	}
	if len(entitled) == 0 {
		return e.finish(ctx, span, source, domain.NoEntitlements(orderID, member.ID))
	}

	granted, err := e.sync.Sync(ctx, member, entitled)
	if err != nil {
		return e.finish(ctx, span, source, domain.Failure(orderID, member.ID, err.Error()))
	}

	return e.finish(ctx, span, source, domain.Granted(orderID, member.ID, entitled, granted))
}

// HandleJoin grants the baseline free tier. The welcome message is a separate
// side effect: delivery failure is logged and counted, never surfaced.
func (e *engine) HandleJoin(ctx context.Context, member membershipdomain.Member) error {
	ctx = obscontext.WithMemberID(ctx, member.ID)
	ctx, span := e.tracer.Start(ctx, "reconcile.join")
	defer span.End()

	log := obslogger.WithMember(obslogger.WithContext(ctx, e.log), member.ID)

	granted, err := e.sync.Sync(ctx, member, []string{e.freeRole})
	if err != nil {
		e.metrics.RecordMemberJoin(ctx, "failed")
		return err
	}

	result := "noop"
	if len(granted) > 0 {
		result = "granted"
	}
	e.metrics.RecordMemberJoin(ctx, result)
	log.Info("member join provisioned", zap.Strings("granted", granted))

	if e.notifier == nil {
		return nil
	}
	if err := e.notifier.SendWelcome(ctx, member); err != nil {
		e.metrics.RecordNotification(ctx, "ignored")
		log.Warn("welcome notification not delivered", zap.Error(err))
		return nil
	}
	e.metrics.RecordNotification(ctx, "sent")
	return nil
}

// finish maps the terminal outcome onto logs, metrics, and the audit trail.
func (e *engine) finish(ctx context.Context, span trace.Span, source string, outcome domain.Outcome) domain.Outcome {
	span.SetAttributes(attribute.String("outcome", string(outcome.Kind)))
	e.metrics.RecordClaim(ctx, string(outcome.Kind))

	log := obslogger.WithOrder(obslogger.WithMember(obslogger.WithContext(ctx, e.log), outcome.MemberID), outcome.OrderID)
	switch outcome.Kind {
	case domain.KindFailure:
		log.Error("claim failed", zap.String("reason", outcome.Reason))
	default:
		log.Info("claim finished",
			zap.String("outcome", string(outcome.Kind)),
			zap.Strings("granted", outcome.GrantedTiers),
		)
	}

	if e.recorder != nil {
		// The audit row must survive a caller that has already given up.
		recordCtx := context.WithoutCancel(ctx)
		err := e.recorder.Record(recordCtx, auditdomain.ClaimRecord{
			MemberID: outcome.MemberID,
			OrderID:  outcome.OrderID,
			Outcome:  string(outcome.Kind),
			Tiers:    datatypes.NewJSONSlice(outcome.GrantedTiers),
			Reason:   outcome.Reason,
			Source:   source,
		})
		if err != nil {
			log.Warn("claim audit write failed", zap.Error(err))
		}
	}

	return outcome
}
