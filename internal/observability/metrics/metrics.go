package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	claims          metric.Int64Counter
	catalogRequests metric.Int64Counter
	rolesGranted    metric.Int64Counter
	roleGaps        metric.Int64Counter
	memberJoins     metric.Int64Counter
	notifications   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "rolesync"
	}
	meter := provider.Meter(name)

	claims, err := meter.Int64Counter("rolesync_claims_total")
	if err != nil {
		return nil, err
	}
	catalogRequests, err := meter.Int64Counter("rolesync_catalog_requests_total")
	if err != nil {
		return nil, err
	}
	rolesGranted, err := meter.Int64Counter("rolesync_roles_granted_total")
	if err != nil {
		return nil, err
	}
	roleGaps, err := meter.Int64Counter("rolesync_role_gaps_total")
	if err != nil {
		return nil, err
	}
	memberJoins, err := meter.Int64Counter("rolesync_member_joins_total")
	if err != nil {
		return nil, err
	}
	notifications, err := meter.Int64Counter("rolesync_notifications_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		claims:          claims,
		catalogRequests: catalogRequests,
		rolesGranted:    rolesGranted,
		roleGaps:        roleGaps,
		memberJoins:     memberJoins,
		notifications:   notifications,
	}, nil
}

// RecordClaim increments claim counts by terminal outcome.
func (m *Metrics) RecordClaim(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.claims.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCatalogRequest increments storefront request counts.
func (m *Metrics) RecordCatalogRequest(ctx context.Context, endpoint string, statusCode int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.Int("status_code", statusCode),
	)
	m.catalogRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRoleGranted increments granted role counts.
func (m *Metrics) RecordRoleGranted(ctx context.Context, tierName string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("tier", strings.TrimSpace(tierName)))
	m.rolesGranted.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRoleGap increments counts of tiers with no matching group role.
func (m *Metrics) RecordRoleGap(ctx context.Context, tierName string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("tier", strings.TrimSpace(tierName)))
	m.roleGaps.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordMemberJoin increments join provisioning counts.
func (m *Metrics) RecordMemberJoin(ctx context.Context, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("result", strings.TrimSpace(result)))
	m.memberJoins.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordNotification increments direct notification counts.
func (m *Metrics) RecordNotification(ctx context.Context, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("result", strings.TrimSpace(result)))
	m.notifications.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"outcome":     {},
	"endpoint":    {},
	"status_code": {},
	"tier":        {},
	"result":      {},
	"route":       {},
	"method":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
