// Package metrics exposes the OpenTelemetry instruments recorded by the auth
// and ledger services. Without an installed SDK the global provider is a no-op.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const MeterName = "ritmo-backend"

type Recorder struct {
	logins     metric.Int64Counter
	refreshes  metric.Int64Counter
	rejections metric.Int64Counter
	gems       metric.Int64Counter
	levelUps   metric.Int64Counter
}

// New registers the instruments on meter. A nil meter falls back to the
// global provider.
func New(meter metric.Meter) (*Recorder, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(MeterName)
	}

	r := &Recorder{}
	var err error

	if r.logins, err = meter.Int64Counter("auth.logins",
		metric.WithDescription("Successful logins")); err != nil {
		return nil, err
	}
	if r.refreshes, err = meter.Int64Counter("auth.refreshes",
		metric.WithDescription("Successful token rotations")); err != nil {
		return nil, err
	}
	if r.rejections, err = meter.Int64Counter("auth.rejections",
		metric.WithDescription("Rejected login, refresh and authorization attempts")); err != nil {
		return nil, err
	}
	if r.gems, err = meter.Int64Counter("ledger.gems",
		metric.WithDescription("Gems moved through the currency ledger"),
		metric.WithUnit("{gem}")); err != nil {
		return nil, err
	}
	if r.levelUps, err = meter.Int64Counter("ledger.levelups",
		metric.WithDescription("Levels gained through the progression ledger")); err != nil {
		return nil, err
	}

	return r, nil
}

// Nop returns a recorder backed by the global (normally no-op) provider.
func Nop() *Recorder {
	r, err := New(nil)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Recorder) Login(ctx context.Context) {
	r.logins.Add(ctx, 1)
}

func (r *Recorder) Refresh(ctx context.Context) {
	r.refreshes.Add(ctx, 1)
}

func (r *Recorder) Rejected(ctx context.Context, flow, reason string) {
	r.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("reason", reason),
	))
}

func (r *Recorder) Gems(ctx context.Context, direction string, amount int64) {
	r.gems.Add(ctx, amount, metric.WithAttributes(attribute.String("direction", direction)))
}

func (r *Recorder) LevelUps(ctx context.Context, levels int64) {
	if levels <= 0 {
		return
	}
	r.levelUps.Add(ctx, levels)
}
