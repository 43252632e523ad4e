package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"hivewatch/internal/model"
)

// Broadcaster pushes live updates to connected dashboard clients.
type Broadcaster interface {
	BroadcastTelemetry(result *EvaluationResult)
	BroadcastAlert(alert *model.Alert)
}

// UpstreamSource is the slice of the hive API the poller consumes.
type UpstreamSource interface {
	LatestTelemetry(ctx context.Context) (*model.TelemetryReading, error)
	Thresholds(ctx context.Context) (*model.ThresholdConfig, error)
	Events(ctx context.Context, limit int) ([]*model.HiveEvent, error)
}

// Poller periodically fetches telemetry from the upstream API, evaluates
// it, updates the store and pushes deltas and alert transitions to the
// hub. Alert transitions are edge-triggered: an alert fires when a
// metric leaves safe and clears when it returns.
type Poller struct {
	source      UpstreamSource
	store       *Store
	evaluator   *Evaluator
	hub         Broadcaster
	interval    time.Duration
	eventsLimit int
	logger      zerolog.Logger

	// lastSeverity tracks the previous cycle's severity per metric for
	// triggered/cleared detection. Only the poller goroutine touches it.
	lastSeverity map[string]model.Severity
}

// NewPoller creates a Poller.
func NewPoller(
	source UpstreamSource,
	store *Store,
	evaluator *Evaluator,
	hub Broadcaster,
	interval time.Duration,
	eventsLimit int,
	logger zerolog.Logger,
) *Poller {
	return &Poller{
		source:       source,
		store:        store,
		evaluator:    evaluator,
		hub:          hub,
		interval:     interval,
		eventsLimit:  eventsLimit,
		logger:       logger.With().Str("component", "poller").Logger(),
		lastSeverity: make(map[string]model.Severity),
	}
}

// Run polls until the context is canceled. The first cycle runs
// immediately so the dashboard has data before the first tick.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.bootstrap(ctx); err != nil {
		return err
	}
	if err := p.poll(ctx); err != nil {
		p.logger.Error().Err(err).Msg("initial poll failed")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				p.logger.Error().Err(err).Msg("poll cycle failed")
			}
		}
	}
}

// bootstrap fetches the threshold config once before polling starts.
// Without thresholds nothing can be classified.
func (p *Poller) bootstrap(ctx context.Context) error {
	thresholds, err := p.source.Thresholds(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch initial thresholds: %w", err)
	}
	p.store.SetThresholds(thresholds)
	p.logger.Info().Int("metrics", len(thresholds.Metrics)).Msg("threshold config loaded")
	return nil
}

// poll runs one collection cycle: telemetry and events are fetched
// concurrently, then the snapshot is evaluated and broadcast.
func (p *Poller) poll(ctx context.Context) error {
	var (
		reading *model.TelemetryReading
		events  []*model.HiveEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reading, err = p.source.LatestTelemetry(gctx)
		if err != nil {
			return fmt.Errorf("telemetry fetch failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = p.source.Events(gctx, p.eventsLimit)
		if err != nil {
			// Events are a side feed; a failure must not block gauges.
			p.logger.Warn().Err(err).Msg("events fetch failed")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		pollCycles.WithLabelValues("error").Inc()
		return err
	}

	if events != nil {
		p.store.SetEvents(events)
	}

	thresholds := p.store.Thresholds()
	result, err := p.evaluator.Evaluate(reading, thresholds, p.weightWindow(reading))
	if err != nil {
		pollCycles.WithLabelValues("error").Inc()
		return fmt.Errorf("evaluation failed: %w", err)
	}
	pollCycles.WithLabelValues("ok").Inc()

	p.store.SetSnapshot(reading, result)
	if p.hub != nil {
		p.hub.BroadcastTelemetry(result)
	}
	p.emitTransitions(reading, result)

	p.logger.Debug().
		Str("hive", reading.HiveID).
		Int("alerts", result.Summary.TotalAlerts).
		Msg("poll cycle completed")

	return nil
}

// weightWindow returns the stored weight history including the reading
// being evaluated, so the evaluator sees the newest sample.
func (p *Poller) weightWindow(reading *model.TelemetryReading) []model.MetricSample {
	history := p.store.WeightHistory()
	if sample, ok := reading.Sample(model.MetricWeight); ok {
		history = append(history, sample)
	}
	return history
}

// emitTransitions diffs severities against the previous cycle and
// broadcasts triggered/cleared alert notifications.
func (p *Poller) emitTransitions(reading *model.TelemetryReading, result *EvaluationResult) {
	for _, view := range result.Gauges {
		prev := p.lastSeverity[view.MetricID]
		p.lastSeverity[view.MetricID] = view.Severity

		if prev == view.Severity {
			continue
		}

		switch {
		case view.Severity != model.SeveritySafe:
			// Entered or escalated an unsafe zone.
			alert := result.alertFor(view.MetricID)
			if alert == nil {
				continue
			}
			if p.hub != nil {
				p.hub.BroadcastAlert(alert)
			}
			p.logger.Info().
				Str("metric", view.MetricID).
				Str("severity", string(view.Severity)).
				Msg("alert triggered")

		case prev != "" && prev != model.SeveritySafe:
			// Returned to safe.
			cleared := &model.Alert{
				ID:                uuid.NewString(),
				HiveID:            reading.HiveID,
				MetricID:          view.MetricID,
				MetricDisplayName: view.DisplayName,
				CurrentValue:      view.Value,
				FormattedValue:    view.FormattedValue,
				Severity:          model.SeveritySafe,
				State:             model.AlertCleared,
				Message:           fmt.Sprintf("%s back to normal: %s", view.DisplayName, view.FormattedValue),
				At:                view.RecordedAt,
			}
			if p.hub != nil {
				p.hub.BroadcastAlert(cleared)
			}
			p.logger.Info().Str("metric", view.MetricID).Msg("alert cleared")
		}
	}
}

// alertFor finds the alert raised for a metric in this result.
func (r *EvaluationResult) alertFor(metricID string) *model.Alert {
	for _, a := range r.Alerts {
		if a.MetricID == metricID {
			return a
		}
	}
	return nil
}
