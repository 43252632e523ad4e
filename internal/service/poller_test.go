package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivewatch/internal/model"
)

// fakeSource is an in-memory UpstreamSource.
type fakeSource struct {
	mu         sync.Mutex
	reading    *model.TelemetryReading
	thresholds *model.ThresholdConfig
	events     []*model.HiveEvent
	err        error
}

func (f *fakeSource) setReading(r *model.TelemetryReading) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reading = r
}

func (f *fakeSource) LatestTelemetry(ctx context.Context) (*model.TelemetryReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.reading, nil
}

func (f *fakeSource) Thresholds(ctx context.Context) (*model.ThresholdConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.thresholds, nil
}

func (f *fakeSource) Events(ctx context.Context, limit int) ([]*model.HiveEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events, nil
}

// fakeHub records broadcasts.
type fakeHub struct {
	mu        sync.Mutex
	telemetry []*EvaluationResult
	alerts    []*model.Alert
}

func (h *fakeHub) BroadcastTelemetry(result *EvaluationResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.telemetry = append(h.telemetry, result)
}

func (h *fakeHub) BroadcastAlert(alert *model.Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts = append(h.alerts, alert)
}

func (h *fakeHub) alertStates() []model.AlertState {
	h.mu.Lock()
	defer h.mu.Unlock()
	states := make([]model.AlertState, len(h.alerts))
	for i, a := range h.alerts {
		states[i] = a.State
	}
	return states
}

func newTestPoller(source *fakeSource, hub *fakeHub) (*Poller, *Store) {
	store := NewStore(100)
	poller := NewPoller(source, store, createTestEvaluator(), hub, time.Minute, 50, zerolog.Nop())
	return poller, store
}

func TestPoller_SingleCycle(t *testing.T) {
	now := time.Now()
	source := &fakeSource{
		reading:    healthyReading(now),
		thresholds: createTestThresholds(),
		events:     []*model.HiveEvent{{ID: "ev-1"}},
	}
	hub := &fakeHub{}
	poller, store := newTestPoller(source, hub)

	require.NoError(t, poller.bootstrap(context.Background()))
	require.NoError(t, poller.poll(context.Background()))

	require.NotNil(t, store.Latest())
	assert.Len(t, store.Latest().Gauges, 4)
	assert.Len(t, store.Events(), 1)
	assert.Len(t, hub.telemetry, 1)
	assert.Empty(t, hub.alerts)
}

func TestPoller_AlertTransitions(t *testing.T) {
	now := time.Now()
	source := &fakeSource{
		reading:    healthyReading(now),
		thresholds: createTestThresholds(),
	}
	hub := &fakeHub{}
	poller, _ := newTestPoller(source, hub)
	ctx := context.Background()

	require.NoError(t, poller.bootstrap(ctx))

	// Cycle 1: all safe, nothing fires.
	require.NoError(t, poller.poll(ctx))
	assert.Empty(t, hub.alerts)

	// Cycle 2: CO2 climbs into warning -> triggered.
	warm := healthyReading(now.Add(time.Minute))
	warm.CO2Ppm = 2200
	source.setReading(warm)
	require.NoError(t, poller.poll(ctx))
	require.Len(t, hub.alerts, 1)
	assert.Equal(t, model.AlertTriggered, hub.alerts[0].State)
	assert.Equal(t, model.MetricCO2, hub.alerts[0].MetricID)

	// Cycle 3: same severity, no duplicate notification.
	source.setReading(warm)
	require.NoError(t, poller.poll(ctx))
	assert.Len(t, hub.alerts, 1)

	// Cycle 4: back to safe -> cleared.
	source.setReading(healthyReading(now.Add(3 * time.Minute)))
	require.NoError(t, poller.poll(ctx))
	require.Len(t, hub.alerts, 2)
	assert.Equal(t, []model.AlertState{model.AlertTriggered, model.AlertCleared}, hub.alertStates())
	assert.Equal(t, model.SeveritySafe, hub.alerts[1].Severity)
}

func TestPoller_EscalationNotifiesAgain(t *testing.T) {
	now := time.Now()
	source := &fakeSource{
		reading:    healthyReading(now),
		thresholds: createTestThresholds(),
	}
	hub := &fakeHub{}
	poller, _ := newTestPoller(source, hub)
	ctx := context.Background()

	require.NoError(t, poller.bootstrap(ctx))

	warning := healthyReading(now)
	warning.CO2Ppm = 2200
	source.setReading(warning)
	require.NoError(t, poller.poll(ctx))

	critical := healthyReading(now.Add(time.Minute))
	critical.CO2Ppm = 3000
	source.setReading(critical)
	require.NoError(t, poller.poll(ctx))

	require.Len(t, hub.alerts, 2)
	assert.Equal(t, model.SeverityWarning, hub.alerts[0].Severity)
	assert.Equal(t, model.SeverityCritical, hub.alerts[1].Severity)
}

func TestPoller_BootstrapFailure(t *testing.T) {
	source := &fakeSource{err: context.DeadlineExceeded}
	poller, _ := newTestPoller(source, &fakeHub{})

	err := poller.bootstrap(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial thresholds")
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	source := &fakeSource{
		reading:    healthyReading(time.Now()),
		thresholds: createTestThresholds(),
	}
	poller, store := newTestPoller(source, &fakeHub{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	// Wait for the immediate first cycle to land, then cancel.
	require.Eventually(t, func() bool { return store.Latest() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
