package service

import (
	"sync"

	"hivewatch/internal/model"
)

// Store holds the dashboard's mutable state: the latest evaluation, the
// active threshold config, recent events and the weight sample history.
// The core evaluation logic stays pure; the serving layer owns this
// store and passes explicit snapshots into the evaluator.
type Store struct {
	mu sync.RWMutex

	latest     *EvaluationResult
	reading    *model.TelemetryReading
	thresholds *model.ThresholdConfig
	events     []*model.HiveEvent

	weightHistory []model.MetricSample
	historyCap    int
}

// NewStore creates a Store retaining up to historyCap weight samples.
func NewStore(historyCap int) *Store {
	if historyCap < 2 {
		historyCap = 2
	}
	return &Store{historyCap: historyCap}
}

// SetSnapshot replaces the latest evaluation and its source reading, and
// appends the reading's weight sample to the history window.
func (s *Store) SetSnapshot(reading *model.TelemetryReading, result *EvaluationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reading = reading
	s.latest = result

	if sample, ok := reading.Sample(model.MetricWeight); ok {
		s.weightHistory = append(s.weightHistory, sample)
		if len(s.weightHistory) > s.historyCap {
			s.weightHistory = s.weightHistory[len(s.weightHistory)-s.historyCap:]
		}
	}
}

// Latest returns the most recent evaluation result, or nil before the
// first poll completes.
func (s *Store) Latest() *EvaluationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Reading returns the most recent telemetry reading.
func (s *Store) Reading() *model.TelemetryReading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reading
}

// SetThresholds replaces the active threshold config wholesale. Partial
// mutation is not supported: edits go through validation and come back
// as a full config.
func (s *Store) SetThresholds(cfg *model.ThresholdConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thresholds = cfg
}

// Thresholds returns the active threshold config, or nil before the
// first fetch.
func (s *Store) Thresholds() *model.ThresholdConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thresholds
}

// SetEvents replaces the cached recent events.
func (s *Store) SetEvents(events []*model.HiveEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// Events returns the cached recent events.
func (s *Store) Events() []*model.HiveEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// WeightHistory returns a copy of the retained weight samples in
// chronological order.
func (s *Store) WeightHistory() []model.MetricSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.MetricSample, len(s.weightHistory))
	copy(out, s.weightHistory)
	return out
}
