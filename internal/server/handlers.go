package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"hivewatch/internal/gauge"
	"hivewatch/internal/model"
)

// apiResponse is the envelope every JSON endpoint answers with, matching
// the upstream hive API shape so the frontend can share decoding code.
type apiResponse struct {
	Status string       `json:"status"`
	Error  string       `json:"error,omitempty"`
	Fields []fieldIssue `json:"fields,omitempty"`
	Data   interface{}  `json:"data,omitempty"`
}

// fieldIssue is one field-level validation failure in a 422 response.
type fieldIssue struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// thresholdUpdateRequest carries a threshold edit. For auto-adjusted
// metrics only the normal range is honored; metrics flagged for manual
// override may submit the full set instead.
type thresholdUpdateRequest struct {
	NormalMin float64             `json:"normal_min"`
	NormalMax float64             `json:"normal_max"`
	Set       *model.ThresholdSet `json:"set,omitempty"`
}

// handleGauges returns the latest evaluated snapshot.
func (s *Server) handleGauges(w http.ResponseWriter, r *http.Request) {
	result := s.store.Latest()
	if result == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no telemetry evaluated yet")
		return
	}
	s.writeData(w, result)
}

// handleTelemetry returns the latest raw reading.
func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	reading := s.store.Reading()
	if reading == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no telemetry received yet")
		return
	}
	s.writeData(w, reading)
}

// handleThresholds returns the current threshold config.
func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	thresholds := s.store.Thresholds()
	if thresholds == nil {
		s.writeError(w, http.StatusServiceUnavailable, "threshold config not loaded yet")
		return
	}
	s.writeData(w, thresholds)
}

// handleEvents returns the cached hive event feed.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, s.store.Events())
}

// handleThresholdUpdate applies a threshold edit: the submitted normal
// range is validated against the metric spec, expanded to a full
// contiguous set, persisted upstream and swapped into the local config.
func (s *Server) handleThresholdUpdate(w http.ResponseWriter, r *http.Request) {
	metricID := mux.Vars(r)["metric"]

	spec, ok := s.table.Get(metricID)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown metric %q", metricID))
		return
	}

	var req thresholdUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ts, err := s.resolveSet(spec, &req)
	if err != nil {
		var fieldErrs gauge.FieldErrors
		if errors.As(err, &fieldErrs) {
			s.writeFieldErrors(w, fieldErrs)
			return
		}
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	stored, err := s.upstream.UpdateThreshold(r.Context(), metricID, ts)
	if err != nil {
		s.logger.Error().Err(err).Str("metric", metricID).Msg("upstream threshold update failed")
		s.writeError(w, http.StatusBadGateway, "failed to persist threshold: "+err.Error())
		return
	}

	current := s.store.Thresholds()
	if current != nil {
		s.store.SetThresholds(current.WithSet(metricID, stored))
	}
	thresholdUpdates.WithLabelValues(metricID).Inc()

	s.logger.Info().
		Str("metric", metricID).
		Float64("normal_min", stored.NormalMin).
		Float64("normal_max", stored.NormalMax).
		Msg("threshold updated")

	s.writeData(w, stored)
}

// resolveSet turns an update request into a validated full threshold set.
func (s *Server) resolveSet(spec *model.MetricSpec, req *thresholdUpdateRequest) (model.ThresholdSet, error) {
	if spec.ManualOverride {
		if req.Set == nil {
			return model.ThresholdSet{}, fmt.Errorf("metric %q requires a full threshold set", spec.Name)
		}
		topology := spec.Topology
		if topology == model.TopologyRate {
			// Rate-based metrics keep range-shaped display thresholds.
			topology = model.TopologyRange
		}
		if err := gauge.ValidateSet(*req.Set, topology); err != nil {
			return model.ThresholdSet{}, err
		}
		return *req.Set, nil
	}
	return gauge.AutoAdjust(req.NormalMin, req.NormalMax, spec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]bool{
		"thresholds_loaded": s.store.Thresholds() != nil,
		"telemetry_seen":    s.store.Latest() != nil,
	}
	s.writeData(w, status)
}

func (s *Server) writeData(w http.ResponseWriter, data interface{}) {
	s.writeJSON(w, http.StatusOK, apiResponse{Status: "success", Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, apiResponse{Status: "error", Error: msg})
}

func (s *Server) writeFieldErrors(w http.ResponseWriter, errs gauge.FieldErrors) {
	issues := make([]fieldIssue, 0, len(errs))
	for _, fe := range errs {
		issues = append(issues, fieldIssue{Field: fe.Field, Tag: fe.Tag, Message: fe.Message})
	}
	s.writeJSON(w, http.StatusUnprocessableEntity, apiResponse{
		Status: "error",
		Error:  "threshold validation failed",
		Fields: issues,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
