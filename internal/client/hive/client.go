// Package hive provides a client for the upstream hive telemetry API.
package hive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"hivewatch/internal/config"
	"hivewatch/internal/model"
)

// Client is a client for the hive telemetry/threshold/event API.
type Client struct {
	endpoint   string
	timeout    time.Duration
	retry      config.RetryConfig
	httpClient *resty.Client
	logger     zerolog.Logger
}

// NewClient creates a new hive API client.
func NewClient(cfg *config.UpstreamConfig, retryCfg *config.RetryConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retry := config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
	if retryCfg != nil {
		retry = *retryCfg
	}

	httpClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8).
		AddRetryCondition(retryCondition)

	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		timeout:    timeout,
		retry:      retry,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "hive-client").Logger(),
	}
}

// retryCondition determines whether a request should be retried.
// Only retry on timeout, 5xx errors, or connection failures.
// Do not retry on 4xx errors.
func retryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp != nil && resp.StatusCode() >= 500 {
		return true
	}
	return false
}

// LatestTelemetry fetches the most recent telemetry reading.
func (c *Client) LatestTelemetry(ctx context.Context) (*model.TelemetryReading, error) {
	resp, err := c.get(ctx, "/api/v1/telemetry/latest", nil)
	if err != nil {
		return nil, err
	}
	return resp.DecodeTelemetry()
}

// Thresholds fetches the full per-metric threshold record.
func (c *Client) Thresholds(ctx context.Context) (*model.ThresholdConfig, error) {
	resp, err := c.get(ctx, "/api/v1/thresholds", nil)
	if err != nil {
		return nil, err
	}
	return resp.DecodeThresholds()
}

// UpdateThreshold replaces the threshold set of one metric in the
// upstream store and returns the stored set.
func (c *Client) UpdateThreshold(ctx context.Context, metricID string, ts model.ThresholdSet) (model.ThresholdSet, error) {
	c.logger.Debug().
		Str("metric", metricID).
		Msg("updating threshold set")

	var result APIResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(ts).
		SetResult(&result).
		Put("/api/v1/thresholds/" + metricID)

	if err != nil {
		c.logger.Error().Err(err).Str("metric", metricID).Msg("threshold update failed")
		return model.ThresholdSet{}, fmt.Errorf("failed to update threshold for %s: %w", metricID, err)
	}
	if err := c.checkResponse(resp, &result); err != nil {
		return model.ThresholdSet{}, err
	}

	var stored model.ThresholdSet
	if err := decodeInto(result.Data, &stored); err != nil {
		return model.ThresholdSet{}, fmt.Errorf("failed to decode stored threshold set: %w", err)
	}
	return stored, nil
}

// Events fetches up to limit recent hive events, newest first.
func (c *Client) Events(ctx context.Context, limit int) ([]*model.HiveEvent, error) {
	params := map[string]string{}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	resp, err := c.get(ctx, "/api/v1/events", params)
	if err != nil {
		return nil, err
	}
	return resp.DecodeEvents()
}

// get executes a GET request and checks the response envelope.
func (c *Client) get(ctx context.Context, path string, params map[string]string) (*APIResponse, error) {
	var result APIResponse
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("hive API request failed")
		return nil, fmt.Errorf("hive API request failed: %w", err)
	}
	if err := c.checkResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// checkResponse validates HTTP status and the API-level envelope.
func (c *Client) checkResponse(resp *resty.Response, result *APIResponse) error {
	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("hive API returned non-200 status")
		return fmt.Errorf("hive API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	if !result.IsSuccess() {
		c.logger.Error().
			Str("error", result.Error).
			Msg("hive API returned error")
		return fmt.Errorf("hive API error: %s", result.Error)
	}
	return nil
}

func decodeInto(data []byte, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("empty payload")
	}
	return json.Unmarshal(data, v)
}
