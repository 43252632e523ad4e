// Package model provides data models for the hive dashboard.
package model

import "time"

// AlertState marks whether an alert condition started or ended.
type AlertState string

const (
	AlertTriggered AlertState = "triggered"
	AlertCleared   AlertState = "cleared"
)

// Alert represents a threshold violation for one hive metric.
type Alert struct {
	ID                string     `json:"id"`
	HiveID            string     `json:"hive_id"`
	MetricID          string     `json:"metric_id"`
	MetricDisplayName string     `json:"metric_display_name"`
	CurrentValue      float64    `json:"current_value"`
	FormattedValue    string     `json:"formatted_value"`
	Severity          Severity   `json:"severity"`
	State             AlertState `json:"state"`
	Message           string     `json:"message"`
	At                time.Time  `json:"at"`
}

// IsWarning returns true if this alert is at warning severity.
func (a *Alert) IsWarning() bool {
	return a.Severity == SeverityWarning
}

// IsCritical returns true if this alert is at critical severity.
func (a *Alert) IsCritical() bool {
	return a.Severity == SeverityCritical
}

// AlertSummary provides aggregated alert statistics for a snapshot.
type AlertSummary struct {
	TotalAlerts   int `json:"total_alerts"`
	WarningCount  int `json:"warning_count"`
	CriticalCount int `json:"critical_count"`
}

// NewAlertSummary creates an AlertSummary from a list of alerts.
func NewAlertSummary(alerts []*Alert) *AlertSummary {
	summary := &AlertSummary{}
	for _, alert := range alerts {
		if alert == nil {
			continue
		}
		summary.TotalAlerts++
		switch alert.Severity {
		case SeverityWarning:
			summary.WarningCount++
		case SeverityCritical:
			summary.CriticalCount++
		}
	}
	return summary
}
