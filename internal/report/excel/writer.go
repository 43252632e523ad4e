// Package excel generates Excel snapshot reports for the hive dashboard:
// the evaluated gauges, the active threshold bands, and any alerts.
package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"hivewatch/internal/model"
	"hivewatch/internal/service"
)

const (
	sheetGauges     = "Gauges"
	sheetThresholds = "Thresholds"
	sheetAlerts     = "Alerts"

	defaultSheet = "Sheet1"

	// Colors for conditional formatting (RGB without #)
	colorHeaderBg   = "4472C4"
	colorHeaderFg   = "FFFFFF"
	colorSafeBg     = "C6EFCE"
	colorSafeFg     = "006100"
	colorWarningBg  = "FFEB9C"
	colorWarningFg  = "9C6500"
	colorCriticalBg = "FFC7CE"
	colorCriticalFg = "9C0006"
)

// Writer renders snapshot reports as .xlsx files.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a Writer. A nil timezone defaults to UTC.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Writer{timezone: timezone}
}

// Write generates the report file from an evaluated snapshot.
func (w *Writer) Write(result *service.EvaluationResult, thresholds *model.ThresholdConfig, outputPath string) error {
	if result == nil {
		return fmt.Errorf("evaluation result is nil")
	}
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	if err := w.writeGaugesSheet(f, styles, result); err != nil {
		return fmt.Errorf("failed to create gauges sheet: %w", err)
	}
	if err := w.writeThresholdsSheet(f, styles, thresholds); err != nil {
		return fmt.Errorf("failed to create thresholds sheet: %w", err)
	}
	if err := w.writeAlertsSheet(f, styles, result); err != nil {
		return fmt.Errorf("failed to create alerts sheet: %w", err)
	}

	f.DeleteSheet(defaultSheet)
	if idx, err := f.GetSheetIndex(sheetGauges); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// styleSet holds the shared cell styles.
type styleSet struct {
	header   int
	safe     int
	warning  int
	critical int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: colorHeaderFg},
		Fill: excelize.Fill{Type: "pattern", Color: []string{colorHeaderBg}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}

	severityStyle := func(bg, fg string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Color: fg},
			Fill: excelize.Fill{Type: "pattern", Color: []string{bg}, Pattern: 1},
		})
	}
	safe, err := severityStyle(colorSafeBg, colorSafeFg)
	if err != nil {
		return nil, err
	}
	warning, err := severityStyle(colorWarningBg, colorWarningFg)
	if err != nil {
		return nil, err
	}
	critical, err := severityStyle(colorCriticalBg, colorCriticalFg)
	if err != nil {
		return nil, err
	}

	return &styleSet{header: header, safe: safe, warning: warning, critical: critical}, nil
}

func (s *styleSet) forSeverity(sev model.Severity) int {
	switch sev {
	case model.SeverityCritical:
		return s.critical
	case model.SeverityWarning:
		return s.warning
	default:
		return s.safe
	}
}

func (w *Writer) writeGaugesSheet(f *excelize.File, styles *styleSet, result *service.EvaluationResult) error {
	if _, err := f.NewSheet(sheetGauges); err != nil {
		return err
	}
	f.SetColWidth(sheetGauges, "A", "B", 18)
	f.SetColWidth(sheetGauges, "C", "G", 14)

	headers := []string{"Metric", "Value", "Severity", "Percent", "Unit", "Rate Based", "Recorded At"}
	if err := writeHeaderRow(f, sheetGauges, styles.header, headers); err != nil {
		return err
	}

	for i, g := range result.Gauges {
		row := i + 2
		setRow(f, sheetGauges, row, []interface{}{
			g.DisplayName,
			g.FormattedValue,
			string(g.Severity),
			fmt.Sprintf("%.1f%%", g.Percent),
			g.Unit,
			g.RateBased,
			g.RecordedAt.In(w.timezone).Format("2006-01-02 15:04:05"),
		})
		cell := fmt.Sprintf("C%d", row)
		f.SetCellStyle(sheetGauges, cell, cell, styles.forSeverity(g.Severity))
	}
	return nil
}

func (w *Writer) writeThresholdsSheet(f *excelize.File, styles *styleSet, thresholds *model.ThresholdConfig) error {
	if _, err := f.NewSheet(sheetThresholds); err != nil {
		return err
	}
	f.SetColWidth(sheetThresholds, "A", "A", 18)
	f.SetColWidth(sheetThresholds, "B", "G", 13)

	headers := []string{"Metric", "Normal Min", "Normal Max", "Warning Min", "Warning Max", "Critical Min", "Critical Max"}
	if err := writeHeaderRow(f, sheetThresholds, styles.header, headers); err != nil {
		return err
	}

	if thresholds == nil {
		return nil
	}
	row := 2
	for _, name := range sortedMetricNames(thresholds) {
		ts := thresholds.Metrics[name]
		setRow(f, sheetThresholds, row, []interface{}{
			name, ts.NormalMin, ts.NormalMax, ts.WarningMin, ts.WarningMax, ts.CriticalMin, ts.CriticalMax,
		})
		row++
	}
	return nil
}

func (w *Writer) writeAlertsSheet(f *excelize.File, styles *styleSet, result *service.EvaluationResult) error {
	if _, err := f.NewSheet(sheetAlerts); err != nil {
		return err
	}
	f.SetColWidth(sheetAlerts, "A", "B", 18)
	f.SetColWidth(sheetAlerts, "C", "E", 14)
	f.SetColWidth(sheetAlerts, "F", "F", 40)

	headers := []string{"Hive", "Metric", "Severity", "Value", "At", "Message"}
	if err := writeHeaderRow(f, sheetAlerts, styles.header, headers); err != nil {
		return err
	}

	for i, a := range result.Alerts {
		row := i + 2
		setRow(f, sheetAlerts, row, []interface{}{
			a.HiveID,
			a.MetricDisplayName,
			string(a.Severity),
			a.FormattedValue,
			a.At.In(w.timezone).Format("2006-01-02 15:04:05"),
			a.Message,
		})
		cell := fmt.Sprintf("C%d", row)
		f.SetCellStyle(sheetAlerts, cell, cell, styles.forSeverity(a.Severity))
	}
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, style int, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	f.SetRowHeight(sheet, 1, 22)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, v)
	}
}

func sortedMetricNames(thresholds *model.ThresholdConfig) []string {
	names := make([]string, 0, len(thresholds.Metrics))
	for name := range thresholds.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
