package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"hivewatch/internal/client/hive"
	"hivewatch/internal/config"
	"hivewatch/internal/gauge"
	"hivewatch/internal/report/excel"
	"hivewatch/internal/service"
)

// Export flags
var (
	outputDir string // Output directory for reports
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a one-shot Excel snapshot report",
	Long: `Fetch the latest telemetry and threshold config from the
upstream API, evaluate it once, and write an Excel report with the
gauge states, threshold bands and active alerts.

Examples:
  # Export to ./reports
  hivewatch export -c configs/config.yaml

  # Export to a custom directory
  hivewatch export -c configs/config.yaml -o /tmp/reports`,
	Run: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "./reports", "output directory")
}

func runExport(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		tmpLogger := setupLogger("error", "console")
		tmpLogger.Error().Err(err).Str("path", cfgFile).Msg("failed to load config")
		os.Exit(1)
	}
	logger := setupLogger(effectiveLogLevel(cfg.Logging.Level), cfg.Logging.Format)

	specs, err := config.LoadMetrics(metricsFile)
	if err != nil {
		logger.Error().Err(err).Str("path", metricsFile).Msg("failed to load metric table")
		os.Exit(1)
	}
	table := config.NewMetricTable(specs)

	client := hive.NewClient(&cfg.Upstream, &cfg.HTTP.Retry, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	thresholds, err := client.Thresholds(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch threshold config")
		os.Exit(1)
	}
	reading, err := client.LatestTelemetry(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch telemetry")
		os.Exit(1)
	}

	// One-shot export has no history window: the weight gauge reports
	// its absolute value without rate assessment.
	evaluator := service.NewEvaluator(table, gauge.NewWeightEvaluator(thresholds.Weight), logger)
	result, err := evaluator.Evaluate(reading, thresholds, nil)
	if err != nil {
		logger.Error().Err(err).Msg("evaluation failed")
		os.Exit(1)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		logger.Error().Err(err).Str("path", outputDir).Msg("failed to create output directory")
		os.Exit(1)
	}

	filename := fmt.Sprintf("hive_snapshot_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	outputPath := filepath.Join(outputDir, filename)

	writer := excel.NewWriter(time.Local)
	if err := writer.Write(result, thresholds, outputPath); err != nil {
		logger.Error().Err(err).Str("path", outputPath).Msg("failed to write report")
		os.Exit(1)
	}

	logger.Info().Str("path", outputPath).Msg("report written")
	fmt.Printf("✅ %s\n", outputPath)

	if result.Summary.CriticalCount > 0 {
		os.Exit(2)
	}
	if result.Summary.WarningCount > 0 {
		os.Exit(1)
	}
}
