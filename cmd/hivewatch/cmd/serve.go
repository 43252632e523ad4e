package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hivewatch/internal/client/hive"
	"hivewatch/internal/config"
	"hivewatch/internal/gauge"
	"hivewatch/internal/server"
	"hivewatch/internal/service"
	"hivewatch/internal/ws"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server",
	Long: `Run the dashboard server: poll the upstream hive API on an
interval, evaluate every telemetry snapshot against the threshold
config, and serve the results over REST and websocket.

Examples:
  # Run with the default config
  hivewatch serve -c configs/config.yaml

  # Run with a custom metric table and debug logging
  hivewatch serve -c configs/config.yaml -m configs/metrics.yaml --log-level debug`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		tmpLogger := setupLogger("error", "console")
		tmpLogger.Error().Err(err).Str("path", cfgFile).Msg("failed to load config")
		os.Exit(1)
	}

	logger := setupLogger(effectiveLogLevel(cfg.Logging.Level), cfg.Logging.Format)
	logger.Info().
		Str("version", Version).
		Str("config", cfgFile).
		Str("upstream", cfg.Upstream.Endpoint).
		Msg("starting hivewatch")

	specs, err := config.LoadMetrics(metricsFile)
	if err != nil {
		logger.Error().Err(err).Str("path", metricsFile).Msg("failed to load metric table")
		os.Exit(1)
	}
	table := config.NewMetricTable(specs)
	logger.Info().Int("metrics", table.Len()).Msg("metric table loaded")

	client := hive.NewClient(&cfg.Upstream, &cfg.HTTP.Retry, logger)

	// The weight rate rules live in the upstream threshold store; fetch
	// them once before the evaluator is wired.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	thresholds, err := client.Thresholds(bootCtx)
	bootCancel()
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch threshold config from upstream")
		os.Exit(1)
	}

	weightEval, err := gauge.NewWeightEvaluatorWithWindows(
		thresholds.Weight, cfg.Weight.RobberyWindow, cfg.Weight.DailyWindow)
	if err != nil {
		logger.Error().Err(err).Msg("invalid weight windows")
		os.Exit(1)
	}

	store := service.NewStore(cfg.Weight.HistorySize)
	evaluator := service.NewEvaluator(table, weightEval, logger)
	hub := ws.NewHub(logger)
	poller := service.NewPoller(client, store, evaluator, hub,
		cfg.Polling.Interval, cfg.Polling.EventsLimit, logger)
	srv := server.NewServer(&cfg.Server, store, table, client, hub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return poller.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("server exited with error")
		fmt.Fprintf(os.Stderr, "hivewatch exited: %v\n", err)
		os.Exit(1)
	}
	logger.Info().Msg("hivewatch stopped")
}
