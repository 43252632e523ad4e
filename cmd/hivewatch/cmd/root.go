// Package cmd provides CLI commands for the hive dashboard.
package cmd

import (
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information, injected at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Global flags
var (
	cfgFile     string // Config file path
	metricsFile string // Metric table path
	logLevel    string // Log level
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hivewatch",
	Short: "Beehive telemetry dashboard backend",
	Long: `hivewatch polls a beehive telemetry API, classifies every metric
against its configured thresholds, and serves the evaluated gauges to
dashboard frontends over REST and websocket.

Data flow: hive sensors -> telemetry API -> hivewatch -> dashboard

Main features:
  - Polls the latest telemetry snapshot and hive event feed
  - Classifies each metric as safe, warning or critical
  - Derives gauge segment layouts for the dashboard arcs
  - Detects robbery-grade weight drops and daily weight trends
  - Pushes live updates and alert transitions over websocket
  - Exports one-shot Excel snapshot reports`,
	Version: Version,
	// Run displays help when called without any subcommands
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&metricsFile, "metrics", "m", "configs/metrics.yaml", "metric table path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// setupLogger creates a zerolog logger with the specified level and format.
func setupLogger(level string, format string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	var output io.Writer
	if format == "json" {
		output = os.Stderr
	} else {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// effectiveLogLevel prefers the --log-level flag over the config file.
func effectiveLogLevel(configured string) string {
	if logLevel != "info" {
		return logLevel
	}
	return configured
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	return Version + "\n" +
		"Build Time: " + BuildTime + "\n" +
		"Git Commit: " + GitCommit + "\n" +
		"Go Version: " + runtime.Version() + "\n" +
		"OS/Arch: " + runtime.GOOS + "/" + runtime.GOARCH
}
