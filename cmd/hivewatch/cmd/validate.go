package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hivewatch/internal/config"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config file and metric table",
	Long:  "Load and validate the config file and the metric table: format, required fields, value ranges and cross-field constraints.",
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	// Load internally calls Validate.
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ config validation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ config valid: %s\n", cfgFile)

	specs, err := config.LoadMetrics(metricsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ metric table validation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ metric table valid: %s (%d metrics)\n", metricsFile, len(specs))
}
