package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CBIIT/ccdi-dcc-federation-service/bootstrap"
	"github.com/CBIIT/ccdi-dcc-federation-service/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the federation HTTP server",
	Long: `Start the federation service.

The server will:
  - Load configuration from federation.yaml (or --config)
  - Or load configuration from FEDERATION_* environment variables
  - Load and validate the rule file, then publish it as the active snapshot
  - Serve the transform and document endpoints
  - Hot-reload the rule file on change or SIGHUP (rules.hot_reload)

Environment variables (for container deployments):
  FEDERATION_RULES_PATH       - Rule file path (required without config file)
  FEDERATION_SERVER_PORT      - Server port (default: 8080)
  FEDERATION_DATABASE_DRIVER  - memory or sqlite
  FEDERATION_DATABASE_PATH    - SQLite file path
  FEDERATION_LOG_LEVEL        - Log level: debug, info, warn, error

Examples:
  federation serve
  federation serve --config /etc/federation/config.yaml
  FEDERATION_RULES_PATH=rules.yaml federation serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	if !hasConfigFile && !config.HasEnvConfig() {
		fmt.Println("No configuration found.")
		fmt.Println()
		fmt.Printf("Option 1: Create %s\n", cfgFile)
		fmt.Println("Option 2: Set FEDERATION_RULES_PATH")
		fmt.Println()
		fmt.Println("Example (env vars):")
		fmt.Println("  FEDERATION_RULES_PATH=rules.yaml federation serve")
		return nil
	}

	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
