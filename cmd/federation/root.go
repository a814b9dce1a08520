package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "federation",
	Short: "Federation document service with declarative JSON mutation rules",
	Long: `The federation service rewrites JSON documents using an ordered,
hot-reloadable rule file: each rule targets document locations with a
path expression, optionally gates on a strictly-typed condition, and
applies one or more value transformations.

Quick start:
  federation validate   # Check the rule file
  federation serve      # Start the HTTP API

Tools:
  federation transform  # Transform a document from stdin
  federation batch      # Rewrite every document in the store`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "federation.yaml", "config file path")
}
