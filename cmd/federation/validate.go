package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CBIIT/ccdi-dcc-federation-service/config"
)

var validateRulesPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the rule file without serving",
	Long: `Parse and validate the rule file. Validation is all-or-nothing:
any malformed rule rejects the entire file, exactly as a running server
would reject it at reload time.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateRulesPath, "rules", "r", "", "rule file path (defaults to rules.path from config)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := validateRulesPath
	if path == "" {
		cfg, err := config.LoadWithFallback(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		path = cfg.Rules.Path
	}

	rs, err := config.LoadRules(path)
	if err != nil {
		return fmt.Errorf("rule file invalid: %w", err)
	}

	fmt.Printf("rule file OK: %d rules\n", rs.Len())
	for _, id := range rs.IDs() {
		fmt.Printf("  - %s\n", id)
	}
	return nil
}
