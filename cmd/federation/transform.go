package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/CBIIT/ccdi-dcc-federation-service/app"
	"github.com/CBIIT/ccdi-dcc-federation-service/config"
)

var transformRulesPath string

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform a JSON document from stdin",
	Long: `Read one JSON document from stdin, apply the rule file, and write
the mutated document to stdout.

Examples:
  federation transform --rules rules.yaml < subject.json
  cat subject.json | federation transform -r rules.yaml | jq .`,
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVarP(&transformRulesPath, "rules", "r", "", "rule file path (defaults to rules.path from config)")
}

func runTransform(cmd *cobra.Command, args []string) error {
	path := transformRulesPath
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

	var doc any
	if err := json.NewDecoder(os.Stdin).Decode(&doc); err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	transformer := app.NewTransformer(zerolog.Nop(), nil)
	result := transformer.Apply(doc, rs)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
