package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/CBIIT/ccdi-dcc-federation-service/adapters/clock"
	"github.com/CBIIT/ccdi-dcc-federation-service/adapters/sqlite"
	"github.com/CBIIT/ccdi-dcc-federation-service/app"
	"github.com/CBIIT/ccdi-dcc-federation-service/config"
)

var batchDryRun bool

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Rewrite every stored document with the rule file",
	Long: `Apply the rule file to every document in the SQLite store and write
the results back. Each document is transformed independently; a document
the rules do not match is rewritten unchanged.

Examples:
  federation batch
  federation batch --dry-run`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "transform without writing back")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if cfg.Database.Driver != "sqlite" {
		return fmt.Errorf("batch requires database.driver sqlite, got %q", cfg.Database.Driver)
	}

	rs, err := config.LoadRules(cfg.Rules.Path)
	if err != nil {
		return fmt.Errorf("rule file invalid: %w", err)
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store := sqlite.NewDocumentStore(db, clock.Real{})
	transformer := app.NewTransformer(zerolog.Nop(), nil)
	ctx := context.Background()

	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	for _, id := range ids {
		doc, err := store.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", id, err)
		}
		result := transformer.Apply(doc, rs)
		if batchDryRun {
			continue
		}
		if err := store.Put(ctx, id, result); err != nil {
			return fmt.Errorf("store %s: %w", id, err)
		}
	}

	if batchDryRun {
		fmt.Printf("dry run: %d documents transformed, none written\n", len(ids))
	} else {
		fmt.Printf("%d documents rewritten with %d rules\n", len(ids), rs.Len())
	}
	return nil
}
