// Package bootstrap wires configuration, adapters, the rule engine, and
// the HTTP server into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/CBIIT/ccdi-dcc-federation-service/adapters/clock"
	"github.com/CBIIT/ccdi-dcc-federation-service/adapters/idgen"
	"github.com/CBIIT/ccdi-dcc-federation-service/adapters/memory"
	"github.com/CBIIT/ccdi-dcc-federation-service/adapters/metrics"
	"github.com/CBIIT/ccdi-dcc-federation-service/adapters/sqlite"
	"github.com/CBIIT/ccdi-dcc-federation-service/app"
	"github.com/CBIIT/ccdi-dcc-federation-service/config"
	"github.com/CBIIT/ccdi-dcc-federation-service/domain/rule"
	"github.com/CBIIT/ccdi-dcc-federation-service/ports"
	"github.com/CBIIT/ccdi-dcc-federation-service/web"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// App holds the wired application.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Rules      *config.RulesHolder
	Store      ports.DocumentStore
	HTTPServer *http.Server

	db *sqlite.DB
}

// New builds the application from configuration.
func New(cfg *config.Config) (*App, error) {
	logger := setupLogger(cfg.Logging)

	rules, err := config.NewRulesHolder(cfg.Rules.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("init rules: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Rules:  rules,
	}

	var collector *metrics.Collector
	var engineMetrics ports.TransformMetrics
	if cfg.Metrics.Enabled {
		collector = metrics.New()
		engineMetrics = collector
		collector.ActiveRules.Set(float64(rules.Get().Len()))
		c := collector
		rules.OnSwap(func(rs *rule.RuleSet) {
			c.ActiveRules.Set(float64(rs.Len()))
		})
	}

	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.db = db
		a.Store = sqlite.NewDocumentStore(db, clock.Real{})
	default:
		a.Store = memory.NewDocumentStore()
	}

	transformer := app.NewTransformer(logger, engineMetrics)
	handler := web.NewHandler(transformer, rules, a.Store, idgen.UUID{}, engineMetrics, logger, Version)

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      web.Router(handler, logger, collector, cfg.Metrics.Path),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return a, nil
}

// Run starts the server and blocks until shutdown.
func (a *App) Run() error {
	if a.Config.Rules.HotReload {
		if err := a.Rules.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("rule file watch unavailable")
		}
		a.Rules.WatchSignals()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Int("rules", a.Rules.Get().Len()).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	a.Rules.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
