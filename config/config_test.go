package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CBIIT/ccdi-dcc-federation-service/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "federation.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
rules:
  path: rules.yaml
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("Database.Driver = %q, want memory", cfg.Database.Driver)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want info/console", cfg.Logging)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want /metrics", cfg.Metrics.Path)
	}
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
rules:
  path: /etc/federation/rules.yaml
  hot_reload: true
database:
  driver: sqlite
  path: /var/lib/federation.db
logging:
  level: debug
  format: json
metrics:
  enabled: true
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if !cfg.Rules.HotReload || cfg.Rules.Path != "/etc/federation/rules.yaml" {
		t.Errorf("Rules = %+v", cfg.Rules)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "/var/lib/federation.db" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FEDERATION_SERVER_PORT", "7070")
	t.Setenv("FEDERATION_LOG_LEVEL", "error")

	path := writeConfig(t, `
server:
  port: 9090
rules:
  path: rules.yaml
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error", cfg.Logging.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing rules path", `server: {port: 8080}`},
		{"bad port", "rules: {path: r.yaml}\nserver: {port: 99999}"},
		{"bad driver", "rules: {path: r.yaml}\ndatabase: {driver: postgres}"},
		{"bad log level", "rules: {path: r.yaml}\nlogging: {level: loud}"},
		{"bad log format", "rules: {path: r.yaml}\nlogging: {format: xml}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := config.Load(path); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FEDERATION_RULES_PATH", "rules.yaml")
	t.Setenv("FEDERATION_DATABASE_DRIVER", "sqlite")
	t.Setenv("FEDERATION_DATABASE_PATH", "fed.db")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Rules.Path != "rules.yaml" {
		t.Errorf("Rules.Path = %q", cfg.Rules.Path)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "fed.db" {
		t.Errorf("Database = %+v", cfg.Database)
	}
}
