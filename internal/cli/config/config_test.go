package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	// Test loading with no config file (should use defaults)
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config to be non-nil")
	}

	if cfg.Catalog != "catalog.yaml" {
		t.Errorf("expected default catalog 'catalog.yaml', got %s", cfg.Catalog)
	}

	if cfg.Store.Driver != "memory" {
		t.Errorf("expected default driver 'memory', got %s", cfg.Store.Driver)
	}

	if cfg.Store.Redis.Addr != "localhost:6379" {
		t.Errorf("expected default redis addr 'localhost:6379', got %s", cfg.Store.Redis.Addr)
	}

	if cfg.Decode.CoercionPolicy != "fail" {
		t.Errorf("expected default coercion policy 'fail', got %s", cfg.Decode.CoercionPolicy)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
catalog: schema/catalog.yaml
log:
  level: debug
decode:
  coercion_policy: skip
store:
  driver: redis
  prefix: "orders:"
  redis:
    addr: cache:6380
    db: 2
`
	if err := os.WriteFile(filepath.Join(tmpDir, "docbridge.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Catalog != "schema/catalog.yaml" {
		t.Errorf("expected catalog 'schema/catalog.yaml', got %s", cfg.Catalog)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Log.Level)
	}
	if cfg.Decode.CoercionPolicy != "skip" {
		t.Errorf("expected coercion policy 'skip', got %s", cfg.Decode.CoercionPolicy)
	}
	if cfg.Store.Redis.Addr != "cache:6380" || cfg.Store.Redis.DB != 2 {
		t.Errorf("unexpected redis config: %+v", cfg.Store.Redis)
	}
	if cfg.Store.Prefix != "orders:" {
		t.Errorf("expected prefix 'orders:', got %s", cfg.Store.Prefix)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DOCBRIDGE_STORE_DRIVER", "sqlite3")
	t.Setenv("DOCBRIDGE_STORE_DSN", "file:test.db")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Store.Driver != "sqlite3" {
		t.Errorf("expected driver 'sqlite3', got %s", cfg.Store.Driver)
	}
	if cfg.Store.DSN != "file:test.db" {
		t.Errorf("expected dsn 'file:test.db', got %s", cfg.Store.DSN)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Store: StoreConfig{Driver: "memory"}, Decode: DecodeConfig{CoercionPolicy: "fail"}}, false},
		{"unknown driver", Config{Store: StoreConfig{Driver: "mongo"}, Decode: DecodeConfig{CoercionPolicy: "fail"}}, true},
		{"postgres without dsn", Config{Store: StoreConfig{Driver: "postgres"}, Decode: DecodeConfig{CoercionPolicy: "fail"}}, true},
		{"bad policy", Config{Store: StoreConfig{Driver: "memory"}, Decode: DecodeConfig{CoercionPolicy: "retry"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
