package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ingestor.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

const minimalYAML = `
instance:
  id: test-ingestor
angel:
  client_code: A123456
  pin: "0000"
  totp: "123456"
  api_key: test-key
subscription:
  exchanges:
    - exchange_type: 1
      tokens: ["2885"]
database:
  host: localhost
  name: test_db
  user: testuser
  password: testpass
`

func TestLoad(t *testing.T) {
	path := writeTempFile(t, minimalYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-ingestor" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-ingestor")
	}
	if cfg.Angel.ClientCode != "A123456" {
		t.Errorf("Angel.ClientCode = %q, want %q", cfg.Angel.ClientCode, "A123456")
	}
	if len(cfg.Subscription.Exchanges) != 1 || cfg.Subscription.Exchanges[0].Tokens[0] != "2885" {
		t.Errorf("Subscription.Exchanges = %+v, want one NSE entry with token 2885", cfg.Subscription.Exchanges)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_ANGEL_PIN", "9999")
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := strings.ReplaceAll(minimalYAML, `pin: "0000"`, "pin: ${TEST_ANGEL_PIN}")
	yaml = strings.ReplaceAll(yaml, "password: testpass", "password: ${TEST_DB_PASSWORD}")
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Angel.PIN != "9999" {
		t.Errorf("Angel.PIN = %q, want %q", cfg.Angel.PIN, "9999")
	}
	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, minimalYAML)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Angel.AuthURL != DefaultAuthURL {
		t.Errorf("Angel.AuthURL = %q, want default %q", cfg.Angel.AuthURL, DefaultAuthURL)
	}
	if cfg.Angel.WSURL != DefaultWSURL {
		t.Errorf("Angel.WSURL = %q, want default %q", cfg.Angel.WSURL, DefaultWSURL)
	}
	if cfg.Subscription.Mode != DefaultSubscriptionMode {
		t.Errorf("Subscription.Mode = %d, want default %d", cfg.Subscription.Mode, DefaultSubscriptionMode)
	}
	if cfg.Stream.ReadTimeout != 30*time.Second {
		t.Errorf("Stream.ReadTimeout = %v, want 30s", cfg.Stream.ReadTimeout)
	}
	if cfg.Stream.PongTimeout != 10*time.Second {
		t.Errorf("Stream.PongTimeout = %v, want 10s", cfg.Stream.PongTimeout)
	}
	if cfg.Stream.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("Stream.MaxAttempts = %d, want %d", cfg.Stream.MaxAttempts, DefaultMaxAttempts)
	}
	if cfg.Pipeline.Cooldown != 10*time.Second {
		t.Errorf("Pipeline.Cooldown = %v, want 10s", cfg.Pipeline.Cooldown)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want %d", cfg.Metrics.Port, DefaultMetricsPort)
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, minimalYAML)

	if _, err := LoadAndValidate(path); err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *IngestorConfig)
		wantSub string
	}{
		{"missing instance id", func(c *IngestorConfig) { c.Instance.ID = "" }, "instance.id"},
		{"missing client code", func(c *IngestorConfig) { c.Angel.ClientCode = "" }, "angel.client_code"},
		{"missing totp", func(c *IngestorConfig) { c.Angel.TOTP = "" }, "angel.totp"},
		{"missing api key", func(c *IngestorConfig) { c.Angel.APIKey = "" }, "angel.api_key"},
		{"bad mode", func(c *IngestorConfig) { c.Subscription.Mode = 9 }, "subscription.mode"},
		{"no exchanges", func(c *IngestorConfig) { c.Subscription.Exchanges = nil }, "subscription.exchanges"},
		{"empty tokens", func(c *IngestorConfig) { c.Subscription.Exchanges[0].Tokens = nil }, "tokens"},
		{"missing db host", func(c *IngestorConfig) { c.Database.Host = "" }, "database.host"},
		{"min over max conns", func(c *IngestorConfig) { c.Database.MinConns = 20 }, "min_conns"},
		{"zero max attempts", func(c *IngestorConfig) { c.Stream.MaxAttempts = -1 }, "max_attempts"},
		{"base over max delay", func(c *IngestorConfig) {
			c.Stream.ReconnectBaseDelay = 2 * time.Minute
		}, "reconnect_base_delay"},
		{"bad metrics port", func(c *IngestorConfig) { c.Metrics.Port = 70000 }, "metrics.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWithDefaults(writeTempFile(t, minimalYAML))
			if err != nil {
				t.Fatalf("LoadWithDefaults failed: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if err == nil {
				t.Fatal("Validate should fail")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load should fail for a missing file")
	}
}
