package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// writeTempConfig creates a minimal configuration file required for
// LoadConfig and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

const minimalYAML = `itbitflow:
  name: "TestApp"
  version: "1.0"
exchange:
  key: "k"
  secret: "s"
  wallet_id: "w"
`

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, minimalYAML)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Itbitflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Itbitflow.Name)
	}
	if cfg.Exchange.Server != DefaultServer {
		t.Errorf("server default not applied: %s", cfg.Exchange.Server)
	}
	if cfg.Exchange.TimeRangeBeforeCreated != time.Minute {
		t.Errorf("unexpected before window: %v", cfg.Exchange.TimeRangeBeforeCreated)
	}
	if cfg.Exchange.TimeRangeAfterCreated != 30*time.Minute {
		t.Errorf("unexpected after window: %v", cfg.Exchange.TimeRangeAfterCreated)
	}
	if cfg.Exchange.RateLimit.RequestsPerSecond != 5 {
		t.Errorf("rate limit default not applied: %d", cfg.Exchange.RateLimit.RequestsPerSecond)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, minimalYAML)

	t.Setenv("ITBIT_KEY", "env-key")
	t.Setenv("ITBIT_SECRET", "env-secret")
	t.Setenv("ITBIT_WALLET_ID", "env-wallet")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Exchange.Key != "env-key" {
		t.Errorf("key not overridden: %s", cfg.Exchange.Key)
	}
	if cfg.Exchange.Secret != "env-secret" {
		t.Errorf("secret not overridden: %s", cfg.Exchange.Secret)
	}
	if cfg.Exchange.WalletID != "env-wallet" {
		t.Errorf("wallet id not overridden: %s", cfg.Exchange.WalletID)
	}
}

func TestLoadConfigMissingName(t *testing.T) {
	path := writeTempConfig(t, `itbitflow:
  version: "1.0"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for missing name")
	} else if !strings.Contains(err.Error(), "itbitflow.name") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfigBadWatchPair(t *testing.T) {
	path := writeTempConfig(t, minimalYAML+`watch:
  pairs: ["BTC"]
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for short pair")
	}
}

func TestLoadConfigInvalidServer(t *testing.T) {
	path := writeTempConfig(t, `itbitflow:
  name: "TestApp"
  version: "1.0"
exchange:
  server: "::not-a-url"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for invalid server URL")
	}
}

func TestAppEnvironmentDefault(t *testing.T) {
	t.Setenv(appEnvVar, "")
	if env := AppEnvironment(); env != EnvironmentDevelopment {
		t.Errorf("unexpected environment: %s", env)
	}
	t.Setenv(appEnvVar, "prod")
	if env := AppEnvironment(); env != EnvironmentProduction {
		t.Errorf("alias not resolved: %s", env)
	}
}
