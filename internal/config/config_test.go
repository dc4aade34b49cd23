package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"STORE_DRIVER", "TIMEZONE", "REACTIVATION_POLICY", "SWEEP_CRON", "APP_PORT"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Port != "8080" || cfg.SweepCron != "@every 1m" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.ReactivationPolicy != PolicyRequireFutureEnd || cfg.Location.String() != "Europe/Berlin" {
		t.Fatalf("policy %q location %v", cfg.ReactivationPolicy, cfg.Location)
	}
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	cases := map[string][2]string{
		"driver":   {"STORE_DRIVER", "postgres"},
		"policy":   {"REACTIVATION_POLICY", "sometimes"},
		"timezone": {"TIMEZONE", "Mars/Olympus"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s accepted", kv[0], kv[1])
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "notanint")
	t.Setenv("X_DUR", "90s")
	if envBool("X_BOOL", true) {
		t.Fatal("off should be false")
	}
	if envInt("X_INT", 7) != 7 {
		t.Fatal("invalid int should fall back")
	}
	if envDur("X_DUR", time.Second) != 90*time.Second {
		t.Fatal("duration not parsed")
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("WORKSHOP_TEST_KEY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WORKSHOP_TEST_KEY", "")
	os.Unsetenv("WORKSHOP_TEST_KEY")
	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("WORKSHOP_TEST_KEY"); got != "from-file" {
		t.Fatalf("got %q", got)
	}
}

func TestRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 || cfg.TTL != 10*time.Second {
		t.Fatalf("clamps not applied: %+v", cfg)
	}
}
