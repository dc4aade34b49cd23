package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Reactivation policies accepted in REACTIVATION_POLICY.
const (
	PolicyRequireFutureEnd = "require-future-end"
	PolicyResweep          = "resweep"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable; every variable has a default so a bare
// `go run ./cmd/server` starts against a local SQLite file.
type Config struct {
	Env                string         // APP_ENV (dev/test/prod)
	Port               string         // APP_PORT
	Store              StoreConfig    // STORE_* / DB_* / SQLITE_PATH
	Redis              RedisConfig    // REDIS_*
	RabbitURL          string         // RABBITMQ_URL (or AMQP_URL); empty disables booking events
	Timezone           string         // TIMEZONE, IANA name used for display formatting
	Location           *time.Location // resolved Timezone
	SweepCron          string         // SWEEP_CRON, cron spec for the background expiry sweep
	ReactivationPolicy string         // REACTIVATION_POLICY
	SeedDemo           bool           // SEED_DEMO, create a demo slot on first start
	RateLimit          RateLimitConfig
}

// StoreConfig selects and parameterises the key-value backend.
type StoreConfig struct {
	Driver     string
	SQLitePath string
	Prefix     string // key prefix for the redis backend
	DBUser     string
	DBPass     string
	DBHost     string
	DBPort     string
	DBName     string
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none
// are given) into the process environment.  Missing files are ignored and
// variables already set win.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// Load builds a Config from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Env:  envStr("APP_ENV", "dev"),
		Port: envStr("APP_PORT", "8080"),
		Store: StoreConfig{
			Driver:     strings.ToLower(envStr("STORE_DRIVER", DriverSQLite)),
			SQLitePath: envStr("SQLITE_PATH", "data/workshop.db"),
			Prefix:     envStr("STORE_PREFIX", "workshop:"),
			DBUser:     envStr("DB_USER", "root"),
			DBPass:     os.Getenv("DB_PASS"),
			DBHost:     envStr("DB_HOST", "127.0.0.1"),
			DBPort:     envStr("DB_PORT", "3306"),
			DBName:     envStr("DB_NAME", "workshop"),
		},
		Redis:              LoadRedisConfig(),
		RabbitURL:          firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		Timezone:           envStr("TIMEZONE", "Europe/Berlin"),
		SweepCron:          envStr("SWEEP_CRON", "@every 1m"),
		ReactivationPolicy: strings.ToLower(envStr("REACTIVATION_POLICY", PolicyRequireFutureEnd)),
		SeedDemo:           envBool("SEED_DEMO", true),
		RateLimit:          LoadRateLimitConfig(),
	}

	switch cfg.Store.Driver {
	case DriverSQLite, DriverMySQL, DriverRedis, DriverMemory:
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
	switch cfg.ReactivationPolicy {
	case PolicyRequireFutureEnd, PolicyResweep:
	default:
		return cfg, fmt.Errorf("unknown REACTIVATION_POLICY %q", cfg.ReactivationPolicy)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
