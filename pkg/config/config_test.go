package config

import (
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("AI_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != DriverPostgres || cfg.APIPort == 0 || cfg.AI.Timeout != 30*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"memory driver", func(c *Config) { c.StoreDriver = DriverMemory }, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "sqlite" }, true},
		{"bad timezone", func(c *Config) { c.EventTimezone = "Mars/Olympus" }, true},
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"ai disabled ignores timeout", func(c *Config) { c.AI.Enabled = false; c.AI.Timeout = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadWithDefaults()
			cfg.JWTSecret = testSecret
			cfg.StoreDriver = DriverPostgres
			cfg.EventTimezone = "UTC"
			cfg.RequestTimeout = time.Minute
			cfg.ShutdownTimeout = time.Minute
			cfg.JWTExpiry = time.Hour
			cfg.AI.Enabled = true
			cfg.AI.Timeout = time.Second
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetListEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	got := getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"})
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("getListEnv = %v", got)
	}
}

// **Feature: event-planner, Property: Integer env parsing**
// Any integer written to the environment is read back; garbage falls back to
// the default.
func TestGetIntEnv(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("integers round-trip", prop.ForAll(
		func(n int) bool {
			t.Setenv("TEST_INT_ENV", strconv.Itoa(n))
			return getIntEnv("TEST_INT_ENV", -1) == n
		},
		gen.IntRange(0, 1<<20),
	))

	properties.Property("non-numeric falls back", prop.ForAll(
		func(s string) bool {
			t.Setenv("TEST_INT_ENV", "x"+s)
			return getIntEnv("TEST_INT_ENV", 7) == 7
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
