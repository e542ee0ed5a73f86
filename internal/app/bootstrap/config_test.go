package bootstrap

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		old, had := os.LookupEnv(name)
		os.Unsetenv(name)
		t.Cleanup(func() {
			if had {
				os.Setenv(name, old)
			}
		})
	}
}

func TestLoadConfig_MissingFileFallsBackToBuiltinDefaults(t *testing.T) {
	clearEnv(t, "DB_URL", "POSTGRES_URL", "REDIS_URL", "JWT_SECRET", "DEGRADED_MODE", "HTTP_PORT")
	cfg, err := LoadConfig("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceID != "credit-intelligence-engine" {
		t.Errorf("expected the default service id, got %q", cfg.ServiceID)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("expected the default http port, got %d", cfg.HTTPPort)
	}
	if !cfg.DegradedMode {
		t.Error("expected degraded mode to default to true")
	}
	if cfg.JWTSecret != "dev-only-jwt-secret" {
		t.Errorf("expected the degraded-mode dev jwt secret, got %q", cfg.JWTSecret)
	}
}

func TestLoadConfig_RejectsMissingDBWhenNotDegraded(t *testing.T) {
	clearEnv(t, "DB_URL", "POSTGRES_URL", "REDIS_URL", "JWT_SECRET")
	os.Setenv("DEGRADED_MODE", "false")
	t.Cleanup(func() { os.Unsetenv("DEGRADED_MODE") })

	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected an error when DB_URL is unset and degraded mode is disabled")
	}
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t, "DB_URL", "POSTGRES_URL", "REDIS_URL", "JWT_SECRET", "HTTP_PORT")
	os.Setenv("HTTP_PORT", "9090")
	os.Setenv("JWT_SECRET", "super-secret")
	t.Cleanup(func() {
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("JWT_SECRET")
	})

	cfg, err := LoadConfig("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("expected HTTP_PORT env override to apply, got %d", cfg.HTTPPort)
	}
	if cfg.JWTSecret != "super-secret" {
		t.Errorf("expected JWT_SECRET env override to apply, got %q", cfg.JWTSecret)
	}
}

func TestEnvOrDefault_FallsBackWhenUnset(t *testing.T) {
	clearEnv(t, "TEST_ENV_OR_DEFAULT")
	if got := envOrDefault("TEST_ENV_OR_DEFAULT", "fallback"); got != "fallback" {
		t.Errorf("expected fallback value, got %q", got)
	}
}

func TestEnvInt_IgnoresUnparsableValue(t *testing.T) {
	os.Setenv("TEST_ENV_INT", "not-a-number")
	t.Cleanup(func() { os.Unsetenv("TEST_ENV_INT") })
	if got := envInt("TEST_ENV_INT", 42); got != 42 {
		t.Errorf("expected fallback on unparsable int, got %d", got)
	}
}

func TestEnvBool_RecognisesTruthyAndFalsyStrings(t *testing.T) {
	cases := map[string]bool{"1": true, "true": true, "YES": true, "0": false, "false": false, "NO": false}
	for raw, want := range cases {
		os.Setenv("TEST_ENV_BOOL", raw)
		if got := envBool("TEST_ENV_BOOL", !want); got != want {
			t.Errorf("envBool(%q) = %v, want %v", raw, got, want)
		}
	}
	os.Unsetenv("TEST_ENV_BOOL")
}

func TestEnvBool_FallsBackOnUnrecognisedValue(t *testing.T) {
	os.Setenv("TEST_ENV_BOOL", "maybe")
	t.Cleanup(func() { os.Unsetenv("TEST_ENV_BOOL") })
	if got := envBool("TEST_ENV_BOOL", true); got != true {
		t.Errorf("expected fallback true for an unrecognised value, got %v", got)
	}
}
