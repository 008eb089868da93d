package config_test

import (
	"os"
	"testing"

	"github.com/km-arc/go-container/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func setEnv(t *testing.T, key, val string) {
	t.Helper()
	t.Setenv(key, val) // automatically restored after test
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	// No env set → verify all defaults
	cfg := config.Load("testdata/missing.env")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "GoContainer"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"Inspector.Prefix", cfg.Inspector.Prefix, "/_container"},
		{"Metrics.Path", cfg.Metrics.Path, "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	if !cfg.Inspector.Enabled || !cfg.Metrics.Enabled {
		t.Error("inspector and metrics should be enabled by default")
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	setEnv(t, "APP_NAME", "MyApp")
	setEnv(t, "APP_PORT", "9000")
	setEnv(t, "LOG_LEVEL", "debug")
	setEnv(t, "INSPECTOR_PREFIX", "/debug/container")
	setEnv(t, "METRICS_ENABLED", "false")

	cfg := config.Load()

	if cfg.App.Name != "MyApp" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "MyApp")
	}
	if cfg.App.Port != "9000" {
		t.Errorf("App.Port: got %q want %q", cfg.App.Port, "9000")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %q want %q", cfg.Log.Level, "debug")
	}
	if cfg.Inspector.Prefix != "/debug/container" {
		t.Errorf("Inspector.Prefix: got %q want %q", cfg.Inspector.Prefix, "/debug/container")
	}
	if cfg.Metrics.Enabled {
		t.Error("expected Metrics.Enabled to be false")
	}
}

func TestLoad_ProductionDefaultsToJSONLogs(t *testing.T) {
	setEnv(t, "APP_ENV", "production")
	cfg := config.Load()
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format: got %q want %q", cfg.Log.Format, "json")
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	t.Cleanup(func() {
		os.Unsetenv("CONFIG_TEST_FROM_FILE")
		os.Unsetenv("INSPECTOR_PREFIX_FILE_ONLY")
	})

	config.Load("testdata/app.env")

	if got := config.Get("CONFIG_TEST_FROM_FILE", ""); got != "loaded" {
		t.Errorf("got %q want %q", got, "loaded")
	}
}

func TestLoad_ProductionDisablesInspector(t *testing.T) {
	setEnv(t, "APP_ENV", "production")
	cfg := config.Load()
	if cfg.App.Debug {
		t.Error("App.Debug should default to false in production")
	}
	if cfg.Inspector.Enabled {
		t.Error("inspector should be off by default in production")
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should stay on in production")
	}
}

func TestLoad_ProductionDebugEnablesInspector(t *testing.T) {
	setEnv(t, "APP_ENV", "production")
	setEnv(t, "APP_DEBUG", "true")
	if !config.Load().Inspector.Enabled {
		t.Error("APP_DEBUG should turn the inspector on")
	}
}

func TestLoad_InspectorExplicitOverride(t *testing.T) {
	setEnv(t, "APP_ENV", "production")
	setEnv(t, "INSPECTOR_ENABLED", "true")
	if !config.Load().Inspector.Enabled {
		t.Error("INSPECTOR_ENABLED should win over the environment default")
	}
}

func TestLoad_AppDebug(t *testing.T) {
	setEnv(t, "APP_DEBUG", "false")
	if config.Load().App.Debug {
		t.Error("expected App.Debug to be false")
	}
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet_ReturnsValue(t *testing.T) {
	setEnv(t, "CUSTOM_KEY", "hello")
	if got := config.Get("CUSTOM_KEY", "default"); got != "hello" {
		t.Errorf("got %q want %q", got, "hello")
	}
}

func TestGet_ReturnsFallback(t *testing.T) {
	os.Unsetenv("MISSING_KEY")
	if got := config.Get("MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("got %q want %q", got, "fallback")
	}
}

func TestGetInt_ReturnsInt(t *testing.T) {
	setEnv(t, "SOME_INT", "42")
	if got := config.GetInt("SOME_INT", 0); got != 42 {
		t.Errorf("got %d want %d", got, 42)
	}
}

func TestGetInt_ReturnsFallbackOnInvalid(t *testing.T) {
	setEnv(t, "SOME_INT", "notanint")
	if got := config.GetInt("SOME_INT", 99); got != 99 {
		t.Errorf("got %d want %d", got, 99)
	}
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		setEnv(t, "BOOL_KEY", val)
		if !config.GetBool("BOOL_KEY", false) {
			t.Errorf("expected true for %q", val)
		}
	}
	setEnv(t, "BOOL_KEY", "false")
	if config.GetBool("BOOL_KEY", true) {
		t.Error("expected false")
	}
}
