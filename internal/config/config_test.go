package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lorenzotomasdiez/crossfire/internal/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CROSSFIRE_OUTPUT_DIR",
		"CROSSFIRE_TURN_DELAY",
		"CROSSFIRE_LOG_LEVEL",
		"CROSSFIRE_LOG_FILE",
		"CROSSFIRE_STORE_PATH",
		"CROSSFIRE_ENABLED_PROVIDERS",
		"CROSSFIRE_HTML",
		"CROSSFIRE_GEMINI_BASE_URL",
		"GEMINI_API_KEY",
		"OPENAI_API_KEY",
		"DEEPSEEK_API_KEY",
		"KIMI_API_KEY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "output")
	}
	if cfg.TurnDelay != time.Second {
		t.Errorf("TurnDelay = %s, want 1s", cfg.TurnDelay)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if len(cfg.EnabledProviders) != 1 || cfg.EnabledProviders[0] != models.Gemini {
		t.Errorf("EnabledProviders = %v, want [gemini]", cfg.EnabledProviders)
	}
	if filepath.Base(cfg.StorePath) != "store.json" {
		t.Errorf("StorePath = %q, want .../store.json", cfg.StorePath)
	}
	if cfg.HTML {
		t.Error("HTML should default to false")
	}
	if len(cfg.EnvKeys) != 0 {
		t.Errorf("EnvKeys = %v, want empty", cfg.EnvKeys)
	}
}

func TestLoad_CustomEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("CROSSFIRE_OUTPUT_DIR", "results")
	t.Setenv("CROSSFIRE_TURN_DELAY", "0")
	t.Setenv("CROSSFIRE_LOG_LEVEL", "debug")
	t.Setenv("CROSSFIRE_ENABLED_PROVIDERS", "gemini, DeepSeek")
	t.Setenv("CROSSFIRE_HTML", "true")
	t.Setenv("GEMINI_API_KEY", "g-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "results" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "results")
	}
	if cfg.TurnDelay != 0 {
		t.Errorf("TurnDelay = %s, want 0", cfg.TurnDelay)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	want := []models.Provider{models.Gemini, models.DeepSeek}
	if len(cfg.EnabledProviders) != 2 || cfg.EnabledProviders[0] != want[0] || cfg.EnabledProviders[1] != want[1] {
		t.Errorf("EnabledProviders = %v, want %v", cfg.EnabledProviders, want)
	}
	if !cfg.HTML {
		t.Error("HTML = false, want true")
	}
	if cfg.EnvKeys["gemini"] != "g-env" {
		t.Errorf("EnvKeys[gemini] = %q, want %q", cfg.EnvKeys["gemini"], "g-env")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(file, []byte("output_dir: transcripts\nturn_delay: 250ms\nenabled_providers:\n  - gemini\n  - kimi\nstore_path: ~/keys.json\n"), 0644)

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "transcripts" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "transcripts")
	}
	if cfg.TurnDelay != 250*time.Millisecond {
		t.Errorf("TurnDelay = %s, want 250ms", cfg.TurnDelay)
	}
	if len(cfg.EnabledProviders) != 2 || cfg.EnabledProviders[1] != models.Kimi {
		t.Errorf("EnabledProviders = %v, want [gemini kimi]", cfg.EnabledProviders)
	}
	home, _ := os.UserHomeDir()
	if cfg.StorePath != filepath.Join(home, "keys.json") {
		t.Errorf("StorePath = %q, want ~ expanded", cfg.StorePath)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(file, []byte("output_dir: from-file\n"), 0644)
	t.Setenv("CROSSFIRE_OUTPUT_DIR", "from-env")

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "from-env" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "from-env")
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for an explicit missing config file")
	}
}

func TestLoad_NegativeDelay(t *testing.T) {
	clearEnv(t)
	t.Setenv("CROSSFIRE_TURN_DELAY", "-1s")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for negative turn_delay")
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("CROSSFIRE_ENABLED_PROVIDERS", "gemini,llama")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("CROSSFIRE_LOG_LEVEL", "shouty")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestLoadDotEnv_SetsVarsFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	os.WriteFile(envFile, []byte("GEMINI_API_KEY=from-dotenv\nCROSSFIRE_OUTPUT_DIR=dotenv-output\n"), 0644)
	t.Cleanup(func() {
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("CROSSFIRE_OUTPUT_DIR")
	})

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EnvKeys["gemini"] != "from-dotenv" {
		t.Errorf("EnvKeys[gemini] = %q, want %q", cfg.EnvKeys["gemini"], "from-dotenv")
	}
	if cfg.OutputDir != "dotenv-output" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "dotenv-output")
	}
}

func TestLoadDotEnv_EnvVarsTakePrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "from-env")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	os.WriteFile(envFile, []byte("GEMINI_API_KEY=from-dotenv\n"), 0644)

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EnvKeys["gemini"] != "from-env" {
		t.Errorf("EnvKeys[gemini] = %q, want %q (env var should take precedence)", cfg.EnvKeys["gemini"], "from-env")
	}
}

func TestLoadDotEnv_MissingFileIsNotError(t *testing.T) {
	if err := LoadDotEnv("/nonexistent/.env"); err != nil {
		t.Fatalf("missing .env file should not be an error, got: %v", err)
	}
}
