// Package config loads crossfire settings from defaults, an optional YAML
// file, .env files and CROSSFIRE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lorenzotomasdiez/crossfire/internal/credentials"
	"github.com/lorenzotomasdiez/crossfire/internal/logging"
	"github.com/lorenzotomasdiez/crossfire/internal/models"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CROSSFIRE_OUTPUT_DIR.
const EnvPrefix = "CROSSFIRE"

// Config is the resolved application configuration.
type Config struct {
	OutputDir        string
	TurnDelay        time.Duration
	LogLevel         string
	LogFile          string
	StorePath        string
	EnabledProviders []models.Provider
	HTML             bool
	GeminiBaseURL    string
	// EnvKeys holds API keys found in <PROVIDER>_API_KEY variables. Stored
	// keys take precedence over these.
	EnvKeys          map[string]string
}

func setDefaults(v *viper.Viper) error {
	store, err := credentials.DefaultPath()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	v.SetDefault("output_dir", "output")
	v.SetDefault("turn_delay", time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("store_path", store)
	v.SetDefault("enabled_providers", []string{string(models.Gemini)})
	v.SetDefault("html", false)
	v.SetDefault("gemini_base_url", "")
	return nil
}

// Load reads configuration. file may be empty, in which case only defaults
// and the environment apply.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", file, err)
		}
	}

	providers, err := parseProviders(v.Get("enabled_providers"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OutputDir:        v.GetString("output_dir"),
		TurnDelay:        v.GetDuration("turn_delay"),
		LogLevel:         v.GetString("log_level"),
		LogFile:          v.GetString("log_file"),
		StorePath:        expandHome(v.GetString("store_path")),
		EnabledProviders: providers,
		HTML:             v.GetBool("html"),
		GeminiBaseURL:    v.GetString("gemini_base_url"),
		EnvKeys:          envKeys(),
	}

	if cfg.TurnDelay < 0 {
		return nil, fmt.Errorf("config: turn_delay must be >= 0, got %s", cfg.TurnDelay)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("config: output_dir must not be empty")
	}
	return cfg, nil
}

func parseProviders(raw any) ([]models.Provider, error) {
	var names []string
	switch val := raw.(type) {
	case string:
		names = strings.Split(val, ",")
	case []string:
		names = val
	case []any:
		for _, n := range val {
			names = append(names, fmt.Sprint(n))
		}
	default:
		return nil, fmt.Errorf("config: enabled_providers: unsupported value %v", raw)
	}

	var out []models.Provider
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		p, ok := models.ParseProvider(n)
		if !ok {
			return nil, fmt.Errorf("config: enabled_providers: unknown provider %q", strings.TrimSpace(n))
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, errors.New("config: enabled_providers must name at least one provider")
	}
	return out, nil
}

func envKeys() map[string]string {
	keys := map[string]string{}
	for _, p := range models.Providers() {
		if v := strings.TrimSpace(os.Getenv(strings.ToUpper(string(p)) + "_API_KEY")); v != "" {
			keys[string(p)] = v
		}
	}
	return keys
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultFile returns ~/.crossfire/config.yaml when it exists, else "".
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".crossfire", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// LoadDotEnv loads each existing file into the environment. Variables that
// are already set keep their value; missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: loading %s: %w", path, err)
		}
	}
	return nil
}
