// Package config loads sportus settings: struct defaults, then an optional
// YAML file, then SPORTUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SPORTUS_"

// PathEnvVar names an explicit config file.
const PathEnvVar = "SPORTUS_CONFIG"

// Config is the application configuration.
type Config struct {
	API      APIConfig      `koanf:"api"`
	Location LocationConfig `koanf:"location"`
	Feed     FeedConfig     `koanf:"feed"`
	Data     DataConfig     `koanf:"data"`
	Debug    DebugConfig    `koanf:"debug"`
}

// APIConfig points at the recommendation backend.
type APIConfig struct {
	BaseURL       string        `koanf:"base_url" validate:"required,url"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"` // the backend may take minutes
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gt=0"`
	Burst         int           `koanf:"burst" validate:"min=1"`
}

// LocationConfig selects how the coordinate is acquired. A fixed
// latitude/longitude pair wins over the IP lookup.
type LocationConfig struct {
	Latitude      *float64      `koanf:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude     *float64      `koanf:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	LookupEnabled bool          `koanf:"lookup_enabled"`
	LookupURL     string        `koanf:"lookup_url" validate:"omitempty,url"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
}

// FeedConfig tunes paging.
type FeedConfig struct {
	DefaultCategory string `koanf:"default_category" validate:"oneof=courses lectures facilities"`
	ProximityMargin int    `koanf:"proximity_margin" validate:"min=0"` // rows below the viewport
	MaxItems        int    `koanf:"max_items" validate:"min=0"`        // 0 keeps every item
}

// DataConfig holds local state paths.
type DataConfig struct {
	Dir string `koanf:"dir" validate:"required"`
}

// DebugConfig toggles developer aids.
type DebugConfig struct {
	Overlay bool `koanf:"overlay"`
}

// HasFixedCoordinate reports whether both latitude and longitude are set.
func (l LocationConfig) HasFixedCoordinate() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// DBPath is the SQLite database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.Data.Dir, "sportus.db")
}

// EventLogPath is the JSONL event log.
func (c *Config) EventLogPath() string {
	return filepath.Join(c.Data.Dir, "events.jsonl")
}

// DefaultDataDir is ~/.sportus, or .sportus when the home dir is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sportus"
	}
	return filepath.Join(home, ".sportus")
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       "http://localhost:8080",
			Timeout:       3 * time.Minute,
			RatePerSecond: 1,
			Burst:         2,
		},
		Location: LocationConfig{
			LookupEnabled: true,
			LookupURL:     "http://ip-api.com/json",
			Timeout:       10 * time.Second,
		},
		Feed: FeedConfig{
			DefaultCategory: "courses",
			ProximityMargin: 2,
		},
		Data: DataConfig{
			Dir: DefaultDataDir(),
		},
	}
}

// Load reads the config file named by SPORTUS_CONFIG, falling back to
// ~/.sportus/config.yaml when it exists.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom layers defaults, the YAML file at path (skipped when empty) and
// the environment, then validates the result.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Data.Dir = expandHome(cfg.Data.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	var msgs []string
	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
	}
	if (c.Location.Latitude == nil) != (c.Location.Longitude == nil) {
		msgs = append(msgs, "location.latitude and location.longitude must be set together")
	}
	if c.Location.LookupEnabled && c.Location.LookupURL == "" {
		msgs = append(msgs, "location.lookup_url is required when lookup is enabled")
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// envKey maps SPORTUS_API_BASE_URL to api.base_url. Only the first
// underscore after the prefix separates the section.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	p := filepath.Join(DefaultDataDir(), "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
