package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultsLoad(t *testing.T) {
	t.Setenv("SPORTUS_DATA_DIR", "/tmp/sportus-test")

	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	want := Defaults()
	want.Data.Dir = "/tmp/sportus-test"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
	if cfg.Location.HasFixedCoordinate() {
		t.Error("defaults should not carry a fixed coordinate")
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
api:
  base_url: https://api.example.com
  timeout: 90s
  burst: 5
location:
  latitude: 37.5
  longitude: 127.03
feed:
  default_category: facilities
  max_items: 200
data:
  dir: /var/lib/sportus
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("base_url=%q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 90*time.Second {
		t.Errorf("timeout=%v, want 90s", cfg.API.Timeout)
	}
	if cfg.API.Burst != 5 {
		t.Errorf("burst=%d, want 5", cfg.API.Burst)
	}
	if cfg.API.RatePerSecond != 1 {
		t.Errorf("rate_per_second=%v, want default 1", cfg.API.RatePerSecond)
	}
	if !cfg.Location.HasFixedCoordinate() {
		t.Fatal("expected fixed coordinate")
	}
	if *cfg.Location.Latitude != 37.5 || *cfg.Location.Longitude != 127.03 {
		t.Errorf("coordinate=%v,%v", *cfg.Location.Latitude, *cfg.Location.Longitude)
	}
	if cfg.Feed.DefaultCategory != "facilities" || cfg.Feed.MaxItems != 200 {
		t.Errorf("feed=%+v", cfg.Feed)
	}
	if got := cfg.DBPath(); got != filepath.Join("/var/lib/sportus", "sportus.db") {
		t.Errorf("DBPath()=%q", got)
	}
	if got := cfg.EventLogPath(); got != filepath.Join("/var/lib/sportus", "events.jsonl") {
		t.Errorf("EventLogPath()=%q", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "api:\n  base_url: https://file.example.com\n")
	t.Setenv("SPORTUS_API_BASE_URL", "https://env.example.com")
	t.Setenv("SPORTUS_FEED_PROXIMITY_MARGIN", "7")
	t.Setenv("SPORTUS_DEBUG_OVERLAY", "true")
	t.Setenv("SPORTUS_API_TIMEOUT", "45s")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("base_url=%q, want env value", cfg.API.BaseURL)
	}
	if cfg.Feed.ProximityMargin != 7 {
		t.Errorf("proximity_margin=%d, want 7", cfg.Feed.ProximityMargin)
	}
	if !cfg.Debug.Overlay {
		t.Error("debug.overlay should be true")
	}
	if cfg.API.Timeout != 45*time.Second {
		t.Errorf("timeout=%v, want 45s", cfg.API.Timeout)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SPORTUS_API_BASE_URL":            "api.base_url",
		"SPORTUS_LOCATION_LOOKUP_ENABLED": "location.lookup_enabled",
		"SPORTUS_FEED_MAX_ITEMS":          "feed.max_items",
		"SPORTUS_DATA_DIR":                "data.dir",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	lat := 91.0
	lon := 127.0

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }},
		{"bad base url", func(c *Config) { c.API.BaseURL = "not a url" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"zero rate", func(c *Config) { c.API.RatePerSecond = 0 }},
		{"zero burst", func(c *Config) { c.API.Burst = 0 }},
		{"latitude out of range", func(c *Config) { c.Location.Latitude, c.Location.Longitude = &lat, &lon }},
		{"latitude without longitude", func(c *Config) { ok := 37.5; c.Location.Latitude = &ok }},
		{"lookup without url", func(c *Config) { c.Location.LookupURL = "" }},
		{"unknown category", func(c *Config) { c.Feed.DefaultCategory = "gyms" }},
		{"negative margin", func(c *Config) { c.Feed.ProximityMargin = -1 }},
		{"negative max items", func(c *Config) { c.Feed.MaxItems = -5 }},
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate()=%v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidateAcceptsLookupDisabledWithoutURL(t *testing.T) {
	cfg := Defaults()
	cfg.Location.LookupEnabled = false
	cfg.Location.LookupURL = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate()=%v", err)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromInvalidValues(t *testing.T) {
	path := writeFile(t, "feed:\n  default_category: gyms\n")
	_, err := LoadFrom(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("LoadFrom()=%v, want ErrInvalid", err)
	}
}

func TestLoadUsesConfigEnvVar(t *testing.T) {
	path := writeFile(t, "api:\n  burst: 9\n")
	t.Setenv(PathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Burst != 9 {
		t.Errorf("burst=%d, want 9", cfg.API.Burst)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := expandHome("~/data"); got != filepath.Join(home, "data") {
		t.Errorf("expandHome(~/data)=%q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("expandHome(/abs)=%q", got)
	}
}
