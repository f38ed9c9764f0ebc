package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the file omits a value.
const (
	defaultBaseURL              = "https://router.project-osrm.org"
	defaultRefreshIntervalMS    = 60000
	defaultMinRefreshIntervalMS = 15000
	defaultRequestTimeoutMS     = 30000
	defaultFrameIntervalMS      = 16
	defaultTransitionDurationMS = 1000
	defaultPulseIntervalMS      = 1500
	defaultEasing               = "easeOut"
	defaultMode                 = "driving"
)

// Load reads and validates the configuration file. A missing file yields the
// defaults; provider credentials are overridable from the environment
// (GOOGLE_MAPS_API_KEY, MAPBOX_ACCESS_TOKEN).
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = "config.yml"
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if key := os.Getenv("GOOGLE_MAPS_API_KEY"); key != "" {
		cfg.Providers.GoogleAPIKey = key
	}
	if token := os.Getenv("MAPBOX_ACCESS_TOKEN"); token != "" {
		cfg.Providers.MapboxAccessToken = token
	}

	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg.Routing); err != nil {
		return nil, err
	}
	if err := v.Struct(cfg.Animation); err != nil {
		return nil, err
	}
	if err := v.Struct(cfg.Tracking); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Routing.BaseURL == "" {
		cfg.Routing.BaseURL = defaultBaseURL
	}
	if cfg.Routing.RefreshIntervalMS == 0 {
		cfg.Routing.RefreshIntervalMS = defaultRefreshIntervalMS
	}
	if cfg.Routing.MinRefreshIntervalMS == 0 {
		cfg.Routing.MinRefreshIntervalMS = defaultMinRefreshIntervalMS
	}
	if cfg.Routing.RequestTimeoutMS == 0 {
		cfg.Routing.RequestTimeoutMS = defaultRequestTimeoutMS
	}
	if cfg.Animation.FrameIntervalMS == 0 {
		cfg.Animation.FrameIntervalMS = defaultFrameIntervalMS
	}
	if cfg.Animation.TransitionDurationMS == 0 {
		cfg.Animation.TransitionDurationMS = defaultTransitionDurationMS
	}
	if cfg.Animation.PulseIntervalMS == 0 {
		cfg.Animation.PulseIntervalMS = defaultPulseIntervalMS
	}
	if cfg.Animation.Easing == "" {
		cfg.Animation.Easing = defaultEasing
	}
	if cfg.Tracking.DefaultMode == "" {
		cfg.Tracking.DefaultMode = defaultMode
	}
}
