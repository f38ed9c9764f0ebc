package config

import (
	"time"

	"github.com/fieldops/fieldtrack/internal/lib/maps"
)

// RoutingConfig holds routing-service settings.
type RoutingConfig struct {
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	// How long a computed route stays fresh before a refresh is due.
	RefreshIntervalMS int `yaml:"refresh_interval_ms" validate:"gte=0"`
	// Minimum spacing between on-demand refreshes for one session.
	MinRefreshIntervalMS int `yaml:"min_refresh_interval_ms" validate:"gte=0"`
	RequestTimeoutMS     int `yaml:"request_timeout_ms" validate:"gte=0"`
}

// AnimationConfig holds marker transition and pulse settings.
type AnimationConfig struct {
	FrameIntervalMS      int    `yaml:"frame_interval_ms" validate:"gte=0"`
	TransitionDurationMS int    `yaml:"transition_duration_ms" validate:"gte=0"`
	PulseIntervalMS      int    `yaml:"pulse_interval_ms" validate:"gte=0"`
	Easing               string `yaml:"easing" validate:"omitempty,oneof=linear easeOut easeInOut"`
}

// TrackingConfig holds session defaults.
type TrackingConfig struct {
	DefaultMode string `yaml:"default_mode" validate:"omitempty,oneof=driving walking"`
}

// Config is the root configuration structure.
type Config struct {
	Routing   RoutingConfig    `yaml:"routing"`
	Animation AnimationConfig  `yaml:"animation"`
	Tracking  TrackingConfig   `yaml:"tracking"`
	Providers maps.Credentials `yaml:"providers"`
}

func (c RoutingConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

func (c RoutingConfig) MinRefreshInterval() time.Duration {
	return time.Duration(c.MinRefreshIntervalMS) * time.Millisecond
}

func (c RoutingConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

func (c AnimationConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

func (c AnimationConfig) TransitionDuration() time.Duration {
	return time.Duration(c.TransitionDurationMS) * time.Millisecond
}
