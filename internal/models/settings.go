package models

import "time"

// PollerConfig holds timing settings for the message poller.
type PollerConfig struct {
	IntervalMS        int `yaml:"interval_ms"`
	RequestTimeoutMS  int `yaml:"request_timeout_ms"`
	ConfirmTimeoutSec int `yaml:"confirm_timeout_sec"` // 0 = wait forever
}

// PlatformConfig selects the platform action strategy.
type PlatformConfig struct {
	Actions string `yaml:"actions"` // "auto" | "none" | "browser"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Settings represents global client settings.
// This corresponds to ~/.seadrive-tray/settings.yaml.
type Settings struct {
	Version                        int            `yaml:"version"`
	Notify                         bool           `yaml:"notify"`
	HideWindowsIncompatiblePathMsg bool           `yaml:"hide_windows_incompatible_path_msg"`
	Language                       string         `yaml:"language"`
	Poller                         PollerConfig   `yaml:"poller"`
	Platform                       PlatformConfig `yaml:"platform"`
	Log                            LogConfig      `yaml:"log"`
}

// Default poller timings.
const (
	DefaultPollIntervalMS     = 1000
	DefaultRequestTimeoutMS   = 5000
	DefaultConfirmTimeoutSecs = 300
)

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:  1,
		Notify:   true,
		Language: "en",
		Poller: PollerConfig{
			IntervalMS:        DefaultPollIntervalMS,
			RequestTimeoutMS:  DefaultRequestTimeoutMS,
			ConfirmTimeoutSec: DefaultConfirmTimeoutSecs,
		},
		Platform: PlatformConfig{
			Actions: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// PollInterval returns the tick interval, falling back to the default.
func (s *Settings) PollInterval() time.Duration {
	if s.Poller.IntervalMS <= 0 {
		return DefaultPollIntervalMS * time.Millisecond
	}
	return time.Duration(s.Poller.IntervalMS) * time.Millisecond
}

// RequestTimeout returns the per-request RPC timeout.
func (s *Settings) RequestTimeout() time.Duration {
	if s.Poller.RequestTimeoutMS <= 0 {
		return DefaultRequestTimeoutMS * time.Millisecond
	}
	return time.Duration(s.Poller.RequestTimeoutMS) * time.Millisecond
}

// ConfirmTimeout returns how long a confirmation may stay unanswered.
// Zero means no timeout.
func (s *Settings) ConfirmTimeout() time.Duration {
	if s.Poller.ConfirmTimeoutSec < 0 {
		return 0
	}
	return time.Duration(s.Poller.ConfirmTimeoutSec) * time.Second
}
