package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/seadrive-io/seadrive-tray/internal/models"
)

// LoadSettings loads the global settings from ~/.seadrive-tray/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewSettings)
}

// SaveSettings saves the global settings to ~/.seadrive-tray/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// SettingsStore holds the current settings and can be reloaded while the
// poller reads from it.
type SettingsStore struct {
	cur atomic.Pointer[models.Settings]
}

// NewSettingsStore creates a store seeded with s.
func NewSettingsStore(s *models.Settings) *SettingsStore {
	if s == nil {
		s = models.NewSettings()
	}
	st := &SettingsStore{}
	st.cur.Store(s)
	return st
}

// Current returns the active settings. Callers must not mutate the result.
func (st *SettingsStore) Current() *models.Settings {
	return st.cur.Load()
}

// Reload re-reads settings.yaml. On error the previous settings stay active.
func (st *SettingsStore) Reload() error {
	s, err := LoadSettings()
	if err != nil {
		return err
	}
	st.cur.Store(s)
	return nil
}

// Notify reports whether sync notifications should be shown.
func (st *SettingsStore) Notify() bool {
	return st.Current().Notify
}

// HideWindowsIncompatiblePathMsg reports whether invalid-path-on-Windows
// errors should be suppressed.
func (st *SettingsStore) HideWindowsIncompatiblePathMsg() bool {
	return st.Current().HideWindowsIncompatiblePathMsg
}

type settingField struct {
	get func(s *models.Settings) string
	set func(s *models.Settings, v string) error
}

func boolField(p func(s *models.Settings) *bool) settingField {
	return settingField{
		get: func(s *models.Settings) string { return strconv.FormatBool(*p(s)) },
		set: func(s *models.Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*p(s) = b
			return nil
		},
	}
}

func intField(p func(s *models.Settings) *int) settingField {
	return settingField{
		get: func(s *models.Settings) string { return strconv.Itoa(*p(s)) },
		set: func(s *models.Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			*p(s) = n
			return nil
		},
	}
}

func stringField(p func(s *models.Settings) *string, allowed ...string) settingField {
	return settingField{
		get: func(s *models.Settings) string { return *p(s) },
		set: func(s *models.Settings, v string) error {
			if len(allowed) > 0 && !contains(allowed, v) {
				return fmt.Errorf("expected one of %s, got %q", strings.Join(allowed, ", "), v)
			}
			*p(s) = v
			return nil
		},
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var settingFields = map[string]settingField{
	"notify": boolField(func(s *models.Settings) *bool { return &s.Notify }),
	"hide_windows_incompatible_path_msg": boolField(func(s *models.Settings) *bool {
		return &s.HideWindowsIncompatiblePathMsg
	}),
	"language":                   stringField(func(s *models.Settings) *string { return &s.Language }),
	"poller.interval_ms":         intField(func(s *models.Settings) *int { return &s.Poller.IntervalMS }),
	"poller.request_timeout_ms":  intField(func(s *models.Settings) *int { return &s.Poller.RequestTimeoutMS }),
	"poller.confirm_timeout_sec": intField(func(s *models.Settings) *int { return &s.Poller.ConfirmTimeoutSec }),
	"platform.actions":           stringField(func(s *models.Settings) *string { return &s.Platform.Actions }, "auto", "none", "browser"),
	"log.level":                  stringField(func(s *models.Settings) *string { return &s.Log.Level }, "debug", "info", "warn", "error"),
	"log.file":                   stringField(func(s *models.Settings) *string { return &s.Log.File }),
}

// SettingKeys returns the dotted names accepted by GetSetting and SetSetting.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingFields))
	for k := range settingFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetSetting returns the value of a dotted settings key.
func GetSetting(s *models.Settings, key string) (string, error) {
	f, ok := settingFields[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return f.get(s), nil
}

// SetSetting parses value and stores it under a dotted settings key.
func SetSetting(s *models.Settings, key, value string) error {
	f, ok := settingFields[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := f.set(s, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
