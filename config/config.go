// Package config persists the storage settings locally, so the operator only
// types credentials once. The file plays the role the browser's local storage
// played for the original settings form.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"kbcloud/core"
)

const (
	settingsPathEnvKey  = "SETTINGS_PATH"
	defaultSettingsPath = "settings.json"
)

// Settings is the locally persisted configuration surface.
type Settings struct {
	Storage core.StorageCredentials `json:"storage"`
}

// Path returns the settings file location, overridable via SETTINGS_PATH.
func Path() string {
	if p := os.Getenv(settingsPathEnvKey); p != "" {
		return p
	}
	return defaultSettingsPath
}

// Load reads the persisted settings. A missing file is not an error; it
// returns (nil, nil) and the application starts unconfigured.
func Load() (*Settings, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", Path(), err)
	}
	return &s, nil
}

// Save writes the settings file. It carries the storage secret, hence the
// restrictive mode.
func Save(s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(Path(), data, 0600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
