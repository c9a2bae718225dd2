package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables that override file values.
const (
	EnvLogLevel     = "SNAPKEY_LOG_LEVEL"
	EnvSettingsPath = "SNAPKEY_SETTINGS_PATH"
	EnvTick         = "SNAPKEY_TICK"
	EnvDevelopment  = "SNAPKEY_DEV"
)

// applyEnv overrides cfg from the environment. Empty values are ignored.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLogLevel); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := get(EnvSettingsPath); ok {
		cfg.Settings.Path = v
	}
	if v, ok := get(EnvTick); ok {
		if err := cfg.Timing.Tick.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvTick, err)
		}
	}
	if v, ok := get(EnvDevelopment); ok {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDevelopment, err)
		}
		cfg.Logging.Development = b
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}
