// Package config provides the static configuration for snapkey.
//
// Configuration is read once at startup from a TOML or YAML file, chosen by
// extension, on top of built-in defaults. A few values can be overridden
// from the environment:
//
//	SNAPKEY_LOG_LEVEL      logging.level
//	SNAPKEY_SETTINGS_PATH  settings.path
//	SNAPKEY_TICK           timing.tick
//	SNAPKEY_DEV            logging.development
//
// A minimal TOML file:
//
//	[timing]
//	hold = "450ms"
//	double_tap = "200ms"
//
//	[[triggers]]
//	key = "Y"
//	kind = "hold"
//	target = "grid"
//
// The trigger table is not reloaded while running.
package config
