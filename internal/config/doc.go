// Package config loads and validates framegate's TOML configuration.
//
// Configuration is resolved from an explicit path, then
// ~/.config/framegate/config.toml, then ./framegate.toml. Missing files
// produce a config built entirely from defaults and environment
// variables. All path fields are expanded and absolute after Load.
package config
