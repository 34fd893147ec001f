// Package config loads, normalizes, and validates stemsplit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts) and reads an optional TOML file from ~/.config/stemsplit or the
// working directory. Every value here is a default for the matching
// command-line flag; flags always win. No environment variables are consulted.
package config
