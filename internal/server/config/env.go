package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays environment variables onto the Config. Variables that are
// unset leave the current values untouched, so the overlay composes cleanly
// with defaults and the JSON file.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
