package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name in the struct tags.
const EnvPrefix = "MATCH3_"

// ApplyEnv overrides cfg with MATCH3_* variables from the process
// environment. Unset variables leave the loaded value alone.
func ApplyEnv(cfg *Match3Config) error {
	return applyEnv(cfg, nil)
}

// applyEnv reads from environ instead of the process environment when it is
// non-nil.
func applyEnv(cfg *Match3Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}
