package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceEmbedded names the configuration compiled into the binary.
const SourceEmbedded = "embedded"

// LoadMatch3 loads the match-3 configuration.
// Search order: customPath -> ~/.match3/configs/match3.yaml ->
// ./configs/match3.yaml -> embedded default. Environment overrides are
// applied last and the result is validated.
func LoadMatch3(customPath string) (Match3Config, error) {
	cfg, _, err := LoadMatch3Source(customPath)
	return cfg, err
}

// LoadMatch3Source is LoadMatch3 that also reports which file was used.
func LoadMatch3Source(customPath string) (Match3Config, string, error) {
	cfg, source, err := loadYAML("match3.yaml", customPath, defaultMatch3YAML, DefaultMatch3Config)
	if err != nil {
		return cfg, source, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, source, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, source, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, source, nil
}

// loadYAML decodes the first readable file of the search order on top of
// base(). A custom path that cannot be read or parsed is an error; the
// other locations are skipped on failure.
func loadYAML[T any](filename, customPath string, embedded []byte, base func() T) (T, string, error) {
	if customPath != "" {
		cfg := base()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, customPath, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, customPath, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	candidates := []string{filepath.Join("configs", filename)}
	if p := userConfigPath(filename); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := base()
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, path, nil
		}
	}

	cfg := base()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return base(), SourceEmbedded, nil
	}
	return cfg, SourceEmbedded, nil
}

// userConfigPath returns ~/.match3/configs/<filename>, or "" without a home
// directory.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".match3", "configs", filename)
}
