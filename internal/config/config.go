// Package config loads miniql's settings from a layered source: built-in
// defaults, a user config file, a project config file, and environment
// variables, in that order of increasing precedence — defaults < user
// (~/.miniqlrc/config.toml) < project (./config.toml) < env (MINIQL_*).
// Command-line flags, the highest layer, are not read here: the CLI
// applies them on top of Load's result.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config is the resolved set of settings the engine and CLI read from.
type Config struct {
	General General `toml:"general" mapstructure:"general"`
}

// General holds the engine's file-location and logging settings.
type General struct {
	CatalogPath string `toml:"catalog_path" mapstructure:"catalog_path"`
	DataDir     string `toml:"data_dir" mapstructure:"data_dir"`
	LogLevel    string `toml:"log_level" mapstructure:"log_level"`
	LogFormat   string `toml:"log_format" mapstructure:"log_format"`
}

// Default returns the built-in configuration every layer starts from.
func Default() Config {
	return Config{General: General{
		CatalogPath: "./catalog.json",
		DataDir:     "./data",
		LogLevel:    "info",
		LogFormat:   "text",
	}}
}

// Load resolves the layered configuration. projectConfigPath, if non-empty,
// overrides the default project-local config.toml location.
func Load(projectConfigPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("MINIQL")
	v.AutomaticEnv()
	v.SetConfigType("toml")

	v.SetDefault("general.catalog_path", cfg.General.CatalogPath)
	v.SetDefault("general.data_dir", cfg.General.DataDir)
	v.SetDefault("general.log_level", cfg.General.LogLevel)
	v.SetDefault("general.log_format", cfg.General.LogFormat)

	if home, err := os.UserHomeDir(); err == nil {
		mergeFile(v, filepath.Join(home, ".miniqlrc", "config.toml"))
	}

	projectPath := projectConfigPath
	if projectPath == "" {
		projectPath = "config.toml"
	}
	mergeFile(v, projectPath)

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// mergeFile merges path into v if it exists and parses as TOML; a missing
// or malformed file is silently skipped, leaving prior layers in place.
func mergeFile(v *viper.Viper, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return
	}
	_ = v.MergeConfigMap(raw)
}

// Write encodes cfg as TOML to path, creating parent directories as
// needed.
func Write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	header := `# miniql configuration
# Precedence: defaults < user (~/.miniqlrc/config.toml) < project (config.toml) < env (MINIQL_*) < flags

`
	if _, err := f.WriteString(header); err != nil {
		return err
	}
	enc := toml.NewEncoder(f)
	enc.Indent = "  "
	return enc.Encode(cfg)
}
