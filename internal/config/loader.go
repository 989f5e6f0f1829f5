package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Load builds the configuration in three layers: defaults, then the optional
// YAML file at path, then the environment (after the dotenv file in the
// working directory has been applied). Environment always wins.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := ReadEnv(""); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read dotenv: %w", err)
	}

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("env: %w", err)
	}
	if err := envconfig.Process("", &cfg.Probe); err != nil {
		return Config{}, fmt.Errorf("env probe settings: %w", err)
	}

	cfg.Probes = cleanList(cfg.Probes)
	cfg.PublicAPIKeys = cleanList(cfg.PublicAPIKeys)
	cfg.AdminAPIKeys = cleanList(cfg.AdminAPIKeys)
	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBuffer([]byte(os.ExpandEnv(string(data))))); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// cleanList trims entries and drops empty ones ("a, b,," -> [a b]).
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
