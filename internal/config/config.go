package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/varoOP/animecatalog/internal/domain"
)

const (
	DefaultPort     = 3000
	DefaultDataPath = "./animes.json"
)

// SetDefaults registers the default values used when neither a config file,
// an environment variable nor a flag sets a key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("data_path", DefaultDataPath)
	v.SetDefault("prefix", "")
	v.SetDefault("static_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("discord_webhook_url", "")
}

// Load loads configuration from multiple sources:
// 1. Config file (config.yaml, optional)
// 2. Environment variables (ANIMECATALOG_*, plus PORT)
// 3. Command line flags bound by the caller
func Load() (*domain.Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*domain.Config, error) {
	cfg := &domain.Config{
		Port:              v.GetInt("port"),
		DataPath:          v.GetString("data_path"),
		Prefix:            normalizePrefix(v.GetString("prefix")),
		StaticDir:         v.GetString("static_dir"),
		LogLevel:          v.GetString("log_level"),
		DiscordWebhookURL: v.GetString("discord_webhook_url"),
	}

	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d (must be between 1 and 65535)", cfg.Port)
	}

	if cfg.DataPath == "" {
		return nil, fmt.Errorf("data_path is required (set via config.yaml or ANIMECATALOG_DATA_PATH environment variable)")
	}

	return cfg, nil
}

// normalizePrefix turns "api", "/api/" and "/api" into "/api". An empty or
// "/" prefix mounts the routes at the root.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
