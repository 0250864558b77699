package domain

import "strconv"

type Config struct {
	Port              int    `mapstructure:"port"`
	DataPath          string `mapstructure:"data_path"`
	Prefix            string `mapstructure:"prefix"`
	StaticDir         string `mapstructure:"static_dir"`
	LogLevel          string `mapstructure:"log_level"`
	DiscordWebhookURL string `mapstructure:"discord_webhook_url"`
}

// Addr returns the listen address for the configured port
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
