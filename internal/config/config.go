package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath     = "config.toml"
	DefaultListenAddr     = "127.0.0.1:3031"
	DefaultBackendURL     = "http://127.0.0.1:3030"
	DefaultBackendTimeout = 10
	DefaultFileBaseURL    = "https://api.telegram.org/file"

	// TokenEnvVar overrides [telegram].bot_token when set.
	TokenEnvVar = "TELEGRAM_BOT_TOKEN"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Telegram TelegramConfig `toml:"telegram"`
	Backend  BackendConfig  `toml:"backend"`
	Server   ServerConfig   `toml:"server"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type TelegramConfig struct {
	BotToken    string `toml:"bot_token"`
	FileBaseURL string `toml:"file_base_url"`
}

type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telegram: TelegramConfig{
			FileBaseURL: DefaultFileBaseURL,
		},
		Backend: BackendConfig{
			BaseURL:        DefaultBackendURL,
			TimeoutSeconds: DefaultBackendTimeout,
		},
		Server: ServerConfig{
			Addr: DefaultListenAddr,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if token := strings.TrimSpace(os.Getenv(TokenEnvVar)); token != "" {
		cfg.Telegram.BotToken = token
	}
}

// Validate checks the fields required to run the bridge.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return fmt.Errorf("telegram bot token required (set [telegram].bot_token or %s)", TokenEnvVar)
	}
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return fmt.Errorf("backend base_url required")
	}
	return nil
}
