package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfigFromEnv.
const (
	EnvAPIKey     = "BINANCE_API_KEY"
	EnvSecretKey  = "BINANCE_SECRET_KEY"
	EnvTestnet    = "BINANCE_TESTNET"
	EnvBaseURL    = "BINANCE_BASE_URL"
	EnvStreamURL  = "BINANCE_STREAM_URL"
	EnvTimeout    = "BINANCE_TIMEOUT"
	EnvRecvWindow = "BINANCE_RECV_WINDOW"
	EnvLogLevel   = "BINANCE_LOG_LEVEL"
	EnvConfigFile = "BINANCE_CONFIG_FILE"
)

// LoadConfigFromEnv builds a Config from DefaultConfig, an optional YAML file
// named by BINANCE_CONFIG_FILE, and BINANCE_* environment variables, in that
// order of precedence (later wins). Dotenv files are loaded first; missing
// files are ignored.
func LoadConfigFromEnv(dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load dotenv: %w", err)
	}

	config := DefaultConfig()
	if path := os.Getenv(EnvConfigFile); path != "" {
		var err error
		if config, err = LoadConfigFile(path); err != nil {
			return nil, err
		}
	}

	if key, secret := os.Getenv(EnvAPIKey), os.Getenv(EnvSecretKey); key != "" || secret != "" {
		config.Credentials = &Credentials{APIKey: key, SecretKey: secret}
	}
	config.Sandbox = envBool(EnvTestnet, config.Sandbox)
	config.BaseURL = envStr(EnvBaseURL, config.BaseURL)
	config.StreamURL = envStr(EnvStreamURL, config.StreamURL)
	config.LogLevel = envStr(EnvLogLevel, config.LogLevel)
	config.RecvWindow = int64(envInt(EnvRecvWindow, int(config.RecvWindow)))

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}
		config.Timeout = d
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return config, nil
}

// LoadConfigFile reads a YAML config file on top of DefaultConfig.
// Durations are written as Go duration strings ("10s", "1m").
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return config, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
