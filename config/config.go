package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"phishsafe/bridge"
	"phishsafe/probe"
	"phishsafe/query"
)

type Config struct {
	Addr          string
	Channel       string
	Policy        string
	SecureFlag    probe.SecureFlagMode
	WindowSecure  bool
	DBDriver      string
	DBPath        string
	WatchInterval time.Duration
	Tray          bool
}

// Load reads an optional .env file, then the PHISHSAFE_* environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secure, err := probe.ParseSecureFlagMode(getEnv("PHISHSAFE_SECURE_FLAG", "inert"))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	windowSecure, err := getEnvAsBool("PHISHSAFE_WINDOW_SECURE", false)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	watch, err := getEnvAsDuration("PHISHSAFE_WATCH_INTERVAL", 0)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	tray, err := getEnvAsBool("PHISHSAFE_TRAY", false)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := &Config{
		Addr:          getEnv("PHISHSAFE_ADDR", "127.0.0.1:8080"),
		Channel:       getEnv("PHISHSAFE_CHANNEL", bridge.DefaultChannelName),
		Policy:        getEnv("PHISHSAFE_POLICY", "keyword"),
		SecureFlag:    secure,
		WindowSecure:  windowSecure,
		DBDriver:      getEnv("PHISHSAFE_DB_DRIVER", "sqlite"),
		DBPath:        getEnv("PHISHSAFE_DB_PATH", ""),
		WatchInterval: watch,
		Tray:          tray,
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address must be set")
	}
	if c.Channel == "" {
		return fmt.Errorf("channel name must be set")
	}
	if _, err := probe.PolicyByName(c.Policy, probe.KeywordSet{}); err != nil {
		return err
	}
	known := false
	for _, d := range query.Drivers {
		if d == c.DBDriver {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	if c.WatchInterval < 0 {
		return fmt.Errorf("watch interval must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool returns defaultValue when key is unset and an error when it
// does not parse.
func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %q is not a boolean", key, valueStr)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %q is not a duration (e.g. 5s)", key, valueStr)
	}
	return value, nil
}
