package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// AppConfig holds environment driven configuration for the client.
// The credentials file may contain a bearer token and must live outside any
// shared directory.
type AppConfig struct {
	// Remote API
	APIBaseURL        string
	HTTPTimeoutSec    int
	ConnectTimeoutSec int
	RatePerSec        float64
	RateBurst         int
	// Local credential storage
	CredentialsPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the client configuration. It should be called once during boot.
// Precedence: config/config.json -> defaults -> environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Reset clears cached configuration. Used by tests that vary the environment.
func Reset() {
	cfg = AppConfig{}
	loaded = false
}

// loadJSONConfig reads a JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return json.Unmarshal(b, out)
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.APIBaseURL == "" {
		c.APIBaseURL = "https://content-corner-8vf4.onrender.com/api"
	}
	if c.HTTPTimeoutSec == 0 {
		c.HTTPTimeoutSec = 60
	}
	if c.ConnectTimeoutSec == 0 {
		c.ConnectTimeoutSec = 5
	}
	if c.RatePerSec == 0 {
		c.RatePerSec = 8
	}
	if c.RateBurst == 0 {
		c.RateBurst = 16
	}
	if c.CredentialsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.CredentialsPath = filepath.Join(home, ".corner", "credentials.json")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("CORNER_API_URL", ""); v != "" {
		c.APIBaseURL = v
	}
	if v := getEnv("CORNER_TIMEOUT_SEC", ""); v != "" {
		c.HTTPTimeoutSec = mustParseInt(v)
	}
	if v := getEnv("CORNER_CONNECT_TIMEOUT_SEC", ""); v != "" {
		c.ConnectTimeoutSec = mustParseInt(v)
	}
	if v := getEnv("CORNER_RATE_PER_SEC", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.RatePerSec = f
		}
	}
	if v := getEnv("CORNER_RATE_BURST", ""); v != "" {
		c.RateBurst = mustParseInt(v)
	}
	if v := getEnv("CORNER_CREDENTIALS", ""); v != "" {
		c.CredentialsPath = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "1" || v == "true"
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
