package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/isso-client-go/internal/constants"
)

type Config struct {
	Page    PageConfig
	Service ServiceConfig
	HTTP    HTTPConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

// PageConfig describes the hosting page the client acts for.
type PageConfig struct {
	URL  string
	File string // local HTML copy; the page is fetched from URL when empty
}

type ServiceConfig struct {
	Endpoint string // skips script detection when set
}

type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
}

type MetricsConfig struct {
	Enabled bool
	File    string // text exposition written here after each command
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Page: PageConfig{
			URL:  getEnv("ISSO_PAGE_URL", ""),
			File: getEnv("ISSO_PAGE_FILE", ""),
		},
		Service: ServiceConfig{
			Endpoint: getEnv("ISSO_ENDPOINT", ""),
		},
		HTTP: HTTPConfig{
			Timeout:   time.Duration(getEnvInt("ISSO_HTTP_TIMEOUT_SECONDS", int(constants.HTTPConfig.Timeout/time.Second))) * time.Second,
			UserAgent: getEnv("ISSO_USER_AGENT", constants.HTTPConfig.UserAgent),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("ISSO_METRICS", false),
			File:    getEnv("ISSO_METRICS_FILE", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if cfg.Metrics.File != "" {
		cfg.Metrics.Enabled = true
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Page.URL == "" {
		return fmt.Errorf("ISSO_PAGE_URL is required")
	}
	if u, err := url.Parse(c.Page.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ISSO_PAGE_URL must be an absolute URL: %q", c.Page.URL)
	}
	if c.Service.Endpoint != "" && !strings.Contains(c.Service.Endpoint, "://") {
		return fmt.Errorf("ISSO_ENDPOINT must be an absolute URL: %q", c.Service.Endpoint)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("ISSO_HTTP_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
