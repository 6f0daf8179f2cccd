/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, static asset directory,
and WebSocket connection rate limits.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// StaticDir is the directory served at the root path. Empty disables
	// static asset serving.
	StaticDir string

	// Security Settings
	AllowedOrigins []string

	// WebSocket connection rate limiting (per client IP).
	ConnRate  float64
	ConnBurst int
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type
// conversions and validation. It returns a pointer to the AppConfig struct and any
// error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "3000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// StaticDir
	cfg.StaticDir = os.Getenv("STATIC_DIR")
	if cfg.StaticDir == "" {
		cfg.StaticDir = "public"
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- WebSocket Connection Rate Limiting ---
	rateStr := os.Getenv("WS_CONN_RATE")
	if rateStr == "" {
		rateStr = "0.2"
	}
	connRate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || connRate <= 0 {
		return nil, fmt.Errorf("invalid WS_CONN_RATE environment variable: %q", rateStr)
	}
	cfg.ConnRate = connRate

	burstStr := os.Getenv("WS_CONN_BURST")
	if burstStr == "" {
		burstStr = "5"
	}
	connBurst, err := strconv.Atoi(burstStr)
	if err != nil || connBurst <= 0 {
		return nil, fmt.Errorf("invalid WS_CONN_BURST environment variable: %q", burstStr)
	}
	cfg.ConnBurst = connBurst

	return cfg, nil
}
