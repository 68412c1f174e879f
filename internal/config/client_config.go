package config

import (
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Client config defaults, matching the web app the API expects to see.
const (
	DefaultAPIURL     = "https://api.thesufferfest.com/graphql"
	DefaultAppVersion = "7.101.1-web.3480-7-g4802ce80"
	AppPlatform       = "web"
	DefaultLocale     = "en"
	DefaultTimeout    = 30 * time.Second
)

// ClientConfig is the immutable runtime configuration for the SYSTM API
// client: endpoint, app identity headers, locale and request timeout.
type ClientConfig struct {
	APIURL      string
	AppVersion  string
	AppPlatform string
	InstallID   string // optional; empty means omitted from headers/payloads
	Locale      string
	Timeout     time.Duration
}

// ClientConfigFromEnv builds the client configuration from environment
// variables, with defaults for everything. No validation beyond type
// coercion happens here.
func ClientConfigFromEnv() ClientConfig {
	cfg := ClientConfig{
		APIURL:      envOrDefault("SYSTM_API_URL", DefaultAPIURL),
		AppVersion:  envOrDefault("SYSTM_APP_VERSION", DefaultAppVersion),
		AppPlatform: AppPlatform,
		InstallID:   os.Getenv("SYSTM_INSTALL_ID"),
		Locale:      envOrDefault("SYSTM_LOCALE", DefaultLocale),
		Timeout:     DefaultTimeout,
	}

	if timeoutSeconds := os.Getenv("SYSTM_TIMEOUT_SECONDS"); timeoutSeconds != "" {
		seconds, err := strconv.Atoi(timeoutSeconds)
		if err != nil || seconds <= 0 {
			log.Warnf("invalid SYSTM_TIMEOUT_SECONDS %q, using default %s", timeoutSeconds, DefaultTimeout)
		} else {
			cfg.Timeout = time.Duration(seconds) * time.Second
		}
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
