package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

const (
	DefaultPort            = "8080"
	DefaultTrackingURL     = "https://v2.platform.happyrobot.ai/maersk-5y5b/workflow/wfxnxbgynphv/runs"
	DefaultUpstreamTimeout = 30 * time.Second
	DefaultHistoryTTL      = 24 * time.Hour
	DefaultStaticDir       = "./public"
	DefaultOpenAPILocation = "./api/openapi.json"
)

var (
	ErrMissingAPIURL = errors.New("API_URL is required")
	ErrMissingAPIKey = errors.New("API_KEY is required")
)

// Payload holds the constant part of the upstream body for one deployment.
type Payload struct {
	Country          string
	TrafficDirection string
	Mode             string
	Source           string
	Destination      string

	// FreightOrderKey is the JSON key used for the freight order. The json
	// variant defaults to the "frieghtOrder" spelling the workflow expects.
	FreightOrderKey string
}

type Config struct {
	APIURL          string
	APIKey          string
	Port            string
	Format          Format
	TrackingURL     string
	UpstreamTimeout time.Duration
	Payload         Payload

	HistoryRedisURI string
	HistoryTTL      time.Duration

	StaticDir       string
	OpenAPILocation string
	LogLevel        string
	Production      bool
}

// Load reads the configuration through lookup, usually os.LookupEnv.
func Load(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return def
		}
		return value
	}

	c := &Config{
		APIURL:          get("API_URL", ""),
		APIKey:          get("API_KEY", ""),
		Port:            get("PORT", DefaultPort),
		TrackingURL:     get("TRACKING_URL", DefaultTrackingURL),
		HistoryRedisURI: get("HISTORY_REDIS_URI", ""),
		StaticDir:       get("STATIC_DIR", DefaultStaticDir),
		OpenAPILocation: get("OPENAPI_LOCATION", DefaultOpenAPILocation),
		LogLevel:        get("LOG_LEVEL", "info"),
		Production:      get("ENV", "") == "production",
	}

	if c.APIURL == "" {
		return nil, ErrMissingAPIURL
	}
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	switch format := Format(strings.ToLower(get("RESPONSE_FORMAT", string(FormatJSON)))); format {
	case FormatHTML, FormatJSON:
		c.Format = format
	default:
		return nil, fmt.Errorf("RESPONSE_FORMAT must be html or json, got %q", format)
	}

	var err error
	c.UpstreamTimeout, err = duration(get("UPSTREAM_TIMEOUT", ""), DefaultUpstreamTimeout)
	if err != nil {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
	}

	c.HistoryTTL, err = duration(get("HISTORY_TTL", ""), DefaultHistoryTTL)
	if err != nil {
		return nil, fmt.Errorf("HISTORY_TTL: %w", err)
	}

	freightOrderKey := "freightOrder"
	if c.Format == FormatJSON {
		freightOrderKey = "frieghtOrder"
	}

	c.Payload = Payload{
		Country:          get("PAYLOAD_COUNTRY", "US"),
		TrafficDirection: get("PAYLOAD_TRAFFIC_DIRECTION", "Import"),
		Mode:             get("PAYLOAD_MODE", "Road"),
		Source:           get("PAYLOAD_SOURCE", ""),
		Destination:      get("PAYLOAD_DESTINATION", ""),
		FreightOrderKey:  get("PAYLOAD_FREIGHT_ORDER_KEY", freightOrderKey),
	}

	return c, nil
}

// FromEnv loads the configuration from the process environment.
func FromEnv() (*Config, error) {
	return Load(os.LookupEnv)
}

// MaskedAPIKey keeps the first characters of the key for diagnostics.
func (c *Config) MaskedAPIKey() string {
	return MaskSecret(c.APIKey)
}

func MaskSecret(secret string) string {
	const visible = 6

	if secret == "" {
		return "MISSING"
	}
	if len(secret) <= visible {
		return "****"
	}
	return secret[:visible] + "…"
}

func duration(value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", value)
	}

	return d, nil
}
