package openfigi

import (
	"errors"
	"net/url"
	"time"
)

// ProductionBaseURL is the public OpenFIGI endpoint
const ProductionBaseURL = "https://api.openfigi.com"

// Config holds OpenFIGI client settings
type Config struct {
	// BaseURL is scheme and host, the client appends /v3/mapping
	BaseURL string
	// APIKey is sent as X-OPENFIGI-APIKEY when set
	APIKey  string
	Timeout time.Duration
}

// Errors for OpenFIGI configuration
var (
	ErrConfigInvalidBaseURL = errors.New("openfigi: base URL must be absolute")
	ErrConfigInvalidTimeout = errors.New("openfigi: timeout must be positive")
)

// NewConfig creates a configuration for the public endpoint with defaults
func NewConfig(apiKey string) *Config {
	return &Config{
		BaseURL: ProductionBaseURL,
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrConfigInvalidBaseURL
	}
	if c.Timeout <= 0 {
		return ErrConfigInvalidTimeout
	}
	return nil
}
