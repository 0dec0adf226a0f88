package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default upstream endpoints
const (
	DefaultHomeFeedURL       = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSDNS01NBHBP4cJ_7_q0OTIuVf1AY_QNoER6tUi7kfVjGsRamCDcWGuP7cgO5k6Fw/pub?output=csv"
	DefaultComplianceFeedURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQcDBUZMQ1qXQ7drsmMx1ge8EsFCML1vcjgr-Yttsy2MdKrOGGh23_nav2uL9L82w/pub?output=csv"
	DefaultOpenFIGIBaseURL   = "https://api.openfigi.com"
	DefaultBrokerListURL     = "https://www.sebi.gov.in/sebiweb/other/IntmExportAction.do?intmId=37"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Fetch     FetchConfig
	Feeds     FeedsConfig
	OpenFIGI  OpenFIGIConfig
	Broker    BrokerConfig
	Session   SessionConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// FetchConfig holds settings shared by every outbound spreadsheet download
type FetchConfig struct {
	Timeout     time.Duration
	MaxBodySize int64
}

// FeedsConfig holds the two read-only spreadsheet feeds
type FeedsConfig struct {
	HomeURL       string
	ComplianceURL string
}

// OpenFIGIConfig holds the identifier mapping service settings
type OpenFIGIConfig struct {
	BaseURL              string
	APIKey               string
	Timeout              time.Duration
	BatchSize            int
	MaxConcurrentBatches int
	RateLimit            float64 // requests per second, 0 disables limiting
	RateBurst            int
}

// BrokerConfig holds the regulator broker list settings
type BrokerConfig struct {
	URL       string
	HeaderRow int // 0-based index of the header row in the export
}

// SessionConfig holds dashboard session settings
type SessionConfig struct {
	CookieName      string
	TTL             time.Duration
	CleanupInterval time.Duration
	Secure          bool
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	ExportMetrics     bool
	MetricsInterval   time.Duration
	ExportLogs        bool // bridge zap output to the collector
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with OBPP_ prefix (e.g., OBPP_OPENFIGI_API_KEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("OBPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// -1 marks the header row as unset so that an explicit 0 survives applyDefaults
	v.SetDefault("broker.header_row", -1)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Fetch: FetchConfig{
			Timeout:     v.GetDuration("fetch.timeout"),
			MaxBodySize: v.GetInt64("fetch.max_body_size"),
		},
		Feeds: FeedsConfig{
			HomeURL:       v.GetString("feeds.home_url"),
			ComplianceURL: v.GetString("feeds.compliance_url"),
		},
		OpenFIGI: OpenFIGIConfig{
			BaseURL:              v.GetString("openfigi.base_url"),
			APIKey:               v.GetString("openfigi.api_key"),
			Timeout:              v.GetDuration("openfigi.timeout"),
			BatchSize:            v.GetInt("openfigi.batch_size"),
			MaxConcurrentBatches: v.GetInt("openfigi.max_concurrent_batches"),
			RateLimit:            v.GetFloat64("openfigi.rate_limit"),
			RateBurst:            v.GetInt("openfigi.rate_burst"),
		},
		Broker: BrokerConfig{
			URL:       v.GetString("broker.url"),
			HeaderRow: v.GetInt("broker.header_row"),
		},
		Session: SessionConfig{
			CookieName:      v.GetString("session.cookie_name"),
			TTL:             v.GetDuration("session.ttl"),
			CleanupInterval: v.GetDuration("session.cleanup_interval"),
			Secure:          v.GetBool("session.secure"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			ExportMetrics:     v.GetBool("telemetry.export_metrics"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			ExportLogs:        v.GetBool("telemetry.export_logs"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "obpp-dashboard"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	// ISIN uploads with many batches take a while
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 5 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 30 * time.Second
	}
	if cfg.Fetch.MaxBodySize == 0 {
		cfg.Fetch.MaxBodySize = 20 << 20 // 20MB
	}
	if cfg.Feeds.HomeURL == "" {
		cfg.Feeds.HomeURL = DefaultHomeFeedURL
	}
	if cfg.Feeds.ComplianceURL == "" {
		cfg.Feeds.ComplianceURL = DefaultComplianceFeedURL
	}
	if cfg.OpenFIGI.BaseURL == "" {
		cfg.OpenFIGI.BaseURL = DefaultOpenFIGIBaseURL
	}
	if cfg.OpenFIGI.Timeout == 0 {
		cfg.OpenFIGI.Timeout = 30 * time.Second
	}
	if cfg.OpenFIGI.BatchSize == 0 {
		cfg.OpenFIGI.BatchSize = 100
	}
	if cfg.OpenFIGI.MaxConcurrentBatches == 0 {
		cfg.OpenFIGI.MaxConcurrentBatches = 1
	}
	if cfg.OpenFIGI.RateBurst == 0 {
		cfg.OpenFIGI.RateBurst = 1
	}
	if cfg.Broker.URL == "" {
		cfg.Broker.URL = DefaultBrokerListURL
	}
	// the regulator export carries two title rows above the header
	if cfg.Broker.HeaderRow < 0 {
		cfg.Broker.HeaderRow = 2
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "obpp_session"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 30 * time.Minute
	}
	if cfg.Session.CleanupInterval == 0 {
		cfg.Session.CleanupInterval = 5 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "obpp-dashboard"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	for name, raw := range map[string]string{
		"feeds.home_url":       c.Feeds.HomeURL,
		"feeds.compliance_url": c.Feeds.ComplianceURL,
		"openfigi.base_url":    c.OpenFIGI.BaseURL,
		"broker.url":           c.Broker.URL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	if c.OpenFIGI.BatchSize < 0 || c.OpenFIGI.BatchSize > 100 {
		return fmt.Errorf("openfigi.batch_size must be between 1 and 100, got %d", c.OpenFIGI.BatchSize)
	}
	if c.OpenFIGI.MaxConcurrentBatches < 0 {
		return fmt.Errorf("openfigi.max_concurrent_batches cannot be negative")
	}
	if c.OpenFIGI.RateLimit < 0 {
		return fmt.Errorf("openfigi.rate_limit cannot be negative")
	}
	if c.OpenFIGI.RateBurst < 0 {
		return fmt.Errorf("openfigi.rate_burst cannot be negative")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.OpenFIGI.APIKey == "" {
			return fmt.Errorf("openfigi.api_key is required in production")
		}
		if !c.Session.Secure {
			return fmt.Errorf("session.secure must be true in production (HTTPS required for secure cookies)")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// MaskedAPIKey returns the API key with all but the last four characters hidden
func (c *OpenFIGIConfig) MaskedAPIKey() string {
	if len(c.APIKey) <= 4 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}
