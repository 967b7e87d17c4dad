// Package config loads the settings of the checkout hosts from the environment
// (optionally seeded from a .env file) or from an opaque host key/value bundle.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	checkoutctx "github.com/yourorg/checkout-components/internal/context"
	"github.com/yourorg/checkout-components/internal/sdk"
	"github.com/yourorg/checkout-components/internal/session"
)

const (
	DefaultSandboxBaseURL    = "https://api.sandbox.checkout.com"
	DefaultProductionBaseURL = "https://api.checkout.com"
	DefaultSuccessURL        = "https://example.com/payments/success"
	DefaultFailureURL        = "https://example.com/payments/failure"
	DefaultApplePayMerchant  = "merchant.com.flow.checkout.sandbox"
)

// Config is the full host configuration.
type Config struct {
	Server      ServerConfig
	Payments    PaymentsConfig
	Merchant    MerchantConfig
	Telemetry   TelemetryConfig
	Environment sdk.Environment
	LogLevel    string
	// PresetPath optionally points at a YAML file of component settings.
	PresetPath string
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PaymentsConfig configures the payments API client.
type PaymentsConfig struct {
	SandboxBaseURL    string
	ProductionBaseURL string
	Timeout           time.Duration
	// BreakerFailures consecutive failures open the circuit for BreakerOpenTimeout.
	BreakerFailures    int
	BreakerOpenTimeout time.Duration
}

// MerchantConfig holds the merchant keys and static session inputs.
type MerchantConfig struct {
	PublicKey           string
	SecretKey           string
	ProcessingChannelID string
	ApplePayMerchantID  string
	SuccessURL          string
	FailureURL          string
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	Enabled       bool
	ServiceName   string
	TraceExporter string // "stdout" or "none"
}

// Load reads the configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromLookup(os.Getenv)
}

// Bundle keys accepted by FromBundle.
const (
	BundlePublicKey           = "publicKey"
	BundleSecretKey           = "secretKey"
	BundleProcessingChannelID = "processingChannelID"
	BundleEnvironment         = "environment"
	BundleApplePayMerchantID  = "applePayMerchantID"
	BundleSuccessURL          = "successURL"
	BundleFailureURL          = "failureURL"
	BundleBaseURL             = "baseURL"
)

var bundleKeys = map[string]string{
	"CKO_PUBLIC_KEY":            BundlePublicKey,
	"CKO_SECRET_KEY":            BundleSecretKey,
	"CKO_PROCESSING_CHANNEL_ID": BundleProcessingChannelID,
	"CKO_ENVIRONMENT":           BundleEnvironment,
	"CKO_APPLE_PAY_MERCHANT_ID": BundleApplePayMerchantID,
	"CKO_SUCCESS_URL":           BundleSuccessURL,
	"CKO_FAILURE_URL":           BundleFailureURL,
	"CKO_SANDBOX_BASE_URL":      BundleBaseURL,
}

// FromBundle builds a configuration from the opaque key/value bundle a host hands
// over at setup time. Unknown keys are ignored; missing keys take their defaults.
func FromBundle(bundle map[string]string) (*Config, error) {
	return fromLookup(func(envKey string) string {
		if k, ok := bundleKeys[envKey]; ok {
			return bundle[k]
		}
		return ""
	})
}

func fromLookup(lookup func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Environment: sdk.Environment(strings.ToLower(get("CKO_ENVIRONMENT", string(sdk.EnvironmentSandbox)))),
		LogLevel:    get("LOG_LEVEL", "INFO"),
		PresetPath:  get("CKO_PRESET", ""),
		Server: ServerConfig{
			Port:         getAsInt(get, "SERVER_PORT", 8080),
			ReadTimeout:  getAsDuration(get, "SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getAsDuration(get, "SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Payments: PaymentsConfig{
			SandboxBaseURL:     get("CKO_SANDBOX_BASE_URL", DefaultSandboxBaseURL),
			ProductionBaseURL:  get("CKO_PRODUCTION_BASE_URL", DefaultProductionBaseURL),
			Timeout:            getAsDuration(get, "CKO_HTTP_TIMEOUT", 10*time.Second),
			BreakerFailures:    getAsInt(get, "CKO_BREAKER_FAILURES", 5),
			BreakerOpenTimeout: getAsDuration(get, "CKO_BREAKER_OPEN_TIMEOUT", 30*time.Second),
		},
		Merchant: MerchantConfig{
			PublicKey:           get("CKO_PUBLIC_KEY", ""),
			SecretKey:           get("CKO_SECRET_KEY", ""),
			ProcessingChannelID: get("CKO_PROCESSING_CHANNEL_ID", ""),
			ApplePayMerchantID:  get("CKO_APPLE_PAY_MERCHANT_ID", DefaultApplePayMerchant),
			SuccessURL:          get("CKO_SUCCESS_URL", DefaultSuccessURL),
			FailureURL:          get("CKO_FAILURE_URL", DefaultFailureURL),
		},
		Telemetry: TelemetryConfig{
			Enabled:       getAsBool(get, "OTEL_ENABLED", true),
			ServiceName:   get("OTEL_SERVICE_NAME", "checkout-components"),
			TraceExporter: get("OTEL_TRACES_EXPORTER", "stdout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Merchant.PublicKey == "" {
		return fmt.Errorf("CKO_PUBLIC_KEY is required")
	}
	if c.Merchant.SecretKey == "" {
		return fmt.Errorf("CKO_SECRET_KEY is required")
	}
	if !c.Environment.Valid() {
		return fmt.Errorf("CKO_ENVIRONMENT must be sandbox or production, got %q", c.Environment)
	}
	return nil
}

// BaseURL returns the payments API base URL for env.
func (c *Config) BaseURL(env sdk.Environment) string {
	if env == sdk.EnvironmentProduction {
		return c.Payments.ProductionBaseURL
	}
	return c.Payments.SandboxBaseURL
}

// Network returns the payments API client for the configured environment,
// guarded by a circuit breaker.
func (c *Config) Network() *session.Breaker {
	client := session.NewHTTPClient(c.BaseURL(c.Environment), c.Merchant.SecretKey, &http.Client{Timeout: c.Payments.Timeout})
	return session.NewBreaker(client, session.BreakerConfig{
		FailureThreshold: c.Payments.BreakerFailures,
		OpenTimeout:      c.Payments.BreakerOpenTimeout,
	})
}

// Profiles returns a profile repository with one profile per environment.
// Both environments share the configured keys.
func (c *Config) Profiles() *checkoutctx.InMemoryProfileRepository {
	repo := checkoutctx.NewInMemoryProfileRepository()
	for _, env := range []sdk.Environment{sdk.EnvironmentSandbox, sdk.EnvironmentProduction} {
		repo.AddProfile(checkoutctx.MerchantProfile{
			Environment:         env,
			PublicKey:           c.Merchant.PublicKey,
			SecretKey:           c.Merchant.SecretKey,
			ProcessingChannelID: c.Merchant.ProcessingChannelID,
			ApplePayMerchantID:  c.Merchant.ApplePayMerchantID,
			SuccessURL:          c.Merchant.SuccessURL,
			FailureURL:          c.Merchant.FailureURL,
		})
	}
	return repo
}

// Address returns the listen address of the HTTP host.
func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

func getAsInt(get func(string, string) string, key string, def int) int {
	v, err := strconv.Atoi(get(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getAsBool(get func(string, string) string, key string, def bool) bool {
	v, err := strconv.ParseBool(get(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getAsDuration(get func(string, string) string, key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(get(key, ""))
	if err != nil {
		return def
	}
	return v
}
