package api

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-booking-api/internal/platform/mail"
	"github.com/Apurer/go-gin-booking-api/internal/platform/observability"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port              string `mapstructure:"PORT"`
	PostgresDSN       string `mapstructure:"POSTGRES_DSN"`
	TemporalAddress   string `mapstructure:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `mapstructure:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool   `mapstructure:"TEMPORAL_DISABLED"`

	PayPalClientID     string        `mapstructure:"PAYPAL_CLIENT_ID"`
	PayPalClientSecret string        `mapstructure:"PAYPAL_CLIENT_SECRET"`
	PayPalMode         string        `mapstructure:"PAYPAL_MODE"`
	PayPalTimeout      time.Duration `mapstructure:"PAYPAL_TIMEOUT"`
	PayPalBrandName    string        `mapstructure:"PAYPAL_BRAND_NAME"`

	EmailHost            string `mapstructure:"EMAIL_HOST"`
	EmailPort            int    `mapstructure:"EMAIL_PORT"`
	EmailSecure          bool   `mapstructure:"EMAIL_SECURE"`
	EmailSender          string `mapstructure:"EMAIL_SENDER"`
	EmailPassword        string `mapstructure:"EMAIL_PASSWORD"`
	ContactEmailReceiver string `mapstructure:"CONTACT_EMAIL_RECEIVER"`

	AdminAPIToken  string  `mapstructure:"ADMIN_API_TOKEN"`
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	BookingTimezone string `mapstructure:"BOOKING_TIMEZONE"`
	StrictStatus    bool   `mapstructure:"STRICT_STATUS_TRANSITIONS"`

	Environment    string        `mapstructure:"ENVIRONMENT"`
	OTLPEndpoint   string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure   bool          `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	MetricInterval time.Duration `mapstructure:"OTEL_METRIC_EXPORT_INTERVAL"`
}

var configKeys = []string{
	"PORT", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
	"PAYPAL_CLIENT_ID", "PAYPAL_CLIENT_SECRET", "PAYPAL_MODE", "PAYPAL_TIMEOUT", "PAYPAL_BRAND_NAME",
	"EMAIL_HOST", "EMAIL_PORT", "EMAIL_SECURE", "EMAIL_SENDER", "EMAIL_PASSWORD", "CONTACT_EMAIL_RECEIVER",
	"ADMIN_API_TOKEN", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BOOKING_TIMEZONE", "STRICT_STATUS_TRANSITIONS",
	"ENVIRONMENT", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_METRIC_EXPORT_INTERVAL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("TEMPORAL_DISABLED", false)
	v.SetDefault("PAYPAL_MODE", "sandbox")
	v.SetDefault("PAYPAL_TIMEOUT", 10*time.Second)
	v.SetDefault("PAYPAL_BRAND_NAME", "EXPEDINAP")
	v.SetDefault("EMAIL_PORT", 465)
	v.SetDefault("EMAIL_SECURE", true)
	// 50 writes per 15 minutes per IP.
	v.SetDefault("RATE_LIMIT_RPS", 50.0/(15*60))
	v.SetDefault("RATE_LIMIT_BURST", 50)
	v.SetDefault("BOOKING_TIMEZONE", "America/Santo_Domingo")
	v.SetDefault("STRICT_STATUS_TRANSITIONS", false)
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
	v.SetDefault("OTEL_METRIC_EXPORT_INTERVAL", 30*time.Second)
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	return loadConfig(viper.New())
}

func loadConfig(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	// AutomaticEnv only answers Get; binding makes Unmarshal see keys without a default.
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	trimStrings(&cfg)
	if cfg.RateLimitRPS < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if cfg.RateLimitBurst < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must not be negative")
	}
	if cfg.EmailPort <= 0 || cfg.EmailPort > 65535 {
		return Config{}, fmt.Errorf("EMAIL_PORT must be a valid TCP port")
	}
	if cfg.MetricInterval < 0 {
		return Config{}, fmt.Errorf("OTEL_METRIC_EXPORT_INTERVAL must not be negative")
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, fmt.Errorf("BOOKING_TIMEZONE: %w", err)
	}
	return cfg, nil
}

func trimStrings(cfg *Config) {
	for _, s := range []*string{
		&cfg.Port, &cfg.PostgresDSN, &cfg.TemporalAddress, &cfg.TemporalNamespace,
		&cfg.PayPalClientID, &cfg.PayPalClientSecret, &cfg.PayPalMode, &cfg.PayPalBrandName,
		&cfg.EmailHost, &cfg.EmailSender, &cfg.ContactEmailReceiver, &cfg.AdminAPIToken, &cfg.BookingTimezone,
		&cfg.Environment, &cfg.OTLPEndpoint,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// Location resolves the booking timezone used for calendar dates.
func (c Config) Location() (*time.Location, error) {
	if c.BookingTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.BookingTimezone)
}

// PayPalConfigured reports whether both PayPal credentials are present.
func (c Config) PayPalConfigured() bool {
	return c.PayPalClientID != "" && c.PayPalClientSecret != ""
}

// SMTP maps the EMAIL_* settings onto the mailer configuration.
func (c Config) SMTP() mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:     c.EmailHost,
		Port:     c.EmailPort,
		Secure:   c.EmailSecure,
		Sender:   c.EmailSender,
		Password: c.EmailPassword,
		FromName: c.PayPalBrandName,
	}
}

// Observability maps the OTEL_* settings onto the exporter configuration for one process.
func (c Config) Observability(serviceName string) observability.Settings {
	return observability.Settings{
		ServiceName:    serviceName,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTLPEndpoint,
		OTLPInsecure:   c.OTLPInsecure,
		MetricInterval: c.MetricInterval,
	}
}

// Addr is the listen address derived from PORT.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
