package api

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range configKeys {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, 465, cfg.EmailPort)
	require.True(t, cfg.EmailSecure)
	require.Equal(t, 50, cfg.RateLimitBurst)
	require.InDelta(t, 0.0556, cfg.RateLimitRPS, 0.0001)
	require.Equal(t, 10*time.Second, cfg.PayPalTimeout)
	require.False(t, cfg.PayPalConfigured())
	require.False(t, cfg.SMTP().Enabled())

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "America/Santo_Domingo", loc.String())

	obs := cfg.Observability("booking-api")
	require.Equal(t, "booking-api", obs.ServiceName)
	require.Equal(t, "local", obs.Environment)
	require.True(t, obs.OTLPInsecure)
	require.Equal(t, 30*time.Second, obs.MetricInterval)
}

func TestLoadConfig_ObservabilitySettings(t *testing.T) {
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", " collector:4318 ")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "false")
	t.Setenv("OTEL_METRIC_EXPORT_INTERVAL", "5s")

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)
	obs := cfg.Observability("booking-worker")
	require.Equal(t, "production", obs.Environment)
	require.Equal(t, "collector:4318", obs.OTLPEndpoint)
	require.False(t, obs.OTLPInsecure)
	require.Equal(t, 5*time.Second, obs.MetricInterval)
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_DSN", " postgres://localhost/bookings ")
	t.Setenv("PAYPAL_CLIENT_ID", "id")
	t.Setenv("PAYPAL_CLIENT_SECRET", "secret")
	t.Setenv("PAYPAL_TIMEOUT", "3s")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_SENDER", "bookings@example.com")
	t.Setenv("EMAIL_PORT", "587")
	t.Setenv("EMAIL_SECURE", "false")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("BOOKING_TIMEZONE", "UTC")

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, "postgres://localhost/bookings", cfg.PostgresDSN)
	require.True(t, cfg.PayPalConfigured())
	require.Equal(t, 3*time.Second, cfg.PayPalTimeout)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, 5, cfg.RateLimitBurst)

	smtp := cfg.SMTP()
	require.True(t, smtp.Enabled())
	require.Equal(t, 587, smtp.Port)
	require.False(t, smtp.Secure)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	t.Setenv("BOOKING_TIMEZONE", "Mars/Olympus")
	_, err := loadConfig(viper.New())
	require.ErrorContains(t, err, "BOOKING_TIMEZONE")

	t.Setenv("BOOKING_TIMEZONE", "UTC")
	t.Setenv("RATE_LIMIT_RPS", "-1")
	_, err = loadConfig(viper.New())
	require.ErrorContains(t, err, "RATE_LIMIT_RPS")
}
