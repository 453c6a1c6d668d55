package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName          = "KwanzaPay"
	defaultAppEnv           = "development"
	defaultPort             = "8090"
	defaultLogLevel         = "info"
	defaultOTPBaseURL       = "http://localhost:8090"
	defaultSessionNamespace = "device"
	defaultResendCooldown   = 60 * time.Second
	defaultHTTPTimeout      = 15 * time.Second
	defaultShutdownDelay    = 10 * time.Second
	cooldownSecondsEnvVar   = "OTP_RESEND_COOLDOWN_SECONDS"
	cooldownDurationEnvVar  = "OTP_RESEND_COOLDOWN"
	httpTimeoutSecondsVar   = "HTTP_TIMEOUT_SECONDS"
	httpTimeoutDurationVar  = "HTTP_TIMEOUT"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
)

// Config captures runtime configuration loaded from environment variables.
type Config struct {
	AppName          string
	AppEnv           string
	Port             string
	LogLevel         string
	RedisURL         string
	OTPBaseURL       string
	SessionNamespace string
	ResendCooldown   time.Duration
	HTTPTimeout      time.Duration
	ShutdownPeriod   time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. REDIS_URL may be empty; the app core falls back to the in-memory
// session repository in that case.
func Load() (Config, error) {
	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           getEnv("APP_ENV", defaultAppEnv),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		RedisURL:         os.Getenv("REDIS_URL"),
		OTPBaseURL:       getEnv("OTP_BASE_URL", defaultOTPBaseURL),
		SessionNamespace: getEnv("SESSION_NAMESPACE", defaultSessionNamespace),
	}

	var err error
	if cfg.ResendCooldown, err = durationFromEnv(cooldownSecondsEnvVar, cooldownDurationEnvVar, defaultResendCooldown); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = durationFromEnv(httpTimeoutSecondsVar, httpTimeoutDurationVar, defaultHTTPTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}

	if cfg.OTPBaseURL == "" {
		return Config{}, fmt.Errorf("OTP_BASE_URL must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationFromEnv(secondsVar, durationVar string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsVar, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationVar, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
