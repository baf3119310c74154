package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Apurer/breakfast-erp/internal/platform/dispatch"
	"github.com/Apurer/breakfast-erp/internal/platform/observability"
)

const defaultHTTPShutdownTimeout = 10 * time.Second

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                string
	PostgresDSN         string
	Log                 observability.LogConfig
	EventPool           dispatch.Config
	HTTPShutdownTimeout time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        envDefault("PORT", "8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		Log: observability.LogConfig{
			Backend: strings.ToLower(envDefault("LOG_BACKEND", observability.LogBackendZap)),
			Level:   envDefault("LOG_LEVEL", "info"),
		},
		EventPool:           dispatch.DefaultConfig(),
		HTTPShutdownTimeout: defaultHTTPShutdownTimeout,
	}
	switch cfg.Log.Backend {
	case observability.LogBackendZap, observability.LogBackendSlog:
	default:
		return Config{}, fmt.Errorf("LOG_BACKEND must be %q or %q", observability.LogBackendZap, observability.LogBackendSlog)
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PORT must be a valid TCP port")
	}

	var err error
	if cfg.EventPool.CoreWorkers, err = positiveInt("EVENT_POOL_CORE_WORKERS", cfg.EventPool.CoreWorkers); err != nil {
		return Config{}, err
	}
	if cfg.EventPool.MaxWorkers, err = positiveInt("EVENT_POOL_MAX_WORKERS", cfg.EventPool.MaxWorkers); err != nil {
		return Config{}, err
	}
	if cfg.EventPool.MaxWorkers < cfg.EventPool.CoreWorkers {
		return Config{}, fmt.Errorf("EVENT_POOL_MAX_WORKERS must not be below EVENT_POOL_CORE_WORKERS")
	}
	if raw := strings.TrimSpace(os.Getenv("EVENT_POOL_QUEUE_SIZE")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 0 {
			return Config{}, fmt.Errorf("EVENT_POOL_QUEUE_SIZE must be a non-negative integer")
		}
		cfg.EventPool.QueueSize = size
	}
	if cfg.EventPool.KeepAlive, err = positiveDuration("EVENT_POOL_KEEP_ALIVE", cfg.EventPool.KeepAlive); err != nil {
		return Config{}, err
	}
	if cfg.EventPool.ShutdownGrace, err = positiveDuration("EVENT_POOL_SHUTDOWN_GRACE", cfg.EventPool.ShutdownGrace); err != nil {
		return Config{}, err
	}
	if cfg.HTTPShutdownTimeout, err = positiveDuration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTPShutdownTimeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

// positiveDuration accepts Go durations ("90s") or a bare number of seconds.
func positiveDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		raw = strconv.Itoa(secs) + "s"
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration", key)
	}
	return d, nil
}
