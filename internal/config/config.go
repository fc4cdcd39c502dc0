// Package config ingests the process's environment variables into a
// typed Config, with defaults for everything so an empty environment is
// a valid one.
package config

import (
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/hexclash/server/internal/apperr"
)

// Config holds every externally tunable setting. All fields have
// defaults; every variable is optional.
type Config struct {
	FrontendURL      string
	LocustURL        string
	GridRadius       uint32
	GridBatchDiv     uint8
	UseBenchmarkData bool
	RedisURL         string
}

const (
	defaultFrontendURL  = "http://localhost:5173"
	defaultLocustURL    = "http://localhost:8081"
	defaultGridRadius   = 80
	defaultGridBatchDiv = 8
	defaultRedisURL     = "redis://127.0.0.1:6379"
)

// MustLoad loads Config from the environment and exits the process via
// log.Fatalf on any malformed value. Used by cmd/hexclash-server/main.go.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Load loads Config from the environment, returning an apperr.ConfigErr
// error instead of exiting. Used by tests and anywhere a fatal exit isn't
// appropriate.
func Load() (Config, error) {
	cfg := Config{
		FrontendURL:      getEnv("FRONTEND_URL", defaultFrontendURL),
		LocustURL:        getEnv("LOCUST_URL", defaultLocustURL),
		GridRadius:       defaultGridRadius,
		GridBatchDiv:     defaultGridBatchDiv,
		UseBenchmarkData: false,
		RedisURL:         getEnv("REDIS_URL", defaultRedisURL),
	}

	if _, err := url.Parse(cfg.FrontendURL); err != nil {
		return Config{}, apperr.Config("config.Load", err)
	}
	if _, err := url.Parse(cfg.LocustURL); err != nil {
		return Config{}, apperr.Config("config.Load", err)
	}
	if _, err := url.Parse(cfg.RedisURL); err != nil {
		return Config{}, apperr.Config("config.Load", err)
	}

	if raw, ok := os.LookupEnv("GRID_RADIUS"); ok {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Config{}, apperr.Config("config.Load", err)
		}
		cfg.GridRadius = uint32(v)
	}

	if raw, ok := os.LookupEnv("GRID_BATCH_DIV"); ok {
		v, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return Config{}, apperr.Config("config.Load", err)
		}
		cfg.GridBatchDiv = uint8(v)
	}

	if raw, ok := os.LookupEnv("USE_BENCHMARK_DATA"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, apperr.Config("config.Load", err)
		}
		cfg.UseBenchmarkData = v
	}

	return cfg, nil
}

func getEnv(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
