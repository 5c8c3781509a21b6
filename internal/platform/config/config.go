package config

import (
	"os"
	"strconv"
)

// Server captures process-level configuration.
type Server struct {
	Addr               string
	TenantConfigPath   string
	DefaultDestination string

	// Identification pipeline toggles.
	EnableFuzzyMatching     bool
	EnableHierarchyMatching bool
	ConfidenceThreshold     float64

	// Optional reload notification transport. Empty disables it.
	RedisURL      string
	ReloadChannel string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                    envOr("MAILGATE_ADDR", ":8080"),
		TenantConfigPath:        envOr("MAILGATE_TENANT_CONFIG", "tenants.yaml"),
		DefaultDestination:      envOr("MAILGATE_DEFAULT_DESTINATION", "unrouted@mailgate.local"),
		EnableFuzzyMatching:     envBool("MAILGATE_FUZZY_MATCHING", true),
		EnableHierarchyMatching: envBool("MAILGATE_HIERARCHY_MATCHING", true),
		ConfidenceThreshold:     envFloat("MAILGATE_CONFIDENCE_THRESHOLD", 0.7),
		RedisURL:                os.Getenv("MAILGATE_REDIS_URL"),
		ReloadChannel:           envOr("MAILGATE_RELOAD_CHANNEL", "mailgate:directory:reload"),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
