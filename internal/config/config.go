package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // upper bound for one inbound request, sub-fetches included

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SettingsFile  string // path to the portal settings yaml (optional, empty = built-in defaults)
	DefaultEngine string // engine used when a request does not name one with api=

	// Catalogue engine
	AquabrowserURL             string
	AquabrowserAvailabilityURL string
	AquabrowserSuggestionsURL  string
	AquabrowserFacetsURL       string
	AquabrowserTimeout         time.Duration

	// Discovery engine
	SummonScheme  string
	SummonHost    string // ex: "api.summon.serialssolutions.com"
	SummonVersion string // ex: "/2.0.0/search"
	SummonTimeout time.Duration
	SummonAuthID  string
	SummonAuthKey string

	UpstreamRatePerSecond int // outbound requests per second and engine, 0 = unlimited

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to healthz/readyz to specific IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateBurst    int      // inbound requests allowed in a burst per client IP
	RatePerMin   int      // inbound requests per minute per client IP, 0 = unlimited
	CORSOrigins  []string // origins allowed to call the API, empty = any
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LIBGATE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LIBGATE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("LIBGATE_REQUEST_TIMEOUT", 20*time.Second),

		// Logging
		LogLevel:  getenv("LIBGATE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LIBGATE_PRETTY_LOG", true),

		// Portal
		SettingsFile:  getenv("LIBGATE_SETTINGS_FILE", ""),
		DefaultEngine: strings.ToLower(getenv("LIBGATE_DEFAULT_ENGINE", "summon")),

		// Aquabrowser
		AquabrowserURL:             getenv("AQUABROWSER_URL", "http://search.lib.cam.ac.uk/result.ashx"),
		AquabrowserAvailabilityURL: getenv("AQUABROWSER_AVAILABILITY_URL", "http://search.lib.cam.ac.uk/availability.ashx"),
		AquabrowserSuggestionsURL:  getenv("AQUABROWSER_SUGGESTIONS_URL", "http://search.lib.cam.ac.uk/AquaServer.ashx"),
		AquabrowserFacetsURL:       getenv("AQUABROWSER_FACETS_URL", "http://search.lib.cam.ac.uk/RefinePanel.ashx"),
		AquabrowserTimeout:         mustDuration("AQUABROWSER_TIMEOUT", 5*time.Second),

		// Summon
		SummonScheme:  getenv("SUMMON_SCHEME", "http"),
		SummonHost:    getenv("SUMMON_HOST", "api.summon.serialssolutions.com"),
		SummonVersion: getenv("SUMMON_VERSION", "/2.0.0/search"),
		SummonTimeout: mustDuration("SUMMON_TIMEOUT", 10*time.Second),
		SummonAuthID:  requireEnv("SUMMON_AUTH_ID"),
		SummonAuthKey: requireEnv("SUMMON_AUTH_KEY"),

		UpstreamRatePerSecond: getenvInt("UPSTREAM_RATE_PER_SECOND", 10),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LIBGATE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("LIBGATE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LIBGATE_TRUST_PROXY", true),
		RateBurst:    getenvInt("LIBGATE_RATE_BURST", 20),
		RatePerMin:   getenvInt("LIBGATE_RATE_PER_MIN", 120),
		CORSOrigins:  splitAndTrim(getenv("LIBGATE_CORS_ORIGINS", "")),
	}

	if cfg.DefaultEngine != "summon" && cfg.DefaultEngine != "aquabrowser" {
		panic(fmt.Sprintf("❌ FATAL: LIBGATE_DEFAULT_ENGINE must be summon or aquabrowser, got %q", cfg.DefaultEngine))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.SummonAuthKey != "" {
		cp.SummonAuthKey = "***REDACTED***"
	}
	if cp.SummonAuthID != "" {
		cp.SummonAuthID = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
