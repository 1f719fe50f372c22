package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Instance input limits.
	MaxInlineSize int64

	// Issue pagination defaults.
	IssueLimit int
	MaxLimit   int

	// Schema resolution settings.
	MaxRefDepth  int
	FetchTimeout time.Duration

	// Network policy.
	AllowPrivateIPs bool

	// Validate tool defaults.
	NoWarnings bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from STACSCHEMA_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		MaxInlineSize:   envInt64("STACSCHEMA_MAX_INLINE_SIZE", 10*1024*1024),
		IssueLimit:      envInt("STACSCHEMA_ISSUE_LIMIT", 100),
		MaxLimit:        envInt("STACSCHEMA_MAX_LIMIT", 1000),
		MaxRefDepth:     envInt("STACSCHEMA_MAX_REF_DEPTH", 100),
		FetchTimeout:    envDuration("STACSCHEMA_FETCH_TIMEOUT", 30*time.Second),
		AllowPrivateIPs: envBool("STACSCHEMA_ALLOW_PRIVATE_IPS", false),
		NoWarnings:      envBool("STACSCHEMA_NO_WARNINGS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
