package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults, overridable from the environment (see loadConfig).
const (
	DefaultPort            = "3005"
	DefaultYtdlpPath       = "yt-dlp"
	DefaultExtractTimeout  = 45 * time.Second
	DefaultDownloadTimeout = 30 * time.Minute

	// yt-dlp extractor argument pinning the YouTube player client.
	PlayerClientArg = "youtube:player_client=default"

	JanitorInterval  = 1 * time.Hour
	ShutdownTimeout  = 15 * time.Second
	StderrTailLimit  = 4096
	RedisStatsKey    = "ytmerge:stats"
	RedisPingTimeout = 2 * time.Second
)

type Config struct {
	Port            string
	DownloadDir     string
	YtdlpPath       string
	ExtractTimeout  time.Duration
	DownloadTimeout time.Duration
	PerRequestDirs  bool

	RateLimitRPS   float64
	RateLimitBurst int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DownloadRetention time.Duration
	LogFile           string
}

func loadConfig() Config {
	return Config{
		Port:            getenv("PORT", DefaultPort),
		DownloadDir:     getenv("DOWNLOAD_DIR", filepath.Join(os.TempDir(), "downloads")),
		YtdlpPath:       getenv("YTDLP_PATH", DefaultYtdlpPath),
		ExtractTimeout:  getenvDuration("EXTRACT_TIMEOUT", DefaultExtractTimeout),
		DownloadTimeout: getenvDuration("DOWNLOAD_TIMEOUT", DefaultDownloadTimeout),
		PerRequestDirs:  getenvBool("PER_REQUEST_DIRS", false),

		RateLimitRPS:   getenvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getenvInt("RATE_LIMIT_BURST", 0),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		DownloadRetention: getenvDuration("DOWNLOAD_RETENTION", 0),
		LogFile:           getenv("LOG_FILE", ""),
	}
}

func (c Config) ListenAddr() string {
	return ":" + c.Port
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}
