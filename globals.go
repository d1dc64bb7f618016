package main

import (
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

var (
	cfg Config

	// extractor runs yt-dlp; tests swap it for a stub.
	extractor VideoExtractor

	// Metrics
	inFlight           int64
	formatsServed      int64
	formatsFailed      int64
	downloadsCompleted int64
	downloadsFailed    int64

	// Rate limiter, rate.Inf unless RATE_LIMIT_RPS is set
	rateLimiter = rate.NewLimiter(rate.Inf, 0)

	// Redis client, nil when REDIS_ADDR is unset or unreachable
	redisClient *redis.Client

	serverStartTime = time.Now()
)
