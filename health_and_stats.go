package main

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"
	"time"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)
	health := HealthStatus{
		Status:      "healthy",
		InFlight:    atomic.LoadInt64(&inFlight),
		Uptime:      time.Since(serverStartTime).Truncate(time.Second).String(),
		YtdlpPath:   cfg.YtdlpPath,
		DownloadDir: cfg.DownloadDir,
		Redis:       redisClient != nil,
	}
	writeJSON(w, http.StatusOK, health)
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)
	stats := map[string]interface{}{
		"in_flight":           atomic.LoadInt64(&inFlight),
		"formats_served":      atomic.LoadInt64(&formatsServed),
		"formats_failed":      atomic.LoadInt64(&formatsFailed),
		"downloads_completed": atomic.LoadInt64(&downloadsCompleted),
		"downloads_failed":    atomic.LoadInt64(&downloadsFailed),
		"uptime_seconds":      time.Since(serverStartTime).Seconds(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()
	if shared, err := redisStats(ctx); err != nil {
		log.Printf("[redis] read stats: %v", err)
	} else if shared != nil {
		stats["shared"] = shared
	}
	writeJSON(w, http.StatusOK, stats)
}
