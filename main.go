package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	_ = godotenv.Load(".env")

	cfg = loadConfig()
	setupLogging(cfg.LogFile)

	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		log.Fatalf("[boot] create download dir %s: %v", cfg.DownloadDir, err)
	}
	if _, err := exec.LookPath(cfg.YtdlpPath); err != nil {
		log.Printf("[boot] WARN %s not found in PATH: %v", cfg.YtdlpPath, err)
	}
	extractor = newYtdlpClient(cfg.YtdlpPath)

	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = int(cfg.RateLimitRPS) + 1
		}
		rateLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initRedis(rootCtx, cfg)
	defer closeRedis()

	go startJanitor(rootCtx, cfg.DownloadDir, cfg.DownloadRetention, JanitorInterval)

	srv := &http.Server{
		Addr:     cfg.ListenAddr(),
		Handler:  newRouter(),
		ErrorLog: log.New(log.Writer(), "[http] ", 0),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()
	log.Printf("[boot] listening on %s ytdlp=%s downloads=%s extractTimeout=%s downloadTimeout=%s",
		srv.Addr, cfg.YtdlpPath, cfg.DownloadDir, cfg.ExtractTimeout, cfg.DownloadTimeout)

	<-rootCtx.Done()
	log.Println("🛑 Graceful shutdown initiated...")

	shCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Printf("[boot] shutdown: %v", err)
	}
	log.Println("✅ Graceful shutdown completed")
}

func newRouter() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/formats", rateLimitMiddleware(handleFormats))
	mux.HandleFunc("/download", rateLimitMiddleware(handleDownload))
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/stats", handleStats)
	return recoverMiddleware(requestIDMiddleware(mux))
}
