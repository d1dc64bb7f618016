package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"
)

// setupLogging tees the std logger into LOG_FILE when one is configured.
func setupLogging(path string) {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("[boot] opening LOG_FILE=%q: %v", path, err)
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)
}

// withTimeout bounds ctx by d; d <= 0 means no bound beyond ctx itself.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
