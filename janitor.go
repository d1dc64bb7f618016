package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

// startJanitor periodically removes downloads older than the retention window.
func startJanitor(ctx context.Context, dir string, retention, interval time.Duration) {
	if retention <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			removed, err := sweepDownloads(dir, time.Now().Add(-retention))
			if err != nil {
				log.Printf("[janitor] sweep %s: %v", dir, err)
				continue
			}
			if removed > 0 {
				log.Printf("🧹 Cleaned up %d downloads older than %s from %s", removed, retention, dir)
			}
		case <-ctx.Done():
			return
		}
	}
}

// sweepDownloads deletes the direct children of dir last modified before cutoff.
func sweepDownloads(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			log.Printf("[janitor] remove %s: %v", e.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
