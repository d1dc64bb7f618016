package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// outputTemplate names downloads after the video title and container.
func outputTemplate(dir string) string {
	return filepath.Join(dir, "%(title)s.%(ext)s")
}

// fetchFormats runs one extraction and returns the normalized formats.
func fetchFormats(ctx context.Context, ex VideoExtractor, videoURL string) (*ExtractionResult, []StreamFormat, error) {
	ctx, cancel := withTimeout(ctx, cfg.ExtractTimeout)
	defer cancel()

	info, err := ex.Extract(ctx, videoURL)
	if err != nil {
		return nil, nil, err
	}
	return info, normalizeFormats(info.Formats), nil
}

// downloadMerged re-extracts url, pairs formatID with the best audio-only
// stream and has the extractor download and mux both into the downloads dir.
func downloadMerged(ctx context.Context, ex VideoExtractor, videoURL, formatID string) (*DownloadOutcome, error) {
	info, formats, err := fetchFormats(ctx, ex, videoURL)
	if err != nil {
		return nil, err
	}

	audio, ok := selectBestAudio(formats)
	if !ok {
		return nil, ErrNoAudioAvailable
	}

	dir := cfg.DownloadDir
	if cfg.PerRequestDirs {
		dir = filepath.Join(dir, uuid.New().String())
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	out := &DownloadOutcome{
		FormatSpec:     formatCombination(formatID, audio.FormatID),
		AudioFormatID:  audio.FormatID,
		OutputTemplate: outputTemplate(dir),
		Title:          info.Title,
	}
	log.Printf("[download] url=%s format=%s audio=%s title=%q out=%s", videoURL, out.FormatSpec, out.AudioFormatID, out.Title, out.OutputTemplate)

	ctx, cancel := withTimeout(ctx, cfg.DownloadTimeout)
	defer cancel()
	if err := ex.Download(ctx, videoURL, out.FormatSpec, out.OutputTemplate); err != nil {
		return nil, err
	}
	return out, nil
}
