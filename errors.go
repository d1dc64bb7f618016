package main

import (
	"errors"
	"fmt"
)

// ErrNoAudioAvailable is returned when a video offers no audio-only stream to merge with.
var ErrNoAudioAvailable = errors.New("no audio format available to merge")

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ExtractionFailedError means yt-dlp could not list the formats of a URL.
type ExtractionFailedError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExtractionFailedError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("yt-dlp metadata error: %v | %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("yt-dlp metadata error: %v", e.Err)
}

func (e *ExtractionFailedError) Unwrap() error { return e.Err }

// MalformedOutputError means yt-dlp exited cleanly but stdout was not one JSON document.
type MalformedOutputError struct {
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("yt-dlp metadata parse error: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// DownloadFailedError means the merge download exited with a non-zero status.
type DownloadFailedError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *DownloadFailedError) Error() string {
	msg := fmt.Sprintf("yt-dlp download failed with exit code %d", e.ExitCode)
	if e.Stderr != "" {
		msg += " | " + e.Stderr
	}
	return msg
}

func (e *DownloadFailedError) Unwrap() error { return e.Err }
