package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
)

const (
	msgMissingURL      = "video url is required"
	msgMissingFormatID = "format_id is required for download"
)

func handleRoot(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "backend is running")
}

func handleFormats(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "invalid request method")
		return
	}

	var req FormatsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validateFormatsRequest(&req); err != nil {
		logRejected("formats", r, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	atomic.AddInt64(&inFlight, 1)
	defer atomic.AddInt64(&inFlight, -1)

	_, formats, err := fetchFormats(r.Context(), extractor, req.URL)
	if err != nil {
		log.Printf("[formats] req=%s url=%s failed: %v", requestID(r), req.URL, err)
		atomic.AddInt64(&formatsFailed, 1)
		incrStat("formats_failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch formats: "+err.Error())
		return
	}

	resp := FormatsResponse{VideoFormats: videoFormats(formats)}
	if best, ok := selectBestAudio(formats); ok {
		resp.BestAudioFormat = &best
	}
	log.Printf("[formats] req=%s url=%s total=%d video=%d audio=%v", requestID(r), req.URL, len(formats), len(resp.VideoFormats), resp.BestAudioFormat != nil)
	atomic.AddInt64(&formatsServed, 1)
	incrStat("formats_served")
	writeJSON(w, http.StatusOK, resp)
}

func handleDownload(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "invalid request method")
		return
	}

	var req DownloadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validateDownloadRequest(&req); err != nil {
		logRejected("download", r, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	atomic.AddInt64(&inFlight, 1)
	defer atomic.AddInt64(&inFlight, -1)

	outcome, err := downloadMerged(r.Context(), extractor, req.URL, req.FormatID)
	if err != nil {
		log.Printf("[download] req=%s url=%s format=%s failed: %v", requestID(r), req.URL, req.FormatID, err)
		atomic.AddInt64(&downloadsFailed, 1)
		incrStat("downloads_failed")
		if errors.Is(err, ErrNoAudioAvailable) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to download video: "+err.Error())
		return
	}

	log.Printf("[download] req=%s url=%s format=%s completed", requestID(r), req.URL, outcome.FormatSpec)
	atomic.AddInt64(&downloadsCompleted, 1)
	incrStat("downloads_completed")
	writeJSON(w, http.StatusOK, DownloadResponse{
		Message: fmt.Sprintf("download completed successfully: %s", outcome.Title),
		Format:  outcome.FormatSpec,
	})
}

func logRejected(route string, r *http.Request, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		log.Printf("[%s] req=%s rejected field=%s: %s", route, requestID(r), ve.Field, ve.Message)
	}
}

func validateFormatsRequest(req *FormatsRequest) error {
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return &ValidationError{Field: "url", Message: msgMissingURL}
	}
	return nil
}

func validateDownloadRequest(req *DownloadRequest) error {
	req.URL = strings.TrimSpace(req.URL)
	req.FormatID = strings.TrimSpace(req.FormatID)
	if req.URL == "" {
		return &ValidationError{Field: "url", Message: msgMissingURL}
	}
	if req.FormatID == "" {
		return &ValidationError{Field: "format_id", Message: msgMissingFormatID}
	}
	return nil
}

// decodeBody treats an empty body as an empty object.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
