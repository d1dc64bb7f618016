package main

// RawFormat is one entry of the "formats" array printed by yt-dlp -J.
// Every field is optional; extractors leave out whatever they do not know.
type RawFormat struct {
	FormatID   string   `json:"format_id"`
	Ext        string   `json:"ext"`
	FormatNote string   `json:"format_note"`
	ACodec     string   `json:"acodec"`
	VCodec     string   `json:"vcodec"`
	FileSize   *float64 `json:"filesize"`
	Resolution string   `json:"resolution"`
	Width      *float64 `json:"width"`
	Height     *float64 `json:"height"`
	FPS        *float64 `json:"fps"`
	TBR        *float64 `json:"tbr"`
}

// ExtractionResult is the subset of the yt-dlp info document the service uses.
type ExtractionResult struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Ext     string      `json:"ext"`
	Formats []RawFormat `json:"formats"`
}

// StreamFormat is the normalized shape returned to clients.
type StreamFormat struct {
	FormatID   string   `json:"format_id"`
	Ext        string   `json:"ext,omitempty"`
	FormatNote string   `json:"format_note,omitempty"`
	ACodec     string   `json:"acodec,omitempty"`
	VCodec     string   `json:"vcodec,omitempty"`
	FileSize   *int64   `json:"filesize,omitempty"`
	Resolution string   `json:"resolution"`
	Height     int      `json:"height"`
	FPS        *float64 `json:"fps"`
	TBR        *float64 `json:"tbr"`
}

// DownloadOutcome describes a finished merge download.
type DownloadOutcome struct {
	FormatSpec     string
	AudioFormatID  string
	OutputTemplate string
	Title          string
}

type FormatsRequest struct {
	URL string `json:"url"`
}

type DownloadRequest struct {
	URL      string `json:"url"`
	FormatID string `json:"format_id"`
}

type FormatsResponse struct {
	VideoFormats    []StreamFormat `json:"videoFormats"`
	BestAudioFormat *StreamFormat  `json:"bestAudioFormat"`
}

type DownloadResponse struct {
	Message string `json:"message"`
	Format  string `json:"format"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthStatus struct {
	Status      string `json:"status"`
	InFlight    int64  `json:"in_flight"`
	Uptime      string `json:"uptime"`
	YtdlpPath   string `json:"ytdlp_path"`
	DownloadDir string `json:"download_dir"`
	Redis       bool   `json:"redis"`
}
