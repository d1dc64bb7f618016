package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os/exec"
	"strings"
	"time"
)

// VideoExtractor is the boundary to the external media tool.
type VideoExtractor interface {
	// Extract lists the formats available for url.
	Extract(ctx context.Context, url string) (*ExtractionResult, error)
	// Download fetches formatSpec into outputTemplate, merging streams when
	// formatSpec names more than one format.
	Download(ctx context.Context, url, formatSpec, outputTemplate string) error
}

type ytdlpClient struct {
	Path string
}

func newYtdlpClient(path string) *ytdlpClient {
	if path == "" {
		path = DefaultYtdlpPath
	}
	return &ytdlpClient{Path: path}
}

func (c *ytdlpClient) Extract(ctx context.Context, videoURL string) (*ExtractionResult, error) {
	cmd := exec.CommandContext(ctx, c.Path,
		"--dump-single-json",
		"--no-warnings",
		"--extractor-args", PlayerClientArg,
		videoURL,
	)
	cmd.WaitDelay = 5 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &ExtractionFailedError{
			ExitCode: exitCode(err),
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}

	var info ExtractionResult
	dec := json.NewDecoder(&stdout)
	if err := dec.Decode(&info); err != nil {
		return nil, &MalformedOutputError{Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &MalformedOutputError{Err: errors.New("trailing data after JSON document")}
	}
	return &info, nil
}

func (c *ytdlpClient) Download(ctx context.Context, videoURL, formatSpec, outputTemplate string) error {
	cmd := exec.CommandContext(ctx, c.Path,
		"--format", formatSpec,
		"--output", outputTemplate,
		"--no-mtime",
		"--no-warnings",
		"--newline",
		"--extractor-args", PlayerClientArg,
		videoURL,
	)
	// yt-dlp may leave ffmpeg children holding the pipes after a kill.
	cmd.WaitDelay = 5 * time.Second

	stdout := &lineLogger{}
	stderr := &lineLogger{tail: &tailBuffer{limit: StderrTailLimit}}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	stdout.Flush()
	stderr.Flush()
	if err != nil {
		return &DownloadFailedError{
			ExitCode: exitCode(err),
			Stderr:   strings.TrimSpace(stderr.tail.String()),
			Err:      err,
		}
	}
	return nil
}

// lineLogger copies tool output to the console log one line at a time.
type lineLogger struct {
	partial []byte
	tail    *tailBuffer
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.partial = append(l.partial, p...)
	for {
		i := bytes.IndexByte(l.partial, '\n')
		if i < 0 {
			break
		}
		l.emit(string(bytes.TrimRight(l.partial[:i], "\r")))
		l.partial = l.partial[i+1:]
	}
	return len(p), nil
}

func (l *lineLogger) Flush() {
	if len(l.partial) > 0 {
		l.emit(string(l.partial))
		l.partial = nil
	}
}

func (l *lineLogger) emit(line string) {
	if line == "" {
		return
	}
	log.Printf("[yt-dlp] %s", line)
	if l.tail != nil {
		l.tail.WriteLine(line)
	}
}

// exitCode reports the process exit status, or -1 if it never ran to completion.
func exitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// tailBuffer keeps roughly the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) WriteLine(line string) {
	t.buf = append(t.buf, line...)
	t.buf = append(t.buf, '\n')
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
