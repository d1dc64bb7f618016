package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeFakeYtdlp installs fakeYtdlpScript as "yt-dlp" in a temp dir and
// returns its path plus the file it records its arguments into.
func writeFakeYtdlp(t *testing.T, mode string) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp is a shell script")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(script, []byte(fakeYtdlpScript), 0755); err != nil {
		t.Fatalf("write fake yt-dlp: %v", err)
	}
	argsFile := filepath.Join(dir, "args.txt")
	t.Setenv("FAKE_YTDLP_MODE", mode)
	t.Setenv("FAKE_YTDLP_ARGS", argsFile)
	return script, argsFile
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func hasArg(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func hasArgPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestExtract_ParsesSingleJSONDocument(t *testing.T) {
	script, argsFile := writeFakeYtdlp(t, "ok")
	c := newYtdlpClient(script)

	info, err := c.Extract(context.Background(), "https://example/video")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if info.Title != "Sample Video" || info.ID != "abc123" {
		t.Fatalf("unexpected info: %#v", info)
	}
	if len(info.Formats) != 3 {
		t.Fatalf("expected 3 formats, got %d", len(info.Formats))
	}
	if f := info.Formats[1]; f.FormatID != "140" || f.TBR == nil || *f.TBR != 129.5 || f.VCodec != "none" {
		t.Fatalf("unexpected audio format: %#v", f)
	}
	if f := info.Formats[2]; f.FileSize != nil || f.Height == nil || *f.Height != 1080 {
		t.Fatalf("unexpected video format: %#v", f)
	}

	args := readArgs(t, argsFile)
	if args[0] != "--dump-single-json" {
		t.Fatalf("expected --dump-single-json first, got %v", args)
	}
	if !hasArgPair(args, "--extractor-args", "youtube:player_client=default") {
		t.Fatalf("missing player client extractor arg: %v", args)
	}
	if args[len(args)-1] != "https://example/video" {
		t.Fatalf("url should be the last argument: %v", args)
	}
}

func TestExtract_NonZeroExitCarriesStderr(t *testing.T) {
	script, _ := writeFakeYtdlp(t, "fail")
	c := newYtdlpClient(script)

	_, err := c.Extract(context.Background(), "https://example/missing")
	var ef *ExtractionFailedError
	if !errors.As(err, &ef) {
		t.Fatalf("expected ExtractionFailedError, got %T %v", err, err)
	}
	if ef.ExitCode != 1 {
		t.Fatalf("exit code=%d, want 1", ef.ExitCode)
	}
	if !strings.Contains(ef.Stderr, "Unsupported URL") {
		t.Fatalf("stderr not captured: %q", ef.Stderr)
	}
	if !strings.Contains(err.Error(), "Unsupported URL") {
		t.Fatalf("error text should include stderr: %v", err)
	}
}

func TestExtract_MalformedOutput(t *testing.T) {
	for _, mode := range []string{"garbage", "twodocs"} {
		t.Run(mode, func(t *testing.T) {
			script, _ := writeFakeYtdlp(t, mode)
			_, err := newYtdlpClient(script).Extract(context.Background(), "https://example/video")
			var mo *MalformedOutputError
			if !errors.As(err, &mo) {
				t.Fatalf("expected MalformedOutputError, got %T %v", err, err)
			}
		})
	}
}

func TestExtract_MissingBinary(t *testing.T) {
	c := newYtdlpClient(filepath.Join(t.TempDir(), "no-such-yt-dlp"))
	_, err := c.Extract(context.Background(), "https://example/video")
	var ef *ExtractionFailedError
	if !errors.As(err, &ef) {
		t.Fatalf("expected ExtractionFailedError, got %T %v", err, err)
	}
	if ef.ExitCode != -1 {
		t.Fatalf("exit code=%d, want -1 for a process that never ran", ef.ExitCode)
	}
}

func TestExtract_ContextDeadlineKillsProcess(t *testing.T) {
	script, _ := writeFakeYtdlp(t, "hang")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newYtdlpClient(script).Extract(ctx, "https://example/video")
	if err == nil {
		t.Fatal("expected error from killed process")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("extract did not honour the deadline, took %s", elapsed)
	}
}

func TestExtract_ResolvesFromPATH(t *testing.T) {
	script, _ := writeFakeYtdlp(t, "ok")
	t.Setenv("PATH", filepath.Dir(script)+string(os.PathListSeparator)+os.Getenv("PATH"))

	info, err := newYtdlpClient("").Extract(context.Background(), "https://example/video")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if info.Title != "Sample Video" {
		t.Fatalf("unexpected title %q", info.Title)
	}
}

func TestDownload_PassesFormatAndTemplate(t *testing.T) {
	script, argsFile := writeFakeYtdlp(t, "ok")
	tmpl := filepath.Join(t.TempDir(), "%(title)s.%(ext)s")

	if err := newYtdlpClient(script).Download(context.Background(), "https://example/video", "137+140", tmpl); err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	args := readArgs(t, argsFile)
	if !hasArgPair(args, "--format", "137+140") {
		t.Fatalf("missing format combination: %v", args)
	}
	if !hasArgPair(args, "--output", tmpl) {
		t.Fatalf("missing output template: %v", args)
	}
	if !hasArg(args, "--no-mtime") {
		t.Fatalf("download must keep the local write time: %v", args)
	}
	if !hasArgPair(args, "--extractor-args", "youtube:player_client=default") {
		t.Fatalf("missing player client extractor arg: %v", args)
	}
	for _, a := range args {
		if a == "--dump-single-json" {
			t.Fatalf("download must not request a JSON dump: %v", args)
		}
	}
}

func TestDownload_FreshFileSurvivesRetentionSweep(t *testing.T) {
	script, _ := writeFakeYtdlp(t, "ok")
	dir := t.TempDir()

	if err := newYtdlpClient(script).Download(context.Background(), "https://example/video", "137+140", outputTemplate(dir)); err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Sample Video.mp4")); err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}

	removed, err := sweepDownloads(dir, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 0 {
		t.Fatalf("sweep removed %d just-finished downloads", removed)
	}
}

func TestDownload_NonZeroExitCarriesExitCode(t *testing.T) {
	script, _ := writeFakeYtdlp(t, "dlfail")

	err := newYtdlpClient(script).Download(context.Background(), "https://example/video", "137+140", "/tmp/%(title)s.%(ext)s")
	var df *DownloadFailedError
	if !errors.As(err, &df) {
		t.Fatalf("expected DownloadFailedError, got %T %v", err, err)
	}
	if df.ExitCode != 2 {
		t.Fatalf("exit code=%d, want 2", df.ExitCode)
	}
	if !strings.Contains(df.Stderr, "Postprocessing: Conversion failed") {
		t.Fatalf("stderr tail not captured: %q", df.Stderr)
	}
	if !strings.Contains(err.Error(), "exit code 2") {
		t.Fatalf("error text should mention exit code: %v", err)
	}
}

func TestTailBuffer_KeepsLastBytes(t *testing.T) {
	tb := &tailBuffer{limit: 8}
	tb.WriteLine("first line")
	tb.WriteLine("last")
	if got := tb.String(); got != "ne\nlast\n" {
		t.Fatalf("tail=%q", got)
	}
}

func TestLineLogger_SplitsPartialWrites(t *testing.T) {
	l := &lineLogger{tail: &tailBuffer{limit: 1024}}
	l.Write([]byte("[download] 10"))
	l.Write([]byte("%\r\n[download] 20%\nERROR: x"))
	l.Flush()
	if got := l.tail.String(); got != "[download] 10%\n[download] 20%\nERROR: x\n" {
		t.Fatalf("unexpected lines: %q", got)
	}
}

const fakeYtdlpScript = `#!/bin/sh
printf '%s\n' "$@" > "$FAKE_YTDLP_ARGS"
case "$FAKE_YTDLP_MODE" in
  ok)
    if printf "%s" "$*" | grep -q "dump-single-json"; then
      cat <<'EOF'
{"id":"abc123","title":"Sample Video","ext":"mp4","formats":[{"format_id":"sb0","ext":"mhtml","acodec":"none","vcodec":"none","resolution":"48x27"},{"format_id":"140","ext":"m4a","format_note":"medium","acodec":"mp4a.40.2","vcodec":"none","filesize":3456789,"tbr":129.5,"resolution":"audio only"},{"format_id":"137","ext":"mp4","format_note":"1080p","acodec":"none","vcodec":"avc1.640028","width":1920,"height":1080,"fps":30,"tbr":4400.2,"filesize":null}]}
EOF
      exit 0
    fi
    out=""; mtime=1; prev=""
    for a in "$@"; do
      if [ "$prev" = "--output" ]; then out="$a"; fi
      if [ "$a" = "--no-mtime" ]; then mtime=0; fi
      prev="$a"
    done
    if [ -n "$out" ]; then
      f="$(dirname "$out")/Sample Video.mp4"
      echo data > "$f"
      if [ "$mtime" = 1 ]; then touch -t 201901010000 "$f"; fi
    fi
    echo "[download] Destination: Sample Video.mp4"
    echo "[Merger] Merging formats into \"Sample Video.mp4\""
    exit 0
    ;;
  fail)
    echo "ERROR: Unsupported URL: https://example/missing" >&2
    exit 1
    ;;
  garbage)
    echo "this is not json"
    exit 0
    ;;
  twodocs)
    echo '{"id":"a","formats":[]}'
    echo '{"id":"b","formats":[]}'
    exit 0
    ;;
  dlfail)
    echo "[download] 100% of 10.00MiB"
    echo "ERROR: Postprocessing: Conversion failed!" >&2
    exit 2
    ;;
  hang)
    exec sleep 10
    ;;
esac
echo "unexpected mode: $FAKE_YTDLP_MODE" >&2
exit 3
`
