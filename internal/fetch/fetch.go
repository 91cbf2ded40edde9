package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrSourceNotFound is returned when a local source does not exist.
var ErrSourceNotFound = errors.New("source not found")

// Source is a resolved local media file.
type Source struct {
	// Path is the local file to process.
	Path string
	// Origin is the argument the user passed (path or URL).
	Origin string
	// Remote reports whether Path was downloaded.
	Remote  bool
	release func() error
}

// Release removes any temporary download. It is safe to call more than once.
func (s *Source) Release() error {
	if s == nil || s.release == nil {
		return nil
	}
	release := s.release
	s.release = nil
	return release()
}

// IsRemote reports whether source should be downloaded.
func IsRemote(source string) bool {
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type commandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Fetcher resolves sources, downloading remote ones with yt-dlp.
type Fetcher struct {
	binary  string
	format  string
	tempDir string
	run     commandRunner
}

// New returns a fetcher using the given yt-dlp binary and format selector.
func New(binary, format string) *Fetcher {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	if strings.TrimSpace(format) == "" {
		format = "bestaudio"
	}
	return &Fetcher{binary: binary, format: format, run: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (f *Fetcher) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)) {
	f.run = runner
}

// WithTempDir sets the parent for download directories.
func (f *Fetcher) WithTempDir(dir string) {
	f.tempDir = dir
}

// Resolve returns the local file for source.
func (f *Fetcher) Resolve(ctx context.Context, source string) (*Source, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrSourceNotFound)
	}
	if IsRemote(source) {
		return f.download(ctx, source)
	}
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("source %s is a directory", source)
	}
	return &Source{Path: source, Origin: source}, nil
}

func (f *Fetcher) download(ctx context.Context, source string) (*Source, error) {
	dir, err := os.MkdirTemp(f.tempDir, "clipdeck-download-")
	if err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(dir) }

	stdout, stderr, err := f.run(ctx, f.binary, BuildDownloadArgs(source, f.format, dir)...)
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("yt-dlp: %w: %s", err, lastLine(stderr))
	}
	path := lastLine(stdout)
	if path == "" {
		_ = cleanup()
		return nil, errors.New("yt-dlp: no output file reported")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if _, err := os.Stat(path); err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("yt-dlp output %s: %w", path, err)
	}
	return &Source{Path: path, Origin: source, Remote: true, release: cleanup}, nil
}

// BuildDownloadArgs returns the yt-dlp arguments that save the best audio of
// source into dir and print the final path.
func BuildDownloadArgs(source, format, dir string) []string {
	return []string{
		"--no-playlist",
		"--no-progress",
		"--quiet",
		"-f", format,
		"-o", filepath.Join(dir, "yt_audio_%(id)s.%(ext)s"),
		"--print", "after_move:filepath",
		"--", source,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func lastLine(output []byte) string {
	text := strings.TrimSpace(string(output))
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}
