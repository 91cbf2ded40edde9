package fetch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"clipdeck/internal/fetch"
)

func TestIsRemote(t *testing.T) {
	cases := map[string]bool{
		"https://www.youtube.com/watch?v=abc": true,
		"http://example.com/a.mp3":            true,
		"/media/lesson.mp3":                   false,
		"lesson.mp3":                          false,
		"ftp://example.com/a.mp3":             false,
		"https://":                            false,
	}
	for in, want := range cases {
		if got := fetch.IsRemote(in); got != want {
			t.Fatalf("IsRemote(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestResolveLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := fetch.New("", "").Resolve(context.Background(), path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src.Path != path || src.Remote {
		t.Fatalf("unexpected source %+v", src)
	}
	if err := src.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("releasing a local source must not delete it")
	}

	_, err = fetch.New("", "").Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if !errors.Is(err, fetch.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestResolveRemoteDownloadsAndReleases(t *testing.T) {
	var gotArgs []string
	f := fetch.New("yt-dlp", "bestaudio")
	f.WithTempDir(t.TempDir())
	f.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotArgs = append([]string{name}, args...)
		tmpl := args[slices.Index(args, "-o")+1]
		out := strings.ReplaceAll(strings.ReplaceAll(tmpl, "%(id)s", "abc123"), "%(ext)s", "webm")
		if err := os.WriteFile(out, []byte("audio"), 0o644); err != nil {
			return nil, nil, err
		}
		return []byte(out + "\n"), nil, nil
	})

	src, err := f.Resolve(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !src.Remote || filepath.Base(src.Path) != "yt_audio_abc123.webm" {
		t.Fatalf("unexpected source %+v", src)
	}
	if gotArgs[0] != "yt-dlp" || gotArgs[len(gotArgs)-1] != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("unexpected args %q", gotArgs)
	}
	dir := filepath.Dir(src.Path)
	if err := src.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("download dir should be removed, stat err=%v", err)
	}
	if err := src.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}

func TestResolveRemoteFailureCleansUp(t *testing.T) {
	parent := t.TempDir()
	f := fetch.New("yt-dlp", "")
	f.WithTempDir(parent)
	f.WithCommandRunner(func(context.Context, string, ...string) ([]byte, []byte, error) {
		return nil, []byte("ERROR: Video unavailable\n"), errors.New("exit status 1")
	})
	_, err := f.Resolve(context.Background(), "https://example.com/v")
	if err == nil || !strings.Contains(err.Error(), "Video unavailable") {
		t.Fatalf("expected yt-dlp failure, got %v", err)
	}
	entries, _ := os.ReadDir(parent)
	if len(entries) != 0 {
		t.Fatalf("download dir leaked: %v", entries)
	}
}
