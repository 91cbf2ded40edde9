package preflight

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"clipdeck/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed || result.Detail == "" {
		t.Fatalf("expected failure with detail for missing dir, got %+v", result)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_SharedClipAndCardsDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.AudioSaveDir = t.TempDir()
	cfg.Paths.CardsDir = cfg.Paths.AudioSaveDir
	cfg.Paths.StateDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures %+v", failed)
	}
}

func TestSystemDepsFollowsEngines(t *testing.T) {
	bin := t.TempDir()
	for _, name := range []string{"ffmpeg", "ffprobe", "uvx"} {
		if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", bin)

	cfg := config.Default()
	cfg.Transcription.Engine = config.EngineWhisperX
	cfg.Transcription.UVXBinary = "uvx"
	cfg.Translation.Engine = config.TranslatorOpenAI

	results := SystemDeps(&cfg, false)
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if _, ok := byName["whisper"]; ok {
		t.Fatal("whisper should not be required for whisperx")
	}
	if _, ok := byName["argos-translate"]; ok {
		t.Fatal("argos should not be required for openai translation")
	}
	if !byName["uvx"].Passed || !byName["FFmpeg"].Passed {
		t.Fatalf("expected stubs to resolve: %+v", byName)
	}
	if !byName["yt-dlp"].Passed {
		t.Fatalf("missing optional yt-dlp should pass for local runs: %+v", byName["yt-dlp"])
	}

	remote := SystemDeps(&cfg, true)
	for _, r := range remote {
		if r.Name == "yt-dlp" && r.Passed {
			t.Fatal("yt-dlp must be required for URL sources")
		}
	}
}

func TestCheckTranslationAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c","object":"chat.completion","created":1,"model":"m",`+
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hello."}}]}`)
	}))
	defer srv.Close()

	ok := CheckTranslationAPI(context.Background(), config.Translation{APIKey: "k", BaseURL: srv.URL + "/", Model: "m"}, "es", "en")
	if !ok.Passed {
		t.Fatalf("expected pass, got %s", ok.Detail)
	}
	missing := CheckTranslationAPI(context.Background(), config.Translation{}, "es", "en")
	if missing.Passed {
		t.Fatal("expected failure without api key")
	}
}
