package translate_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"clipdeck/internal/config"
	"clipdeck/internal/store"
	"clipdeck/internal/translate"
)

type scriptedEngine struct {
	mu       sync.Mutex
	failures map[string]int
	fatal    map[string]bool
	calls    map[string]int
}

func newScriptedEngine() *scriptedEngine {
	return &scriptedEngine{failures: map[string]int{}, fatal: map[string]bool{}, calls: map[string]int{}}
}

func (s *scriptedEngine) Name() string                                { return "scripted" }
func (s *scriptedEngine) Setup(context.Context, string, string) error { return nil }
func (s *scriptedEngine) Close() error                                { return nil }

func (s *scriptedEngine) Translate(_ context.Context, text, from, to string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[text]++
	if s.fatal[text] {
		return "", translate.Permanent(errors.New("unsupported"))
	}
	if s.failures[text] > 0 {
		s.failures[text]--
		return "", errors.New("temporary outage")
	}
	return fmt.Sprintf(" [%s>%s] %s ", from, to, strings.ToUpper(text)), nil
}

func fastOptions(attempts int) translate.Options {
	return translate.Options{Workers: 3, MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestTranslateAllPreservesOrderAndRetries(t *testing.T) {
	engine := newScriptedEngine()
	engine.failures["dos"] = 2
	texts := []string{"uno", "dos", "tres", "cuatro"}

	got, err := translate.TranslateAll(context.Background(), engine, texts, "es", "en", fastOptions(3))
	if err != nil {
		t.Fatalf("TranslateAll: %v", err)
	}
	want := []string{"[es>en] UNO", "[es>en] DOS", "[es>en] TRES", "[es>en] CUATRO"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
	if engine.calls["dos"] != 3 {
		t.Fatalf("expected 3 attempts for retried sentence, got %d", engine.calls["dos"])
	}
}

func TestTranslateAllFailsAfterMaxAttempts(t *testing.T) {
	engine := newScriptedEngine()
	engine.failures["dos"] = 10

	_, err := translate.TranslateAll(context.Background(), engine, []string{"uno", "dos"}, "es", "en", fastOptions(2))
	var terr *translate.Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *translate.Error, got %v", err)
	}
	if terr.Index != 1 || terr.Attempts != 2 {
		t.Fatalf("unexpected error detail %+v", terr)
	}
}

func TestTranslateAllDoesNotRetryPermanentErrors(t *testing.T) {
	engine := newScriptedEngine()
	engine.fatal["uno"] = true

	_, err := translate.TranslateAll(context.Background(), engine, []string{"uno"}, "es", "en", fastOptions(5))
	var terr *translate.Error
	if !errors.As(err, &terr) || terr.Attempts != 1 {
		t.Fatalf("expected a single attempt, got %v", err)
	}
	if engine.calls["uno"] != 1 {
		t.Fatalf("permanent error retried %d times", engine.calls["uno"])
	}
}

type emptyEngine struct{}

func (emptyEngine) Name() string                                { return "empty" }
func (emptyEngine) Setup(context.Context, string, string) error { return nil }
func (emptyEngine) Close() error                                { return nil }
func (emptyEngine) Translate(context.Context, string, string, string) (string, error) {
	return "   ", nil
}

func TestTranslateAllRejectsEmptyOutput(t *testing.T) {
	_, err := translate.TranslateAll(context.Background(), emptyEngine{}, []string{"hola"}, "es", "en", fastOptions(2))
	if !errors.Is(err, translate.ErrEmptyTranslation) {
		t.Fatalf("expected ErrEmptyTranslation, got %v", err)
	}
}

func TestTranslateAllEmptyBatch(t *testing.T) {
	got, err := translate.TranslateAll(context.Background(), newScriptedEngine(), nil, "es", "en", translate.Options{})
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v %v", got, err)
	}
}

func TestIsRetriable(t *testing.T) {
	if translate.IsRetriable(context.Canceled) {
		t.Fatal("cancellation must not be retried")
	}
	if translate.IsRetriable(translate.Permanent(errors.New("bad request"))) {
		t.Fatal("permanent errors must not be retried")
	}
	if !translate.IsRetriable(errors.New("connection reset")) {
		t.Fatal("plain errors should be retried")
	}
}

func TestArgosEngineCommands(t *testing.T) {
	var calls [][]string
	engine := translate.NewArgosEngine("", "")
	engine.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		calls = append(calls, append([]string{name}, args...))
		if name == "argos-translate" {
			return []byte("Hello world.\n"), nil, nil
		}
		return nil, nil, nil
	})
	if err := engine.Setup(context.Background(), "es", "en"); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	out, err := engine.Translate(context.Background(), "Hola mundo.", "es", "en")
	if err != nil || strings.TrimSpace(out) != "Hello world." {
		t.Fatalf("Translate: %q %v", out, err)
	}
	want := [][]string{
		{"argospm", "update"},
		{"argospm", "install", "translate-es_en"},
		{"argos-translate", "--from-lang", "es", "--to-lang", "en", "Hola mundo."},
	}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("got %q want %q", calls, want)
	}
}

func TestArgosSetupInstallFailureIsPermanent(t *testing.T) {
	engine := translate.NewArgosEngine("argos-translate", "argospm")
	engine.WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
		if args[0] == "install" {
			return nil, []byte("package not found"), errors.New("exit status 1")
		}
		return nil, nil, nil
	})
	err := engine.Setup(context.Background(), "xx", "en")
	if err == nil || translate.IsRetriable(err) || !strings.Contains(err.Error(), "package not found") {
		t.Fatalf("unexpected setup error %v", err)
	}
}

func TestCachedEngineServesRepeats(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "clipdeck.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	inner := newScriptedEngine()
	cached := translate.NewCachedEngine(inner, db, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		out, err := cached.Translate(ctx, "gato", "es", "en")
		if err != nil || out != "[es>en] GATO" {
			t.Fatalf("Translate: %q %v", out, err)
		}
	}
	if inner.calls["gato"] != 1 {
		t.Fatalf("expected one backend call, got %d", inner.calls["gato"])
	}
	if _, ok, _ := db.LookupTranslation(ctx, store.TranslationKey{Engine: "scripted", SourceLang: "es", TargetLang: "fr", Text: "gato"}); ok {
		t.Fatal("cache must be keyed by language pair")
	}
}

func TestOpenAIEngine(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if strings.Contains(gotBody, "reject me") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"bad request","type":"invalid_request_error"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"test-model",`+
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hello world."}}]}`)
	}))
	defer server.Close()

	engine := translate.NewOpenAIEngine(translate.OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1/", Model: "test-model"})
	out, err := engine.Translate(context.Background(), "Hola mundo.", "es", "en")
	if err != nil || out != "Hello world." {
		t.Fatalf("Translate: %q %v", out, err)
	}
	if !strings.Contains(gotBody, "Spanish") || !strings.Contains(gotBody, "English") || !strings.Contains(gotBody, "test-model") {
		t.Fatalf("unexpected request body %s", gotBody)
	}

	_, err = engine.Translate(context.Background(), "reject me", "es", "en")
	if err == nil || translate.IsRetriable(err) {
		t.Fatalf("expected permanent error for 400, got %v", err)
	}
}

func TestNewSelectsEngine(t *testing.T) {
	argos, err := translate.New(config.Translation{Engine: config.TranslatorArgos}, nil, nil)
	if err != nil || argos.Name() != "argos" {
		t.Fatalf("expected argos engine, got %v %v", argos, err)
	}
	if _, ok := argos.(*translate.ArgosEngine); !ok {
		t.Fatalf("cache must not wrap when no cache is given, got %T", argos)
	}
	db, err := store.Open(filepath.Join(t.TempDir(), "clipdeck.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	remote, err := translate.New(config.Translation{Engine: config.TranslatorOpenAI, Model: "gpt-4o-mini", APIKey: "k", CacheEnabled: true}, db, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := remote.(*translate.CachedEngine); !ok || remote.Name() != "openai:gpt-4o-mini" {
		t.Fatalf("expected cached openai engine, got %T %s", remote, remote.Name())
	}
	if _, err := translate.New(config.Translation{Engine: "babelfish"}, nil, nil); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}
