package sentences_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"clipdeck/internal/config"
	"clipdeck/internal/sentences"
)

func TestRuleSplitterBreaksOnTerminalPunctuation(t *testing.T) {
	splitter := sentences.NewRuleSplitter("es")
	got, err := splitter.Split(context.Background(), "Hola mundo. ¿Cómo estás? ¡Muy bien! Y tú")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []string{"Hola mundo.", "¿Cómo estás?", "¡Muy bien!", "Y tú"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRuleSplitterHandlesClosingQuotesAndAbbreviations(t *testing.T) {
	splitter := sentences.NewRuleSplitter("es")
	got, err := splitter.Split(context.Background(), `El Sr. García dijo "ya voy." Luego se fue…  Fin`)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []string{`El Sr. García dijo "ya voy."`, "Luego se fue…", "Fin"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRuleSplitterPreservesTokens(t *testing.T) {
	text := "uno dos. tres, cuatro? cinco"
	got, err := sentences.NewRuleSplitter("es").Split(context.Background(), text)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if joined := strings.Join(got, " "); joined != text {
		t.Fatalf("tokens changed: %q", joined)
	}
}

func TestRuleSplitterEmptyInput(t *testing.T) {
	got, err := sentences.NewRuleSplitter("en").Split(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no sentences, got %q", got)
	}
}

func TestCommandSplitterReadsLinesAndDropsBlanks(t *testing.T) {
	splitter, err := sentences.NewCommandSplitter([]string{"sh", "-c", `cat >/dev/null; printf 'Hola mundo.\n\n  Adios.  \n'`}, "es")
	if err != nil {
		t.Fatalf("NewCommandSplitter: %v", err)
	}
	got, err := splitter.Split(context.Background(), "Hola mundo. Adios.")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []string{"Hola mundo.", "Adios."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCommandSplitterSubstitutesLanguageAndPipesStdin(t *testing.T) {
	splitter, err := sentences.NewCommandSplitter([]string{"split", "--lang", "{lang}"}, "fr")
	if err != nil {
		t.Fatalf("NewCommandSplitter: %v", err)
	}
	var gotArgs []string
	var gotStdin string
	splitter.WithRunner(func(_ context.Context, name string, args []string, stdin string) (string, error) {
		gotArgs = append([]string{name}, args...)
		gotStdin = stdin
		return "Bonjour.\n", nil
	})
	if _, err := splitter.Split(context.Background(), "Bonjour."); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if !reflect.DeepEqual(gotArgs, []string{"split", "--lang", "fr"}) {
		t.Fatalf("unexpected argv %q", gotArgs)
	}
	if gotStdin != "Bonjour." {
		t.Fatalf("unexpected stdin %q", gotStdin)
	}
}

func TestCommandSplitterPropagatesFailure(t *testing.T) {
	splitter, err := sentences.NewCommandSplitter([]string{"sh", "-c", "echo broken >&2; exit 3"}, "es")
	if err != nil {
		t.Fatalf("NewCommandSplitter: %v", err)
	}
	_, err = splitter.Split(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
	var exitErr interface{ ExitCode() int }
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("expected exit code 3, got %v", err)
	}
}

func TestPunktSplitterSplitsSpanish(t *testing.T) {
	splitter, err := sentences.NewPunktSplitter("es")
	if err != nil {
		t.Fatalf("NewPunktSplitter: %v", err)
	}
	got, err := splitter.Split(context.Background(), "Hola mundo. Adios.")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []string{"Hola mundo.", "Adios."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestPunktSplitterPreservesTokens(t *testing.T) {
	splitter, err := sentences.NewPunktSplitter("es")
	if err != nil {
		t.Fatalf("NewPunktSplitter: %v", err)
	}
	text := "El Sr.  García llegó a las 3.30 p.m. ayer. ¿Vienes?   Sí,\tclaro. Desconocido."
	got, err := splitter.Split(context.Background(), text)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if joined := strings.Join(got, " "); joined != strings.Join(strings.Fields(text), " ") {
		t.Fatalf("tokens changed: %q", joined)
	}
	for _, sentence := range got {
		if sentence != strings.TrimSpace(sentence) || sentence == "" {
			t.Fatalf("untrimmed or blank sentence %q", sentence)
		}
	}
}

func TestPunktSplitterEmptyInput(t *testing.T) {
	splitter, err := sentences.NewPunktSplitter("en")
	if err != nil {
		t.Fatalf("NewPunktSplitter: %v", err)
	}
	got, err := splitter.Split(context.Background(), " \n ")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no sentences, got %q", got)
	}
}

func TestPunktModelLookup(t *testing.T) {
	for _, lang := range []string{"es", "en", "pt-BR", "DE"} {
		if !sentences.HasPunktModel(lang) {
			t.Fatalf("expected a punkt model for %q", lang)
		}
	}
	if sentences.HasPunktModel("ja") {
		t.Fatal("unexpected punkt model for ja")
	}
	if _, err := sentences.NewPunktSplitter("ja"); err == nil {
		t.Fatal("expected error for language without a model")
	}
}

func TestNewSelectsSplitter(t *testing.T) {
	s, err := sentences.New(config.Sentences{Splitter: config.SplitterRules}, "es")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*sentences.RuleSplitter); !ok {
		t.Fatalf("expected RuleSplitter, got %T", s)
	}
	for _, name := range []string{"", config.SplitterPunkt} {
		s, err := sentences.New(config.Sentences{Splitter: name}, "es")
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if _, ok := s.(*sentences.PunktSplitter); !ok {
			t.Fatalf("expected PunktSplitter for %q, got %T", name, s)
		}
	}
	s, err = sentences.New(config.Sentences{Splitter: config.SplitterPunkt}, "ja")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*sentences.RuleSplitter); !ok {
		t.Fatalf("expected rules fallback for ja, got %T", s)
	}
	if _, err := sentences.New(config.Sentences{Splitter: config.SplitterCommand}, "es"); err == nil {
		t.Fatal("expected error for empty command")
	}
	if _, err := sentences.New(config.Sentences{Splitter: "nltk"}, "es"); err == nil {
		t.Fatal("expected error for unknown splitter")
	}
}
