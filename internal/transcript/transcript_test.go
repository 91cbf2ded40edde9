package transcript_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipdeck/internal/transcript"
)

func TestFlattenPreservesOrderAndTrims(t *testing.T) {
	doc := `{"segments":[
		{"words":[{"word":" Hola","start":0.0,"end":0.4},{"word":" mundo","start":0.4,"end":0.9}]},
		{"words":[{"text":"Adios","start":1.0,"end":1.3},{"word":" Adios","start":1.0,"end":1.3}]}
	]}`
	tr, err := transcript.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	words, err := transcript.Flatten(tr)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	want := []transcript.WordToken{
		{Text: "Hola", Start: 0.0, End: 0.4},
		{Text: "mundo", Start: 0.4, End: 0.9},
		{Text: "Adios", Start: 1.0, End: 1.3},
		{Text: "Adios", Start: 1.0, End: 1.3},
	}
	if len(words) != len(want) {
		t.Fatalf("expected %d words, got %d", len(want), len(words))
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("word %d: got %+v want %+v", i, words[i], want[i])
		}
	}
	if got := transcript.Reconstruct(words); got != "Hola mundo Adios Adios" {
		t.Fatalf("unexpected reconstruction %q", got)
	}
}

func TestFlattenRejectsMalformedWords(t *testing.T) {
	cases := map[string]string{
		"missing start": `{"segments":[{"words":[{"word":"a","end":1}]}]}`,
		"missing end":   `{"segments":[{"words":[{"word":"a","start":1}]}]}`,
		"missing text":  `{"segments":[{"words":[{"start":0,"end":1}]}]}`,
		"end before":    `{"segments":[{"words":[{"word":"ok","start":0,"end":1}]},{"words":[{"word":"a","start":2,"end":1.5}]}]}`,
		"negative":      `{"segments":[{"words":[{"word":"a","start":-1,"end":1}]}]}`,
		"whitespace":    `{"segments":[{"words":[{"word":"a b","start":0,"end":1}]}]}`,
		"empty text":    `{"segments":[{"words":[{"word":"   ","start":0,"end":1}]}]}`,
	}
	for name, doc := range cases {
		tr, err := transcript.Decode([]byte(doc))
		if err != nil {
			t.Fatalf("%s: Decode: %v", name, err)
		}
		words, err := transcript.Flatten(tr)
		var malformed *transcript.MalformedError
		if !errors.As(err, &malformed) {
			t.Fatalf("%s: expected MalformedError, got %v", name, err)
		}
		if words != nil {
			t.Fatalf("%s: expected no words on failure", name)
		}
	}

	tr, _ := transcript.Decode([]byte(cases["end before"]))
	_, err := transcript.Flatten(tr)
	var malformed *transcript.MalformedError
	if !errors.As(err, &malformed) || malformed.Segment != 1 || malformed.Word != 0 {
		t.Fatalf("expected position segment 1 word 0, got %+v", err)
	}
}

func TestFlattenReportsTextReasons(t *testing.T) {
	cases := map[string]string{
		" a\tb ": `text "a\tb" contains whitespace`,
		"  ":     "empty text",
	}
	for text, want := range cases {
		tr := transcript.Transcript{Segments: []transcript.Segment{{Words: []transcript.Word{transcript.NewWord(text, 0, 1)}}}}
		_, err := transcript.Flatten(tr)
		var malformed *transcript.MalformedError
		if !errors.As(err, &malformed) {
			t.Fatalf("%q: expected MalformedError, got %v", text, err)
		}
		if malformed.Reason != want {
			t.Fatalf("%q: reason %q, want %q", text, malformed.Reason, want)
		}
	}
}

func TestFlattenAcceptsZeroLengthWord(t *testing.T) {
	tr := transcript.Transcript{Segments: []transcript.Segment{{Words: []transcript.Word{transcript.NewWord("y", 2, 2)}}}}
	words, err := transcript.Flatten(tr)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(words) != 1 || words[0].Start != 2 || words[0].End != 2 {
		t.Fatalf("unexpected words %+v", words)
	}
}

func TestDecodeRejectsMissingSegments(t *testing.T) {
	for _, doc := range []string{`{}`, `{"segments":null}`, `not json`} {
		_, err := transcript.Decode([]byte(doc))
		var malformed *transcript.MalformedError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected MalformedError for %q, got %v", doc, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.json")
	tr := transcript.Transcript{
		Language: "es",
		Segments: []transcript.Segment{{Words: []transcript.Word{
			transcript.NewWord("Hola", 0, 0.4),
			transcript.NewWord("mundo", 0.4, 0.9),
		}}},
	}
	if err := transcript.Save(path, tr); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), `"word": "Hola"`) {
		t.Fatalf("expected whisper word key in saved file: %s", raw)
	}
	loaded, err := transcript.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	words, err := transcript.Flatten(loaded)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(words) != 2 || words[1].Text != "mundo" || words[1].End != 0.9 {
		t.Fatalf("unexpected words after reload: %+v", words)
	}
}
