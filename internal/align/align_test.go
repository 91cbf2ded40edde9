package align_test

import (
	"errors"
	"math"
	"testing"

	"clipdeck/internal/align"
	"clipdeck/internal/transcript"
)

const tolerance = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func holaWords() []transcript.WordToken {
	return []transcript.WordToken{
		{Text: "Hola", Start: 0.0, End: 0.4},
		{Text: "mundo", Start: 0.4, End: 0.9},
		{Text: "Adios", Start: 1.0, End: 1.3},
	}
}

func TestAlignEndToEndExample(t *testing.T) {
	got, err := align.Align(holaWords(), []string{"Hola mundo", "Adios"}, 0.35)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	want := []align.Sentence{
		{Start: 0.0, End: 1.25, Text: "Hola mundo"},
		{Start: 0.65, End: 1.65, Text: "Adios"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Text != want[i].Text || !near(got[i].Start, want[i].Start) || !near(got[i].End, want[i].End) {
			t.Fatalf("sentence %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestAlignBufferPolicy(t *testing.T) {
	got, err := align.Align(holaWords(), []string{"Hola mundo", "Adios"}, 0.35)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if got[0].Start != 0.0 {
		t.Fatalf("word starting at zero must not be shifted, got %v", got[0].Start)
	}
	if !near(got[1].Start, 1.0-0.35) {
		t.Fatalf("expected buffered start, got %v", got[1].Start)
	}

	unbuffered, err := align.Align(holaWords(), []string{"Hola mundo", "Adios"}, 0)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if unbuffered[1].Start != 1.0 || unbuffered[1].End != 1.3 {
		t.Fatalf("zero buffer should keep raw bounds, got %+v", unbuffered[1])
	}
}

func TestAlignTokenConservationAndValidity(t *testing.T) {
	words := []transcript.WordToken{
		{Text: "Me", Start: 0.2, End: 0.3},
		{Text: "llamo", Start: 0.3, End: 0.6},
		{Text: "Ana.", Start: 0.6, End: 1.0},
		{Text: "¿Y", Start: 1.4, End: 1.5},
		{Text: "tú?", Start: 1.5, End: 1.8},
		{Text: "Bien.", Start: 2.5, End: 2.9},
	}
	sentences := []string{"Me llamo Ana.", "¿Y tú?", "Bien."}
	got, err := align.Align(words, sentences, 0.25)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	total := 0
	for i, s := range got {
		total += align.TokenCount(s.Text)
		if !(s.End > s.Start) {
			t.Fatalf("sentence %d has non-positive interval %+v", i, s)
		}
		if s.Text != sentences[i] {
			t.Fatalf("sentence %d text changed: %q", i, s.Text)
		}
	}
	if total != len(words) {
		t.Fatalf("token conservation: consumed %d of %d", total, len(words))
	}
}

func TestAlignFailsFastOnFirstTokenMismatch(t *testing.T) {
	words := []transcript.WordToken{
		{Text: "Hola", Start: 0.0, End: 0.4},
		{Text: "mundo", Start: 0.4, End: 0.9},
	}
	got, err := align.Align(words, []string{"Hola.", "mundo"}, 0.35)
	var alignErr *align.AlignmentError
	if !errors.As(err, &alignErr) {
		t.Fatalf("expected AlignmentError, got %v", err)
	}
	if alignErr.Cursor != 0 || alignErr.ExpectedWord != "Hola" || alignErr.SentenceFirstToken != "Hola." {
		t.Fatalf("unexpected error context %+v", alignErr)
	}
	if got != nil {
		t.Fatalf("expected no sentences on failure, got %+v", got)
	}
}

func TestAlignReportsMismatchBeforeOverrun(t *testing.T) {
	words := []transcript.WordToken{
		{Text: "Hola", Start: 0.0, End: 0.4},
		{Text: "mundo", Start: 0.4, End: 0.9},
	}
	_, err := align.Align(words, []string{"Hola. mundo cruel"}, 0.35)
	var integrity *align.CursorIntegrityError
	if errors.As(err, &integrity) {
		t.Fatalf("first-token mismatch reported as overrun: %v", err)
	}
	var alignErr *align.AlignmentError
	if !errors.As(err, &alignErr) {
		t.Fatalf("expected AlignmentError, got %v", err)
	}
	if alignErr.Cursor != 0 || alignErr.ExpectedWord != "Hola" || alignErr.SentenceFirstToken != "Hola." {
		t.Fatalf("unexpected error context %+v", alignErr)
	}
}

func TestAlignMismatchIsCaseSensitiveMidStream(t *testing.T) {
	_, err := align.Align(holaWords(), []string{"Hola mundo", "adios"}, 0.35)
	var alignErr *align.AlignmentError
	if !errors.As(err, &alignErr) {
		t.Fatalf("expected AlignmentError, got %v", err)
	}
	if alignErr.Cursor != 2 || alignErr.SentenceIndex != 1 {
		t.Fatalf("unexpected error position %+v", alignErr)
	}
}

func TestAlignReportsLeftoverWords(t *testing.T) {
	got, err := align.Align(holaWords(), []string{"Hola mundo"}, 0.35)
	var integrity *align.CursorIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected CursorIntegrityError, got %v", err)
	}
	if integrity.Consumed != 2 || integrity.Total != 3 || integrity.SentenceIndex != -1 {
		t.Fatalf("unexpected counts %+v", integrity)
	}
	if got != nil {
		t.Fatal("expected no sentences on integrity failure")
	}
}

func TestAlignReportsOverrunWithoutPanicking(t *testing.T) {
	_, err := align.Align(holaWords(), []string{"Hola mundo Adios extra"}, 0.35)
	var integrity *align.CursorIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected CursorIntegrityError, got %v", err)
	}
	if integrity.Consumed != 4 || integrity.Total != 3 || integrity.SentenceIndex != 0 {
		t.Fatalf("unexpected counts %+v", integrity)
	}

	_, err = align.Align(holaWords(), []string{"Hola mundo", "Adios", "Otra"}, 0.35)
	if !errors.As(err, &integrity) || integrity.SentenceIndex != 2 {
		t.Fatalf("expected overrun at sentence 2, got %v", err)
	}
}

func TestAlignRejectsBlankSentenceAndNegativeBuffer(t *testing.T) {
	_, err := align.Align(holaWords(), []string{"   "}, 0.35)
	var alignErr *align.AlignmentError
	if !errors.As(err, &alignErr) || alignErr.ExpectedWord != "Hola" {
		t.Fatalf("expected AlignmentError for blank sentence, got %v", err)
	}
	if _, err := align.Align(holaWords(), []string{"Hola mundo", "Adios"}, -0.1); err == nil {
		t.Fatal("expected error for negative buffer")
	}
}

func TestAlignEmptyInputs(t *testing.T) {
	got, err := align.Align(nil, nil, 0.35)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no sentences, got %d", len(got))
	}
}
