package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clipdeck/internal/transcript"
)

// WriteFile creates path (and its parent directories) with the given content.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WordSpec is a compact word literal for building transcripts.
type WordSpec struct {
	Text       string
	Start, End float64
}

// Transcript builds a transcript with one segment per words slice.
func Transcript(language string, segments ...[]WordSpec) transcript.Transcript {
	doc := transcript.Transcript{Language: language}
	for _, words := range segments {
		seg := transcript.Segment{}
		for _, w := range words {
			seg.Words = append(seg.Words, transcript.NewWord(" "+w.Text, w.Start, w.End))
		}
		doc.Segments = append(doc.Segments, seg)
	}
	return doc
}

// HolaTranscript is the two-sentence example "Hola mundo. Adios." spoken
// within 1.3 seconds. With a 0.35 s buffer the sentences align to
// [0, 1.25] and [0.65, 1.65].
func HolaTranscript() transcript.Transcript {
	return Transcript("es",
		[]WordSpec{{"Hola", 0.0, 0.4}, {"mundo.", 0.4, 0.9}},
		[]WordSpec{{"Adios.", 1.0, 1.3}},
	)
}
