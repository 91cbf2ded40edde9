package cards

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"clipdeck/internal/align"
	"clipdeck/internal/fileutil"
)

const (
	fieldSeparator = ";"
	lineBreak      = "<br>"
)

// Record is one flashcard. AudioFileName is empty when no clip exists.
type Record struct {
	AudioFileName  string
	SourceText     string
	TranslatedText string
}

// LengthMismatchError is returned when the inputs to Assemble disagree in length.
type LengthMismatchError struct {
	Sentences    int
	Translations int
	Files        int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("card inputs differ in length: %d sentences, %d translations, %d clip files",
		e.Sentences, e.Translations, e.Files)
}

// Assemble zips the three inputs into records.
func Assemble(sentences []align.Sentence, translations, files []string) ([]Record, error) {
	if len(sentences) != len(translations) || len(sentences) != len(files) {
		return nil, &LengthMismatchError{Sentences: len(sentences), Translations: len(translations), Files: len(files)}
	}
	records := make([]Record, len(sentences))
	for i, s := range sentences {
		records[i] = Record{
			AudioFileName:  files[i],
			SourceText:     s.Text,
			TranslatedText: translations[i],
		}
	}
	return records, nil
}

// Line renders r as one import line, without the trailing newline.
func (r Record) Line() string {
	var b strings.Builder
	if r.AudioFileName != "" {
		b.WriteString("[sound:")
		b.WriteString(r.AudioFileName)
		b.WriteString("]")
	}
	b.WriteString(fieldSeparator)
	b.WriteString(r.SourceText)
	b.WriteString(lineBreak)
	b.WriteString(r.TranslatedText)
	return b.String()
}

// Encode writes the tags header (when tags is non-blank) and one line per record.
func Encode(w io.Writer, tags string, records []Record) error {
	bw := bufio.NewWriter(w)
	if tags = strings.TrimSpace(tags); tags != "" {
		if _, err := fmt.Fprintf(bw, "#tags:%s\n", tags); err != nil {
			return err
		}
	}
	for _, r := range records {
		if _, err := bw.WriteString(r.Line()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write atomically replaces path with the encoded records.
func Write(path, tags string, records []Record) error {
	if err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, tags, records)
	}); err != nil {
		return fmt.Errorf("write cards %s: %w", path, err)
	}
	return nil
}

// Export assembles the records and writes them to path. A length mismatch
// is reported before path is touched.
func Export(path, tags string, sentences []align.Sentence, translations, files []string) ([]Record, error) {
	records, err := Assemble(sentences, translations, files)
	if err != nil {
		return nil, err
	}
	if err := Write(path, tags, records); err != nil {
		return nil, err
	}
	return records, nil
}

// UnsafeRecords returns the indexes of records whose text contains the field
// separator, the line-break marker, or a raw newline. Such records import
// with shifted or split fields.
func UnsafeRecords(records []Record) []int {
	var idx []int
	for i, r := range records {
		if unsafeText(r.SourceText) || unsafeText(r.TranslatedText) {
			idx = append(idx, i)
		}
	}
	return idx
}

func unsafeText(s string) bool {
	return strings.Contains(s, fieldSeparator) ||
		strings.Contains(strings.ToLower(s), lineBreak) ||
		strings.ContainsAny(s, "\r\n")
}
