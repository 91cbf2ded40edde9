package align

import (
	"errors"
	"strings"

	"clipdeck/internal/transcript"
)

// Sentence is one aligned, buffered sentence interval in seconds.
type Sentence struct {
	Start float64
	End   float64
	Text  string
}

// TokenCount is the number of words a sentence consumes.
func TokenCount(text string) int {
	return len(strings.Fields(text))
}

// Align maps each sentence onto the word sequence and pads it by buffer
// seconds on both sides. The leading pad is only applied when the first word
// starts after zero, so intervals never go negative. On any error no
// sentences are returned.
func Align(words []transcript.WordToken, sentences []string, buffer float64) ([]Sentence, error) {
	if buffer < 0 {
		return nil, errors.New("align: buffer must be >= 0")
	}
	out := make([]Sentence, 0, len(sentences))
	cursor := 0
	for si, text := range sentences {
		tokens := strings.Fields(text)
		n := len(tokens)
		if n == 0 {
			expected := ""
			if cursor < len(words) {
				expected = words[cursor].Text
			}
			return nil, &AlignmentError{SentenceIndex: si, Cursor: cursor, ExpectedWord: expected}
		}
		if cursor >= len(words) {
			return nil, &CursorIntegrityError{SentenceIndex: si, Consumed: cursor + n, Total: len(words)}
		}
		first := words[cursor]
		if tokens[0] != first.Text {
			return nil, &AlignmentError{
				SentenceIndex:      si,
				Cursor:             cursor,
				ExpectedWord:       first.Text,
				SentenceFirstToken: tokens[0],
			}
		}
		if cursor+n > len(words) {
			return nil, &CursorIntegrityError{SentenceIndex: si, Consumed: cursor + n, Total: len(words)}
		}

		start := first.Start
		if start > 0 {
			start -= buffer
		}
		end := words[cursor+n-1].End + buffer
		out = append(out, Sentence{Start: start, End: end, Text: text})
		cursor += n
	}
	if cursor != len(words) {
		return nil, &CursorIntegrityError{SentenceIndex: -1, Consumed: cursor, Total: len(words)}
	}
	return out, nil
}
