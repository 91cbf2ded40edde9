package transcript

import (
	"fmt"
	"strings"
	"unicode"
)

// MalformedError reports a word that cannot be turned into a WordToken.
// Segment and Word are -1 when the document itself could not be decoded.
type MalformedError struct {
	Segment int
	Word    int
	Reason  string
}

func (e *MalformedError) Error() string {
	if e.Segment < 0 {
		return "malformed transcript: " + e.Reason
	}
	return fmt.Sprintf("malformed transcript: segment %d word %d: %s", e.Segment, e.Word, e.Reason)
}

// Flatten concatenates the words of every segment in order. Word text is
// trimmed because recognizers emit a leading space on most words. Order and
// duplicates are preserved as given.
//
// A word is malformed when a field is missing, its start is negative, its end
// precedes its start, or its trimmed text is empty or still contains
// whitespace. Each word must stay a single token for alignment.
func Flatten(t Transcript) ([]WordToken, error) {
	words := make([]WordToken, 0, t.WordCount())
	for si, seg := range t.Segments {
		for wi, w := range seg.Words {
			token, reason := flattenWord(w)
			if reason != "" {
				return nil, &MalformedError{Segment: si, Word: wi, Reason: reason}
			}
			words = append(words, token)
		}
	}
	return words, nil
}

// flattenWord returns the token, or a non-empty reason when w is malformed.
func flattenWord(w Word) (WordToken, string) {
	switch {
	case w.Word == nil:
		return WordToken{}, "missing text"
	case w.Start == nil:
		return WordToken{}, "missing start"
	case w.End == nil:
		return WordToken{}, "missing end"
	}
	text := strings.TrimSpace(*w.Word)
	start, end := *w.Start, *w.End
	switch {
	case text == "":
		return WordToken{}, "empty text"
	case strings.IndexFunc(text, unicode.IsSpace) >= 0:
		return WordToken{}, fmt.Sprintf("text %q contains whitespace", text)
	case start < 0:
		return WordToken{}, fmt.Sprintf("negative start %v", start)
	case end < start:
		return WordToken{}, fmt.Sprintf("end %v before start %v", end, start)
	}
	return WordToken{Text: text, Start: start, End: end}, ""
}
