package transcript

import (
	"encoding/json"
	"strings"
)

// Transcript is the recognizer output persisted with -w and reused with -j.
type Transcript struct {
	Language string    `json:"language,omitempty"`
	Text     string    `json:"text,omitempty"`
	Segments []Segment `json:"segments"`
}

// Segment groups consecutive words the recognizer emitted together.
type Segment struct {
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Text  string   `json:"text,omitempty"`
	Words []Word   `json:"words"`
}

// Word is a single timed word as it appears on disk. Fields are pointers so a
// missing key can be told apart from a zero value.
type Word struct {
	Word        *string  `json:"word,omitempty"`
	Start       *float64 `json:"start,omitempty"`
	End         *float64 `json:"end,omitempty"`
	Probability *float64 `json:"probability,omitempty"`
}

// UnmarshalJSON accepts both the whisper "word" key and the generic "text" key.
func (w *Word) UnmarshalJSON(data []byte) error {
	var raw struct {
		Word        *string  `json:"word"`
		Text        *string  `json:"text"`
		Start       *float64 `json:"start"`
		End         *float64 `json:"end"`
		Probability *float64 `json:"probability"`
		Score       *float64 `json:"score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.Word = raw.Word
	if w.Word == nil {
		w.Word = raw.Text
	}
	w.Start = raw.Start
	w.End = raw.End
	w.Probability = raw.Probability
	if w.Probability == nil {
		w.Probability = raw.Score
	}
	return nil
}

// WordToken is one flattened word with its timing in seconds.
type WordToken struct {
	Text  string
	Start float64
	End   float64
}

// Reconstruct joins word texts with single spaces. This is the exact text the
// sentence splitter sees, so its whitespace tokens line up with the words.
func Reconstruct(words []WordToken) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// WordCount returns the total number of words across all segments.
func (t Transcript) WordCount() int {
	total := 0
	for _, seg := range t.Segments {
		total += len(seg.Words)
	}
	return total
}

// NewWord builds an on-disk word; used by engines that parse other formats
// and by tests.
func NewWord(text string, start, end float64) Word {
	return Word{Word: &text, Start: &start, End: &end}
}
