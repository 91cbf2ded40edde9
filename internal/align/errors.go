package align

import "fmt"

// AlignmentError reports a sentence whose first token does not match the word
// under the cursor. It means the splitter tokenized the reconstructed text
// differently from the recognizer (contractions, punctuation).
type AlignmentError struct {
	SentenceIndex      int
	Cursor             int
	ExpectedWord       string
	SentenceFirstToken string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("alignment mismatch at word %d (sentence %d): expected %q, sentence starts with %q",
		e.Cursor, e.SentenceIndex, e.ExpectedWord, e.SentenceFirstToken)
}

// CursorIntegrityError reports that the sentences did not consume exactly the
// words available. SentenceIndex is the sentence at which an overrun was
// detected, or -1 when words were left over after the last sentence.
type CursorIntegrityError struct {
	SentenceIndex int
	Consumed      int
	Total         int
}

func (e *CursorIntegrityError) Error() string {
	if e.SentenceIndex >= 0 {
		return fmt.Sprintf("cursor integrity: sentence %d needs words beyond the transcript (%d needed, %d available)",
			e.SentenceIndex, e.Consumed, e.Total)
	}
	return fmt.Sprintf("cursor integrity: %d of %d words consumed, %d left over", e.Consumed, e.Total, e.Total-e.Consumed)
}

// OverlapError is returned by ResolveOverlaps under the reject policy.
type OverlapError struct {
	Index int
	End   float64
	Next  float64
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("sentence %d ends at %.3fs after sentence %d starts at %.3fs", e.Index, e.End, e.Index+1, e.Next)
}
