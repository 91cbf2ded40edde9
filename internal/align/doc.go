// Package align matches externally split sentences back onto recognizer word
// timestamps.
//
// Align walks the sentence list with a single forward cursor over the word
// sequence. Each sentence must start with exactly the word under the cursor;
// it then consumes as many words as it has whitespace tokens and yields a
// buffered interval. There is no fuzzy matching or backtracking: the first
// disagreement is returned as an *AlignmentError and a word count that does
// not add up is returned as a *CursorIntegrityError.
package align
