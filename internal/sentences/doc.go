// Package sentences splits reconstructed transcript text into sentences.
//
// Two splitters are provided: a rule-based splitter that breaks after tokens
// ending in terminal punctuation, and a command splitter that pipes the text
// through an external tokenizer (for example a spaCy script) and reads one
// sentence per output line. Both return whitespace-delimited tokens exactly
// as they appear in the input so the aligner can match them to words.
package sentences
