package sentences

import (
	"context"
	"strings"
	"unicode/utf8"
)

var terminalPunctuation = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, '…': {},
	'。': {}, '！': {}, '？': {},
}

var closingMarks = map[rune]struct{}{
	'"': {}, '\'': {}, ')': {}, ']': {}, '}': {},
	'”': {}, '’': {}, '»': {}, '」': {}, '）': {},
}

var abbreviations = map[string]map[string]struct{}{
	"es": set("sr.", "sra.", "srta.", "dr.", "dra.", "ud.", "uds.", "lic.", "prof.", "núm.", "pág.", "aprox.", "ej."),
	"en": set("mr.", "mrs.", "ms.", "dr.", "prof.", "st.", "jr.", "sr.", "vs.", "e.g.", "i.e.", "approx."),
	"fr": set("m.", "mme.", "mlle.", "dr.", "p.", "cf."),
	"de": set("hr.", "fr.", "dr.", "prof.", "z.b.", "bzw.", "usw.", "ca."),
	"it": set("sig.", "dott.", "prof."),
	"pt": set("sr.", "sra.", "dr.", "dra.", "prof."),
}

func set(values ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

// RuleSplitter breaks text after whitespace tokens that end in terminal
// punctuation, optionally followed by closing quotes or brackets. Known
// abbreviations for the language do not end a sentence.
type RuleSplitter struct {
	abbreviations map[string]struct{}
}

// NewRuleSplitter returns a rule-based splitter for lang.
func NewRuleSplitter(lang string) *RuleSplitter {
	return &RuleSplitter{abbreviations: abbreviations[lang]}
}

// Split implements Splitter.
func (s *RuleSplitter) Split(_ context.Context, text string) ([]string, error) {
	tokens := strings.Fields(text)
	var (
		out     []string
		current []string
	)
	for _, token := range tokens {
		current = append(current, token)
		if s.endsSentence(token) {
			out = append(out, strings.Join(current, " "))
			current = current[:0]
		}
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return compact(out), nil
}

func (s *RuleSplitter) endsSentence(token string) bool {
	if _, ok := s.abbreviations[strings.ToLower(token)]; ok {
		return false
	}
	trimmed := strings.TrimRightFunc(token, func(r rune) bool {
		_, ok := closingMarks[r]
		return ok
	})
	if trimmed == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(trimmed)
	_, ok := terminalPunctuation[last]
	return ok
}
