package sentences

import (
	"context"
	"fmt"
	"strings"

	"clipdeck/internal/config"
)

// Splitter turns a transcript string into an ordered list of sentences.
type Splitter interface {
	Split(ctx context.Context, text string) ([]string, error)
}

// New builds the splitter selected by configuration. lang is the canonical
// input language and selects the Punkt model, the abbreviation rules and the
// {lang} command placeholder. The punkt splitter falls back to rules for
// languages without a trained model.
func New(cfg config.Sentences, lang string) (Splitter, error) {
	switch cfg.Splitter {
	case "", config.SplitterPunkt:
		if !HasPunktModel(lang) {
			return NewRuleSplitter(lang), nil
		}
		return NewPunktSplitter(lang)
	case config.SplitterRules:
		return NewRuleSplitter(lang), nil
	case config.SplitterCommand:
		return NewCommandSplitter(cfg.Command, lang)
	default:
		return nil, fmt.Errorf("unknown sentence splitter %q", cfg.Splitter)
	}
}

// compact trims sentences and drops blank ones.
func compact(sentences []string) []string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
