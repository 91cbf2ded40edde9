package sentences

import (
	"context"
	"fmt"
	"strings"

	punkt "github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/data"
)

// punktModels maps input languages to the trained Punkt models bundled
// with github.com/neurosnap/sentences.
var punktModels = map[string]string{
	"cs": "czech",
	"da": "danish",
	"de": "german",
	"el": "greek",
	"en": "english",
	"es": "spanish",
	"et": "estonian",
	"fi": "finnish",
	"fr": "french",
	"it": "italian",
	"nl": "dutch",
	"no": "norwegian",
	"nb": "norwegian",
	"pl": "polish",
	"pt": "portuguese",
	"sl": "slovene",
	"sv": "swedish",
	"tr": "turkish",
}

// HasPunktModel reports whether a trained Punkt model exists for lang.
func HasPunktModel(lang string) bool {
	_, ok := punktModels[baseLanguage(lang)]
	return ok
}

func baseLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}

// PunktSplitter segments text with the Punkt model trained for the input
// language. Boundaries are snapped to whitespace tokens so every sentence
// is made of whole transcript words.
type PunktSplitter struct {
	tokenizer *punkt.DefaultSentenceTokenizer
	fallback  *RuleSplitter
}

// NewPunktSplitter loads the trained model for lang.
func NewPunktSplitter(lang string) (*PunktSplitter, error) {
	model, ok := punktModels[baseLanguage(lang)]
	if !ok {
		return nil, fmt.Errorf("no punkt model for language %q", lang)
	}
	raw, err := data.Asset("data/" + model + ".json")
	if err != nil {
		return nil, fmt.Errorf("load punkt model %s: %w", model, err)
	}
	training, err := punkt.LoadTraining(raw)
	if err != nil {
		return nil, fmt.Errorf("parse punkt model %s: %w", model, err)
	}
	return &PunktSplitter{
		tokenizer: punkt.NewSentenceTokenizer(training),
		fallback:  NewRuleSplitter(baseLanguage(lang)),
	}, nil
}

// Split implements Splitter.
func (s *PunktSplitter) Split(ctx context.Context, text string) ([]string, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return []string{}, nil
	}
	found := s.tokenizer.Tokenize(strings.Join(tokens, " "))
	pieces := make([]string, 0, len(found))
	for _, sentence := range found {
		pieces = append(pieces, sentence.Text)
	}
	out, ok := regroup(tokens, pieces)
	if !ok {
		return s.fallback.Split(ctx, text)
	}
	return out, nil
}

// regroup rebuilds sentences from the original tokens using the boundaries
// implied by pieces. A boundary that falls inside a token moves to the end
// of that token. ok is false when pieces do not cover exactly the same
// non-space text as tokens.
func regroup(tokens, pieces []string) ([]string, bool) {
	bounds := make([]int, 0, len(pieces))
	total := 0
	for _, piece := range pieces {
		n := len(strings.Join(strings.Fields(piece), ""))
		if n == 0 {
			continue
		}
		total += n
		bounds = append(bounds, total)
	}
	if total != len(strings.Join(tokens, "")) {
		return nil, false
	}

	var (
		out      []string
		current  []string
		consumed int
		next     int
	)
	for _, token := range tokens {
		current = append(current, token)
		consumed += len(token)
		if next < len(bounds) && consumed >= bounds[next] {
			out = append(out, strings.Join(current, " "))
			current = current[:0]
			for next < len(bounds) && bounds[next] <= consumed {
				next++
			}
		}
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return out, true
}
