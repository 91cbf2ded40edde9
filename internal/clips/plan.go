package clips

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"clipdeck/internal/align"
	"clipdeck/internal/textutil"
)

// Spec describes the clip to cut for one sentence.
type Spec struct {
	Index          int
	StartLabel     string
	EndLabel       string
	OutputFileName string
}

// Plan builds clip specs named {baseName}-{i}-clip.{ext}, one per sentence.
func Plan(sentences []align.Sentence, baseName, ext string) []Spec {
	ext = strings.TrimPrefix(ext, ".")
	specs := make([]Spec, len(sentences))
	for i, s := range sentences {
		specs[i] = Spec{
			Index:          i,
			StartLabel:     FormatSeconds(s.Start),
			EndLabel:       FormatSeconds(s.End),
			OutputFileName: fmt.Sprintf("%s-%d-clip.%s", baseName, i, ext),
		}
	}
	return specs
}

// FormatSeconds renders a timestamp as decimal seconds rounded to the
// millisecond. Negative values (a leading buffer wider than the silence
// before the first word) are clamped to zero.
func FormatSeconds(v float64) string {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	v = math.Round(v*1000) / 1000
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BaseName returns the file name of path up to its first dot, so
// "lesson.es.mp3" becomes "lesson". Characters that would break a card's
// sound reference are replaced.
func BaseName(path string) string {
	name := filepath.Base(path)
	if idx := strings.Index(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = textutil.SanitizeFileName(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "clip"
	}
	return name
}
