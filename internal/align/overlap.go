package align

import "fmt"

// Policy decides what happens when a buffered sentence ends after the next
// one starts.
type Policy string

const (
	// PolicyAllow keeps overlapping intervals; neighbouring clips share audio.
	PolicyAllow Policy = "allow"
	// PolicyClamp moves both touching edges to the midpoint of the overlap.
	PolicyClamp Policy = "clamp"
	// PolicyReject fails the run on the first overlap.
	PolicyReject Policy = "reject"
)

// ParsePolicy validates a policy name; the empty string selects PolicyAllow.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(value) {
	case "", PolicyAllow:
		return PolicyAllow, nil
	case PolicyClamp, PolicyReject:
		return Policy(value), nil
	default:
		return "", fmt.Errorf("unknown overlap policy %q", value)
	}
}

// Overlaps returns the indexes i where sentence i ends after sentence i+1 starts.
func Overlaps(sentences []Sentence) []int {
	var idx []int
	for i := 0; i+1 < len(sentences); i++ {
		if sentences[i].End > sentences[i+1].Start {
			idx = append(idx, i)
		}
	}
	return idx
}

// ResolveOverlaps applies policy to adjacent overlapping sentences and returns
// the resulting intervals along with the number of overlaps found. The input
// slice is not modified.
func ResolveOverlaps(sentences []Sentence, policy Policy) ([]Sentence, int, error) {
	found := Overlaps(sentences)
	if len(found) == 0 {
		return sentences, 0, nil
	}
	switch policy {
	case "", PolicyAllow:
		return sentences, len(found), nil
	case PolicyReject:
		i := found[0]
		return nil, len(found), &OverlapError{Index: i, End: sentences[i].End, Next: sentences[i+1].Start}
	case PolicyClamp:
		out := make([]Sentence, len(sentences))
		copy(out, sentences)
		for _, i := range found {
			mid := (out[i].End + out[i+1].Start) / 2
			// A midpoint outside either interval would invert one of them;
			// leave that pair untouched.
			if mid <= out[i].Start || mid >= out[i+1].End {
				continue
			}
			out[i].End = mid
			out[i+1].Start = mid
		}
		return out, len(found), nil
	default:
		return nil, len(found), fmt.Errorf("unknown overlap policy %q", policy)
	}
}
