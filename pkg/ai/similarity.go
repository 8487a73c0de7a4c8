package ai

import (
	"strings"
	"unicode"
)

// tokens returns the set of lower-cased words and numbers in s.
func tokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		set[f] = struct{}{}
	}
	return set
}

// Jaccard is the token-set Jaccard similarity of a and b. Two empty texts
// are identical.
func Jaccard(a, b string) float64 {
	return jaccard(tokens(a), tokens(b))
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Agreement scores a set of answers. It returns the mean pairwise similarity
// and, for each answer, its mean similarity to the others. With fewer than
// two answers agreement is 1.
func Agreement(answers []string) (float64, []float64) {
	sets := make([]map[string]struct{}, len(answers))
	for i, a := range answers {
		sets[i] = tokens(a)
	}

	centrality := make([]float64, len(answers))
	if len(answers) < 2 {
		for i := range centrality {
			centrality[i] = 1
		}
		return 1, centrality
	}

	var total float64
	pairs := 0
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			s := jaccard(sets[i], sets[j])
			centrality[i] += s
			centrality[j] += s
			total += s
			pairs++
		}
	}
	for i := range centrality {
		centrality[i] /= float64(len(answers) - 1)
	}
	return total / float64(pairs), centrality
}

// mostCentral returns the index with the highest score; ties go to the
// earlier index.
func mostCentral(scores []float64) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}
