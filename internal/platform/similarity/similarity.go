// Package similarity scores how alike two player names are on a 0..1 scale.
package similarity

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Scorer returns a similarity in [0,1] where 1 means identical. Implementations
// must be deterministic for fixed inputs.
type Scorer interface {
	Score(query, candidate string) float64
}

// TokenSortScorer is an edit-distance ratio that also compares the
// alphabetically sorted tokens of both names, so "Jefferson Justin" and
// "Justin Jefferson" score 1. The better of the two ratios wins.
type TokenSortScorer struct{}

func NewTokenSortScorer() TokenSortScorer {
	return TokenSortScorer{}
}

func (TokenSortScorer) Score(query, candidate string) float64 {
	a := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	b := strings.Join(strings.Fields(strings.ToLower(candidate)), " ")
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	best := ratio(a, b)
	if sorted := ratio(sortTokens(a), sortTokens(b)); sorted > best {
		best = sorted
	}
	return best
}

func ratio(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}

	distance := levenshtein.ComputeDistance(a, b)
	score := 1 - float64(distance)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(query, candidate string) float64

func (f ScorerFunc) Score(query, candidate string) float64 {
	return f(query, candidate)
}
