package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSortScorer(t *testing.T) {
	t.Parallel()

	s := NewTokenSortScorer()

	assert.Equal(t, 1.0, s.Score("Justin Jefferson", "justin  jefferson"))
	assert.Equal(t, 1.0, s.Score("jefferson justin", "Justin Jefferson"))
	assert.Equal(t, 0.0, s.Score("", "Justin Jefferson"))
	assert.Equal(t, 0.0, s.Score("Justin Jefferson", "   "))

	// one deletion out of 17 runes
	assert.InDelta(t, 16.0/17.0, s.Score("amon-ra st. brown", "amon-ra st brown"), 1e-9)

	assert.Less(t, s.Score("Justin Jefferson", "Josh Allen"), 0.5)
}

func TestTokenSortScorer_SymmetricAndDeterministic(t *testing.T) {
	t.Parallel()

	s := NewTokenSortScorer()
	pairs := [][2]string{
		{"kenneth walker", "kenneth walker iii"},
		{"gabe davis", "gabriel davis"},
		{"d'andre swift", "dandre swift"},
	}
	for _, p := range pairs {
		first := s.Score(p[0], p[1])
		assert.Equal(t, first, s.Score(p[1], p[0]), "%v", p)
		assert.Equal(t, first, s.Score(p[0], p[1]), "%v", p)
		assert.GreaterOrEqual(t, first, 0.0)
		assert.LessOrEqual(t, first, 1.0)
	}
}

func TestScorerFunc(t *testing.T) {
	t.Parallel()

	var s Scorer = ScorerFunc(func(_, _ string) float64 { return 0.42 })
	assert.Equal(t, 0.42, s.Score("a", "b"))
}
