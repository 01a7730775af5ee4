package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaroWinkler(t *testing.T) {
	t.Run("ExactMatch", func(t *testing.T) {
		assert.Equal(t, 1.0, JaroWinkler("Smith", "Smith"))
	})

	t.Run("EmptyStrings", func(t *testing.T) {
		assert.Equal(t, 1.0, JaroWinkler("", ""))
		assert.Equal(t, 0.0, JaroWinkler("abc", ""))
	})

	t.Run("CloseNames", func(t *testing.T) {
		sim := JaroWinkler("Smith", "Smyth")
		assert.Greater(t, sim, 0.8)
		assert.Less(t, sim, 1.0)
	})

	t.Run("PrefixBoost", func(t *testing.T) {
		// Shared prefix scores above a transposed variant of the same letters.
		assert.Greater(t, JaroWinkler("Martha", "Marhta"), Jaro("Martha", "Marhta"))
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		assert.Less(t, JaroWinkler("smith", "SMITH"), 1.0)
	})
}

func TestTokenSetSimilarity(t *testing.T) {
	t.Run("EmptyListsNotComputable", func(t *testing.T) {
		assert.Equal(t, NotComputable, TokenSetSimilarity(nil, []string{"Smith"}))
		assert.Equal(t, NotComputable, TokenSetSimilarity([]string{"Smith"}, nil))
		assert.Equal(t, NotComputable, TokenSetSimilarity(nil, nil))
	})

	t.Run("IdenticalSingleToken", func(t *testing.T) {
		assert.Equal(t, 1.0, TokenSetSimilarity([]string{"Smith"}, []string{"Smith"}))
	})

	t.Run("IdenticalMultiToken", func(t *testing.T) {
		assert.Equal(t, 1.0, TokenSetSimilarity([]string{"van", "der", "Berg"}, []string{"van", "der", "Berg"}))
	})

	t.Run("TokensNotReused", func(t *testing.T) {
		// Both a tokens would prefer "Smith"; only one can claim it.
		sim := TokenSetSimilarity([]string{"Smith", "Smith"}, []string{"Smith", "Jones"})
		assert.Less(t, sim, 1.0)
	})

	t.Run("StopsWhenCompareExhausted", func(t *testing.T) {
		// One compare token: only the first base token is scored.
		sim := TokenSetSimilarity([]string{"Smith", "Zzzz"}, []string{"Smith"})
		assert.Equal(t, 1.0, sim)
	})

	t.Run("Asymmetric", func(t *testing.T) {
		// Forward: "Qqqq" consumes the lone compare token at a low score.
		// Reverse: "Smith" finds its exact match among the compare tokens.
		a := []string{"Qqqq", "Smith"}
		b := []string{"Smith"}
		assert.Less(t, TokenSetSimilarity(a, b), TokenSetSimilarity(b, a))
	})

	t.Run("InputSlicesNotMutated", func(t *testing.T) {
		a := []string{"John", "Smith"}
		b := []string{"Jon", "Smyth"}
		TokenSetSimilarity(a, b)
		assert.Equal(t, []string{"John", "Smith"}, a)
		assert.Equal(t, []string{"Jon", "Smyth"}, b)
	})
}
