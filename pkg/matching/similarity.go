// Package matching implements the record-linkage scoring engine: token
// similarity, existence-date overlap, biography similarity, and the policy
// that blends them into one match score.
package matching

import "strings"

// NotComputable marks a sub-score that could not be derived from the
// available data. Distinct from 0, which means "computed, no match".
const NotComputable = -1.0

// JaroWinkler calculates the Jaro-Winkler similarity between two strings.
// Returns a value between 0.0 (no similarity) and 1.0 (exact match).
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}

	jaro := Jaro(a, b)

	// Winkler modification: boost for common prefix
	prefixLen := 0
	maxPrefix := 4
	for i := 0; i < len(a) && i < len(b) && i < maxPrefix; i++ {
		if a[i] == b[i] {
			prefixLen++
		} else {
			break
		}
	}

	// Winkler scaling factor is typically 0.1
	scalingFactor := 0.1
	return jaro + float64(prefixLen)*scalingFactor*(1.0-jaro)
}

// Jaro calculates the Jaro similarity between two strings.
func Jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// Maximum distance for character matching
	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))

	matches := 0
	transpositions := 0

	for i := 0; i < len(a); i++ {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)

		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	k := 0
	for i := 0; i < len(a); i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

// TokenSetSimilarity scores two unordered token lists by greedy best-match
// assignment: each token in a claims its most similar still-available token
// in b (Jaro-Winkler, case-sensitive, trimmed), which is then consumed so no
// b token is reused. The result is the mean of the per-token maxima over the
// a tokens processed, or NotComputable when either list is empty.
//
// The assignment is greedy, not globally optimal, and the function is not
// guaranteed symmetric. Ties keep the first-encountered b token.
func TokenSetSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return NotComputable
	}

	// Availability flags instead of removal from a shared list, so callers'
	// slices are never mutated.
	available := make([]bool, len(b))
	for i := range available {
		available[i] = true
	}
	remaining := len(b)

	var total float64
	matched := 0
	for _, tokenA := range a {
		best := -1.0
		bestIdx := 0
		for j, tokenB := range b {
			if !available[j] {
				continue
			}
			sim := JaroWinkler(strings.TrimSpace(tokenA), strings.TrimSpace(tokenB))
			if sim > best {
				best = sim
				bestIdx = j
			}
		}

		total += best
		matched++
		available[bestIdx] = false
		remaining--
		if remaining == 0 {
			break
		}
	}

	return total / float64(matched)
}
