package matching

import (
	"math"
	"regexp"

	"github.com/Ramsey-B/laurel/pkg/models"
)

// UnknownYear is the sentinel for a bound that could not be parsed.
const UnknownYear = math.MaxInt32

// YearRange is one normalized existence interval. Score is assigned once
// during date similarity scoring.
type YearRange struct {
	From  int
	To    int
	Score float64
}

var yearPattern = regexp.MustCompile(`[0-9]{4}`)

// FindYear scans free text for the last occurrence of a 4-digit substring
// and returns it as a year, or UnknownYear when none is found.
//
// Known limitation: the last 4-digit run wins even when it is part of an
// unrelated number. Kept as documented behavior.
func FindYear(text string) int {
	all := yearPattern.FindAllString(text, -1)
	if len(all) == 0 {
		return UnknownYear
	}
	year := 0
	for _, c := range all[len(all)-1] {
		year = year*10 + int(c-'0')
	}
	return year
}

// ExtractYearRanges normalizes a record's existence dates into year
// intervals. Explicit from/to ranges and single dates with not-before /
// not-after bounds both contribute; unparsable bounds become UnknownYear.
func ExtractYearRanges(dates *models.ExistDates) []YearRange {
	if dates == nil {
		return nil
	}

	var ranges []YearRange
	for _, dr := range dates.DateRanges {
		yr := YearRange{From: UnknownYear, To: UnknownYear}
		if dr.FromDate != nil && dr.FromDate.Date != "" {
			yr.From = FindYear(dr.FromDate.Date)
		}
		if dr.ToDate != nil && dr.ToDate.Date != "" {
			yr.To = FindYear(dr.ToDate.Date)
		}
		ranges = append(ranges, yr)
	}
	for _, d := range dates.Dates {
		yr := YearRange{From: UnknownYear, To: UnknownYear}
		if d.NotBefore != "" {
			yr.From = FindYear(d.NotBefore)
		}
		if d.NotAfter != "" {
			yr.To = FindYear(d.NotAfter)
		}
		ranges = append(ranges, yr)
	}
	return ranges
}

// DateRangeSimilarity scores two lists of year ranges by greedy interval
// matching. Each base range claims its best-scoring compare range, which is
// then consumed. A from/to bound contributes 0.5*(1-|Δ|/3) only when both
// bounds are known and |Δ| <= 1 year. The result is the mean over all base
// ranges, or NotComputable when either list is empty.
func DateRangeSimilarity(base, compare []YearRange) float64 {
	if len(base) == 0 || len(compare) == 0 {
		return NotComputable
	}

	available := make([]bool, len(compare))
	for i := range available {
		available[i] = true
	}
	remaining := len(compare)

	for i := range base {
		if remaining == 0 {
			break
		}

		best := 0.0
		bestIdx := firstAvailable(available)
		for j := range compare {
			if !available[j] {
				continue
			}
			score := boundScore(base[i].From, compare[j].From) + boundScore(base[i].To, compare[j].To)
			if score > best {
				best = score
				bestIdx = j
			}
		}

		base[i].Score = best
		available[bestIdx] = false
		remaining--
	}

	var total float64
	for _, yr := range base {
		total += yr.Score
	}
	return total / float64(len(base))
}

// boundScore scores one pair of year bounds. Bounds within a year of each
// other contribute half the range score, shaved slightly when not exact.
func boundScore(a, b int) float64 {
	if a == UnknownYear || b == UnknownYear {
		return 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff > 1 {
		return 0
	}
	return 0.5 * (1 - float64(diff)/3)
}

func firstAvailable(available []bool) int {
	for i, ok := range available {
		if ok {
			return i
		}
	}
	return 0
}
