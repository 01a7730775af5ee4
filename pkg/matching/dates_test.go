package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/laurel/pkg/models"
)

func TestFindYear(t *testing.T) {
	t.Run("PlainYear", func(t *testing.T) {
		assert.Equal(t, 1900, FindYear("1900"))
	})

	t.Run("YearInsideText", func(t *testing.T) {
		assert.Equal(t, 1856, FindYear("born circa 1856 in London"))
	})

	t.Run("LastOccurrenceWins", func(t *testing.T) {
		assert.Equal(t, 1950, FindYear("1900-1950"))
	})

	t.Run("NoYear", func(t *testing.T) {
		assert.Equal(t, UnknownYear, FindYear("unknown"))
		assert.Equal(t, UnknownYear, FindYear(""))
		assert.Equal(t, UnknownYear, FindYear("c. 190"))
	})
}

func TestExtractYearRanges(t *testing.T) {
	t.Run("NilDates", func(t *testing.T) {
		assert.Nil(t, ExtractYearRanges(nil))
	})

	t.Run("ExplicitRange", func(t *testing.T) {
		ranges := ExtractYearRanges(&models.ExistDates{
			DateRanges: []models.DateRange{
				{
					FromDate: &models.DateValue{Date: "1900"},
					ToDate:   &models.DateValue{Date: "1950"},
				},
			},
		})
		assert.Len(t, ranges, 1)
		assert.Equal(t, 1900, ranges[0].From)
		assert.Equal(t, 1950, ranges[0].To)
	})

	t.Run("SingleDateBounds", func(t *testing.T) {
		ranges := ExtractYearRanges(&models.ExistDates{
			Dates: []models.DateValue{
				{Date: "1920", NotBefore: "1918", NotAfter: "1922"},
			},
		})
		assert.Len(t, ranges, 1)
		assert.Equal(t, 1918, ranges[0].From)
		assert.Equal(t, 1922, ranges[0].To)
	})

	t.Run("UnparsableBoundsBecomeUnknown", func(t *testing.T) {
		ranges := ExtractYearRanges(&models.ExistDates{
			DateRanges: []models.DateRange{
				{FromDate: &models.DateValue{Date: "sometime"}},
			},
		})
		assert.Len(t, ranges, 1)
		assert.Equal(t, UnknownYear, ranges[0].From)
		assert.Equal(t, UnknownYear, ranges[0].To)
	})
}

func TestDateRangeSimilarity(t *testing.T) {
	t.Run("EmptyListsNotComputable", func(t *testing.T) {
		some := []YearRange{{From: 1900, To: 1950}}
		assert.Equal(t, NotComputable, DateRangeSimilarity(nil, some))
		assert.Equal(t, NotComputable, DateRangeSimilarity(some, nil))
	})

	t.Run("IdenticalRangeScoresOne", func(t *testing.T) {
		base := []YearRange{{From: 1900, To: 1950}}
		compare := []YearRange{{From: 1900, To: 1950}}
		assert.InDelta(t, 1.0, DateRangeSimilarity(base, compare), 1e-9)
	})

	t.Run("OffByOneBound", func(t *testing.T) {
		base := []YearRange{{From: 1900, To: 1950}}
		compare := []YearRange{{From: 1900, To: 1951}}
		// Exact from bound contributes 0.5, off-by-one to bound 0.5*(1-1/3).
		assert.InDelta(t, 0.5+0.5*(2.0/3.0), DateRangeSimilarity(base, compare), 1e-9)
	})

	t.Run("BeyondToleranceScoresZero", func(t *testing.T) {
		base := []YearRange{{From: 1900, To: 1950}}
		compare := []YearRange{{From: 1800, To: 1850}}
		assert.Equal(t, 0.0, DateRangeSimilarity(base, compare))
	})

	t.Run("UnknownBoundContributesZero", func(t *testing.T) {
		base := []YearRange{{From: 1900, To: UnknownYear}}
		compare := []YearRange{{From: 1900, To: UnknownYear}}
		assert.InDelta(t, 0.5, DateRangeSimilarity(base, compare), 1e-9)
	})

	t.Run("MeanOverAllBaseRanges", func(t *testing.T) {
		base := []YearRange{
			{From: 1900, To: 1950},
			{From: 1700, To: 1750},
		}
		compare := []YearRange{{From: 1900, To: 1950}}
		// One exact match, the second base range finds nothing to claim.
		assert.InDelta(t, 0.5, DateRangeSimilarity(base, compare), 1e-9)
	})
}
