package matching

import (
	"sort"
	"strings"

	"github.com/Ramsey-B/laurel/pkg/models"
)

// minBioLength is the minimum abstract length worth comparing; shorter
// texts produce too few keywords to be meaningful.
const minBioLength = 50

// KeywordExtractor reduces free text to its significant lexical items
// (nouns and named entities of interest).
type KeywordExtractor interface {
	Keywords(text string) ([]string, error)
}

// BioScorer scores biography similarity using externally extracted keywords.
type BioScorer struct {
	extractor KeywordExtractor
}

// NewBioScorer creates a biography scorer over the given keyword extractor.
func NewBioScorer(extractor KeywordExtractor) *BioScorer {
	return &BioScorer{extractor: extractor}
}

// Score compares the first biography of each record. Both abstracts must be
// present and at least 50 characters, otherwise the score is NotComputable.
func (s *BioScorer) Score(record1, record2 *models.Record) (float64, error) {
	bio1 := bioText(record1)
	if len(bio1) < minBioLength {
		return NotComputable, nil
	}
	bio2 := bioText(record2)
	if len(bio2) < minBioLength {
		return NotComputable, nil
	}

	keywords1, err := s.extractor.Keywords(bio1)
	if err != nil {
		return NotComputable, err
	}
	keywords2, err := s.extractor.Keywords(bio2)
	if err != nil {
		return NotComputable, err
	}

	return 1 - keywordDistance(keywords1, keywords2), nil
}

// bioText returns the first biography's abstract, falling back to its
// paragraphs joined by newlines.
func bioText(record *models.Record) string {
	if record == nil || record.Description == nil || len(record.Description.BiogHists) == 0 {
		return ""
	}
	bio := record.Description.BiogHists[0]
	if bio.Abstract != "" {
		return bio.Abstract
	}
	if len(bio.Paragraphs) > 0 {
		return strings.Join(bio.Paragraphs, "\n") + "\n"
	}
	return ""
}

// keywordDistance sorts and joins each keyword list, then computes the
// longest-common-subsequence edit distance between the joined strings. The
// absolute length difference is subtracted, since LCS already charges one
// insertion per extra character, and the remainder is normalized by the
// longer string's length.
func keywordDistance(keywords1, keywords2 []string) float64 {
	sorted1 := append([]string{}, keywords1...)
	sorted2 := append([]string{}, keywords2...)
	sort.Strings(sorted1)
	sort.Strings(sorted2)

	joined1 := strings.Join(sorted1, " ")
	joined2 := strings.Join(sorted2, " ")

	dist := float64(lcsDistance(joined1, joined2))
	diff := float64(len(joined1) - len(joined2))
	if diff < 0 {
		diff = -diff
	}
	dist -= diff

	longer := len(joined1)
	if len(joined2) > longer {
		longer = len(joined2)
	}
	if longer == 0 {
		return 0
	}
	return dist / float64(longer)
}

// lcsDistance is the edit distance allowing only insertions and deletions:
// len(a) + len(b) - 2 * lcs(a, b).
func lcsDistance(a, b string) int {
	return len(a) + len(b) - 2*lcsLength(a, b)
}

func lcsLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				row[j] = prev[j-1] + 1
			} else {
				row[j] = max(prev[j], row[j-1])
			}
		}
		prev, row = row, prev
	}
	return prev[len(b)]
}
