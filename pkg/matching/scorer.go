package matching

import (
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/names"
)

// Scorer computes the blended match score for one candidate pair.
type Scorer interface {
	Score(record1, record2 *models.Record, entry1, entry2 *models.NameEntry, luceneScore float64) *models.MatchScore
}

// MatchScorer is the default Scorer. State-free and deterministic; a failure
// while scoring one pair yields a nil score and the pair is skipped.
type MatchScorer struct {
	classifier *names.Classifier
	bioScorer  *BioScorer
	logger     *zap.Logger
}

// NewMatchScorer creates the default scorer.
func NewMatchScorer(classifier *names.Classifier, bioScorer *BioScorer, logger *zap.Logger) *MatchScorer {
	return &MatchScorer{
		classifier: classifier,
		bioScorer:  bioScorer,
		logger:     logger,
	}
}

// Score blends name, date, and biography sub-scores into one overall score.
// Returns nil when scoring fails; the caller must skip the pair.
func (s *MatchScorer) Score(record1, record2 *models.Record, entry1, entry2 *models.NameEntry, luceneScore float64) (score *models.MatchScore) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scoring failed, skipping pair", zap.Any("panic", r))
			score = nil
		}
	}()

	score = &models.MatchScore{}
	score.NameScore = s.scoreNameMatch(entry1, entry2, luceneScore)
	score.DateScore = s.scoreDatesMatch(record1, record2)
	if score.NameScore > 0.2 {
		// this score is slow to calculate, we won't always need it
		bioScore, err := s.bioScorer.Score(record1, record2)
		if err != nil {
			s.logger.Error("biography scoring failed, skipping pair", zap.Error(err))
			return nil
		}
		score.BioScore = bioScore
	} else {
		score.BioScore = NotComputable
	}
	s.calculateOverallScore(score)
	return score
}

func (s *MatchScorer) scoreNameMatch(entry1, entry2 *models.NameEntry, luceneScore float64) float64 {
	// if lucene is highly matched, let's start at threshold
	overallScore := 0.15
	if luceneScore > 1 {
		overallScore = 0.3
	}

	tokens1 := s.classifier.PartTokens(entry1)
	tokens2 := s.classifier.PartTokens(entry2)

	lastNameSim := TokenSetSimilarity(tokens1[names.PartTypeLast], tokens2[names.PartTypeLast])
	firstNameSim := TokenSetSimilarity(tokens1[names.PartTypeFirst], tokens2[names.PartTypeFirst])
	orgNameSim := TokenSetSimilarity(tokens1[names.PartTypeOrg], tokens2[names.PartTypeOrg])

	if orgNameSim > NotComputable {
		if orgNameSim < 0.85 {
			overallScore -= 0.2
		}
		return overallScore + orgNameSim*0.5
	}

	// give a boost if first and last name the same
	if lastNameSim >= 0.9 && firstNameSim == 1 {
		overallScore += 0.3
	}
	// if last name is not the same, penalize
	if lastNameSim < 0.85 || firstNameSim < 0.7 {
		overallScore -= 0.2
	}
	return overallScore * (lastNameSim*0.5 + firstNameSim*0.5)
}

func (s *MatchScorer) scoreDatesMatch(record1, record2 *models.Record) float64 {
	if record1.Description == nil || record2.Description == nil {
		return NotComputable
	}

	ranges1 := ExtractYearRanges(record1.Description.ExistDates)
	ranges2 := ExtractYearRanges(record2.Description.ExistDates)
	return DateRangeSimilarity(ranges1, ranges2)
}

// calculateOverallScore adjusts the name score by the date and biography
// sub-scores per the fixed heuristic policy.
func (s *MatchScorer) calculateOverallScore(score *models.MatchScore) {
	score.OverallScore = score.NameScore

	if score.NameScore < 0.2 {
		return
	}

	// if dates do not match, we probably do not have a match
	if score.DateScore == 0 {
		score.OverallScore = 0.2
		return
	}

	if score.BioScore > 0.7 {
		score.OverallScore += 0.05
	}

	// penalize if score is way too off and dates don't match
	if score.BioScore < 0.2 && score.DateScore <= 0 {
		score.OverallScore -= 0.1
	}

	if score.DateScore > 0 && score.DateScore < 0.8 {
		score.OverallScore += 0.05
		return
	}

	// dates match
	if score.DateScore > 0.8 {
		score.OverallScore += 0.2
	}
}
