// Package engine drives matching jobs: candidate retrieval, pair scoring,
// match persistence, and best-match aggregation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/internal/tracing"
	"github.com/Ramsey-B/laurel/pkg/matching"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/names"
	"github.com/Ramsey-B/laurel/pkg/search"
)

// ErrDatasetNotFound aborts the whole job: nothing can be matched against a
// dataset that does not exist.
var ErrDatasetNotFound = errors.New("dataset does not exist")

// latinScript is the only supported script code; entries with an empty code
// are assumed Latin as well.
const latinScript = "Latn"

// DatasetStore resolves dataset ids.
type DatasetStore interface {
	Get(ctx context.Context, id string) (*models.Dataset, error)
}

// RecordStore reads authority records.
type RecordStore interface {
	Get(ctx context.Context, id string) (*models.Record, error)
	ListByDataset(ctx context.Context, datasetID, afterID string, limit int) ([]models.Record, error)
}

// MatchStore persists scored matches.
type MatchStore interface {
	Create(ctx context.Context, match *models.Match) (*models.Match, error)
}

// Config contains the engine's tuning knobs.
type Config struct {
	ScoreThreshold  float64 // minimum overall score to persist (default 0.1)
	WorkerCount     int     // base records scored concurrently (default 4)
	RecordBatchSize int     // records fetched per page (default 100)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		ScoreThreshold:  0.1,
		WorkerCount:     4,
		RecordBatchSize: 100,
	}
}

// Engine runs one matching job to completion per trigger message.
type Engine struct {
	logger     *zap.Logger
	datasets   DatasetStore
	records    RecordStore
	matches    MatchStore
	index      search.CandidateIndex
	scorer     matching.Scorer
	classifier *names.Classifier
	aggregator *Aggregator
	config     Config
}

// New creates a matching engine.
func New(
	logger *zap.Logger,
	datasets DatasetStore,
	records RecordStore,
	matches MatchStore,
	index search.CandidateIndex,
	scorer matching.Scorer,
	classifier *names.Classifier,
	aggregator *Aggregator,
	config Config,
) *Engine {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.RecordBatchSize < 1 {
		config.RecordBatchSize = 100
	}
	return &Engine{
		logger:     logger,
		datasets:   datasets,
		records:    records,
		matches:    matches,
		index:      index,
		scorer:     scorer,
		classifier: classifier,
		aggregator: aggregator,
		config:     config,
	}
}

// Process runs one matching job. Errors local to a single candidate pair are
// logged and skipped; only dataset resolution failures abort the job.
func (e *Engine) Process(ctx context.Context, msg models.MatchJobMessage) error {
	ctx, span := tracing.StartSpan(ctx, "engine.Engine.Process")
	defer span.End()

	log := e.logger.With(
		zap.String("job_id", msg.JobID),
		zap.String("base_dataset_id", msg.BaseDatasetID),
		zap.String("match_dataset_id", msg.MatchDatasetID),
	)

	baseDataset, err := e.datasets.Get(ctx, msg.BaseDatasetID)
	if err != nil {
		return fmt.Errorf("failed to resolve base dataset: %w", err)
	}
	if baseDataset == nil {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, msg.BaseDatasetID)
	}

	compareDataset, err := e.datasets.Get(ctx, msg.MatchDatasetID)
	if err != nil {
		return fmt.Errorf("failed to resolve compare dataset: %w", err)
	}
	if compareDataset == nil {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, msg.MatchDatasetID)
	}

	log.Info("matching job started")

	// Base records are independent of each other, so they fan out to a
	// worker pool. Candidate lookups are read-only and shared.
	recordCh := make(chan models.Record)
	var wg sync.WaitGroup
	for i := 0; i < e.config.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range recordCh {
				e.processRecord(ctx, log, msg, compareDataset.ID, &record)
			}
		}()
	}

	var pageErr error
	afterID := ""
	for {
		page, err := e.records.ListByDataset(ctx, baseDataset.ID, afterID, e.config.RecordBatchSize)
		if err != nil {
			pageErr = fmt.Errorf("failed to list base records: %w", err)
			break
		}
		if len(page) == 0 {
			break
		}
		for _, record := range page {
			recordCh <- record
		}
		afterID = page[len(page)-1].ID
	}
	close(recordCh)
	wg.Wait()

	if pageErr != nil {
		return pageErr
	}

	log.Info("matching job completed")
	return nil
}

// processRecord scores one base record against all index candidates.
func (e *Engine) processRecord(ctx context.Context, log *zap.Logger, msg models.MatchJobMessage, compareDatasetID string, record *models.Record) {
	ctx, span := tracing.StartSpan(ctx, "engine.Engine.processRecord")
	defer span.End()

	if record.Identity == nil {
		return
	}

	// the same entry pair can be reached through several query seeds
	type pairKey struct {
		baseEntry    int
		compareID    string
		compareEntry int
	}
	seen := map[pairKey]struct{}{}

	for entryIdx := range record.Identity.NameEntries {
		entry := &record.Identity.NameEntries[entryIdx]
		if entry.ScriptCode != "" && entry.ScriptCode != latinScript {
			continue
		}

		for _, part := range entry.Parts {
			if part.Value == "" {
				continue
			}
			// first-name tokens alone are too ambiguous as query seeds
			if e.classifier.IsFirstName(part.LocalType) {
				continue
			}

			hits, err := e.index.Query(ctx, part.Value)
			if err != nil {
				log.Error("candidate lookup failed", zap.Error(err), zap.String("record_id", record.ID))
				continue
			}

			for _, hit := range hits {
				if hit.DatasetID != compareDatasetID {
					continue
				}

				candidate, err := e.records.Get(ctx, hit.RecordID)
				if err != nil {
					log.Error("failed to load candidate record", zap.Error(err), zap.String("candidate_id", hit.RecordID))
					continue
				}
				if candidate == nil || candidate.Identity == nil {
					continue
				}

				for candidateIdx := range candidate.Identity.NameEntries {
					candidateEntry := &candidate.Identity.NameEntries[candidateIdx]
					if !e.sameRolePart(part, candidateEntry) {
						continue
					}

					key := pairKey{entryIdx, candidate.ID, candidateIdx}
					if _, ok := seen[key]; ok {
						continue
					}
					seen[key] = struct{}{}

					score := e.scorer.Score(record, candidate, entry, candidateEntry, hit.Score)
					if score == nil {
						continue
					}
					if score.OverallScore <= e.config.ScoreThreshold {
						continue
					}

					e.persistMatch(ctx, log, msg, record, candidate, entryIdx, candidateIdx, candidateEntry, hit.Score, score)
				}
			}
		}
	}
}

// sameRolePart reports whether the candidate entry has any part playing the
// same role as the query seed.
func (e *Engine) sameRolePart(seed models.NamePart, entry *models.NameEntry) bool {
	for _, part := range entry.Parts {
		if e.classifier.IsSameType(seed.LocalType, part.LocalType) {
			return true
		}
	}
	return false
}

func (e *Engine) persistMatch(
	ctx context.Context,
	log *zap.Logger,
	msg models.MatchJobMessage,
	record, candidate *models.Record,
	entryIdx, candidateIdx int,
	candidateEntry *models.NameEntry,
	luceneScore float64,
	score *models.MatchScore,
) {
	match := &models.Match{
		JobID:            msg.JobID,
		Initiator:        msg.Initiator,
		BaseDatasetID:    record.DatasetID,
		BaseRecordID:     record.ID,
		BaseNameEntry:    entryIdx,
		CompareDatasetID: candidate.DatasetID,
		CompareRecordID:  candidate.ID,
		CompareNameEntry: candidateIdx,
		LuceneScore:      luceneScore,
		NameScore:        score.NameScore,
		DateScore:        score.DateScore,
		BioScore:         score.BioScore,
		OverallScore:     score.OverallScore,
	}

	created, err := e.matches.Create(ctx, match)
	if err != nil {
		log.Error("failed to persist match", zap.Error(err), zap.String("record_id", record.ID))
		return
	}
	if created == nil {
		// duplicate delivery, already aggregated
		return
	}

	if err := e.aggregator.Apply(ctx, created, candidateEntry); err != nil {
		log.Error("failed to aggregate master match", zap.Error(err), zap.String("record_id", record.ID))
	}
}
