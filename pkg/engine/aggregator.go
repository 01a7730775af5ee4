package engine

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/Ramsey-B/laurel/internal/tracing"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/names"
)

// lockStripes bounds the number of per-key mutexes held by an aggregator.
const lockStripes = 64

// MasterMatchStore persists the per-record best match.
type MasterMatchStore interface {
	Get(ctx context.Context, jobID, baseRecordID string) (*models.MasterMatch, error)
	Upsert(ctx context.Context, master *models.MasterMatch) error
}

// Aggregator maintains, per (job, base record), the best match seen so far.
// Updates for the same key are serialized with a striped lock; the store's
// monotonic upsert protects against lost updates across processes.
type Aggregator struct {
	store      MasterMatchStore
	classifier *names.Classifier
	locks      [lockStripes]sync.Mutex
}

// NewAggregator creates a master match aggregator.
func NewAggregator(store MasterMatchStore, classifier *names.Classifier) *Aggregator {
	return &Aggregator{
		store:      store,
		classifier: classifier,
	}
}

// Apply folds a newly persisted match into the master for its base record.
// The master is replaced only by a strictly higher overall score, so ties
// keep the first-seen master and re-deliveries never regress the score. The
// compare entry that produced the match supplies the cached display names.
func (a *Aggregator) Apply(ctx context.Context, match *models.Match, compareEntry *models.NameEntry) error {
	ctx, span := tracing.StartSpan(ctx, "engine.Aggregator.Apply")
	defer span.End()

	lock := &a.locks[stripe(match.JobID, match.BaseRecordID)]
	lock.Lock()
	defer lock.Unlock()

	current, err := a.store.Get(ctx, match.JobID, match.BaseRecordID)
	if err != nil {
		return err
	}
	if current != nil && match.OverallScore <= current.Score {
		return nil
	}

	master := &models.MasterMatch{
		JobID:         match.JobID,
		BaseRecordID:  match.BaseRecordID,
		MasterMatchID: match.ID,
		Score:         match.OverallScore,
		PrimaryName:   a.classifier.PrimaryName(compareEntry),
		SecondaryName: a.classifier.SecondaryName(compareEntry),
	}
	return a.store.Upsert(ctx, master)
}

func stripe(jobID, recordID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(jobID))
	h.Write([]byte{0})
	h.Write([]byte(recordID))
	return h.Sum32() % lockStripes
}
