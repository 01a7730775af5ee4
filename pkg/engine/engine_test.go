package engine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/matching"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/names"
	"github.com/Ramsey-B/laurel/pkg/search"
)

type fakeDatasetStore struct {
	datasets map[string]*models.Dataset
}

func (s *fakeDatasetStore) Get(ctx context.Context, id string) (*models.Dataset, error) {
	return s.datasets[id], nil
}

type fakeRecordStore struct {
	records map[string]*models.Record
}

func (s *fakeRecordStore) Get(ctx context.Context, id string) (*models.Record, error) {
	return s.records[id], nil
}

func (s *fakeRecordStore) ListByDataset(ctx context.Context, datasetID, afterID string, limit int) ([]models.Record, error) {
	var ids []string
	for id, record := range s.records {
		if record.DatasetID == datasetID && id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	page := make([]models.Record, 0, len(ids))
	for _, id := range ids {
		page = append(page, *s.records[id])
	}
	return page, nil
}

type fakeMatchStore struct {
	mu      sync.Mutex
	matches []*models.Match
	seen    map[string]struct{}
	nextID  int
}

func (s *fakeMatchStore) Create(ctx context.Context, match *models.Match) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	key := strings.Join([]string{
		match.JobID, match.BaseRecordID, match.CompareRecordID,
		string(rune('0' + match.BaseNameEntry)), string(rune('0' + match.CompareNameEntry)),
	}, "|")
	if _, ok := s.seen[key]; ok {
		return nil, nil
	}
	s.seen[key] = struct{}{}

	s.nextID++
	copied := *match
	copied.ID = key
	s.matches = append(s.matches, &copied)
	return &copied, nil
}

func (s *fakeMatchStore) all() []*models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Match{}, s.matches...)
}

type fakeIndex struct {
	mu      sync.Mutex
	hits    map[string][]search.CandidateHit
	queried []string
}

func (f *fakeIndex) Query(ctx context.Context, term string) ([]search.CandidateHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried = append(f.queried, term)
	return f.hits[term], nil
}

func (f *fakeIndex) queriedTerms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.queried...)
}

type fieldsExtractor struct{}

func (fieldsExtractor) Keywords(text string) ([]string, error) {
	return strings.Fields(text), nil
}

func engineClassifier() *names.Classifier {
	return names.NewClassifier(names.TypeConfig{
		LastNameTypes:  []string{"surname"},
		FirstNameTypes: []string{"forename"},
		OrgNameTypes:   []string{"corporatebody"},
	})
}

func personRecord(id, datasetID, first, last string) *models.Record {
	bio := "A widely documented archival subject with a long and detailed biographical abstract on file."
	return &models.Record{
		ID:        id,
		DatasetID: datasetID,
		Identity: &models.Identity{
			NameEntries: []models.NameEntry{
				{
					ScriptCode: "Latn",
					Parts: []models.NamePart{
						{LocalType: "forename", Value: first},
						{LocalType: "surname", Value: last},
					},
				},
			},
		},
		Description: &models.Description{
			ExistDates: &models.ExistDates{
				DateRanges: []models.DateRange{
					{
						FromDate: &models.DateValue{Date: "1900"},
						ToDate:   &models.DateValue{Date: "1950"},
					},
				},
			},
			BiogHists: []models.BiogHist{{Abstract: bio}},
		},
	}
}

type fixture struct {
	engine  *Engine
	matches *fakeMatchStore
	masters *fakeMasterStore
	index   *fakeIndex
	records *fakeRecordStore
}

func newFixture(t *testing.T, records []*models.Record, hits map[string][]search.CandidateHit) *fixture {
	t.Helper()

	classifier := engineClassifier()
	recordStore := &fakeRecordStore{records: map[string]*models.Record{}}
	for _, r := range records {
		recordStore.records[r.ID] = r
	}

	datasets := &fakeDatasetStore{datasets: map[string]*models.Dataset{
		"ds-base":    {ID: "ds-base", Name: "base"},
		"ds-compare": {ID: "ds-compare", Name: "compare"},
	}}

	matchStore := &fakeMatchStore{}
	masterStore := newFakeMasterStore()
	index := &fakeIndex{hits: hits}
	scorer := matching.NewMatchScorer(classifier, matching.NewBioScorer(fieldsExtractor{}), zap.NewNop())
	aggregator := NewAggregator(masterStore, classifier)

	eng := New(zap.NewNop(), datasets, recordStore, matchStore, index, scorer, classifier, aggregator, Config{
		ScoreThreshold:  0.1,
		WorkerCount:     2,
		RecordBatchSize: 1,
	})

	return &fixture{engine: eng, matches: matchStore, masters: masterStore, index: index, records: recordStore}
}

func jobMessage() models.MatchJobMessage {
	return models.MatchJobMessage{
		BaseDatasetID:  "ds-base",
		MatchDatasetID: "ds-compare",
		JobID:          "job-1",
		Initiator:      "tester",
	}
}

func TestEngine_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("ScoresAndPersistsSimilarNames", func(t *testing.T) {
		base := personRecord("base-1", "ds-base", "John", "Smith")
		compare := personRecord("comp-1", "ds-compare", "Jon", "Smith")
		f := newFixture(t, []*models.Record{base, compare}, map[string][]search.CandidateHit{
			"Smith": {{RecordID: "comp-1", DatasetID: "ds-compare", Score: 1.2}},
		})

		require.NoError(t, f.engine.Process(ctx, jobMessage()))

		persisted := f.matches.all()
		require.Len(t, persisted, 1)
		match := persisted[0]
		assert.Equal(t, "job-1", match.JobID)
		assert.Equal(t, "base-1", match.BaseRecordID)
		assert.Equal(t, "comp-1", match.CompareRecordID)
		assert.Equal(t, 1.2, match.LuceneScore)
		assert.Greater(t, match.NameScore, 0.2)
		assert.InDelta(t, 1.0, match.DateScore, 1e-9)
		assert.Greater(t, match.OverallScore, 0.1)

		master, err := f.masters.Get(ctx, "job-1", "base-1")
		require.NoError(t, err)
		require.NotNil(t, master)
		assert.Equal(t, match.ID, master.MasterMatchID)
		assert.Equal(t, "Smith", master.PrimaryName)
		assert.Equal(t, "Jon", master.SecondaryName)
	})

	t.Run("UnknownDatasetFailsJob", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		msg := jobMessage()
		msg.BaseDatasetID = "ds-missing"

		err := f.engine.Process(ctx, msg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDatasetNotFound)
	})

	t.Run("FirstNameSeedsNotQueried", func(t *testing.T) {
		base := personRecord("base-1", "ds-base", "John", "Smith")
		f := newFixture(t, []*models.Record{base}, nil)

		require.NoError(t, f.engine.Process(ctx, jobMessage()))

		terms := f.index.queriedTerms()
		assert.Contains(t, terms, "Smith")
		assert.NotContains(t, terms, "John")
	})

	t.Run("NonLatinEntriesSkipped", func(t *testing.T) {
		base := personRecord("base-1", "ds-base", "John", "Smith")
		base.Identity.NameEntries[0].ScriptCode = "Cyrl"
		f := newFixture(t, []*models.Record{base}, nil)

		require.NoError(t, f.engine.Process(ctx, jobMessage()))
		assert.Empty(t, f.index.queriedTerms())
	})

	t.Run("HitsFromOtherDatasetsIgnored", func(t *testing.T) {
		base := personRecord("base-1", "ds-base", "John", "Smith")
		other := personRecord("other-1", "ds-other", "John", "Smith")
		f := newFixture(t, []*models.Record{base, other}, map[string][]search.CandidateHit{
			"Smith": {{RecordID: "other-1", DatasetID: "ds-other", Score: 1.2}},
		})

		require.NoError(t, f.engine.Process(ctx, jobMessage()))
		assert.Empty(t, f.matches.all())
	})

	t.Run("LowScoresNotPersisted", func(t *testing.T) {
		base := personRecord("base-1", "ds-base", "John", "Smith")
		compare := personRecord("comp-1", "ds-compare", "Xavier", "Quintero")
		// The seed still surfaces the candidate, the score gate drops it.
		f := newFixture(t, []*models.Record{base, compare}, map[string][]search.CandidateHit{
			"Smith": {{RecordID: "comp-1", DatasetID: "ds-compare", Score: 0.4}},
		})

		require.NoError(t, f.engine.Process(ctx, jobMessage()))
		assert.Empty(t, f.matches.all())
	})

	t.Run("RerunIsIdempotent", func(t *testing.T) {
		base := personRecord("base-1", "ds-base", "John", "Smith")
		compare := personRecord("comp-1", "ds-compare", "Jon", "Smith")
		f := newFixture(t, []*models.Record{base, compare}, map[string][]search.CandidateHit{
			"Smith": {{RecordID: "comp-1", DatasetID: "ds-compare", Score: 1.2}},
		})

		require.NoError(t, f.engine.Process(ctx, jobMessage()))
		require.NoError(t, f.engine.Process(ctx, jobMessage()))

		assert.Len(t, f.matches.all(), 1)
		master, err := f.masters.Get(ctx, "job-1", "base-1")
		require.NoError(t, err)
		require.NotNil(t, master)
	})

	t.Run("MultipleBaseRecordsPaginated", func(t *testing.T) {
		records := []*models.Record{
			personRecord("base-1", "ds-base", "John", "Smith"),
			personRecord("base-2", "ds-base", "Johnny", "Smith"),
			personRecord("base-3", "ds-base", "Jon", "Smith"),
			personRecord("comp-1", "ds-compare", "John", "Smith"),
		}
		f := newFixture(t, records, map[string][]search.CandidateHit{
			"Smith": {{RecordID: "comp-1", DatasetID: "ds-compare", Score: 1.2}},
		})

		require.NoError(t, f.engine.Process(ctx, jobMessage()))

		// Batch size 1 forces one page per base record; all three score.
		baseIDs := map[string]bool{}
		for _, m := range f.matches.all() {
			baseIDs[m.BaseRecordID] = true
		}
		assert.True(t, baseIDs["base-1"])
		assert.True(t, baseIDs["base-2"])
		assert.True(t, baseIDs["base-3"])
	})

	t.Run("AllQualifyingMatchesKeptInOrder", func(t *testing.T) {
		records := []*models.Record{
			personRecord("base-1", "ds-base", "John", "Smith"),
			personRecord("comp-1", "ds-compare", "John", "Smith"),
			personRecord("comp-2", "ds-compare", "Jon", "Smith"),
			personRecord("comp-3", "ds-compare", "Johnny", "Smith"),
		}
		f := newFixture(t, records, map[string][]search.CandidateHit{
			"Smith": {
				{RecordID: "comp-1", DatasetID: "ds-compare", Score: 1.2},
				{RecordID: "comp-2", DatasetID: "ds-compare", Score: 1.2},
				{RecordID: "comp-3", DatasetID: "ds-compare", Score: 1.2},
			},
		})

		require.NoError(t, f.engine.Process(ctx, jobMessage()))

		// Every candidate above threshold stays in the match list; the master
		// only tracks the best of them.
		persisted := f.matches.all()
		require.Len(t, persisted, 3)
		var order []string
		best := 0.0
		for _, m := range persisted {
			order = append(order, m.CompareRecordID)
			if m.OverallScore > best {
				best = m.OverallScore
			}
		}
		assert.Equal(t, []string{"comp-1", "comp-2", "comp-3"}, order)

		master, err := f.masters.Get(ctx, "job-1", "base-1")
		require.NoError(t, err)
		require.NotNil(t, master)
		assert.Equal(t, best, master.Score)
	})
}
