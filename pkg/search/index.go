package search

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/internal/tracing"
)

// CandidateHit is one ranked result from the fuzzy name lookup. Score is the
// raw full-text relevance score, passed through to the match scorer.
type CandidateHit struct {
	RecordID  string
	DatasetID string
	Score     float64
}

// CandidateIndex is the fuzzy-lookup contract the matching engine depends on.
type CandidateIndex interface {
	Query(ctx context.Context, term string) ([]CandidateHit, error)
}

// Index queries the full-text name part index. Lookups are read-only and
// safe to share across workers.
type Index struct {
	client    *Client
	logger    *zap.Logger
	indexName string
	maxHits   int
}

// NewIndex creates a candidate index over the given client.
func NewIndex(client *Client, logger *zap.Logger, indexName string, maxHits int) *Index {
	if maxHits < 1 {
		maxHits = 50
	}
	return &Index{
		client:    client,
		logger:    logger,
		indexName: indexName,
		maxHits:   maxHits,
	}
}

// Query runs a fuzzy full-text lookup on a name token and returns the ranked
// candidate records.
func (i *Index) Query(ctx context.Context, term string) ([]CandidateHit, error) {
	ctx, span := tracing.StartSpan(ctx, "search.Index.Query")
	defer span.End()

	cypher := `CALL db.index.fulltext.queryNodes($index, $term) YIELD node, score
		RETURN node.recordId AS recordId, node.datasetId AS datasetId, score
		LIMIT $limit`
	params := map[string]any{
		"index": i.indexName,
		// trailing ~ requests fuzzy matching from the Lucene query parser
		"term":  term + "~",
		"limit": i.maxHits,
	}

	result, err := i.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}

		var hits []CandidateHit
		for res.Next(ctx) {
			record := res.Record()
			hit := CandidateHit{}
			if v, ok := record.Get("recordId"); ok {
				hit.RecordID, _ = v.(string)
			}
			if v, ok := record.Get("datasetId"); ok {
				hit.DatasetID, _ = v.(string)
			}
			if v, ok := record.Get("score"); ok {
				hit.Score, _ = v.(float64)
			}
			if hit.RecordID != "" {
				hits = append(hits, hit)
			}
		}
		return hits, res.Err()
	})
	if err != nil {
		i.logger.Error("candidate index query failed", zap.Error(err), zap.String("term", term))
		return nil, fmt.Errorf("candidate index query failed: %w", err)
	}

	hits, _ := result.([]CandidateHit)
	return hits, nil
}
