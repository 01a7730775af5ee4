package match

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/internal/database"
	"github.com/Ramsey-B/laurel/internal/tracing"
	"github.com/Ramsey-B/laurel/pkg/models"
)

const matchColumns = "id, job_id, initiator, base_dataset_id, base_record_id, base_name_entry, compare_dataset_id, compare_record_id, compare_name_entry, lucene_score, name_score, date_score, bio_score, overall_score, matched_at"

// Repository handles match persistence.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// NewRepository creates a new match repository.
func NewRepository(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create persists a match. Re-delivered duplicates (same job, record pair,
// and entry pair) are skipped via ON CONFLICT so job re-submission stays
// idempotent; a skipped duplicate returns nil so callers do not re-aggregate.
func (r *Repository) Create(ctx context.Context, match *models.Match) (*models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "match.Repository.Create")
	defer span.End()

	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	if match.MatchedAt.IsZero() {
		match.MatchedAt = time.Now().UTC()
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("matches")
	sb.Cols("id", "job_id", "initiator", "base_dataset_id", "base_record_id", "base_name_entry", "compare_dataset_id", "compare_record_id", "compare_name_entry", "lucene_score", "name_score", "date_score", "bio_score", "overall_score", "matched_at")
	sb.Values(match.ID, match.JobID, match.Initiator, match.BaseDatasetID, match.BaseRecordID, match.BaseNameEntry, match.CompareDatasetID, match.CompareRecordID, match.CompareNameEntry, match.LuceneScore, match.NameScore, match.DateScore, match.BioScore, match.OverallScore, match.MatchedAt)

	query, args := sb.Build()
	query += " ON CONFLICT (job_id, base_record_id, compare_record_id, base_name_entry, compare_name_entry) DO NOTHING RETURNING id"

	var id string
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// conflict: this pair was already persisted by an earlier delivery
			return nil, nil
		}
		r.logger.Error("failed to create match", zap.Error(err), zap.String("match_id", match.ID))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create match")
	}

	return match, nil
}

// ListByJobAndRecord returns all matches for one base record within a job,
// in insertion order.
func (r *Repository) ListByJobAndRecord(ctx context.Context, jobID, baseRecordID string) ([]models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "match.Repository.ListByJobAndRecord")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(matchColumns)
	sb.From("matches")
	sb.Where(
		sb.Equal("job_id", jobID),
		sb.Equal("base_record_id", baseRecordID),
	)
	sb.OrderBy("matched_at ASC", "id ASC")

	query, args := sb.Build()
	var matches []models.Match
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		r.logger.Error("failed to list matches", zap.Error(err), zap.String("job_id", jobID))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list matches")
	}

	return matches, nil
}

// ListByJob returns matches for a job ordered by overall score descending.
func (r *Repository) ListByJob(ctx context.Context, jobID string, limit int) ([]models.Match, error) {
	ctx, span := tracing.StartSpan(ctx, "match.Repository.ListByJob")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(matchColumns)
	sb.From("matches")
	sb.Where(sb.Equal("job_id", jobID))
	sb.OrderBy("overall_score DESC", "matched_at ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	var matches []models.Match
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		r.logger.Error("failed to list matches for job", zap.Error(err), zap.String("job_id", jobID))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list matches")
	}

	return matches, nil
}

// CountByJob returns the number of matches persisted for a job.
func (r *Repository) CountByJob(ctx context.Context, jobID string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "match.Repository.CountByJob")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("matches")
	sb.Where(sb.Equal("job_id", jobID))

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.Error("failed to count matches for job", zap.Error(err), zap.String("job_id", jobID))
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count matches")
	}

	return count, nil
}
