package mastermatch

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/huandu/go-sqlbuilder"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/internal/database"
	"github.com/Ramsey-B/laurel/internal/tracing"
	"github.com/Ramsey-B/laurel/pkg/models"
)

// Repository handles master match persistence.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// NewRepository creates a new master match repository.
func NewRepository(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the master match for a (job, base record) key. Returns nil
// when no matches have been aggregated yet.
func (r *Repository) Get(ctx context.Context, jobID, baseRecordID string) (*models.MasterMatch, error) {
	ctx, span := tracing.StartSpan(ctx, "mastermatch.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("job_id", "base_record_id", "master_match_id", "score", "primary_name", "secondary_name", "updated_at")
	sb.From("master_matches")
	sb.Where(
		sb.Equal("job_id", jobID),
		sb.Equal("base_record_id", baseRecordID),
	)

	query, args := sb.Build()
	var master models.MasterMatch
	if err := r.db.GetContext(ctx, &master, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get master match", zap.Error(err), zap.String("job_id", jobID))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get master match")
	}

	return &master, nil
}

// Upsert stores the master match for its (job, base record) key. The stored
// score is monotonic: an existing row is only replaced by a strictly higher
// score, so duplicate or reordered deliveries cannot regress the master.
func (r *Repository) Upsert(ctx context.Context, master *models.MasterMatch) error {
	ctx, span := tracing.StartSpan(ctx, "mastermatch.Repository.Upsert")
	defer span.End()

	master.UpdatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("master_matches")
	sb.Cols("job_id", "base_record_id", "master_match_id", "score", "primary_name", "secondary_name", "updated_at")
	sb.Values(master.JobID, master.BaseRecordID, master.MasterMatchID, master.Score, master.PrimaryName, master.SecondaryName, master.UpdatedAt)

	query, args := sb.Build()
	query += ` ON CONFLICT (job_id, base_record_id) DO UPDATE SET
		master_match_id = EXCLUDED.master_match_id,
		score = EXCLUDED.score,
		primary_name = EXCLUDED.primary_name,
		secondary_name = EXCLUDED.secondary_name,
		updated_at = EXCLUDED.updated_at
		WHERE master_matches.score < EXCLUDED.score`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to upsert master match", zap.Error(err),
			zap.String("job_id", master.JobID),
			zap.String("base_record_id", master.BaseRecordID),
		)
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert master match")
	}

	return nil
}

// ListByJob returns all master matches for a job ordered by score descending.
func (r *Repository) ListByJob(ctx context.Context, jobID string, limit int) ([]models.MasterMatch, error) {
	ctx, span := tracing.StartSpan(ctx, "mastermatch.Repository.ListByJob")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("job_id", "base_record_id", "master_match_id", "score", "primary_name", "secondary_name", "updated_at")
	sb.From("master_matches")
	sb.Where(sb.Equal("job_id", jobID))
	sb.OrderBy("score DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var masters []models.MasterMatch
	if err := r.db.SelectContext(ctx, &masters, query, args...); err != nil {
		r.logger.Error("failed to list master matches", zap.Error(err), zap.String("job_id", jobID))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list master matches")
	}

	return masters, nil
}
