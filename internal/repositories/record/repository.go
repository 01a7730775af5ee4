package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/huandu/go-sqlbuilder"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/internal/database"
	"github.com/Ramsey-B/laurel/internal/tracing"
	"github.com/Ramsey-B/laurel/pkg/models"
)

// Repository handles authority record reads.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// NewRepository creates a new record repository.
func NewRepository(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a record by ID with its identity and description decoded.
func (r *Repository) Get(ctx context.Context, id string) (*models.Record, error) {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "dataset_id", "identity", "description", "created_at")
	sb.From("records")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var record models.Record
	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("record %s not found", id))
		}
		r.logger.Error("failed to get record", zap.Error(err), zap.String("record_id", id))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get record")
	}

	if err := record.Decode(); err != nil {
		r.logger.Error("failed to decode record documents", zap.Error(err), zap.String("record_id", id))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to decode record")
	}

	return &record, nil
}

// ListByDataset returns one page of a dataset's records ordered by ID,
// starting after afterID. Callers iterate by passing the last seen ID back
// in, which keeps the scan restartable and lazy.
func (r *Repository) ListByDataset(ctx context.Context, datasetID, afterID string, limit int) ([]models.Record, error) {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.ListByDataset")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "dataset_id", "identity", "description", "created_at")
	sb.From("records")
	where := []string{sb.Equal("dataset_id", datasetID)}
	if afterID != "" {
		where = append(where, sb.GreaterThan("id", afterID))
	}
	sb.Where(where...)
	sb.OrderBy("id ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	var records []models.Record
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.Error("failed to list records", zap.Error(err), zap.String("dataset_id", datasetID))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list records")
	}

	for i := range records {
		if err := records[i].Decode(); err != nil {
			r.logger.Error("failed to decode record documents", zap.Error(err), zap.String("record_id", records[i].ID))
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to decode record")
		}
	}

	return records, nil
}
