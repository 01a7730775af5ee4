package dataset

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/huandu/go-sqlbuilder"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/internal/database"
	"github.com/Ramsey-B/laurel/internal/tracing"
	"github.com/Ramsey-B/laurel/pkg/models"
)

// Repository handles dataset reads.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// NewRepository creates a new dataset repository.
func NewRepository(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a dataset by ID. Returns nil when the dataset does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*models.Dataset, error) {
	ctx, span := tracing.StartSpan(ctx, "dataset.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "name", "created_at")
	sb.From("datasets")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var dataset models.Dataset
	if err := r.db.GetContext(ctx, &dataset, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get dataset", zap.Error(err), zap.String("dataset_id", id))
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get dataset")
	}

	return &dataset, nil
}
