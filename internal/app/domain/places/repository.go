package places

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/japasea/japasea-server/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository reads the place catalog. The chat pipeline only ever consumes
// it; writes happen through the surrounding admin tooling.
type Repository interface {
	GetActivePlaces(ctx context.Context) ([]models.PlaceRecord, error)
}

// PGXPool is the slice of pgxpool.Pool the repository needs.
type PGXPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool PGXPool
}

func NewRepository(pgpool PGXPool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) GetActivePlaces(ctx context.Context) ([]models.PlaceRecord, error) {
	ctx, span := otel.Tracer("PlacesRepository").Start(ctx, "GetActivePlaces")
	defer span.End()

	query, args, err := sq.Select("key", "name", "description", "category", "address", "lat", "lng").
		From("places").
		Where(sq.Eq{"active": true}).
		OrderBy("name").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build query")
		return nil, fmt.Errorf("failed to build places query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query places")
		return nil, fmt.Errorf("failed to query active places: %w", err)
	}
	defer rows.Close()

	var records []models.PlaceRecord
	for rows.Next() {
		var rec models.PlaceRecord
		var lat, lng *float64
		if err := rows.Scan(&rec.Key, &rec.Name, &rec.Description, &rec.Category, &rec.Address, &lat, &lng); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to scan place row")
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		if lat != nil || lng != nil {
			rec.Location = &models.GeoPoint{Lat: lat, Lng: lng}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("failed to read places: %w", err)
	}

	span.SetAttributes(attribute.Int("places.count", len(records)))
	span.SetStatus(codes.Ok, "Active places loaded")
	return records, nil
}
