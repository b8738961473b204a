package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavi/kavi-backend/internal/domain"
)

const businessColumns = `id, owner_id, legal_name, year_founded, employee_count,
	business_model, revenue_band, created_at, updated_at`

// BusinessRepository implements domain.BusinessRepository using PostgreSQL
type BusinessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository creates a new BusinessRepository
func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

// GetByID retrieves a business by ID regardless of owner
func (r *BusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id)
	return r.scanOne(row)
}

// GetByIDForOwner retrieves a business only if ownerID owns it
func (r *BusinessRepository) GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Business, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+businessColumns+` FROM businesses WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return r.scanOne(row)
}

// ListByOwner retrieves every business owned by ownerID, ordered by name
func (r *BusinessRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Business, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+businessColumns+` FROM businesses WHERE owner_id = $1 ORDER BY legal_name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	result := []*domain.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *BusinessRepository) scanOne(row pgx.Row) (*domain.Business, error) {
	b, err := scanBusiness(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var (
		b             domain.Business
		model         string
		yearFounded   pgtype.Int4
		employeeCount pgtype.Int4
	)
	err := row.Scan(&b.ID, &b.OwnerID, &b.LegalName, &yearFounded, &employeeCount,
		&model, &b.RevenueBand, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.BusinessModel = domain.BusinessModel(model)
	b.YearFounded = pgInt4ToIntPtr(yearFounded)
	b.EmployeeCount = pgInt4ToIntPtr(employeeCount)
	return &b, nil
}
