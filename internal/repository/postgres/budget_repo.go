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

const budgetColumns = `id, business_id, user_id, name, category, budgeted_amount, spent_amount,
	alert_threshold_pct, is_active, start_date, end_date, created_at, updated_at`

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

type budgetAmounts struct {
	budgeted, spent, threshold pgtype.Numeric
}

func toBudgetAmounts(b *domain.Budget) (budgetAmounts, error) {
	var out budgetAmounts
	var err error
	if out.budgeted, err = decimalToPgNumeric(b.BudgetedAmount); err != nil {
		return out, fmt.Errorf("invalid budgeted amount: %w", err)
	}
	if out.spent, err = decimalToPgNumeric(b.SpentAmount); err != nil {
		return out, fmt.Errorf("invalid spent amount: %w", err)
	}
	if out.threshold, err = decimalToPgNumeric(b.AlertThresholdPct); err != nil {
		return out, fmt.Errorf("invalid alert threshold: %w", err)
	}
	return out, nil
}

// Create inserts a budget and returns the stored row
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amounts, err := toBudgetAmounts(budget)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (business_id, user_id, name, category, budgeted_amount, spent_amount,
			alert_threshold_pct, is_active, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+budgetColumns,
		budget.BusinessID, budget.UserID, budget.Name, budget.Category, amounts.budgeted, amounts.spent,
		amounts.threshold, budget.IsActive, budget.StartDate, budget.EndDate,
	)
	created, err := scanBudget(row)
	if err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}
	return created, nil
}

// GetByID retrieves a budget owned by userID
func (r *BudgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	return scanOneBudget(row, "get budget")
}

// Update overwrites the mutable fields of a budget owned by userID
func (r *BudgetRepository) Update(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	amounts, err := toBudgetAmounts(&domain.Budget{
		BudgetedAmount:    data.BudgetedAmount,
		SpentAmount:       data.SpentAmount,
		AlertThresholdPct: data.AlertThresholdPct,
	})
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budgets
		SET name = $3, category = $4, budgeted_amount = $5, spent_amount = $6, alert_threshold_pct = $7,
			is_active = $8, start_date = $9, end_date = $10, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+budgetColumns,
		id, userID, data.Name, data.Category, amounts.budgeted, amounts.spent, amounts.threshold,
		data.IsActive, data.StartDate, data.EndDate,
	)
	return scanOneBudget(row, "update budget")
}

// List returns budgets whose period overlaps the filter window
func (r *BudgetRepository) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Budget, error) {
	where := &whereBuilder{}
	where.add("user_id = $%d", filter.UserID)
	if filter.BusinessID != nil {
		where.add("business_id = $%d", *filter.BusinessID)
	}
	if !filter.Until.IsZero() {
		where.add("start_date < $%d", filter.Until)
	}
	if !filter.Since.IsZero() {
		where.add("end_date >= $%d", filter.Since)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE `+where.String()+` ORDER BY start_date DESC`,
		where.args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	result := []*domain.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return result, nil
}

func scanOneBudget(row pgx.Row, op string) (*domain.Budget, error) {
	b, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b                          domain.Budget
		budgeted, spent, threshold pgtype.Numeric
	)
	err := row.Scan(&b.ID, &b.BusinessID, &b.UserID, &b.Name, &b.Category, &budgeted, &spent,
		&threshold, &b.IsActive, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.BudgetedAmount = pgNumericToDecimal(budgeted)
	b.SpentAmount = pgNumericToDecimal(spent)
	b.AlertThresholdPct = pgNumericToDecimal(threshold)
	return &b, nil
}
