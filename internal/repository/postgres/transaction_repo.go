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

const transactionColumns = `id, business_id, user_id, amount, currency, type, category, supplier,
	payment_method, status, description, occurred_at, created_at, updated_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction and returns the stored row
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (business_id, user_id, amount, currency, type, category, supplier,
			payment_method, status, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+transactionColumns,
		transaction.BusinessID, transaction.UserID, amount, transaction.Currency, string(transaction.Type),
		transaction.Category, transaction.Supplier, transaction.PaymentMethod, transaction.Status,
		transaction.Description, transaction.OccurredAt,
	)
	created, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return created, nil
}

// GetByID retrieves a transaction owned by userID
func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// Update overwrites the mutable fields of a transaction owned by userID
func (r *TransactionRepository) Update(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET amount = $3, type = $4, category = $5, supplier = $6, payment_method = $7,
			status = $8, description = $9, occurred_at = $10, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+transactionColumns,
		id, userID, amount, string(data.Type), data.Category, data.Supplier, data.PaymentMethod,
		data.Status, data.Description, data.OccurredAt,
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return updated, nil
}

// List returns the transactions matching filter, newest first
func (r *TransactionRepository) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Transaction, error) {
	where := ledgerWhere(filter, "occurred_at")
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE `+where.String()+
			` ORDER BY occurred_at DESC, created_at DESC`,
		where.args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	result := []*domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return result, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		amount pgtype.Numeric
		typ    string
	)
	err := row.Scan(&t.ID, &t.BusinessID, &t.UserID, &amount, &t.Currency, &typ, &t.Category,
		&t.Supplier, &t.PaymentMethod, &t.Status, &t.Description, &t.OccurredAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(typ)
	return &t, nil
}
