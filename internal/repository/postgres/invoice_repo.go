package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavi/kavi-backend/internal/domain"
)

const invoiceColumns = `id, business_id, user_id, invoice_number, customer_name, total_amount,
	status, issue_date, due_date, paid_date, created_at, updated_at`

// InvoiceRepository implements domain.InvoiceRepository using PostgreSQL
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// Create inserts an invoice and returns the stored row
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	total, err := decimalToPgNumeric(invoice.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (business_id, user_id, invoice_number, customer_name, total_amount,
			status, issue_date, due_date, paid_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+invoiceColumns,
		invoice.BusinessID, invoice.UserID, invoice.InvoiceNumber, invoice.CustomerName, total,
		string(invoice.Status), invoice.IssueDate, invoice.DueDate, timePtrToPgTimestamptz(invoice.PaidDate),
	)
	created, err := scanInvoice(row)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return created, nil
}

// GetByID retrieves an invoice owned by userID
func (r *InvoiceRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
	return scanOneInvoice(row, "get invoice")
}

// Update overwrites the editable fields of an invoice owned by userID
func (r *InvoiceRepository) Update(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateInvoiceData) (*domain.Invoice, error) {
	total, err := decimalToPgNumeric(data.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE invoices
		SET customer_name = $3, total_amount = $4, issue_date = $5, due_date = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+invoiceColumns,
		id, userID, data.CustomerName, total, data.IssueDate, data.DueDate,
	)
	return scanOneInvoice(row, "update invoice")
}

// UpdateStatus sets the status and paid date of an invoice owned by userID
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.InvoiceStatus, paidDate *time.Time) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE invoices
		SET status = $3, paid_date = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+invoiceColumns,
		id, userID, string(status), timePtrToPgTimestamptz(paidDate),
	)
	return scanOneInvoice(row, "update invoice status")
}

// List returns invoices issued inside the filter window, newest first
func (r *InvoiceRepository) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Invoice, error) {
	where := ledgerWhere(filter, "issue_date")
	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE `+where.String()+` ORDER BY issue_date DESC`,
		where.args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return collectInvoices(rows)
}

// MarkOverdue moves sent invoices due before asOf to overdue and returns them
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]*domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW()
		WHERE status = 'sent' AND due_date < $1
		RETURNING `+invoiceColumns, asOf)
	if err != nil {
		return nil, fmt.Errorf("mark overdue invoices: %w", err)
	}
	return collectInvoices(rows)
}

func collectInvoices(rows pgx.Rows) ([]*domain.Invoice, error) {
	defer rows.Close()

	result := []*domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read invoices: %w", err)
	}
	return result, nil
}

func scanOneInvoice(row pgx.Row, op string) (*domain.Invoice, error) {
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var (
		inv      domain.Invoice
		total    pgtype.Numeric
		status   string
		paidDate pgtype.Timestamptz
	)
	err := row.Scan(&inv.ID, &inv.BusinessID, &inv.UserID, &inv.InvoiceNumber, &inv.CustomerName,
		&total, &status, &inv.IssueDate, &inv.DueDate, &paidDate, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.TotalAmount = pgNumericToDecimal(total)
	inv.Status = domain.InvoiceStatus(status)
	inv.PaidDate = pgTimestamptzToTimePtr(paidDate)
	return &inv, nil
}
