package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	CreateFn func(auth0ID, email string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
	}
	m.Users[auth0ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
}

// MockBusinessRepository is a mock implementation of domain.BusinessRepository
type MockBusinessRepository struct {
	Businesses map[uuid.UUID]*domain.Business
	order      []uuid.UUID
	GetByIDFn  func(id uuid.UUID) (*domain.Business, error)
}

// NewMockBusinessRepository creates a new MockBusinessRepository
func NewMockBusinessRepository() *MockBusinessRepository {
	return &MockBusinessRepository{
		Businesses: make(map[uuid.UUID]*domain.Business),
	}
}

// GetByID retrieves a business by ID
func (m *MockBusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	if b, ok := m.Businesses[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBusinessNotFound
}

// GetByIDForOwner retrieves a business only when it belongs to ownerID
func (m *MockBusinessRepository) GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Business, error) {
	b, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, domain.ErrBusinessNotFound
	}
	return b, nil
}

// ListByOwner returns the businesses of an owner in insertion order
func (m *MockBusinessRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Business, error) {
	result := make([]*domain.Business, 0)
	for _, id := range m.order {
		if b := m.Businesses[id]; b.OwnerID == ownerID {
			result = append(result, b)
		}
	}
	return result, nil
}

// AddBusiness adds a business to the mock repository (helper for tests)
func (m *MockBusinessRepository) AddBusiness(b *domain.Business) {
	if _, ok := m.Businesses[b.ID]; !ok {
		m.order = append(m.order, b.ID)
	}
	m.Businesses[b.ID] = b
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	UpdateFn     func(userID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error)
	ListFn       func(filter domain.LedgerFilter) ([]*domain.Transaction, error)
	ListCalls    int
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = uuid.New()
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction owned by userID
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

// Update replaces the mutable fields of a transaction
func (m *MockTransactionRepository) Update(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(userID, id, data)
	}
	tx, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tx.Amount = data.Amount
	tx.Type = data.Type
	tx.Category = data.Category
	tx.Supplier = data.Supplier
	tx.PaymentMethod = data.PaymentMethod
	tx.Status = data.Status
	tx.Description = data.Description
	tx.OccurredAt = data.OccurredAt
	tx.UpdatedAt = time.Now()
	return tx, nil
}

// List returns matching transactions, newest first
func (m *MockTransactionRepository) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Transaction, error) {
	m.ListCalls++
	if m.ListFn != nil {
		return m.ListFn(filter)
	}
	result := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.UserID != filter.UserID || !filter.MatchesBusiness(tx.BusinessID) || !filter.Contains(tx.OccurredAt) {
			continue
		}
		result = append(result, tx)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})
	return result, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	m.Transactions[tx.ID] = tx
}

// MockInvoiceRepository is a mock implementation of domain.InvoiceRepository
type MockInvoiceRepository struct {
	Invoices      map[uuid.UUID]*domain.Invoice
	ListFn        func(filter domain.LedgerFilter) ([]*domain.Invoice, error)
	MarkOverdueFn func(asOf time.Time) ([]*domain.Invoice, error)
}

// NewMockInvoiceRepository creates a new MockInvoiceRepository
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		Invoices: make(map[uuid.UUID]*domain.Invoice),
	}
}

// Create creates a new invoice
func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	invoice.ID = uuid.New()
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = invoice.CreatedAt
	m.Invoices[invoice.ID] = invoice
	return invoice, nil
}

// GetByID retrieves an invoice owned by userID
func (m *MockInvoiceRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Invoice, error) {
	inv, ok := m.Invoices[id]
	if !ok || inv.UserID != userID {
		return nil, domain.ErrInvoiceNotFound
	}
	return inv, nil
}

// Update replaces the mutable fields of an invoice
func (m *MockInvoiceRepository) Update(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateInvoiceData) (*domain.Invoice, error) {
	inv, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	inv.CustomerName = data.CustomerName
	inv.TotalAmount = data.TotalAmount
	inv.IssueDate = data.IssueDate
	inv.DueDate = data.DueDate
	inv.UpdatedAt = time.Now()
	return inv, nil
}

// UpdateStatus sets the status and paid date of an invoice
func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.InvoiceStatus, paidDate *time.Time) (*domain.Invoice, error) {
	inv, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	inv.Status = status
	inv.PaidDate = paidDate
	inv.UpdatedAt = time.Now()
	return inv, nil
}

// List returns matching invoices, newest issue date first
func (m *MockInvoiceRepository) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Invoice, error) {
	if m.ListFn != nil {
		return m.ListFn(filter)
	}
	result := make([]*domain.Invoice, 0)
	for _, inv := range m.Invoices {
		if inv.UserID != filter.UserID || !filter.MatchesBusiness(inv.BusinessID) || !filter.Contains(inv.IssueDate) {
			continue
		}
		result = append(result, inv)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].IssueDate.After(result[j].IssueDate)
	})
	return result, nil
}

// MarkOverdue flips sent invoices due before asOf to overdue
func (m *MockInvoiceRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]*domain.Invoice, error) {
	if m.MarkOverdueFn != nil {
		return m.MarkOverdueFn(asOf)
	}
	changed := make([]*domain.Invoice, 0)
	for _, inv := range m.Invoices {
		if inv.IsPastDue(asOf) {
			inv.Status = domain.InvoiceStatusOverdue
			changed = append(changed, inv)
		}
	}
	return changed, nil
}

// AddInvoice adds an invoice to the mock repository (helper for tests)
func (m *MockInvoiceRepository) AddInvoice(inv *domain.Invoice) {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	m.Invoices[inv.ID] = inv
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[uuid.UUID]*domain.Budget
	ListFn  func(filter domain.LedgerFilter) ([]*domain.Budget, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	budget.ID = uuid.New()
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget owned by userID
func (m *MockBudgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return b, nil
}

// Update replaces the mutable fields of a budget
func (m *MockBudgetRepository) Update(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	b, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	b.Name = data.Name
	b.Category = data.Category
	b.BudgetedAmount = data.BudgetedAmount
	b.SpentAmount = data.SpentAmount
	b.AlertThresholdPct = data.AlertThresholdPct
	b.IsActive = data.IsActive
	b.StartDate = data.StartDate
	b.EndDate = data.EndDate
	b.UpdatedAt = time.Now()
	return b, nil
}

// List returns budgets overlapping the filter window, newest start first
func (m *MockBudgetRepository) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Budget, error) {
	if m.ListFn != nil {
		return m.ListFn(filter)
	}
	result := make([]*domain.Budget, 0)
	for _, b := range m.Budgets {
		if b.UserID != filter.UserID || !filter.MatchesBusiness(b.BusinessID) || !filter.Overlaps(b.StartDate, b.EndDate) {
			continue
		}
		result = append(result, b)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartDate.After(result[j].StartDate)
	})
	return result, nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(b *domain.Budget) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	m.Budgets[b.ID] = b
}

// MockScoreHistoryRepository is a mock implementation of domain.ScoreHistoryRepository
type MockScoreHistoryRepository struct {
	Records []*domain.CreditScoreRecord
	SaveFn  func(record *domain.CreditScoreRecord) error
}

// NewMockScoreHistoryRepository creates a new MockScoreHistoryRepository
func NewMockScoreHistoryRepository() *MockScoreHistoryRepository {
	return &MockScoreHistoryRepository{}
}

// Save stores a score record
func (m *MockScoreHistoryRepository) Save(ctx context.Context, record *domain.CreditScoreRecord) error {
	if m.SaveFn != nil {
		return m.SaveFn(record)
	}
	record.ID = uuid.New()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.Records = append(m.Records, record)
	return nil
}

// Latest returns the newest record of a user, optionally for one business
func (m *MockScoreHistoryRepository) Latest(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID) (*domain.CreditScoreRecord, error) {
	var latest *domain.CreditScoreRecord
	for _, r := range m.Records {
		if r.UserID != userID || (businessID != nil && r.BusinessID != *businessID) {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

// MockSnapshotArchive records archived snapshots by object path
type MockSnapshotArchive struct {
	Objects   map[string]any
	ArchiveFn func(objectPath string, snapshot any) error
}

// NewMockSnapshotArchive creates a new MockSnapshotArchive
func NewMockSnapshotArchive() *MockSnapshotArchive {
	return &MockSnapshotArchive{
		Objects: make(map[string]any),
	}
}

// Archive stores the snapshot under objectPath
func (m *MockSnapshotArchive) Archive(ctx context.Context, objectPath string, snapshot any) error {
	if m.ArchiveFn != nil {
		return m.ArchiveFn(objectPath, snapshot)
	}
	m.Objects[objectPath] = snapshot
	return nil
}

// PublishedEvent is one event captured by RecordingPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// RecordingPublisher captures published websocket events
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// NewRecordingPublisher creates a new RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the event
func (p *RecordingPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{UserID: userID, Event: event})
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the recorded event types in publish order
func (p *RecordingPublisher) Types() []string {
	events := p.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Event.Type
	}
	return types
}
