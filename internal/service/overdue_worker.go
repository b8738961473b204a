package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/util"
	"github.com/kavi/kavi-backend/internal/websocket"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// OverdueWorker periodically flips sent invoices past their due date to overdue
type OverdueWorker struct {
	invoiceRepo domain.InvoiceRepository
	invalidator *Invalidator
	clock       util.Clock
	logger      zerolog.Logger
	schedule    string
	cron        *cron.Cron
	mu          sync.Mutex
	running     bool
}

// OverdueWorkerConfig holds configuration for the overdue worker
type OverdueWorkerConfig struct {
	Schedule string // cron expression or @every descriptor
}

// DefaultOverdueWorkerConfig returns the hourly sweep
func DefaultOverdueWorkerConfig() OverdueWorkerConfig {
	return OverdueWorkerConfig{
		Schedule: "@every 1h",
	}
}

// SweepResult reports what one sweep changed
type SweepResult struct {
	MarkedOverdue int
	AffectedUsers int
}

// NewOverdueWorker creates a new overdue worker
func NewOverdueWorker(
	invoiceRepo domain.InvoiceRepository,
	invalidator *Invalidator,
	clock util.Clock,
	logger zerolog.Logger,
	config OverdueWorkerConfig,
) *OverdueWorker {
	if config.Schedule == "" {
		config.Schedule = DefaultOverdueWorkerConfig().Schedule
	}
	if clock == nil {
		clock = util.SystemClock{}
	}

	return &OverdueWorker{
		invoiceRepo: invoiceRepo,
		invalidator: invalidator,
		clock:       clock,
		logger:      logger.With().Str("component", "overdue_worker").Logger(),
		schedule:    config.Schedule,
		cron:        cron.New(),
	}
}

// Start schedules the sweep. Calling Start on a running worker is a no-op.
func (w *OverdueWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if _, err := w.cron.AddFunc(w.schedule, func() {
		if _, err := w.Sweep(ctx); err != nil {
			w.logger.Error().Err(err).Msg("Overdue sweep failed")
		}
	}); err != nil {
		return err
	}

	w.cron.Start()
	w.running = true
	w.logger.Info().Str("schedule", w.schedule).Msg("Starting overdue worker")
	return nil
}

// Stop waits for a running sweep to finish and stops the schedule
func (w *OverdueWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping overdue worker")
	<-w.cron.Stop().Done()
	w.logger.Info().Msg("Overdue worker stopped")
}

// IsRunning returns whether the worker is currently scheduled
func (w *OverdueWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

type invalidationScope struct {
	userID     uuid.UUID
	businessID uuid.UUID
}

// Sweep marks overdue invoices as of now and invalidates the analytics of
// every user whose invoices changed.
func (w *OverdueWorker) Sweep(ctx context.Context) (*SweepResult, error) {
	startTime := time.Now()

	changed, err := w.invoiceRepo.MarkOverdue(ctx, w.clock.Now())
	if err != nil {
		return nil, err
	}

	scopes := make(map[invalidationScope]struct{})
	users := make(map[uuid.UUID]struct{})
	var order []invalidationScope
	for _, inv := range changed {
		scope := invalidationScope{userID: inv.UserID, businessID: inv.BusinessID}
		if _, seen := scopes[scope]; !seen {
			scopes[scope] = struct{}{}
			order = append(order, scope)
		}
		users[inv.UserID] = struct{}{}
	}
	for _, scope := range order {
		businessID := scope.businessID
		w.invalidator.Invalidate(ctx, scope.userID, &businessID, "invoice.overdue")
	}
	for _, inv := range changed {
		w.invalidator.Publish(inv.UserID, websocket.InvoiceOverdue(inv))
	}

	result := &SweepResult{
		MarkedOverdue: len(changed),
		AffectedUsers: len(users),
	}
	w.logger.Info().
		Int("marked_overdue", result.MarkedOverdue).
		Int("affected_users", result.AffectedUsers).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed overdue sweep")
	return result, nil
}
