package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BusinessModel describes who a business sells to
type BusinessModel string

const (
	BusinessModelB2B   BusinessModel = "B2B"
	BusinessModelB2C   BusinessModel = "B2C"
	BusinessModelB2B2C BusinessModel = "B2B2C"
	BusinessModelOther BusinessModel = "other"
)

// Business is the scoring view of a registered business.
// Profile edits happen elsewhere; scoring treats it as read-only.
type Business struct {
	ID            uuid.UUID     `json:"id"`
	OwnerID       uuid.UUID     `json:"ownerId"`
	LegalName     string        `json:"legalName"`
	YearFounded   *int          `json:"yearFounded,omitempty"`
	EmployeeCount *int          `json:"employeeCount,omitempty"`
	BusinessModel BusinessModel `json:"businessModel"`
	RevenueBand   string        `json:"revenueBand"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// BusinessSummary is the short form used in dashboard listings
type BusinessSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BusinessRepository defines read access to business profiles
type BusinessRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Business, error)
	GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Business, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Business, error)
}
