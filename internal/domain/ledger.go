package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerFilter scopes ledger reads to a user, an optional business and a
// half-open time window [Since, Until). A zero Since or Until leaves that
// side of the window open. A nil BusinessID means every business of the user.
type LedgerFilter struct {
	UserID     uuid.UUID
	BusinessID *uuid.UUID
	Since      time.Time
	Until      time.Time
}

// Contains reports whether t falls inside the filter window
func (f LedgerFilter) Contains(t time.Time) bool {
	if !f.Since.IsZero() && t.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !t.Before(f.Until) {
		return false
	}
	return true
}

// MatchesBusiness reports whether a row owned by businessID is in scope
func (f LedgerFilter) MatchesBusiness(businessID uuid.UUID) bool {
	return f.BusinessID == nil || *f.BusinessID == businessID
}

// TrailingWindow returns a filter starting days before now. The upper bound
// stays open so that rows dated later today are still counted.
func TrailingWindow(userID uuid.UUID, businessID *uuid.UUID, now time.Time, days int) LedgerFilter {
	return LedgerFilter{
		UserID:     userID,
		BusinessID: businessID,
		Since:      now.AddDate(0, 0, -days),
	}
}

// Overlaps reports whether the period [start, end] intersects the filter window
func (f LedgerFilter) Overlaps(start, end time.Time) bool {
	if !f.Until.IsZero() && !start.Before(f.Until) {
		return false
	}
	if !f.Since.IsZero() && end.Before(f.Since) {
		return false
	}
	return true
}
