package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign is a fundraising unit with a goal, a deadline and a running collected total.
// Target and AmountCollected are denominated in wei.
type Campaign struct {
	ID              uint64
	Title           string
	Description     string
	Target          decimal.Decimal
	Deadline        time.Time
	AmountCollected decimal.Decimal
	Active          bool
	DonationsCount  uint64
}

// Expired reports whether the deadline has been reached at now.
// It is derived on every call and never stored.
func (c Campaign) Expired(now time.Time) bool {
	return !now.Before(c.Deadline)
}
