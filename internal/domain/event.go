package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimePrecision is the resolution the journal stores timestamps at.
const TimePrecision = time.Microsecond

// JournalTime returns t in UTC at TimePrecision, the form it has after a journal round trip.
func JournalTime(t time.Time) time.Time {
	return t.UTC().Truncate(TimePrecision)
}

// EventKind enumerates the domain events emitted by the custody engine.
type EventKind string

const (
	EventCampaignCreated     EventKind = "CampaignCreated"
	EventDonationReceived    EventKind = "DonationReceived"
	EventCampaignDeactivated EventKind = "CampaignDeactivated"
	EventFundsWithdrawn      EventKind = "FundsWithdrawn"
)

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	switch k {
	case EventCampaignCreated, EventDonationReceived, EventCampaignDeactivated, EventFundsWithdrawn:
		return true
	}
	return false
}

// Event is a single entry of the ledger's observable log.
//
// Actor is the owner for privileged events and the donor for DonationReceived. Amount is the
// donated or withdrawn wei (zero otherwise). Title, Description, Target and Deadline are only
// set on CampaignCreated.
type Event struct {
	ID         uuid.UUID
	Seq        uint64
	Kind       EventKind
	CampaignID uint64
	Actor      Address
	Amount     decimal.Decimal
	OccurredAt time.Time

	Title       string
	Description string
	Target      decimal.Decimal
	Deadline    time.Time
}

// Withdrawal is the view of a FundsWithdrawn event.
type Withdrawal struct {
	CampaignID uint64
	Owner      Address
	Amount     decimal.Decimal
	At         time.Time
}
