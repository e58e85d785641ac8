package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation represents a single accepted value transfer into a campaign.
type Donation struct {
	CampaignID uint64
	Donor      Address
	Amount     decimal.Decimal
	Timestamp  time.Time
}
