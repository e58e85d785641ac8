package ledger

import (
	"github.com/shopspring/decimal"

	"crowdfund/internal/domain"
)

// Totals summarizes custody across the whole ledger.
type Totals struct {
	Held      decimal.Decimal
	Collected decimal.Decimal
	Donated   decimal.Decimal
	Withdrawn decimal.Decimal
	Campaigns int
	Donations int
}

// Query is the read-only view over an Engine. Reads share the engine's lock with each
// other and never observe a half-applied custody operation.
type Query struct {
	e *Engine
}

func NewQuery(e *Engine) *Query {
	return &Query{e: e}
}

func (q *Query) Owner() domain.Address { return q.e.Owner() }

// AllCampaigns returns every campaign in id order.
func (q *Query) AllCampaigns() []domain.Campaign {
	q.e.mu.RLock()
	defer q.e.mu.RUnlock()
	return q.e.campaigns.All()
}

func (q *Query) CampaignDetails(id uint64) (domain.Campaign, error) {
	q.e.mu.RLock()
	defer q.e.mu.RUnlock()
	return q.e.campaigns.Get(id)
}

// CampaignDonations returns the campaign's donations oldest first. Unknown ids yield an
// empty list.
func (q *Query) CampaignDonations(id uint64) []domain.Donation {
	q.e.mu.RLock()
	defer q.e.mu.RUnlock()
	return q.e.donations.ByCampaign(id)
}

// DonorHistory returns the donor's donations across campaigns oldest first.
func (q *Query) DonorHistory(donor domain.Address) []domain.Donation {
	q.e.mu.RLock()
	defer q.e.mu.RUnlock()
	return q.e.donations.ByDonor(donor)
}

func (q *Query) Totals() Totals {
	q.e.mu.RLock()
	defer q.e.mu.RUnlock()
	return Totals{
		Held:      q.e.vault.Held(),
		Collected: q.e.campaigns.Collected(),
		Donated:   q.e.donated,
		Withdrawn: q.e.withdrawn,
		Campaigns: q.e.campaigns.Len(),
		Donations: q.e.donations.Len(),
	}
}
