package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/domain"
)

// DonationLedger is the append-only donation record with per-campaign and per-donor indices.
// Both indices point into the same record slice. Not safe for concurrent use.
type DonationLedger struct {
	records    []domain.Donation
	byCampaign map[uint64][]int
	byDonor    map[domain.Address][]int
}

func NewDonationLedger() *DonationLedger {
	return &DonationLedger{
		byCampaign: make(map[uint64][]int),
		byDonor:    make(map[domain.Address][]int),
	}
}

// Record appends a donation and indexes it.
func (l *DonationLedger) Record(campaignID uint64, donor domain.Address, amount decimal.Decimal, now time.Time) domain.Donation {
	d := domain.Donation{
		CampaignID: campaignID,
		Donor:      donor,
		Amount:     amount,
		Timestamp:  now,
	}
	idx := len(l.records)
	l.records = append(l.records, d)
	l.byCampaign[campaignID] = append(l.byCampaign[campaignID], idx)
	l.byDonor[donor] = append(l.byDonor[donor], idx)
	return d
}

// Len returns the total number of recorded donations.
func (l *DonationLedger) Len() int { return len(l.records) }

// ByCampaign returns the campaign's donations oldest first.
func (l *DonationLedger) ByCampaign(campaignID uint64) []domain.Donation {
	return l.collect(l.byCampaign[campaignID])
}

// ByDonor returns the donor's donations across campaigns oldest first.
func (l *DonationLedger) ByDonor(donor domain.Address) []domain.Donation {
	return l.collect(l.byDonor[donor])
}

func (l *DonationLedger) collect(idx []int) []domain.Donation {
	out := make([]domain.Donation, 0, len(idx))
	for _, i := range idx {
		out = append(out, l.records[i])
	}
	return out
}
