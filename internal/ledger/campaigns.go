package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/domain"
)

// CampaignStore owns the campaign records and assigns their ids.
// It is not safe for concurrent use; the Engine serializes access.
type CampaignStore struct {
	campaigns []*domain.Campaign
}

// NewCampaignStore returns an empty store. The first id it assigns is 1.
func NewCampaignStore() *CampaignStore {
	return &CampaignStore{}
}

// NextID returns the id the next Create will assign.
func (s *CampaignStore) NextID() uint64 {
	return uint64(len(s.campaigns)) + 1
}

// Len returns the number of campaigns ever created.
func (s *CampaignStore) Len() int { return len(s.campaigns) }

// Create validates and inserts a new active campaign.
func (s *CampaignStore) Create(title, description string, target decimal.Decimal, deadline, now time.Time) (uint64, error) {
	if !target.IsPositive() || !target.IsInteger() {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidTarget, target)
	}
	if !deadline.After(now) {
		return 0, fmt.Errorf("%w: %s is not after %s", domain.ErrInvalidDeadline,
			deadline.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return s.insert(title, description, target, deadline), nil
}

// insert appends a campaign without validation. Used by Create and journal replay.
func (s *CampaignStore) insert(title, description string, target decimal.Decimal, deadline time.Time) uint64 {
	id := s.NextID()
	s.campaigns = append(s.campaigns, &domain.Campaign{
		ID:              id,
		Title:           title,
		Description:     description,
		Target:          target,
		Deadline:        deadline,
		AmountCollected: decimal.Zero,
		Active:          true,
	})
	return id
}

func (s *CampaignStore) lookup(id uint64) (*domain.Campaign, error) {
	if id == 0 || id > uint64(len(s.campaigns)) {
		return nil, fmt.Errorf("campaign %d: %w", id, domain.ErrNotFound)
	}
	return s.campaigns[id-1], nil
}

// Get returns a snapshot of campaign id.
func (s *CampaignStore) Get(id uint64) (domain.Campaign, error) {
	c, err := s.lookup(id)
	if err != nil {
		return domain.Campaign{}, err
	}
	return *c, nil
}

// All returns snapshots of every campaign in id order.
func (s *CampaignStore) All() []domain.Campaign {
	out := make([]domain.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, *c)
	}
	return out
}

// Deactivate clears the active flag. Deactivating twice is a no-op.
func (s *CampaignStore) Deactivate(id uint64) error {
	c, err := s.lookup(id)
	if err != nil {
		return err
	}
	c.Active = false
	return nil
}

// ApplyDonation adds amount to the collected total and counts the donation.
func (s *CampaignStore) ApplyDonation(id uint64, amount decimal.Decimal) error {
	c, err := s.lookup(id)
	if err != nil {
		return err
	}
	credit(c, amount)
	return nil
}

func credit(c *domain.Campaign, amount decimal.Decimal) {
	c.AmountCollected = c.AmountCollected.Add(amount)
	c.DonationsCount++
}

// ApplyWithdrawal returns the collected total and resets it to zero.
func (s *CampaignStore) ApplyWithdrawal(id uint64) (decimal.Decimal, error) {
	c, err := s.lookup(id)
	if err != nil {
		return decimal.Zero, err
	}
	amount := c.AmountCollected
	c.AmountCollected = decimal.Zero
	return amount, nil
}

// refund puts back an amount taken by ApplyWithdrawal whose payout failed.
func (s *CampaignStore) refund(id uint64, amount decimal.Decimal) {
	if c, err := s.lookup(id); err == nil {
		c.AmountCollected = c.AmountCollected.Add(amount)
	}
}

// Collected sums AmountCollected over all campaigns.
func (s *CampaignStore) Collected() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range s.campaigns {
		sum = sum.Add(c.AmountCollected)
	}
	return sum
}
