package ledger

import (
	"fmt"

	"crowdfund/internal/domain"
)

// Restore rebuilds an engine from a previously emitted event log. Rules that depend on the
// clock are not re-checked because they held when each event was accepted. Replayed events
// are not passed to cfg.Observer; new events continue the log's sequence.
func Restore(cfg Config, events []domain.Event) (*Engine, error) {
	e, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	for _, evt := range events {
		if err := e.replay(evt); err != nil {
			return nil, fmt.Errorf("%w: event %d (%s): %v", domain.ErrJournalCorrupt, evt.Seq, evt.Kind, err)
		}
	}
	if err := e.checkSolvencyLocked(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrJournalCorrupt, err)
	}
	e.logger.Info().Int("events", len(events)).Int("campaigns", e.campaigns.Len()).
		Str("held_wei", e.vault.Held().String()).Msg("ledger restored")
	return e, nil
}

func (e *Engine) replay(evt domain.Event) error {
	if evt.Seq != e.seq+1 {
		return fmt.Errorf("expected seq %d", e.seq+1)
	}
	switch evt.Kind {
	case domain.EventCampaignCreated:
		if err := e.guard.RequireOwner(evt.Actor); err != nil {
			return err
		}
		if next := e.campaigns.NextID(); evt.CampaignID != next {
			return fmt.Errorf("expected campaign id %d", next)
		}
		if !evt.Target.IsPositive() || !evt.Target.IsInteger() {
			return domain.ErrInvalidTarget
		}
		e.campaigns.insert(evt.Title, evt.Description, evt.Target, evt.Deadline)

	case domain.EventDonationReceived:
		if err := evt.Actor.Validate(); err != nil {
			return err
		}
		c, err := e.campaigns.lookup(evt.CampaignID)
		if err != nil {
			return err
		}
		if !evt.Amount.IsPositive() || !evt.Amount.IsInteger() {
			return domain.ErrZeroAmount
		}
		if !c.Active {
			return domain.ErrInactiveCampaign
		}
		if err := e.vault.Deposit(evt.Actor, evt.Amount); err != nil {
			return err
		}
		e.creditDonation(c, evt.Actor, evt.Amount, evt.OccurredAt)

	case domain.EventCampaignDeactivated:
		if err := e.guard.RequireOwner(evt.Actor); err != nil {
			return err
		}
		if err := e.campaigns.Deactivate(evt.CampaignID); err != nil {
			return err
		}

	case domain.EventFundsWithdrawn:
		if err := e.guard.RequireOwner(evt.Actor); err != nil {
			return err
		}
		c, err := e.campaigns.Get(evt.CampaignID)
		if err != nil {
			return err
		}
		if c.AmountCollected.IsZero() || !c.AmountCollected.Equal(evt.Amount) {
			return fmt.Errorf("withdrew %s but campaign held %s", evt.Amount, c.AmountCollected)
		}
		if _, err := e.campaigns.ApplyWithdrawal(evt.CampaignID); err != nil {
			return err
		}
		if err := e.vault.Pay(evt.Actor, evt.Amount); err != nil {
			return err
		}
		e.withdrawn = e.withdrawn.Add(evt.Amount)

	default:
		return fmt.Errorf("unknown event kind %q", evt.Kind)
	}
	e.seq = evt.Seq
	return nil
}

// Withdrawals extracts withdrawal history from an event log. A zero campaignID selects all
// campaigns.
func Withdrawals(events []domain.Event, campaignID uint64) []domain.Withdrawal {
	out := []domain.Withdrawal{}
	for _, evt := range events {
		if evt.Kind != domain.EventFundsWithdrawn {
			continue
		}
		if campaignID != 0 && evt.CampaignID != campaignID {
			continue
		}
		out = append(out, domain.Withdrawal{
			CampaignID: evt.CampaignID,
			Owner:      evt.Actor,
			Amount:     evt.Amount,
			At:         evt.OccurredAt,
		})
	}
	return out
}
