package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"crowdfund/internal/domain"
)

// Config wires an Engine to its collaborators. Only Owner is required.
type Config struct {
	Owner    domain.Address
	Clock    Clock
	Vault    Vault
	Observer Observer
	Logger   *zerolog.Logger
}

// Engine is the custody state machine. Every mutating operation runs under a single
// ledger-wide lock, so read-modify-write sequences never interleave and the held balance
// always equals the sum of the campaigns' collected amounts.
type Engine struct {
	mu        sync.RWMutex
	guard     *AccessGuard
	campaigns *CampaignStore
	donations *DonationLedger
	vault     Vault
	clock     Clock
	observer  Observer
	logger    zerolog.Logger

	seq       uint64
	donated   decimal.Decimal
	withdrawn decimal.Decimal
}

// NewEngine returns an empty ledger owned by cfg.Owner.
func NewEngine(cfg Config) (*Engine, error) {
	guard, err := NewAccessGuard(cfg.Owner)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		guard:     guard,
		campaigns: NewCampaignStore(),
		donations: NewDonationLedger(),
		vault:     cfg.Vault,
		clock:     cfg.Clock,
		observer:  cfg.Observer,
		logger:    zerolog.Nop(),
		donated:   decimal.Zero,
		withdrawn: decimal.Zero,
	}
	if e.vault == nil {
		e.vault = NewPool()
	}
	if e.clock == nil {
		e.clock = SystemClock
	}
	if e.observer == nil {
		e.observer = Fanout(nil)
	}
	if cfg.Logger != nil {
		e.logger = cfg.Logger.With().Str("component", "custody").Logger()
	}
	return e, nil
}

// Owner returns the identity allowed to create, deactivate and withdraw.
func (e *Engine) Owner() domain.Address { return e.guard.Owner() }

// CreateCampaign opens a new campaign and returns its id.
func (e *Engine) CreateCampaign(caller domain.Address, title, description string, target decimal.Decimal, deadline time.Time) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard.RequireOwner(caller); err != nil {
		return 0, e.reject("create", caller, 0, err)
	}
	now := e.now()
	deadline = domain.JournalTime(deadline)
	id, err := e.campaigns.Create(title, description, target, deadline, now)
	if err != nil {
		return 0, e.reject("create", caller, 0, err)
	}
	e.emit(domain.Event{
		Kind:        domain.EventCampaignCreated,
		CampaignID:  id,
		Actor:       caller,
		OccurredAt:  now,
		Title:       title,
		Description: description,
		Target:      target,
		Deadline:    deadline,
	})
	e.logger.Info().Uint64("campaign_id", id).Str("caller", caller.String()).
		Str("target_wei", target.String()).Time("deadline", deadline).Msg("campaign created")
	return id, nil
}

// Donate moves amount from caller into custody on behalf of campaign id.
// The target is advisory; donations beyond it are accepted.
func (e *Engine) Donate(caller domain.Address, id uint64, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := caller.Validate(); err != nil {
		return e.reject("donate", caller, id, err)
	}
	now := e.now()
	c, err := e.campaigns.lookup(id)
	if err != nil {
		return e.reject("donate", caller, id, err)
	}
	switch {
	case !c.Active:
		return e.reject("donate", caller, id, fmt.Errorf("campaign %d: %w", id, domain.ErrInactiveCampaign))
	case c.Expired(now):
		return e.reject("donate", caller, id, fmt.Errorf("campaign %d: %w", id, domain.ErrCampaignExpired))
	case !amount.IsPositive():
		return e.reject("donate", caller, id, fmt.Errorf("%w: got %s", domain.ErrZeroAmount, amount))
	case !amount.IsInteger():
		return e.reject("donate", caller, id, fmt.Errorf("%w: %s is not a whole wei amount", domain.ErrInvalidAmount, amount))
	}

	if err := e.vault.Deposit(caller, amount); err != nil {
		return e.reject("donate", caller, id, fmt.Errorf("deposit: %w", err))
	}
	e.creditDonation(c, caller, amount, now)
	e.emit(domain.Event{
		Kind:       domain.EventDonationReceived,
		CampaignID: id,
		Actor:      caller,
		Amount:     amount,
		OccurredAt: now,
	})
	e.logger.Info().Uint64("campaign_id", id).Str("caller", caller.String()).
		Str("amount_wei", amount.String()).Msg("donation received")
	return nil
}

// DeactivateCampaign stops a campaign from accepting donations. It does not touch the
// collected balance, which stays withdrawable.
func (e *Engine) DeactivateCampaign(caller domain.Address, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard.RequireOwner(caller); err != nil {
		return e.reject("deactivate", caller, id, err)
	}
	if err := e.campaigns.Deactivate(id); err != nil {
		return e.reject("deactivate", caller, id, err)
	}
	e.emit(domain.Event{
		Kind:       domain.EventCampaignDeactivated,
		CampaignID: id,
		Actor:      caller,
		OccurredAt: e.now(),
	})
	e.logger.Info().Uint64("campaign_id", id).Str("caller", caller.String()).Msg("campaign deactivated")
	return nil
}

// WithdrawCampaignFunds pays the campaign's whole collected balance to the owner and returns
// the amount paid. Active, inactive and expired campaigns are all withdrawable.
func (e *Engine) WithdrawCampaignFunds(caller domain.Address, id uint64) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard.RequireOwner(caller); err != nil {
		return decimal.Zero, e.reject("withdraw", caller, id, err)
	}
	c, err := e.campaigns.Get(id)
	if err != nil {
		return decimal.Zero, e.reject("withdraw", caller, id, err)
	}
	if c.AmountCollected.IsZero() {
		return decimal.Zero, e.reject("withdraw", caller, id, fmt.Errorf("campaign %d: %w", id, domain.ErrNothingToWithdraw))
	}

	// Clear before paying out; a failed payout puts the balance back.
	amount, err := e.campaigns.ApplyWithdrawal(id)
	if err != nil {
		return decimal.Zero, e.reject("withdraw", caller, id, err)
	}
	if err := e.vault.Pay(caller, amount); err != nil {
		e.campaigns.refund(id, amount)
		return decimal.Zero, e.reject("withdraw", caller, id, fmt.Errorf("payout: %w", err))
	}
	e.withdrawn = e.withdrawn.Add(amount)
	e.emit(domain.Event{
		Kind:       domain.EventFundsWithdrawn,
		CampaignID: id,
		Actor:      caller,
		Amount:     amount,
		OccurredAt: e.now(),
	})
	e.logger.Info().Uint64("campaign_id", id).Str("caller", caller.String()).
		Str("amount_wei", amount.String()).Msg("funds withdrawn")
	return amount, nil
}

// CheckSolvency verifies that the vault holds exactly the sum of all collected balances.
func (e *Engine) CheckSolvency() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.checkSolvencyLocked()
}

func (e *Engine) checkSolvencyLocked() error {
	held := e.vault.Held()
	collected := e.campaigns.Collected()
	if !held.Equal(collected) {
		return fmt.Errorf("solvency violated: vault holds %s wei, campaigns record %s wei", held, collected)
	}
	return nil
}

func (e *Engine) creditDonation(c *domain.Campaign, donor domain.Address, amount decimal.Decimal, at time.Time) {
	credit(c, amount)
	e.donations.Record(c.ID, donor, amount, at)
	e.donated = e.donated.Add(amount)
}

func (e *Engine) now() time.Time {
	return domain.JournalTime(e.clock.Now())
}

func (e *Engine) emit(evt domain.Event) {
	e.seq++
	evt.Seq = e.seq
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	e.observer.Observe(evt)
}

func (e *Engine) reject(op string, caller domain.Address, id uint64, err error) error {
	e.logger.Debug().Err(err).Str("op", op).Str("caller", caller.String()).
		Uint64("campaign_id", id).Msg("custody operation rejected")
	return err
}
