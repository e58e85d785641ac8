package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"crowdfund/internal/domain"
)

// Vault is the value-transfer primitive behind the ledger. Deposit and Pay either move the
// full amount or fail without effect. Implementations must not call back into the Engine.
type Vault interface {
	Deposit(from domain.Address, amount decimal.Decimal) error
	Pay(to domain.Address, amount decimal.Decimal) error
	Held() decimal.Decimal
}

// Pool is an in-memory Vault holding all campaign funds in one balance.
type Pool struct {
	mu      sync.Mutex
	held    decimal.Decimal
	paidOut map[domain.Address]decimal.Decimal
}

func NewPool() *Pool {
	return &Pool{held: decimal.Zero, paidOut: make(map[domain.Address]decimal.Decimal)}
}

func (p *Pool) Deposit(from domain.Address, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit of %s from %s", domain.ErrInvalidAmount, amount, from)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.held = p.held.Add(amount)
	return nil
}

func (p *Pool) Pay(to domain.Address, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: payment of %s to %s", domain.ErrInvalidAmount, amount, to)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount.GreaterThan(p.held) {
		return fmt.Errorf("%w: paying %s with %s held", domain.ErrInsufficientCustody, amount, p.held)
	}
	p.held = p.held.Sub(amount)
	p.paidOut[to] = p.paidOut[to].Add(amount)
	return nil
}

func (p *Pool) Held() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.held
}

// PaidOut returns the total paid to addr.
func (p *Pool) PaidOut(addr domain.Address) decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paidOut[addr]
}
