package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"crowdfund/internal/domain"
)

func TestPoolDepositAndPay(t *testing.T) {
	p := NewPool()
	if err := p.Deposit(donorA, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := p.Pay(owner, decimal.NewFromInt(3)); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if !p.Held().Equal(decimal.NewFromInt(2)) {
		t.Fatalf("Held = %s, want 2", p.Held())
	}
	if !p.PaidOut(owner).Equal(decimal.NewFromInt(3)) {
		t.Fatalf("PaidOut = %s, want 3", p.PaidOut(owner))
	}
}

func TestPoolRejects(t *testing.T) {
	p := NewPool()
	if err := p.Deposit(donorA, decimal.Zero); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("Deposit(0) error = %v", err)
	}
	if err := p.Pay(owner, decimal.NewFromInt(1)); !errors.Is(err, domain.ErrInsufficientCustody) {
		t.Fatalf("Pay on empty pool error = %v", err)
	}
	if !p.Held().IsZero() {
		t.Fatalf("Held = %s after rejected calls", p.Held())
	}
}
