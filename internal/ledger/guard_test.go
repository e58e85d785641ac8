package ledger

import (
	"errors"
	"testing"

	"crowdfund/internal/domain"
)

func TestAccessGuard(t *testing.T) {
	for _, bad := range []domain.Address{"", "0x00000000000000000000000000000000000000A1", "owner"} {
		if _, err := NewAccessGuard(bad); !errors.Is(err, domain.ErrInvalidAddress) {
			t.Fatalf("NewAccessGuard(%q) error = %v", bad, err)
		}
	}
	g, err := NewAccessGuard(owner)
	if err != nil {
		t.Fatalf("NewAccessGuard: %v", err)
	}
	if g.Owner() != owner {
		t.Fatalf("Owner = %s", g.Owner())
	}
	if err := g.RequireOwner(owner); err != nil {
		t.Fatalf("RequireOwner(owner): %v", err)
	}
	for _, caller := range []domain.Address{donorA, ""} {
		if err := g.RequireOwner(caller); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("RequireOwner(%q) error = %v, want ErrUnauthorized", caller, err)
		}
	}
}
