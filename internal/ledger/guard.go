package ledger

import (
	"fmt"

	"crowdfund/internal/domain"
)

// AccessGuard holds the single owner identity of a ledger.
type AccessGuard struct {
	owner domain.Address
}

// NewAccessGuard fixes owner for the lifetime of the guard.
func NewAccessGuard(owner domain.Address) (*AccessGuard, error) {
	if owner.IsZero() {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidAddress)
	}
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return &AccessGuard{owner: owner}, nil
}

// Owner returns the owner identity.
func (g *AccessGuard) Owner() domain.Address { return g.owner }

// RequireOwner fails with ErrUnauthorized unless caller is the owner.
func (g *AccessGuard) RequireOwner(caller domain.Address) error {
	if caller != g.owner {
		return fmt.Errorf("%w: %s is not the owner", domain.ErrUnauthorized, caller)
	}
	return nil
}
