package domain

import "context"

// JournalRepository persists the ledger owner and its event log.
type JournalRepository interface {
	InitOwner(ctx context.Context, owner Address) error
	Owner(ctx context.Context) (Address, error)
	Append(ctx context.Context, evt Event) error
	Load(ctx context.Context) ([]Event, error)
}
