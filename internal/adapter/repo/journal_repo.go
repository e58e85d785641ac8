package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crowdfund/internal/domain"
	"crowdfund/internal/infra"
	"crowdfund/internal/sqlinline"
)

// JournalRepositoryPG implements domain.JournalRepository on PostgreSQL.
type JournalRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJournalRepository creates a journal backed by sql, usually an *infra.SQLRunner.
func NewJournalRepository(sql infra.SQLExecutor) *JournalRepositoryPG {
	return &JournalRepositoryPG{sql: sql}
}

// InitOwner records the ledger owner. Repeating it with the same owner is a no-op.
func (r *JournalRepositoryPG) InitOwner(ctx context.Context, owner domain.Address) error {
	if owner.IsZero() {
		return fmt.Errorf("%w: owner is required", domain.ErrInvalidAddress)
	}
	var stored string
	if err := r.sql.QueryRow(ctx, sqlinline.QInitOwner, owner.String()).Scan(&stored); err != nil {
		return fmt.Errorf("init owner: %w", err)
	}
	if domain.Address(stored) != owner {
		return fmt.Errorf("%w: ledger already owned by %s", domain.ErrUnauthorized, stored)
	}
	return nil
}

// Owner returns the recorded owner or ErrNotInitialized.
func (r *JournalRepositoryPG) Owner(ctx context.Context) (domain.Address, error) {
	var stored string
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectOwner).Scan(&stored); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrNotInitialized
		}
		return "", fmt.Errorf("load owner: %w", err)
	}
	return domain.ParseAddress(stored)
}

// Append stores one event. A sequence number that is already taken means another writer
// got there first and the caller's view of the ledger is stale.
func (r *JournalRepositoryPG) Append(ctx context.Context, evt domain.Event) error {
	if !evt.Kind.Valid() {
		return fmt.Errorf("append event %d: unknown kind %q", evt.Seq, evt.Kind)
	}
	var deadline *time.Time
	if !evt.Deadline.IsZero() {
		d := domain.JournalTime(evt.Deadline)
		deadline = &d
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertEvent,
		int64(evt.Seq),
		evt.ID.String(),
		string(evt.Kind),
		int64(evt.CampaignID),
		evt.Actor.String(),
		evt.Amount.String(),
		evt.Title,
		evt.Description,
		evt.Target.String(),
		deadline,
		domain.JournalTime(evt.OccurredAt),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("%w: seq %d already recorded", domain.ErrJournalConflict, evt.Seq)
		}
		return fmt.Errorf("append event %d: %w", evt.Seq, err)
	}
	return nil
}

// Load returns every event in sequence order.
func (r *JournalRepositoryPG) Load(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListEvents)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			seq, campaignID    int64
			id, kind, actor    string
			amount, target     string
			title, description string
			deadline           *time.Time
			occurredAt         time.Time
		)
		if err := rows.Scan(&seq, &id, &kind, &campaignID, &actor, &amount, &title, &description, &target, &deadline, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt, err := decodeEvent(seq, id, kind, campaignID, actor, amount, title, description, target, deadline, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", domain.ErrJournalCorrupt, seq, err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func decodeEvent(seq int64, id, kind string, campaignID int64, actor, amount, title, description, target string, deadline *time.Time, occurredAt time.Time) (domain.Event, error) {
	evt := domain.Event{
		Seq:         uint64(seq),
		Kind:        domain.EventKind(kind),
		CampaignID:  uint64(campaignID),
		Title:       title,
		Description: description,
		OccurredAt:  occurredAt.UTC(),
	}
	if !evt.Kind.Valid() {
		return domain.Event{}, fmt.Errorf("unknown kind %q", kind)
	}
	var err error
	if evt.ID, err = uuid.Parse(id); err != nil {
		return domain.Event{}, err
	}
	if evt.Actor, err = domain.ParseAddress(actor); err != nil {
		return domain.Event{}, err
	}
	if evt.Amount, err = domain.ParseWei(amount); err != nil {
		return domain.Event{}, err
	}
	if evt.Target, err = domain.ParseWei(target); err != nil {
		return domain.Event{}, err
	}
	if deadline != nil {
		evt.Deadline = deadline.UTC()
	}
	return evt, nil
}

var _ domain.JournalRepository = (*JournalRepositoryPG)(nil)
