package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/domain"
)

func recordHistory(t *testing.T) (*fixture, []domain.Event) {
	t.Helper()
	f := newFixture(t)
	a := f.create(t, eth("5"), 30*day)
	b := f.create(t, eth("1"), time.Hour)
	mustDonate(t, f.engine, donorA, a, eth("1.5"))
	mustDonate(t, f.engine, donorB, b, eth("0.25"))
	if _, err := f.engine.WithdrawCampaignFunds(owner, a); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	mustDonate(t, f.engine, donorB, a, eth("2"))
	if err := f.engine.DeactivateCampaign(owner, b); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	return f, f.recorder.Events()
}

func mustDonate(t *testing.T, e *Engine, donor domain.Address, id uint64, amount decimal.Decimal) {
	t.Helper()
	if err := e.Donate(donor, id, amount); err != nil {
		t.Fatalf("Donate: %v", err)
	}
}

func TestRestoreRebuildsState(t *testing.T) {
	orig, events := recordHistory(t)

	clock := &testClock{now: t0.Add(2 * time.Hour)}
	recorder := &Recorder{}
	restored, err := Restore(Config{Owner: owner, Clock: clock, Observer: recorder}, events)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if n := len(recorder.Events()); n != 0 {
		t.Fatalf("replay notified observer %d times", n)
	}

	want := orig.query.AllCampaigns()
	got := NewQuery(restored).AllCampaigns()
	if len(got) != len(want) {
		t.Fatalf("campaigns = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Active != want[i].Active ||
			!got[i].AmountCollected.Equal(want[i].AmountCollected) || got[i].DonationsCount != want[i].DonationsCount {
			t.Fatalf("campaign %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if n := len(NewQuery(restored).DonorHistory(donorB)); n != 2 {
		t.Fatalf("donorB history = %d, want 2", n)
	}
	totals := NewQuery(restored).Totals()
	if !totals.Withdrawn.Equal(eth("1.5")) || !totals.Held.Equal(eth("2.25")) {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	assertSolvent(t, restored)

	// The restored ledger keeps going where the log stopped.
	id, err := restored.CreateCampaign(owner, "next", "d", eth("1"), clock.Now().Add(day))
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if id != 3 {
		t.Fatalf("next id = %d, want 3", id)
	}
	next := recorder.Events()
	if len(next) != 1 || next[0].Seq != uint64(len(events)+1) {
		t.Fatalf("new event seq = %+v", next)
	}
}

func TestRestoreRejectsCorruptJournals(t *testing.T) {
	_, events := recordHistory(t)

	tests := []struct {
		name   string
		mutate func([]domain.Event) []domain.Event
	}{
		{name: "gap in seq", mutate: func(ev []domain.Event) []domain.Event { return append(ev[:1], ev[2:]...) }},
		{name: "foreign creator", mutate: func(ev []domain.Event) []domain.Event { ev[0].Actor = donorA; return ev }},
		{name: "skipped campaign id", mutate: func(ev []domain.Event) []domain.Event { ev[1].CampaignID = 5; return ev }},
		{name: "donation to unknown campaign", mutate: func(ev []domain.Event) []domain.Event { ev[2].CampaignID = 9; return ev }},
		{name: "withdrawal amount mismatch", mutate: func(ev []domain.Event) []domain.Event { ev[4].Amount = eth("9"); return ev }},
		{name: "foreign withdrawer", mutate: func(ev []domain.Event) []domain.Event { ev[4].Actor = donorB; return ev }},
		{name: "non-canonical donor", mutate: func(ev []domain.Event) []domain.Event {
			ev[2].Actor = domain.Address("0x00000000000000000000000000000000000000B2")
			return ev
		}},
		{name: "empty donor", mutate: func(ev []domain.Event) []domain.Event { ev[2].Actor = ""; return ev }},
		{name: "unknown kind", mutate: func(ev []domain.Event) []domain.Event { ev[3].Kind = "Refunded"; return ev }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			copied := append([]domain.Event(nil), events...)
			_, err := Restore(Config{Owner: owner}, tc.mutate(copied))
			if !errors.Is(err, domain.ErrJournalCorrupt) {
				t.Fatalf("Restore error = %v, want ErrJournalCorrupt", err)
			}
		})
	}
}

func TestWithdrawalsFilter(t *testing.T) {
	_, events := recordHistory(t)
	if n := len(Withdrawals(events, 0)); n != 1 {
		t.Fatalf("all withdrawals = %d, want 1", n)
	}
	if n := len(Withdrawals(events, 2)); n != 0 {
		t.Fatalf("campaign 2 withdrawals = %d, want 0", n)
	}
	if got := Withdrawals(nil, 0); got == nil {
		t.Fatalf("Withdrawals(nil) = nil, want empty slice")
	}
}
