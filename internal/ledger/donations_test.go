package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDonationLedgerIndices(t *testing.T) {
	l := NewDonationLedger()
	l.Record(1, donorA, decimal.NewFromInt(10), t0)
	l.Record(2, donorA, decimal.NewFromInt(20), t0.Add(time.Minute))
	l.Record(1, donorB, decimal.NewFromInt(30), t0.Add(2*time.Minute))
	l.Record(1, donorA, decimal.NewFromInt(40), t0.Add(3*time.Minute))

	byCampaign := l.ByCampaign(1)
	wantAmounts := []int64{10, 30, 40}
	if len(byCampaign) != len(wantAmounts) {
		t.Fatalf("ByCampaign(1) len = %d, want %d", len(byCampaign), len(wantAmounts))
	}
	for i, want := range wantAmounts {
		if !byCampaign[i].Amount.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("ByCampaign(1)[%d].Amount = %s, want %d", i, byCampaign[i].Amount, want)
		}
		if byCampaign[i].CampaignID != 1 {
			t.Fatalf("ByCampaign(1)[%d].CampaignID = %d", i, byCampaign[i].CampaignID)
		}
	}

	history := l.ByDonor(donorA)
	wantCampaigns := []uint64{1, 2, 1}
	if len(history) != len(wantCampaigns) {
		t.Fatalf("ByDonor len = %d, want %d", len(history), len(wantCampaigns))
	}
	for i, want := range wantCampaigns {
		if history[i].CampaignID != want {
			t.Fatalf("ByDonor[%d].CampaignID = %d, want %d", i, history[i].CampaignID, want)
		}
		if history[i].Donor != donorA {
			t.Fatalf("ByDonor[%d].Donor = %s", i, history[i].Donor)
		}
	}
	if !history[1].Timestamp.Equal(t0.Add(time.Minute)) {
		t.Fatalf("timestamp = %s", history[1].Timestamp)
	}
	if l.Len() != 4 {
		t.Fatalf("Len = %d, want 4", l.Len())
	}
}

func TestDonationLedgerEmpty(t *testing.T) {
	l := NewDonationLedger()
	if got := l.ByCampaign(9); got == nil || len(got) != 0 {
		t.Fatalf("ByCampaign on empty ledger = %#v, want empty non-nil slice", got)
	}
	if got := l.ByDonor(donorB); got == nil || len(got) != 0 {
		t.Fatalf("ByDonor on empty ledger = %#v, want empty non-nil slice", got)
	}
}

func TestDonationLedgerResultsAreCopies(t *testing.T) {
	l := NewDonationLedger()
	l.Record(1, donorA, decimal.NewFromInt(10), t0)
	got := l.ByCampaign(1)
	got[0].Donor = donorB
	if l.ByCampaign(1)[0].Donor != donorA {
		t.Fatalf("caller mutation leaked into ledger")
	}
}
