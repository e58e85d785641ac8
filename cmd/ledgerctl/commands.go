package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/domain"
	"crowdfund/internal/infra"
	"crowdfund/internal/ledger"
)

var errUsage = errors.New("usage")

const usageText = `usage: ledgerctl <command> [flags]

commands:
  migrate                                   create the journal tables
  init        -owner ADDR                   record the ledger owner
  owner                                     print the ledger owner
  create      -as ADDR -title T -description D -target ETH -deadline (RFC3339|30d|72h)
  donate      -as ADDR -campaign ID -amount ETH
  deactivate  -as ADDR -campaign ID
  withdraw    -as ADDR -campaign ID
  campaigns                                 list all campaigns
  campaign    -id ID                        show one campaign
  donations   -campaign ID                  list a campaign's donations
  history     -donor ADDR                   list a donor's donations
  withdrawals [-campaign ID]                list withdrawals from the event log
  audit                                     check custody against campaign balances
`

// cli runs one command against the journal. Mutating commands replay the journal,
// apply the operation and append the resulting event.
type cli struct {
	journal domain.JournalRepository
	migrate func(ctx context.Context) error
	clock   ledger.Clock
	logger  infra.Logger
	out     io.Writer
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "migrate":
		return c.runMigrate(ctx)
	case "init":
		return c.runInit(ctx, args)
	case "owner":
		return c.runOwner(ctx)
	case "create":
		return c.runCreate(ctx, args)
	case "donate":
		return c.runDonate(ctx, args)
	case "deactivate":
		return c.runDeactivate(ctx, args)
	case "withdraw":
		return c.runWithdraw(ctx, args)
	case "campaigns":
		return c.runCampaigns(ctx)
	case "campaign":
		return c.runCampaign(ctx, args)
	case "donations":
		return c.runDonations(ctx, args)
	case "history":
		return c.runHistory(ctx, args)
	case "withdrawals":
		return c.runWithdrawals(ctx, args)
	case "audit":
		return c.runAudit(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (c *cli) runMigrate(ctx context.Context) error {
	if c.migrate == nil {
		return errors.New("migrations are not available")
	}
	if err := c.migrate(ctx); err != nil {
		return err
	}
	return c.print(map[string]string{"status": "migrated"})
}

func (c *cli) runInit(ctx context.Context, args []string) error {
	fs := newFlagSet("init")
	ownerFlag := fs.String("owner", "", "owner address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	owner, err := domain.ParseAddress(*ownerFlag)
	if err != nil {
		return err
	}
	if err := c.journal.InitOwner(ctx, owner); err != nil {
		return err
	}
	return c.print(map[string]string{"owner": owner.String()})
}

func (c *cli) runOwner(ctx context.Context) error {
	owner, err := c.journal.Owner(ctx)
	if err != nil {
		return err
	}
	return c.print(map[string]string{"owner": owner.String()})
}

func (c *cli) runCreate(ctx context.Context, args []string) error {
	fs := newFlagSet("create")
	as := fs.String("as", "", "caller address")
	title := fs.String("title", "", "campaign title")
	description := fs.String("description", "", "campaign description")
	target := fs.String("target", "", "target in ETH")
	deadline := fs.String("deadline", "", "deadline as RFC3339 or a duration from now (30d, 72h)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	caller, err := domain.ParseAddress(*as)
	if err != nil {
		return err
	}
	targetWei, err := domain.ParseEther(*target)
	if err != nil {
		return err
	}
	due, err := parseDeadline(*deadline, c.clock.Now())
	if err != nil {
		return err
	}

	var id uint64
	err = c.mutate(ctx, func(e *ledger.Engine) error {
		var err error
		id, err = e.CreateCampaign(caller, strings.TrimSpace(*title), strings.TrimSpace(*description), targetWei, due)
		return err
	})
	if err != nil {
		return err
	}
	return c.print(map[string]uint64{"id": id})
}

func (c *cli) runDonate(ctx context.Context, args []string) error {
	fs := newFlagSet("donate")
	as := fs.String("as", "", "donor address")
	campaign := fs.Uint64("campaign", 0, "campaign id")
	amount := fs.String("amount", "", "amount in ETH")
	if err := fs.Parse(args); err != nil {
		return err
	}
	caller, err := domain.ParseAddress(*as)
	if err != nil {
		return err
	}
	wei, err := domain.ParseEther(*amount)
	if err != nil {
		return err
	}
	var after domain.Campaign
	err = c.mutate(ctx, func(e *ledger.Engine) error {
		if err := e.Donate(caller, *campaign, wei); err != nil {
			return err
		}
		var err error
		after, err = ledger.NewQuery(e).CampaignDetails(*campaign)
		return err
	})
	if err != nil {
		return err
	}
	return c.print(newCampaignView(after, c.clock.Now()))
}

func (c *cli) runDeactivate(ctx context.Context, args []string) error {
	fs := newFlagSet("deactivate")
	as := fs.String("as", "", "caller address")
	campaign := fs.Uint64("campaign", 0, "campaign id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	caller, err := domain.ParseAddress(*as)
	if err != nil {
		return err
	}
	err = c.mutate(ctx, func(e *ledger.Engine) error {
		return e.DeactivateCampaign(caller, *campaign)
	})
	if err != nil {
		return err
	}
	return c.print(map[string]any{"id": *campaign, "active": false})
}

func (c *cli) runWithdraw(ctx context.Context, args []string) error {
	fs := newFlagSet("withdraw")
	as := fs.String("as", "", "caller address")
	campaign := fs.Uint64("campaign", 0, "campaign id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	caller, err := domain.ParseAddress(*as)
	if err != nil {
		return err
	}
	var amount decimal.Decimal
	err = c.mutate(ctx, func(e *ledger.Engine) error {
		var err error
		amount, err = e.WithdrawCampaignFunds(caller, *campaign)
		return err
	})
	if err != nil {
		return err
	}
	return c.print(withdrawalView{
		CampaignID: *campaign,
		Owner:      caller.String(),
		AmountWei:  amount.String(),
		AmountEth:  domain.FormatEther(amount),
		At:         c.clock.Now(),
	})
}

func (c *cli) runCampaigns(ctx context.Context) error {
	q, _, err := c.query(ctx)
	if err != nil {
		return err
	}
	now := c.clock.Now()
	views := []campaignView{}
	for _, campaign := range q.AllCampaigns() {
		views = append(views, newCampaignView(campaign, now))
	}
	return c.print(views)
}

func (c *cli) runCampaign(ctx context.Context, args []string) error {
	fs := newFlagSet("campaign")
	id := fs.Uint64("id", 0, "campaign id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, _, err := c.query(ctx)
	if err != nil {
		return err
	}
	campaign, err := q.CampaignDetails(*id)
	if err != nil {
		return err
	}
	return c.print(newCampaignView(campaign, c.clock.Now()))
}

func (c *cli) runDonations(ctx context.Context, args []string) error {
	fs := newFlagSet("donations")
	campaign := fs.Uint64("campaign", 0, "campaign id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, _, err := c.query(ctx)
	if err != nil {
		return err
	}
	return c.print(newDonationViews(q.CampaignDonations(*campaign)))
}

func (c *cli) runHistory(ctx context.Context, args []string) error {
	fs := newFlagSet("history")
	donorFlag := fs.String("donor", "", "donor address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	donor, err := domain.ParseAddress(*donorFlag)
	if err != nil {
		return err
	}
	q, _, err := c.query(ctx)
	if err != nil {
		return err
	}
	return c.print(newDonationViews(q.DonorHistory(donor)))
}

func (c *cli) runWithdrawals(ctx context.Context, args []string) error {
	fs := newFlagSet("withdrawals")
	campaign := fs.Uint64("campaign", 0, "campaign id (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, events, err := c.query(ctx)
	if err != nil {
		return err
	}
	views := []withdrawalView{}
	for _, w := range ledger.Withdrawals(events, *campaign) {
		views = append(views, withdrawalView{
			CampaignID: w.CampaignID,
			Owner:      w.Owner.String(),
			AmountWei:  w.Amount.String(),
			AmountEth:  domain.FormatEther(w.Amount),
			At:         w.At,
		})
	}
	return c.print(views)
}

func (c *cli) runAudit(ctx context.Context) error {
	e, _, events, err := c.open(ctx)
	if err != nil {
		return err
	}
	totals := ledger.NewQuery(e).Totals()
	report := auditView{
		Events:       len(events),
		Campaigns:    totals.Campaigns,
		Donations:    totals.Donations,
		HeldWei:      totals.Held.String(),
		CollectedWei: totals.Collected.String(),
		DonatedWei:   totals.Donated.String(),
		WithdrawnWei: totals.Withdrawn.String(),
		Solvent:      true,
	}
	if err := e.CheckSolvency(); err != nil {
		report.Solvent = false
		report.Problem = err.Error()
	}
	if err := c.print(report); err != nil {
		return err
	}
	if !report.Solvent {
		return errors.New(report.Problem)
	}
	return nil
}

// open restores the ledger from the journal with a recorder attached for new events.
func (c *cli) open(ctx context.Context) (*ledger.Engine, *ledger.Recorder, []domain.Event, error) {
	owner, err := c.journal.Owner(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	events, err := c.journal.Load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	recorder := &ledger.Recorder{}
	logger := c.logger
	e, err := ledger.Restore(ledger.Config{
		Owner:    owner,
		Clock:    c.clock,
		Observer: ledger.Fanout{recorder, ledger.LogObserver{Logger: logger}},
		Logger:   &logger,
	}, events)
	if err != nil {
		return nil, nil, nil, err
	}
	return e, recorder, events, nil
}

func (c *cli) query(ctx context.Context) (*ledger.Query, []domain.Event, error) {
	e, _, events, err := c.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ledger.NewQuery(e), events, nil
}

// mutate applies op to a freshly restored ledger and persists the events it emitted.
// Losing the append race to another writer surfaces as ErrJournalConflict.
func (c *cli) mutate(ctx context.Context, op func(e *ledger.Engine) error) error {
	e, recorder, _, err := c.open(ctx)
	if err != nil {
		return err
	}
	if err := op(e); err != nil {
		return err
	}
	for _, evt := range recorder.Drain() {
		if err := c.journal.Append(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseDeadline accepts an RFC3339 timestamp, a Go duration or a whole number of days ("30d").
func parseDeadline(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: deadline is required", domain.ErrInvalidDeadline)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return domain.JournalTime(t), nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDeadline, s)
		}
		return domain.JournalTime(now.Add(time.Duration(n) * 24 * time.Hour)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDeadline, s)
	}
	return domain.JournalTime(now.Add(d)), nil
}

type campaignView struct {
	ID                 uint64    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	TargetWei          string    `json:"target_wei"`
	TargetEth          string    `json:"target_eth"`
	Deadline           time.Time `json:"deadline"`
	AmountCollectedWei string    `json:"amount_collected_wei"`
	AmountCollectedEth string    `json:"amount_collected_eth"`
	Active             bool      `json:"active"`
	Expired            bool      `json:"expired"`
	DonationsCount     uint64    `json:"donations_count"`
}

func newCampaignView(c domain.Campaign, now time.Time) campaignView {
	return campaignView{
		ID:                 c.ID,
		Title:              c.Title,
		Description:        c.Description,
		TargetWei:          c.Target.String(),
		TargetEth:          domain.FormatEther(c.Target),
		Deadline:           c.Deadline,
		AmountCollectedWei: c.AmountCollected.String(),
		AmountCollectedEth: domain.FormatEther(c.AmountCollected),
		Active:             c.Active,
		Expired:            c.Expired(now),
		DonationsCount:     c.DonationsCount,
	}
}

type donationView struct {
	CampaignID uint64    `json:"campaign_id"`
	Donor      string    `json:"donor"`
	AmountWei  string    `json:"amount_wei"`
	AmountEth  string    `json:"amount_eth"`
	Timestamp  time.Time `json:"timestamp"`
}

func newDonationViews(donations []domain.Donation) []donationView {
	views := make([]donationView, 0, len(donations))
	for _, d := range donations {
		views = append(views, donationView{
			CampaignID: d.CampaignID,
			Donor:      d.Donor.String(),
			AmountWei:  d.Amount.String(),
			AmountEth:  domain.FormatEther(d.Amount),
			Timestamp:  d.Timestamp,
		})
	}
	return views
}

type withdrawalView struct {
	CampaignID uint64    `json:"campaign_id"`
	Owner      string    `json:"owner"`
	AmountWei  string    `json:"amount_wei"`
	AmountEth  string    `json:"amount_eth"`
	At         time.Time `json:"at"`
}

type auditView struct {
	Events       int    `json:"events"`
	Campaigns    int    `json:"campaigns"`
	Donations    int    `json:"donations"`
	HeldWei      string `json:"held_wei"`
	CollectedWei string `json:"collected_wei"`
	DonatedWei   string `json:"donated_wei"`
	WithdrawnWei string `json:"withdrawn_wei"`
	Solvent      bool   `json:"solvent"`
	Problem      string `json:"problem,omitempty"`
}
