package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/domain"
)

var (
	owner  = domain.MustParseAddress("0x00000000000000000000000000000000000000a1")
	donorA = domain.MustParseAddress("0x00000000000000000000000000000000000000b2")
	donorB = domain.MustParseAddress("0x00000000000000000000000000000000000000c3")
	t0     = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	engine   *Engine
	query    *Query
	clock    *testClock
	pool     *Pool
	recorder *Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: &testClock{now: t0}, pool: NewPool(), recorder: &Recorder{}}
	e, err := NewEngine(Config{Owner: owner, Clock: f.clock, Vault: f.pool, Observer: f.recorder})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	f.engine = e
	f.query = NewQuery(e)
	return f
}

func (f *fixture) create(t *testing.T, target decimal.Decimal, ttl time.Duration) uint64 {
	t.Helper()
	id, err := f.engine.CreateCampaign(owner, "Bantu Sekolah", "Deskripsi", target, f.clock.Now().Add(ttl))
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	return id
}

func eth(s string) decimal.Decimal {
	d, err := domain.ParseEther(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertSolvent(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.CheckSolvency(); err != nil {
		t.Fatalf("CheckSolvency: %v", err)
	}
}

const day = 24 * time.Hour
