package ledger

import (
	"sync"

	"github.com/rs/zerolog"

	"crowdfund/internal/domain"
)

// Observer receives every event the engine emits, in order, while the emitting
// operation still holds the ledger lock. Observers must not call back into the Engine.
type Observer interface {
	Observe(evt domain.Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(domain.Event)

func (f ObserverFunc) Observe(evt domain.Event) { f(evt) }

// Fanout delivers each event to all observers in order.
type Fanout []Observer

func (f Fanout) Observe(evt domain.Event) {
	for _, o := range f {
		if o != nil {
			o.Observe(evt)
		}
	}
}

// Recorder keeps the events it observes in memory.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *Recorder) Observe(evt domain.Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// Drain returns the recorded events and forgets them.
func (r *Recorder) Drain() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// LogObserver writes events as structured log lines.
type LogObserver struct {
	Logger zerolog.Logger
}

func (o LogObserver) Observe(evt domain.Event) {
	e := o.Logger.Info().
		Str("event", string(evt.Kind)).
		Str("event_id", evt.ID.String()).
		Uint64("seq", evt.Seq).
		Uint64("campaign_id", evt.CampaignID).
		Str("actor", evt.Actor.String())
	if !evt.Amount.IsZero() {
		e = e.Str("amount_wei", evt.Amount.String()).Str("amount_eth", domain.FormatEther(evt.Amount))
	}
	if evt.Kind == domain.EventCampaignCreated {
		e = e.Str("title", evt.Title).Str("target_wei", evt.Target.String()).Time("deadline", evt.Deadline)
	}
	e.Time("occurred_at", evt.OccurredAt).Msg("ledger event")
}
