package controllers

import (
	"context"
	"log"
	"sync"
	"time"

	"go-restaurant-tracker/client"
	"go-restaurant-tracker/models"
	"go-restaurant-tracker/realtime"
)

// Tracker keeps the order state fresh. Two independent producers feed one
// consumer: a fixed-interval poll that always runs, and an optional realtime
// channel whose notifications just mean "re-fetch now". Overlapping fetches
// are safe; OrderState drops whichever result is stale.
type Tracker struct {
	client  *client.Client
	state   *OrderState
	role    models.Role
	channel *realtime.Channel

	// Interval may be shortened before Run, e.g. in tests.
	Interval time.Duration

	// OnUpdate fires after a fetch result lands, with the fresh list.
	OnUpdate func(orders []models.Order)

	stop     chan struct{}
	stopOnce sync.Once
}

// NewTracker wires a tracker for the role's refresh cadence: 15s for the
// kitchen and delivery views, 30s for the admin overview. channel may be nil.
func NewTracker(c *client.Client, state *OrderState, role models.Role, channel *realtime.Channel) *Tracker {
	interval := 15 * time.Second
	if role == models.RoleAdmin {
		interval = 30 * time.Second
	}
	return &Tracker{
		client:   c,
		state:    state,
		role:     role,
		channel:  channel,
		Interval: interval,
		stop:     make(chan struct{}),
	}
}

// Refetch pulls the role's order set and applies it if still fresh. Safe to
// call concurrently from the ticker, the realtime channel and the transition
// controller. Background failures are logged and absorbed; the next trigger
// retries.
func (t *Tracker) Refetch() {
	seq := t.state.NextSeq()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := t.fetchForRole(ctx)
	if err != nil {
		log.Printf("tracker: refresh failed: %v", err)
		return
	}
	if t.state.Apply(seq, orders) && t.OnUpdate != nil {
		t.OnUpdate(orders)
	}
}

func (t *Tracker) fetchForRole(ctx context.Context) ([]models.Order, error) {
	switch t.role {
	case models.RoleChef:
		return t.client.ChefAssigned(ctx)
	case models.RoleDriver:
		available, err := t.client.DriverAvailable(ctx)
		if err != nil {
			return nil, err
		}
		assigned, err := t.client.DriverAssigned(ctx)
		if err != nil {
			return nil, err
		}
		return append(available, assigned...), nil
	default:
		return t.client.Orders(ctx)
	}
}

// Run blocks until Stop. The initial fetch happens first (the only one a UI
// would show a loading indicator for); after that both refresh triggers
// funnel into Refetch.
func (t *Tracker) Run() {
	t.Refetch()

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	var events <-chan models.ChangeNotification
	if t.channel != nil {
		events = t.channel.Events()
	}

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.Refetch()
		case note, ok := <-events:
			if !ok {
				// channel died; polling keeps the data fresh on its own
				events = nil
				continue
			}
			log.Printf("tracker: change notification (%s), refreshing", note.Kind())
			t.Refetch()
		}
	}
}

// Stop tears down the ticker loop and the realtime channel. Idempotent.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
		if t.channel != nil {
			t.channel.Close()
		}
	})
}
