package controllers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-restaurant-tracker/client"
	"go-restaurant-tracker/models"
)

func TestTrackerRefetchPerRole(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"ORD001","status":"ready"}]}`))
	}))
	defer srv.Close()
	c := client.New(srv.URL)

	chef := NewTracker(c, NewOrderState(), models.RoleChef, nil)
	chef.Refetch()
	assert.Equal(t, []string{"/chef/assigned"}, paths)

	paths = nil
	driver := NewTracker(c, NewOrderState(), models.RoleDriver, nil)
	driver.Refetch()
	assert.Equal(t, []string{"/driver/available", "/driver/assigned"}, paths)

	paths = nil
	admin := NewTracker(c, NewOrderState(), models.RoleAdmin, nil)
	admin.Refetch()
	assert.Equal(t, []string{"/orders"}, paths)
}

func TestTrackerIntervalsPerRole(t *testing.T) {
	c := client.New("http://example.invalid")
	assert.Equal(t, 15*time.Second, NewTracker(c, NewOrderState(), models.RoleChef, nil).Interval)
	assert.Equal(t, 15*time.Second, NewTracker(c, NewOrderState(), models.RoleDriver, nil).Interval)
	assert.Equal(t, 30*time.Second, NewTracker(c, NewOrderState(), models.RoleAdmin, nil).Interval)
}

func TestTrackerPollsAndStops(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	state := NewOrderState()
	tracker := NewTracker(client.New(srv.URL), state, models.RoleAdmin, nil)
	tracker.Interval = 20 * time.Millisecond

	updates := make(chan int, 64)
	tracker.OnUpdate = func(orders []models.Order) { updates <- len(orders) }

	done := make(chan struct{})
	go func() {
		tracker.Run()
		close(done)
	}()

	// initial fetch plus at least one tick
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, 2*time.Second, 5*time.Millisecond)

	tracker.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not stop")
	}

	// no further polls after teardown
	settled := atomic.LoadInt32(&calls)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt32(&calls))
	assert.NotEmpty(t, updates)

	// Stop is idempotent
	tracker.Stop()
}

func TestTrackerRefetchAbsorbsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	state := NewOrderState()
	state.Apply(state.NextSeq(), []models.Order{ord("ORD001", models.StatusReady)})

	tracker := NewTracker(client.New(srv.URL), state, models.RoleAdmin, nil)
	tracker.Refetch() // must not panic and must not wipe the list

	orders := state.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD001", orders[0].Order_id)
}
