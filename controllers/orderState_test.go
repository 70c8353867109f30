package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-restaurant-tracker/models"
)

func ord(id string, status models.Status) models.Order {
	return models.Order{Order_id: id, Status: status}
}

func TestOrderStateStaleResponseDiscarded(t *testing.T) {
	state := NewOrderState()

	seqOld := state.NextSeq()
	seqNew := state.NextSeq()

	// the later-issued fetch resolves first
	require.True(t, state.Apply(seqNew, []models.Order{ord("ORD002", models.StatusReady)}))
	// the older one straggles in afterwards and must be dropped
	assert.False(t, state.Apply(seqOld, []models.Order{ord("ORD001", models.StatusPending)}))

	orders := state.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD002", orders[0].Order_id)
}

func TestOrderStateTentativeRollback(t *testing.T) {
	state := NewOrderState()
	state.Apply(state.NextSeq(), []models.Order{ord("ORD001", models.StatusReady)})

	require.True(t, state.ApplyTentative("ORD001", models.StatusDispatched))
	assert.True(t, state.HasTentative("ORD001"))
	got, _ := state.Get("ORD001")
	assert.Equal(t, models.StatusDispatched, got.Status)

	// a second tentative write keeps the original rollback point
	state.ApplyTentative("ORD001", models.StatusDelivered)
	state.Rollback("ORD001")

	got, _ = state.Get("ORD001")
	assert.Equal(t, models.StatusReady, got.Status)
	assert.False(t, state.HasTentative("ORD001"))
}

func TestOrderStatePromoteClearsTentative(t *testing.T) {
	state := NewOrderState()
	state.Apply(state.NextSeq(), []models.Order{ord("ORD001", models.StatusReady)})

	state.ApplyTentative("ORD001", models.StatusDispatched)
	state.Promote("ORD001")
	assert.False(t, state.HasTentative("ORD001"))

	got, _ := state.Get("ORD001")
	assert.Equal(t, models.StatusDispatched, got.Status)
}

func TestOrderStateApplyClearsTentative(t *testing.T) {
	state := NewOrderState()
	state.Apply(state.NextSeq(), []models.Order{ord("ORD001", models.StatusReady)})
	state.ApplyTentative("ORD001", models.StatusDispatched)

	// server truth replaces everything
	state.Apply(state.NextSeq(), []models.Order{ord("ORD001", models.StatusCancelled)})
	assert.False(t, state.HasTentative("ORD001"))
	got, _ := state.Get("ORD001")
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestOrderStateApplyTentativeUnknownOrder(t *testing.T) {
	state := NewOrderState()
	assert.False(t, state.ApplyTentative("NOPE", models.StatusReady))
}
