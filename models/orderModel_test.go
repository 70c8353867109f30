package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanonicalAliases(t *testing.T) {
	assert.Equal(t, StatusCooking, Status("in_progress").Canonical())
	assert.Equal(t, StatusCooking, Status("cooking").Canonical())
	assert.Equal(t, StatusDispatched, Status("in_delivery").Canonical())
	assert.Equal(t, StatusDispatched, Status("dispatched").Canonical())
	assert.Equal(t, StatusPending, Status(" Pending ").Canonical())
	assert.Equal(t, StatusUnknown, Status("weird_state").Canonical())
	assert.Equal(t, StatusUnknown, Status("").Canonical())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusReady.IsTerminal())
	assert.False(t, Status("in_delivery").IsTerminal())
	assert.False(t, StatusUnknown.IsTerminal())
}

func TestSubtotalAndDisplayTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Name: "Ceviche Clásico", Quantity: 2, Unit_price: 16.50},
			{Name: "Chicha Morada", Quantity: 1, Unit_price: 7.00},
		},
	}
	assert.InDelta(t, 40.0, order.Subtotal(), 0.001)
	// no supplied total: derived wins
	assert.InDelta(t, 40.0, order.DisplayTotal(), 0.001)

	// backend-supplied total disagrees; it is shown, the derived one is kept
	order.Total_amount = 45.50
	assert.InDelta(t, 45.50, order.DisplayTotal(), 0.001)
	assert.InDelta(t, 40.0, order.Subtotal(), 0.001)
}

func TestDisplayStatusWithoutSteps(t *testing.T) {
	assert.Equal(t, StatusCooking, Order{Status: "in_progress"}.DisplayStatus())
	assert.Equal(t, StatusUnknown, Order{Status: "???"}.DisplayStatus())
}

func TestDisplayStatusFromSteps(t *testing.T) {
	mk := func(cooking, packing, delivery StepStatus) Order {
		return Order{
			Status: StatusPending, // stale on purpose: steps win
			Steps: []WorkflowStep{
				{Step_id: "1", Stage: StageCooking, Status: cooking},
				{Step_id: "2", Stage: StagePacking, Status: packing},
				{Step_id: "3", Stage: StageDelivery, Status: delivery},
			},
		}
	}

	assert.Equal(t, StatusPending, mk(StepPending, StepPending, StepPending).DisplayStatus())
	assert.Equal(t, StatusCooking, mk(StepInProgress, StepPending, StepPending).DisplayStatus())
	assert.Equal(t, StatusPacking, mk(StepCompleted, StepPending, StepPending).DisplayStatus())
	assert.Equal(t, StatusPacking, mk(StepCompleted, StepInProgress, StepPending).DisplayStatus())
	assert.Equal(t, StatusReady, mk(StepCompleted, StepCompleted, StepPending).DisplayStatus())
	assert.Equal(t, StatusDispatched, mk(StepCompleted, StepCompleted, StepInProgress).DisplayStatus())
	assert.Equal(t, StatusDelivered, mk(StepCompleted, StepCompleted, StepCompleted).DisplayStatus())
}

func TestDisplayStatusCancelledWins(t *testing.T) {
	order := Order{
		Status: StatusCancelled,
		Steps: []WorkflowStep{
			{Step_id: "1", Stage: StageCooking, Status: StepInProgress},
		},
	}
	assert.Equal(t, StatusCancelled, order.DisplayStatus())
}

func TestDisplayStatusDeterministic(t *testing.T) {
	order := Order{
		Status: StatusCooking,
		Steps: []WorkflowStep{
			{Step_id: "1", Stage: StageCooking, Status: StepCompleted},
			{Step_id: "2", Stage: StagePacking, Status: StepInProgress},
		},
	}
	first := order.DisplayStatus()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, order.DisplayStatus())
	}
}

func TestStatusFromStepsDineIn(t *testing.T) {
	// dine-in orders carry no delivery stage
	steps := []WorkflowStep{
		{Step_id: "1", Stage: StageCooking, Status: StepCompleted},
		{Step_id: "2", Stage: StagePacking, Status: StepCompleted},
	}
	assert.Equal(t, StatusReady, StatusFromSteps(steps))
	assert.Equal(t, StatusUnknown, StatusFromSteps([]WorkflowStep{{Step_id: "x", Stage: "polishing"}}))
}
