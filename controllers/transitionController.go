package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-restaurant-tracker/client"
	"go-restaurant-tracker/models"
)

// ErrActionNotAllowed means the current role does not carry the verb at all
// (a chef cannot pickup, a customer cannot do anything).
var ErrActionNotAllowed = errors.New("action not allowed for role")

// InvalidTransitionError is the client-side guard against illegal status
// changes. It fires before any network call is made.
type InvalidTransitionError struct {
	Order_id string
	From     models.Status
	Action   models.Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s: cannot %s from status %s", e.Order_id, e.Action, e.From)
}

var roleActions = map[models.Role][]models.Action{
	models.RoleChef: {
		models.ActionCompleteCooking,
		models.ActionCompletePacking,
	},
	models.RoleDriver: {
		models.ActionPickup,
		models.ActionCompleteDelivery,
		models.ActionCancelDelivery,
	},
}

func actionAllowed(role models.Role, action models.Action) bool {
	for _, a := range roleActions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// TransitionController issues role-scoped status changes as a two-phase
// commit: an optimistic tentative update first, then the API call, then
// either a promote plus silent re-fetch or a rollback plus a single delayed
// retry re-fetch. State is never left tentative past the retry window.
type TransitionController struct {
	client *client.Client
	state  *OrderState
	role   models.Role

	refetch    func()
	retryDelay time.Duration

	// OnError receives the user-visible failure feedback for a mutation.
	OnError func(orderID string, err error)
}

func NewTransitionController(c *client.Client, state *OrderState, role models.Role, refetch func()) *TransitionController {
	return &TransitionController{
		client:     c,
		state:      state,
		role:       role,
		refetch:    refetch,
		retryDelay: 3 * time.Second,
	}
}

// Transition performs one verb against one order. Terminal orders and
// foreign verbs are rejected locally; nothing goes on the wire for them.
func (tc *TransitionController) Transition(ctx context.Context, orderID string, action models.Action) error {
	if !actionAllowed(tc.role, action) {
		return fmt.Errorf("%w: %s may not %s", ErrActionNotAllowed, tc.role, action)
	}
	order, ok := tc.state.Get(orderID)
	if !ok {
		return fmt.Errorf("unknown order %s", orderID)
	}
	current := order.DisplayStatus()
	if current.IsTerminal() {
		return &InvalidTransitionError{Order_id: orderID, From: current, Action: action}
	}

	next, call := tc.plan(action)
	tc.state.ApplyTentative(orderID, next)

	if err := call(ctx, orderID); err != nil {
		tc.state.Rollback(orderID)
		if tc.OnError != nil {
			tc.OnError(orderID, err)
		}
		// one bounded retry re-fetch restores consistency with the server
		time.AfterFunc(tc.retryDelay, tc.refetch)
		return err
	}

	tc.state.Promote(orderID)
	go tc.refetch() // silent re-sync against the source of truth
	return nil
}

// plan maps a verb to its optimistic target status and its endpoint.
func (tc *TransitionController) plan(action models.Action) (models.Status, func(context.Context, string) error) {
	switch action {
	case models.ActionPickup:
		return models.StatusDispatched, tc.client.DriverPickup
	case models.ActionCompleteDelivery:
		return models.StatusDelivered, tc.client.DriverComplete
	case models.ActionCancelDelivery:
		return models.StatusCancelled, tc.client.DriverCancel
	case models.ActionCompleteCooking:
		return models.StatusPacking, tc.client.ChefCompleteCooking
	default: // models.ActionCompletePacking, guarded by actionAllowed
		return models.StatusReady, tc.client.ChefCompletePacking
	}
}
