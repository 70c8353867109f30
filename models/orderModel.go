package models

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCooking    Status = "cooking"
	StatusPacking    Status = "packing"
	StatusReady      Status = "ready"
	StatusDispatched Status = "dispatched"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusUnknown    Status = "unknown"
)

// Canonical collapses backend status aliases onto the lifecycle enum.
// Some deployments report "in_progress" instead of "cooking" and
// "in_delivery" instead of "dispatched"; both spellings must group together.
// Anything unrecognized maps to StatusUnknown so it is never dropped.
func (s Status) Canonical() Status {
	switch Status(strings.ToLower(strings.TrimSpace(string(s)))) {
	case StatusPending:
		return StatusPending
	case StatusConfirmed:
		return StatusConfirmed
	case StatusCooking, "in_progress", "preparing":
		return StatusCooking
	case StatusPacking:
		return StatusPacking
	case StatusReady:
		return StatusReady
	case StatusDispatched, "in_delivery", "in_transit":
		return StatusDispatched
	case StatusDelivered:
		return StatusDelivered
	case StatusCancelled:
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	c := s.Canonical()
	return c == StatusDelivered || c == StatusCancelled
}

// Action is a role-scoped transition verb. Drivers and chefs never set a raw
// status; they only issue these.
type Action string

const (
	ActionPickup           Action = "pickup"
	ActionCompleteDelivery Action = "complete_delivery"
	ActionCancelDelivery   Action = "cancel_delivery"
	ActionCompleteCooking  Action = "complete_cooking"
	ActionCompletePacking  Action = "complete_packing"
)

type OrderItem struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"qty"`
	Unit_price float64 `json:"unit_price"`
}

type Order struct {
	Order_id         string         `json:"id"`
	Customer         string         `json:"customer"`
	Phone            string         `json:"phone,omitempty"`
	Delivery_address *string        `json:"deliveryAddress,omitempty"` // nil for dine-in
	Items            []OrderItem    `json:"items"`
	Total_amount     float64        `json:"total"`
	Status           Status         `json:"status"`
	Created_at       time.Time      `json:"createdAt"`
	Chef_id          *string        `json:"chef_id,omitempty"`
	Driver_id        *string        `json:"driver_id,omitempty"`
	Estimated_time   *int           `json:"estimatedTime,omitempty"` // minutes
	Time_elapsed     *int           `json:"timeElapsed,omitempty"`   // minutes
	Steps            []WorkflowStep `json:"steps,omitempty"`
}

// Subtotal is the total derived from the items. The backend may also supply
// a precomputed Total_amount and the two can disagree; both are kept.
func (o Order) Subtotal() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += float64(item.Quantity) * item.Unit_price
	}
	return sum
}

// DisplayTotal prefers the supplied total and falls back to the derived one.
func (o Order) DisplayTotal() float64 {
	if o.Total_amount > 0 {
		return o.Total_amount
	}
	return o.Subtotal()
}

// DisplayStatus is the one status the UI shows. When workflow steps are
// present they are the source of truth; otherwise the order's own status
// field is. A cancelled order stays cancelled no matter what its steps say.
func (o Order) DisplayStatus() Status {
	st := o.Status.Canonical()
	if st == StatusCancelled {
		return StatusCancelled
	}
	if len(o.Steps) == 0 {
		return st
	}
	return StatusFromSteps(o.Steps)
}

// StatusFromSteps maps a step sequence onto the order lifecycle. The first
// stage that has not completed decides:
//
//	cooking not started   -> pending
//	cooking in progress   -> cooking
//	cooking done          -> packing (until packing completes)
//	packing done          -> ready
//	delivery in progress  -> dispatched
//	delivery done         -> delivered
func StatusFromSteps(steps []WorkflowStep) Status {
	var cooking, packing, delivery *WorkflowStep
	for i := range steps {
		switch steps[i].Stage {
		case StageCooking:
			if cooking == nil {
				cooking = &steps[i]
			}
		case StagePacking:
			if packing == nil {
				packing = &steps[i]
			}
		case StageDelivery:
			if delivery == nil {
				delivery = &steps[i]
			}
		}
	}
	if cooking == nil && packing == nil && delivery == nil {
		return StatusUnknown
	}
	if cooking != nil && cooking.Status != StepCompleted {
		if cooking.Status == StepInProgress {
			return StatusCooking
		}
		return StatusPending
	}
	if packing != nil && packing.Status != StepCompleted {
		return StatusPacking
	}
	if delivery != nil {
		switch delivery.Status {
		case StepCompleted:
			return StatusDelivered
		case StepInProgress:
			return StatusDispatched
		default:
			return StatusReady
		}
	}
	// dine-in orders have no delivery stage
	return StatusReady
}
