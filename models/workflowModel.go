package models

import "time"

type Stage string

const (
	StageCooking  Stage = "cooking"
	StagePacking  Stage = "packing"
	StageDelivery Stage = "delivery"
)

type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
)

// WorkflowStep is one fulfillment stage of an order. Steps are append-only
// server-side; only status, assignee and timestamps ever change.
type WorkflowStep struct {
	Step_id     string     `json:"id"`
	Order_id    string     `json:"orderId,omitempty"`
	Stage       Stage      `json:"stepType"`
	Role        string     `json:"role,omitempty"`
	Status      StepStatus `json:"status"`
	Start_time  *time.Time `json:"startTime,omitempty"`
	End_time    *time.Time `json:"endTime,omitempty"`
	Assigned_to string     `json:"assignedTo,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// OrderWorkflow is the shape returned by GET /workflow: one entry per order
// with its full step sequence.
type OrderWorkflow struct {
	Order_id string         `json:"orderId"`
	Customer string         `json:"customer,omitempty"`
	Steps    []WorkflowStep `json:"steps"`
}

// StepPatch is the writable subset of a workflow step.
type StepPatch struct {
	Status      StepStatus `json:"status,omitempty"`
	Assigned_to string     `json:"assignedTo,omitempty"`
	Note        string     `json:"note,omitempty"`
	Updated_at  string     `json:"updatedAt,omitempty"`
}
