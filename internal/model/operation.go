// Package model defines the domain models shared by the dashboard core, the
// backend transport and the views.
package model

import "fmt"

// OperationKind identifies one of the independently tracked backend operations.
type OperationKind int

// Operation kinds, in display order.
const (
	GenerateSignal OperationKind = iota
	TrainModel
	ComputeRisk
	RenderChart
)

// OperationKindCount is the number of operation kinds.
const OperationKindCount = 4

// AllOperationKinds returns every operation kind in display order.
func AllOperationKinds() []OperationKind {
	return []OperationKind{GenerateSignal, TrainModel, ComputeRisk, RenderChart}
}

// Valid reports whether k is a known operation kind.
func (k OperationKind) Valid() bool {
	return k >= GenerateSignal && k <= RenderChart
}

func (k OperationKind) String() string {
	switch k {
	case GenerateSignal:
		return "generate_signal"
	case TrainModel:
		return "train_model"
	case ComputeRisk:
		return "compute_risk"
	case RenderChart:
		return "render_chart"
	default:
		return fmt.Sprintf("operation(%d)", int(k))
	}
}

// Label returns the caption shown on the operation's action.
func (k OperationKind) Label() string {
	switch k {
	case GenerateSignal:
		return "Generate ECG"
	case TrainModel:
		return "Train Model"
	case ComputeRisk:
		return "Calculate Heart Failure Risk"
	case RenderChart:
		return "View ECG Chart"
	default:
		return k.String()
	}
}

// OperationStatus is the lifecycle status of an operation kind.
type OperationStatus int

// Operation statuses.
const (
	StatusIdle OperationStatus = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s OperationStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// OperationState is the live status of a single operation kind.
type OperationState struct {
	ErrorMessage string
	Kind         OperationKind
	Status       OperationStatus
}

// IsPending returns true while a remote call for the kind is in flight.
func (s OperationState) IsPending() bool {
	return s.Status == StatusPending
}

// HasError returns true if the last call for the kind failed.
func (s OperationState) HasError() bool {
	return s.Status == StatusFailed
}
