// Package dashboard implements the client-side orchestration core of the ECG
// dashboard: operation status tracking, remote dispatch, dependency checks,
// signal projection, abnormality level streaming and channel switching.
package dashboard

import (
	"context"
	"time"

	"github.com/Veraticus/ecgdash/internal/model"
)

// Backend defines the contract for the remote ECG service.
type Backend interface {
	GenerateECG(ctx context.Context) (*model.SignalBundle, error)
	TrainModel(ctx context.Context) (model.ModelMetrics, error)
	CalculateRisk(ctx context.Context, samples []float64) (model.RiskAssessment, error)
	PlotECG(ctx context.Context) (*model.ChartImage, error)
	SetAbnormalityLevel(ctx context.Context, level float64) error
}

// Outcome is how a remote call ended from the core's point of view.
type Outcome string

// Outcomes.
const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeDiscarded Outcome = "discarded"
)

// OperationSetLevel names abnormality level updates in events.
const OperationSetLevel = "set_abnormality_level"

// Event describes a finished remote call.
type Event struct {
	At        time.Time
	Err       error
	ID        string
	Operation string
	Outcome   Outcome
	Message   string
	Duration  time.Duration
}

// Observer receives notifications about remote calls. Implementations must be
// safe for concurrent use and must not call back into the Core.
type Observer interface {
	OperationDispatched(operation string)
	OperationCompleted(ev Event)
	OperationRejected(operation string, err error)
}
