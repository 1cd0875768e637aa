package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/ecgdash/internal/backend"
	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/Veraticus/ecgdash/internal/model"
	"github.com/google/uuid"
)

// failureMessages are the user-facing messages for failed remote calls.
var failureMessages = map[model.OperationKind]string{
	model.GenerateSignal: "Failed to generate ECG data",
	model.TrainModel:     "Failed to train model",
	model.ComputeRisk:    "Failed to calculate heart failure risk",
	model.RenderChart:    "Failed to fetch ECG chart",
}

// FailureMessage returns the user-facing message for a failed call of kind.
func FailureMessage(kind model.OperationKind) string {
	if msg, ok := failureMessages[kind]; ok {
		return msg
	}
	return "Operation failed"
}

// Call is a dispatched remote operation. Its payload is captured at dispatch
// time so later state changes cannot alter what is sent.
type Call struct {
	backend    Backend
	ID         string
	samples    []float64
	Kind       model.OperationKind
	Generation uint64
	Channel    model.Channel
	completed  bool
}

// Completion is the structured result of executing a Call.
type Completion struct {
	Data     any
	Err      error
	Call     *Call
	Duration time.Duration
}

// Samples returns a copy of the amplitudes sent with a ComputeRisk call.
func (c *Call) Samples() []float64 {
	return append([]float64(nil), c.samples...)
}

// Execute performs the remote call. It touches no dashboard state; hand the
// result to Core.Complete.
func (c *Call) Execute(ctx context.Context) Completion {
	ctx = backend.WithRequestID(ctx, c.ID)
	start := time.Now()

	var (
		data any
		err  error
	)
	switch c.Kind {
	case model.GenerateSignal:
		data, err = c.backend.GenerateECG(ctx)
	case model.TrainModel:
		data, err = c.backend.TrainModel(ctx)
	case model.ComputeRisk:
		data, err = c.backend.CalculateRisk(ctx, c.samples)
	case model.RenderChart:
		data, err = c.backend.PlotECG(ctx)
	default:
		err = fmt.Errorf("unknown operation kind %d", int(c.Kind))
	}
	if err != nil {
		data = nil
	}

	return Completion{Call: c, Data: data, Err: err, Duration: time.Since(start)}
}

// Dispatch starts kind: it checks the operation's data dependencies, marks the
// kind Pending and captures the call payload. A kind that is already pending
// yields ErrInvalidTransition and nothing else changes; callers should ignore
// that error.
func (c *Core) Dispatch(kind model.OperationKind) (*Call, error) {
	c.mu.Lock()

	if err := c.checkDependencies(kind); err != nil {
		c.setError(common.UserMessage(err, err.Error()))
		c.mu.Unlock()
		c.logger.Warn("Operation rejected", "op", kind.String(), "error", err)
		c.notifyRejected(kind.String(), err)
		return nil, err
	}

	if err := c.store.Begin(kind); err != nil {
		c.mu.Unlock()
		c.logger.Debug("Ignoring duplicate dispatch", "op", kind.String())
		c.notifyRejected(kind.String(), err)
		return nil, err
	}
	c.setError("")

	call := &Call{
		ID:         uuid.NewString(),
		Kind:       kind,
		Channel:    c.channel,
		Generation: c.store.Generation(),
		backend:    c.backend,
	}
	if kind == model.ComputeRisk {
		call.samples = c.store.Bundle().Samples(c.channel)
	}
	c.mu.Unlock()

	c.logger.Info("Operation dispatched",
		"op", kind.String(),
		"call_id", call.ID,
		"channel", call.Channel.String(),
		"samples", len(call.samples))
	c.notifyDispatched(kind.String())
	return call, nil
}

// Complete applies the result of an executed call and returns the resulting
// state of its kind.
func (c *Core) Complete(done Completion) model.OperationState {
	call := done.Call
	kind := call.Kind

	c.mu.Lock()
	if call.completed {
		state := c.store.State(kind)
		c.mu.Unlock()
		c.logger.Warn("Ignoring repeated completion", "op", kind.String(), "call_id", call.ID)
		return state
	}
	call.completed = true

	ev := Event{
		ID:        call.ID,
		Operation: kind.String(),
		At:        c.now(),
		Duration:  done.Duration,
	}

	err := done.Err
	if err == nil {
		if kind == model.ComputeRisk {
			if risk, ok := done.Data.(model.RiskAssessment); ok {
				risk.Channel = call.Channel
				done.Data = risk
			}
		}
		if c.staleRiskResult(call) {
			c.store.Reset(kind)
			ev.Outcome = OutcomeDiscarded
			state := c.store.State(kind)
			c.mu.Unlock()

			c.logger.Info("Discarding stale risk result",
				"call_id", call.ID,
				"requested_channel", call.Channel.String(),
				"requested_generation", call.Generation)
			c.notifyCompleted(ev)
			return state
		}
		err = c.store.Succeed(kind, done.Data)
	}

	if err != nil && !errors.Is(err, common.ErrInvalidTransition) {
		if ferr := c.store.Fail(kind, FailureMessage(kind)); ferr != nil {
			err = ferr
		}
	}
	if errors.Is(err, common.ErrInvalidTransition) {
		// Not pending: the result has nowhere to go, but observers still
		// need to see the call end.
		ev.Outcome = OutcomeDiscarded
		ev.Err = err
		state := c.store.State(kind)
		c.mu.Unlock()
		c.logger.Error("Completion for an operation that is not pending",
			"op", kind.String(), "call_id", call.ID, "error", err)
		c.notifyCompleted(ev)
		return state
	}

	if err != nil {
		message := FailureMessage(kind)
		c.setError(message)
		ev.Outcome = OutcomeFailed
		ev.Err = err
		ev.Message = message
	} else {
		ev.Outcome = OutcomeSucceeded
	}
	state := c.store.State(kind)
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("Operation failed",
			"op", kind.String(),
			"call_id", call.ID,
			"category", common.Category(err),
			"duration", done.Duration,
			"error", err)
	} else {
		c.logger.Info("Operation succeeded",
			"op", kind.String(),
			"call_id", call.ID,
			"duration", done.Duration)
	}
	c.notifyCompleted(ev)
	return state
}

// Invoke dispatches kind, waits for the remote call and applies its result.
// The returned error is the dispatch rejection or the remote failure.
func (c *Core) Invoke(ctx context.Context, kind model.OperationKind) (model.OperationState, error) {
	call, err := c.Dispatch(kind)
	if err != nil {
		return c.State(kind), err
	}
	done := call.Execute(ctx)
	state := c.Complete(done)
	if done.Err != nil {
		return state, done.Err
	}
	if state.HasError() {
		return state, fmt.Errorf("%s: %s", kind, state.ErrorMessage)
	}
	return state, nil
}

// staleRiskResult reports whether a risk result should be dropped under the
// configured policy. Callers hold c.mu.
func (c *Core) staleRiskResult(call *Call) bool {
	if call.Kind != model.ComputeRisk || c.staleRisk != StaleRiskDiscard {
		return false
	}
	return call.Channel != c.channel || call.Generation != c.store.Generation()
}
