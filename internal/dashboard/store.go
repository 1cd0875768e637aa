package dashboard

import (
	"fmt"

	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/Veraticus/ecgdash/internal/model"
)

// Store holds the per-operation status and the result slots. It performs no
// I/O and no locking; the Core serializes access.
type Store struct {
	bundle     *model.SignalBundle
	metrics    *model.ModelMetrics
	risk       *model.RiskAssessment
	chart      *model.ChartImage
	states     [model.OperationKindCount]model.OperationState
	generation uint64
}

// NewStore returns a store with every operation Idle and no results.
func NewStore() *Store {
	s := &Store{}
	for _, kind := range model.AllOperationKinds() {
		s.states[kind] = model.OperationState{Kind: kind, Status: model.StatusIdle}
	}
	return s
}

// State returns the current state of an operation kind.
func (s *Store) State(kind model.OperationKind) model.OperationState {
	if !kind.Valid() {
		return model.OperationState{Kind: kind}
	}
	return s.states[kind]
}

// Begin marks kind as Pending. A kind that is already Pending is rejected with
// ErrInvalidTransition, so at most one call per kind is ever in flight.
func (s *Store) Begin(kind model.OperationKind) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	st := &s.states[kind]
	if st.Status == model.StatusPending {
		return fmt.Errorf("%w: %s is already pending", common.ErrInvalidTransition, kind)
	}
	st.Status = model.StatusPending
	st.ErrorMessage = ""
	return nil
}

// Succeed stores data in the slot owned by kind and marks it Succeeded.
// Data of the wrong type, or a bundle whose series differ in length, is
// rejected with ErrUnexpectedResult and the kind stays Pending. Bundles are
// copied on the way in.
func (s *Store) Succeed(kind model.OperationKind, data any) error {
	if err := s.requirePending(kind); err != nil {
		return err
	}

	switch kind {
	case model.GenerateSignal:
		bundle, ok := data.(*model.SignalBundle)
		if !ok || bundle == nil {
			return unexpected(kind, data)
		}
		if err := bundle.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", common.ErrUnexpectedResult, kind, err)
		}
		s.bundle = bundle.Clone()
		s.risk = nil
		s.generation++
	case model.TrainModel:
		metrics, ok := data.(model.ModelMetrics)
		if !ok {
			return unexpected(kind, data)
		}
		s.metrics = &metrics
	case model.ComputeRisk:
		risk, ok := data.(model.RiskAssessment)
		if !ok {
			return unexpected(kind, data)
		}
		s.risk = &risk
	case model.RenderChart:
		chart, ok := data.(*model.ChartImage)
		if !ok || chart == nil {
			return unexpected(kind, data)
		}
		s.chart = chart
	}

	s.states[kind].Status = model.StatusSucceeded
	s.states[kind].ErrorMessage = ""
	return nil
}

// Fail marks kind as Failed with message. The result slot keeps whatever it
// held before.
func (s *Store) Fail(kind model.OperationKind, message string) error {
	if err := s.requirePending(kind); err != nil {
		return err
	}
	s.states[kind].Status = model.StatusFailed
	s.states[kind].ErrorMessage = message
	return nil
}

// Reset returns kind to Idle without touching its result slot.
func (s *Store) Reset(kind model.OperationKind) {
	if !kind.Valid() {
		return
	}
	s.states[kind].Status = model.StatusIdle
	s.states[kind].ErrorMessage = ""
}

// Bundle returns the current signal bundle, or nil.
func (s *Store) Bundle() *model.SignalBundle { return s.bundle }

// Metrics returns the latest model metrics, or nil.
func (s *Store) Metrics() *model.ModelMetrics { return s.metrics }

// Risk returns the current risk assessment, or nil.
func (s *Store) Risk() *model.RiskAssessment { return s.risk }

// Chart returns the latest rendered chart, or nil.
func (s *Store) Chart() *model.ChartImage { return s.chart }

// Generation counts successful signal generations.
func (s *Store) Generation() uint64 { return s.generation }

// ClearRisk drops the current risk assessment.
func (s *Store) ClearRisk() { s.risk = nil }

func (s *Store) requirePending(kind model.OperationKind) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	if s.states[kind].Status != model.StatusPending {
		return fmt.Errorf("%w: %s is %s, not pending",
			common.ErrInvalidTransition, kind, s.states[kind].Status)
	}
	return nil
}

func checkKind(kind model.OperationKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown operation kind %d", common.ErrInvalidTransition, int(kind))
	}
	return nil
}

func unexpected(kind model.OperationKind, data any) error {
	return fmt.Errorf("%w: %s cannot store %T", common.ErrUnexpectedResult, kind, data)
}
