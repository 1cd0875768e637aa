package dashboard

import "github.com/Veraticus/ecgdash/internal/model"

// Snapshot is a read-only copy of the dashboard state for rendering.
type Snapshot struct {
	Bundle       *model.SignalBundle
	Metrics      *model.ModelMetrics
	Risk         *model.RiskAssessment
	Chart        *model.ChartImage
	ErrorMessage string
	Series       []model.Point
	Operations   [model.OperationKindCount]model.OperationState
	Level        float64
	Generation   uint64
	Channel      model.Channel
}

// Snapshot copies the current state. The projected series is recomputed on
// every call.
func (c *Core) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Channel:      c.channel,
		Level:        c.level,
		ErrorMessage: c.errorMessage,
		Generation:   c.store.Generation(),
		Series:       Project(c.store.Bundle(), c.channel),
	}
	for _, kind := range model.AllOperationKinds() {
		snap.Operations[kind] = c.store.State(kind)
	}
	snap.Bundle = c.store.Bundle().Clone()
	if m := c.store.Metrics(); m != nil {
		metrics := *m
		snap.Metrics = &metrics
	}
	if r := c.store.Risk(); r != nil {
		risk := r.Clone()
		snap.Risk = &risk
	}
	if ch := c.store.Chart(); ch != nil {
		snap.Chart = &model.ChartImage{
			Encoded: ch.Encoded,
			Data:    append([]byte(nil), ch.Data...),
		}
	}
	return snap
}

// State returns the captured state of kind.
func (s Snapshot) State(kind model.OperationKind) model.OperationState {
	if !kind.Valid() {
		return model.OperationState{Kind: kind}
	}
	return s.Operations[kind]
}

// HasSignal reports whether a signal bundle had been generated.
func (s Snapshot) HasSignal() bool {
	return s.Bundle != nil
}

// AnyPending reports whether any remote operation was in flight.
func (s Snapshot) AnyPending() bool {
	for _, st := range s.Operations {
		if st.IsPending() {
			return true
		}
	}
	return false
}
