package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMetrics indicates model metrics outside [0,1].
var ErrInvalidMetrics = errors.New("invalid model metrics")

// ModelMetrics are the evaluation scores of the last trained model.
type ModelMetrics struct {
	Accuracy float64
	F1       float64
	ROCAUC   float64
}

// Validate checks that every score lies in [0,1].
func (m ModelMetrics) Validate() error {
	scores := []struct {
		name  string
		value float64
	}{
		{"accuracy", m.Accuracy},
		{"f1", m.F1},
		{"roc_auc", m.ROCAUC},
	}
	for _, s := range scores {
		if math.IsNaN(s.value) || s.value < 0 || s.value > 1 {
			return fmt.Errorf("%w: %s=%v outside [0,1]", ErrInvalidMetrics, s.name, s.value)
		}
	}
	return nil
}
