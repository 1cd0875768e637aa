package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidRisk indicates a risk assessment outside its documented bounds.
var ErrInvalidRisk = errors.New("invalid risk assessment")

// RiskLevel is the coarse heart failure risk bucket.
type RiskLevel string

// Risk levels.
const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// ParseRiskLevel converts a backend risk level string, ignoring case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, nil
	case "moderate", "medium":
		return RiskModerate, nil
	case "high":
		return RiskHigh, nil
	default:
		return "", fmt.Errorf("%w: unknown risk level %q", ErrInvalidRisk, s)
	}
}

// RiskAssessment is the result of a heart failure risk computation for one channel.
type RiskAssessment struct {
	Level              RiskLevel
	Factors            []string
	Recommendations    []string
	ProbabilityPercent float64
	Channel            Channel
}

// Validate checks the probability range and level.
func (r RiskAssessment) Validate() error {
	if math.IsNaN(r.ProbabilityPercent) || r.ProbabilityPercent < 0 || r.ProbabilityPercent > 100 {
		return fmt.Errorf("%w: probability %v outside [0,100]", ErrInvalidRisk, r.ProbabilityPercent)
	}
	switch r.Level {
	case RiskLow, RiskModerate, RiskHigh:
	default:
		return fmt.Errorf("%w: unknown risk level %q", ErrInvalidRisk, r.Level)
	}
	return nil
}

// Clone returns a deep copy of the assessment.
func (r RiskAssessment) Clone() RiskAssessment {
	out := r
	out.Factors = append([]string(nil), r.Factors...)
	out.Recommendations = append([]string(nil), r.Recommendations...)
	return out
}

// HasFactors returns true if the backend reported any risk factors.
func (r RiskAssessment) HasFactors() bool {
	return len(r.Factors) > 0
}
