package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSignalShape indicates a signal bundle whose series lengths disagree.
var ErrSignalShape = errors.New("signal series lengths differ")

// Channel selects which amplitude series of a bundle is active.
type Channel int

// Channels. Normal is the default.
const (
	ChannelNormal Channel = iota
	ChannelAbnormal
)

// ParseChannel converts a channel name ("normal" or "abnormal") to a Channel.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return ChannelNormal, nil
	case "abnormal":
		return ChannelAbnormal, nil
	default:
		return ChannelNormal, fmt.Errorf("unknown channel %q (want normal or abnormal)", s)
	}
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelNormal || c == ChannelAbnormal
}

// Toggle returns the other channel.
func (c Channel) Toggle() Channel {
	if c == ChannelAbnormal {
		return ChannelNormal
	}
	return ChannelAbnormal
}

func (c Channel) String() string {
	if c == ChannelAbnormal {
		return "abnormal"
	}
	return "normal"
}

// Title returns the display name of the channel.
func (c Channel) Title() string {
	if c == ChannelAbnormal {
		return "Abnormal"
	}
	return "Normal"
}

// SignalBundle is a synthetic ECG dataset: a time axis and two amplitude series.
// A bundle is never modified after construction.
type SignalBundle struct {
	Time     []float64
	Normal   []float64
	Abnormal []float64
}

// NewSignalBundle builds a validated bundle that owns copies of its inputs.
func NewSignalBundle(time, normal, abnormal []float64) (*SignalBundle, error) {
	b := &SignalBundle{
		Time:     cloneFloats(time),
		Normal:   cloneFloats(normal),
		Abnormal: cloneFloats(abnormal),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks that all three series have the same length.
func (b *SignalBundle) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: bundle is nil", ErrSignalShape)
	}
	if len(b.Normal) != len(b.Time) || len(b.Abnormal) != len(b.Time) {
		return fmt.Errorf("%w: time=%d normal=%d abnormal=%d",
			ErrSignalShape, len(b.Time), len(b.Normal), len(b.Abnormal))
	}
	return nil
}

// Len returns the number of samples.
func (b *SignalBundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Time)
}

// Series returns the amplitude series of the channel without copying.
func (b *SignalBundle) Series(ch Channel) []float64 {
	if b == nil {
		return nil
	}
	if ch == ChannelAbnormal {
		return b.Abnormal
	}
	return b.Normal
}

// Samples returns a copy of the amplitude series of the channel.
func (b *SignalBundle) Samples(ch Channel) []float64 {
	return cloneFloats(b.Series(ch))
}

// Clone returns a deep copy of the bundle.
func (b *SignalBundle) Clone() *SignalBundle {
	if b == nil {
		return nil
	}
	return &SignalBundle{
		Time:     cloneFloats(b.Time),
		Normal:   cloneFloats(b.Normal),
		Abnormal: cloneFloats(b.Abnormal),
	}
}

// Point is a single plot-ready sample.
type Point struct {
	Time      float64
	Amplitude float64
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
