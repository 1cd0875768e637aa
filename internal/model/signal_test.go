package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignalBundle(t *testing.T) {
	tests := []struct {
		name     string
		time     []float64
		normal   []float64
		abnormal []float64
		wantErr  bool
	}{
		{
			name:     "equal lengths",
			time:     []float64{0, 1, 2},
			normal:   []float64{0.1, 0.2, 0.1},
			abnormal: []float64{0.9, 0.1, 0.9},
		},
		{
			name: "all empty",
		},
		{
			name:     "short normal",
			time:     []float64{0, 1, 2},
			normal:   []float64{0.1, 0.2},
			abnormal: []float64{0.9, 0.1, 0.9},
			wantErr:  true,
		},
		{
			name:     "long abnormal",
			time:     []float64{0, 1},
			normal:   []float64{0.1, 0.2},
			abnormal: []float64{0.9, 0.1, 0.9},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewSignalBundle(tt.time, tt.normal, tt.abnormal)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrSignalShape)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.time), b.Len())
		})
	}
}

func TestSignalBundle_OwnsItsData(t *testing.T) {
	normal := []float64{0.1, 0.2}
	b, err := NewSignalBundle([]float64{0, 1}, normal, []float64{0.3, 0.4})
	require.NoError(t, err)

	normal[0] = 99
	assert.InDelta(t, 0.1, b.Normal[0], 1e-9)

	samples := b.Samples(ChannelNormal)
	samples[1] = 42
	assert.InDelta(t, 0.2, b.Normal[1], 1e-9)

	clone := b.Clone()
	clone.Time[0] = 7
	assert.InDelta(t, 0.0, b.Time[0], 1e-9)
	assert.Nil(t, (*SignalBundle)(nil).Clone())
}

func TestSignalBundle_Series(t *testing.T) {
	b, err := NewSignalBundle([]float64{0}, []float64{1}, []float64{2})
	require.NoError(t, err)

	assert.Equal(t, []float64{1}, b.Series(ChannelNormal))
	assert.Equal(t, []float64{2}, b.Series(ChannelAbnormal))

	var empty *SignalBundle
	assert.Nil(t, empty.Series(ChannelNormal))
	assert.Equal(t, 0, empty.Len())
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in      string
		want    Channel
		wantErr bool
	}{
		{in: "normal", want: ChannelNormal},
		{in: "Abnormal", want: ChannelAbnormal},
		{in: " ABNORMAL ", want: ChannelAbnormal},
		{in: "", want: ChannelNormal},
		{in: "lead-ii", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChannel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChannel_Toggle(t *testing.T) {
	assert.Equal(t, ChannelAbnormal, ChannelNormal.Toggle())
	assert.Equal(t, ChannelNormal, ChannelAbnormal.Toggle())
	assert.Equal(t, "Abnormal", ChannelAbnormal.Title())
	assert.Equal(t, "normal", ChannelNormal.String())
}
