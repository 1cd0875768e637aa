package dashboard

import (
	"testing"

	"github.com/Veraticus/ecgdash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	bundle, err := model.NewSignalBundle(
		[]float64{0, 1, 2},
		[]float64{0.1, 0.2, 0.1},
		[]float64{0.9, 0.1, 0.9},
	)
	require.NoError(t, err)

	tests := []struct {
		bundle  *model.SignalBundle
		name    string
		want    []model.Point
		channel model.Channel
	}{
		{
			name:    "normal",
			bundle:  bundle,
			channel: model.ChannelNormal,
			want:    []model.Point{{Time: 0, Amplitude: 0.1}, {Time: 1, Amplitude: 0.2}, {Time: 2, Amplitude: 0.1}},
		},
		{
			name:    "abnormal",
			bundle:  bundle,
			channel: model.ChannelAbnormal,
			want:    []model.Point{{Time: 0, Amplitude: 0.9}, {Time: 1, Amplitude: 0.1}, {Time: 2, Amplitude: 0.9}},
		},
		{
			name:    "nil bundle",
			bundle:  nil,
			channel: model.ChannelNormal,
			want:    []model.Point{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.bundle, tt.channel)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProject_LengthAndValues(t *testing.T) {
	for _, n := range []int{0, 1, 17, 500} {
		time := make([]float64, n)
		normal := make([]float64, n)
		abnormal := make([]float64, n)
		for i := 0; i < n; i++ {
			time[i] = float64(i) / 250
			normal[i] = float64(i % 7)
			abnormal[i] = -float64(i % 11)
		}
		bundle, err := model.NewSignalBundle(time, normal, abnormal)
		require.NoError(t, err)

		for _, ch := range []model.Channel{model.ChannelNormal, model.ChannelAbnormal} {
			points := Project(bundle, ch)
			require.Len(t, points, len(bundle.Time))
			series := bundle.Series(ch)
			for i, p := range points {
				assert.Equal(t, bundle.Time[i], p.Time)
				assert.Equal(t, series[i], p.Amplitude)
			}
		}
	}
}

func TestProject_DoesNotAliasBundle(t *testing.T) {
	bundle, err := model.NewSignalBundle([]float64{0}, []float64{1}, []float64{2})
	require.NoError(t, err)

	points := Project(bundle, model.ChannelNormal)
	points[0].Amplitude = 99
	assert.Equal(t, []float64{1}, bundle.Normal)
}
