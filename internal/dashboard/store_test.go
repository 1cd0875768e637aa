package dashboard

import (
	"testing"

	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/Veraticus/ecgdash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_AllIdle(t *testing.T) {
	s := NewStore()
	for _, kind := range model.AllOperationKinds() {
		st := s.State(kind)
		assert.Equal(t, kind, st.Kind)
		assert.Equal(t, model.StatusIdle, st.Status)
		assert.Empty(t, st.ErrorMessage)
	}
	assert.Nil(t, s.Bundle())
	assert.Nil(t, s.Metrics())
	assert.Nil(t, s.Risk())
	assert.Nil(t, s.Chart())
}

func TestStore_BeginAtMostOncePerKind(t *testing.T) {
	for _, kind := range model.AllOperationKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			s := NewStore()
			accepted := 0
			for i := 0; i < 10; i++ {
				err := s.Begin(kind)
				if err == nil {
					accepted++
					continue
				}
				require.ErrorIs(t, err, common.ErrInvalidTransition)
			}
			assert.Equal(t, 1, accepted)
			assert.Equal(t, model.StatusPending, s.State(kind).Status)
		})
	}
}

func TestStore_KindsAreIndependent(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Begin(model.GenerateSignal))
	require.NoError(t, s.Begin(model.TrainModel))

	require.NoError(t, s.Fail(model.TrainModel, "boom"))
	assert.Equal(t, model.StatusPending, s.State(model.GenerateSignal).Status)
	assert.Equal(t, model.StatusFailed, s.State(model.TrainModel).Status)
}

func TestStore_BeginClearsErrorMessage(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Begin(model.RenderChart))
	require.NoError(t, s.Fail(model.RenderChart, "Failed to fetch ECG chart"))

	require.NoError(t, s.Begin(model.RenderChart))
	st := s.State(model.RenderChart)
	assert.Equal(t, model.StatusPending, st.Status)
	assert.Empty(t, st.ErrorMessage)
}

func TestStore_SucceedStoresTypedResults(t *testing.T) {
	bundle, err := model.NewSignalBundle([]float64{0}, []float64{1}, []float64{2})
	require.NoError(t, err)
	metrics := model.ModelMetrics{Accuracy: 0.5, F1: 0.5, ROCAUC: 0.5}
	risk := model.RiskAssessment{ProbabilityPercent: 10, Level: model.RiskLow}
	chart := &model.ChartImage{Encoded: "AA==", Data: []byte{0}}

	s := NewStore()
	results := []any{bundle, metrics, risk, chart}
	for i, kind := range model.AllOperationKinds() {
		require.NoError(t, s.Begin(kind))
		require.NoError(t, s.Succeed(kind, results[i]))
		assert.Equal(t, model.StatusSucceeded, s.State(kind).Status)
	}

	assert.Equal(t, bundle, s.Bundle())
	assert.NotSame(t, bundle, s.Bundle(), "stored bundle is a copy")
	assert.Equal(t, metrics, *s.Metrics())
	assert.Same(t, chart, s.Chart())
	require.NotNil(t, s.Risk())
	assert.Equal(t, model.RiskLow, s.Risk().Level)
}

func TestStore_SucceedRejectsWrongType(t *testing.T) {
	tests := []struct {
		data any
		name string
		kind model.OperationKind
	}{
		{name: "metrics for generate", kind: model.GenerateSignal, data: model.ModelMetrics{}},
		{name: "nil bundle", kind: model.GenerateSignal, data: (*model.SignalBundle)(nil)},
		{name: "string for train", kind: model.TrainModel, data: "0.9"},
		{name: "pointer risk", kind: model.ComputeRisk, data: &model.RiskAssessment{}},
		{name: "nil chart", kind: model.RenderChart, data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			require.NoError(t, s.Begin(tt.kind))

			err := s.Succeed(tt.kind, tt.data)
			require.ErrorIs(t, err, common.ErrUnexpectedResult)
			assert.Equal(t, model.StatusPending, s.State(tt.kind).Status)
		})
	}
}

func TestStore_SucceedRejectsRaggedBundle(t *testing.T) {
	tests := []struct {
		bundle *model.SignalBundle
		name   string
	}{
		{
			name:   "short normal",
			bundle: &model.SignalBundle{Time: []float64{0, 1, 2}, Normal: []float64{1}, Abnormal: []float64{1, 2, 3}},
		},
		{
			name:   "missing abnormal",
			bundle: &model.SignalBundle{Time: []float64{0, 1}, Normal: []float64{1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			require.NoError(t, s.Begin(model.GenerateSignal))

			err := s.Succeed(model.GenerateSignal, tt.bundle)
			require.ErrorIs(t, err, common.ErrUnexpectedResult)
			require.ErrorIs(t, err, model.ErrSignalShape)
			assert.Equal(t, model.StatusPending, s.State(model.GenerateSignal).Status)
			assert.Nil(t, s.Bundle())
			assert.Equal(t, uint64(0), s.Generation())
			assert.Empty(t, Project(s.Bundle(), model.ChannelNormal))
		})
	}
}

func TestStore_BundleNotSharedWithBackend(t *testing.T) {
	bundle, err := model.NewSignalBundle([]float64{0, 1}, []float64{0.1, 0.2}, []float64{0.3, 0.4})
	require.NoError(t, err)

	s := NewStore()
	require.NoError(t, s.Begin(model.GenerateSignal))
	require.NoError(t, s.Succeed(model.GenerateSignal, bundle))

	bundle.Normal[0] = 99
	bundle.Time = bundle.Time[:1]
	assert.InDelta(t, 0.1, s.Bundle().Normal[0], 1e-9)
	assert.Len(t, Project(s.Bundle(), model.ChannelNormal), 2)
}

func TestStore_ResolveRequiresPending(t *testing.T) {
	s := NewStore()

	require.ErrorIs(t, s.Succeed(model.TrainModel, model.ModelMetrics{}), common.ErrInvalidTransition)
	require.ErrorIs(t, s.Fail(model.TrainModel, "x"), common.ErrInvalidTransition)

	require.NoError(t, s.Begin(model.TrainModel))
	require.NoError(t, s.Succeed(model.TrainModel, model.ModelMetrics{}))
	require.ErrorIs(t, s.Fail(model.TrainModel, "late"), common.ErrInvalidTransition)
	assert.Equal(t, model.StatusSucceeded, s.State(model.TrainModel).Status)
}

func TestStore_FailKeepsStaleResult(t *testing.T) {
	s := NewStore()
	metrics := model.ModelMetrics{Accuracy: 0.9, F1: 0.8, ROCAUC: 0.7}

	require.NoError(t, s.Begin(model.TrainModel))
	require.NoError(t, s.Succeed(model.TrainModel, metrics))
	require.NoError(t, s.Begin(model.TrainModel))
	require.NoError(t, s.Fail(model.TrainModel, "Failed to train model"))

	st := s.State(model.TrainModel)
	assert.Equal(t, model.StatusFailed, st.Status)
	assert.Equal(t, "Failed to train model", st.ErrorMessage)
	require.NotNil(t, s.Metrics())
	assert.Equal(t, metrics, *s.Metrics())
}

func TestStore_NewBundleClearsRisk(t *testing.T) {
	s := NewStore()
	bundle, err := model.NewSignalBundle([]float64{0}, []float64{1}, []float64{2})
	require.NoError(t, err)

	require.NoError(t, s.Begin(model.GenerateSignal))
	require.NoError(t, s.Succeed(model.GenerateSignal, bundle))
	require.NoError(t, s.Begin(model.ComputeRisk))
	require.NoError(t, s.Succeed(model.ComputeRisk, model.RiskAssessment{Level: model.RiskHigh}))
	require.NotNil(t, s.Risk())
	assert.Equal(t, uint64(1), s.Generation())

	require.NoError(t, s.Begin(model.GenerateSignal))
	require.NoError(t, s.Succeed(model.GenerateSignal, bundle.Clone()))
	assert.Nil(t, s.Risk())
	assert.Equal(t, uint64(2), s.Generation())
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Begin(model.RenderChart))
	require.NoError(t, s.Fail(model.RenderChart, "Failed to fetch ECG chart"))

	s.Reset(model.RenderChart)
	st := s.State(model.RenderChart)
	assert.Equal(t, model.StatusIdle, st.Status)
	assert.Empty(t, st.ErrorMessage)
}

func TestStore_UnknownKind(t *testing.T) {
	s := NewStore()
	require.ErrorIs(t, s.Begin(model.OperationKind(42)), common.ErrInvalidTransition)
	s.Reset(model.OperationKind(-1))
	assert.Equal(t, model.OperationKind(42), s.State(model.OperationKind(42)).Kind)
}
