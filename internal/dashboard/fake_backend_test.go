package dashboard

import (
	"context"
	"sync"

	"github.com/Veraticus/ecgdash/internal/model"
)

// fakeBackend is a scripted Backend that records every call.
type fakeBackend struct {
	bundle      *model.SignalBundle
	chart       *model.ChartImage
	errs        map[string]error
	calls       map[string]int
	gate        chan struct{}
	riskSamples [][]float64
	levels      []float64
	risk        model.RiskAssessment
	metrics     model.ModelMetrics
	mu          sync.Mutex
}

func newFakeBackend() *fakeBackend {
	bundle, err := model.NewSignalBundle(
		[]float64{0, 1, 2},
		[]float64{0.1, 0.2, 0.1},
		[]float64{0.9, 0.1, 0.9},
	)
	if err != nil {
		panic(err)
	}
	return &fakeBackend{
		bundle:  bundle,
		metrics: model.ModelMetrics{Accuracy: 0.91, F1: 0.88, ROCAUC: 0.95},
		risk: model.RiskAssessment{
			ProbabilityPercent: 27.5,
			Level:              model.RiskLow,
			Factors:            []string{},
			Recommendations:    []string{"Routine follow-up"},
		},
		chart:  &model.ChartImage{Encoded: "AAEC", Data: []byte{0, 1, 2}},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

// block makes every subsequent call wait until release is called.
func (f *fakeBackend) block() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
}

func (f *fakeBackend) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

func (f *fakeBackend) failWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls[op]++
	gate := f.gate
	err := f.errs[op]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeBackend) GenerateECG(ctx context.Context) (*model.SignalBundle, error) {
	if err := f.enter(ctx, "generate"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bundle, nil
}

func (f *fakeBackend) TrainModel(ctx context.Context) (model.ModelMetrics, error) {
	if err := f.enter(ctx, "train"); err != nil {
		return model.ModelMetrics{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metrics, nil
}

func (f *fakeBackend) CalculateRisk(ctx context.Context, samples []float64) (model.RiskAssessment, error) {
	f.mu.Lock()
	f.riskSamples = append(f.riskSamples, append([]float64(nil), samples...))
	f.mu.Unlock()

	if err := f.enter(ctx, "risk"); err != nil {
		return model.RiskAssessment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.risk.Clone(), nil
}

func (f *fakeBackend) PlotECG(ctx context.Context) (*model.ChartImage, error) {
	if err := f.enter(ctx, "chart"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chart, nil
}

func (f *fakeBackend) SetAbnormalityLevel(ctx context.Context, level float64) error {
	f.mu.Lock()
	f.levels = append(f.levels, level)
	f.mu.Unlock()
	return f.enter(ctx, "level")
}

// recordingObserver captures observer notifications.
type recordingObserver struct {
	dispatched []string
	completed  []Event
	rejected   []error
	mu         sync.Mutex
}

func (r *recordingObserver) OperationDispatched(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched = append(r.dispatched, operation)
}

func (r *recordingObserver) OperationCompleted(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, ev)
}

func (r *recordingObserver) OperationRejected(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, err)
}

func (r *recordingObserver) events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.completed...)
}
