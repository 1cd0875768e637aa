package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Veraticus/ecgdash/internal/dashboard"
	"github.com/Veraticus/ecgdash/internal/model"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	sampleRate   = 100.0 // Hz
	signalLength = 5.0   // seconds
	beatInterval = 0.8   // seconds
	beatCount    = 8     // beats laid out, enough to cover signalLength
	chartWidth   = 800
	chartHeight  = 320
)

// wave is one gaussian component of a heartbeat, offset from the R peak.
type wave struct {
	offset, amplitude, width float64
}

var beat = []wave{
	{offset: -0.20, amplitude: 0.15, width: 0.025},  // P
	{offset: -0.03, amplitude: -0.10, width: 0.010}, // Q
	{offset: 0.00, amplitude: 1.00, width: 0.012},   // R
	{offset: 0.03, amplitude: -0.25, width: 0.010},  // S
	{offset: 0.30, amplitude: 0.30, width: 0.040},   // T
}

// synthBackend produces plausible ECG data in process, with a configurable
// delay so pending states are visible.
type synthBackend struct {
	rng     *rand.Rand
	latency time.Duration
	last    *model.SignalBundle
	mu      sync.Mutex
	level   float64
}

var _ dashboard.Backend = (*synthBackend)(nil)

func newSynthBackend(seed uint64, latency time.Duration) *synthBackend {
	return &synthBackend{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		latency: latency,
		level:   model.DefaultAbnormalityLevel,
	}
}

func (b *synthBackend) wait(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(b.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (b *synthBackend) GenerateECG(ctx context.Context) (*model.SignalBundle, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	n := int(sampleRate * signalLength)
	times := make([]float64, n)
	normal := make([]float64, n)
	abnormal := make([]float64, n)

	// Abnormal beats drift in rhythm and gain ST elevation and noise with level.
	jitter := make([]float64, beatCount)
	for i := range jitter {
		jitter[i] = (b.rng.Float64() - 0.5) * 0.3 * b.level
	}
	for i := range n {
		t := float64(i) / sampleRate
		times[i] = math.Round(t*1000) / 1000
		normal[i] = heartbeat(t, nil, 0) + b.rng.NormFloat64()*0.01
		abnormal[i] = heartbeat(t, jitter, 0.3*b.level) + b.rng.NormFloat64()*(0.02+0.08*b.level)
	}

	bundle, err := model.NewSignalBundle(times, normal, abnormal)
	if err != nil {
		return nil, err
	}
	b.last = bundle.Clone()
	return bundle, nil
}

func heartbeat(t float64, jitter []float64, stElevation float64) float64 {
	var v float64
	for k := range beatCount {
		peak := float64(k)*beatInterval + 0.25
		if jitter != nil {
			peak += jitter[k]
		}
		for _, w := range beat {
			d := t - peak - w.offset
			v += w.amplitude * math.Exp(-d*d/(2*w.width*w.width))
		}
		if stElevation != 0 {
			if d := t - peak; d > 0.05 && d < 0.25 {
				v += stElevation
			}
		}
	}
	return v
}

func (b *synthBackend) TrainModel(ctx context.Context) (model.ModelMetrics, error) {
	if err := b.wait(ctx); err != nil {
		return model.ModelMetrics{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	score := func(base float64) float64 {
		return clamp01(base - 0.08*b.level + (b.rng.Float64()-0.5)*0.02)
	}
	return model.ModelMetrics{
		Accuracy: score(0.94),
		F1:       score(0.91),
		ROCAUC:   score(0.97),
	}, nil
}

func (b *synthBackend) CalculateRisk(ctx context.Context, samples []float64) (model.RiskAssessment, error) {
	if err := b.wait(ctx); err != nil {
		return model.RiskAssessment{}, err
	}
	if len(samples) == 0 {
		return model.RiskAssessment{}, fmt.Errorf("no samples")
	}

	b.mu.Lock()
	var reference []float64
	if b.last != nil && b.last.Len() == len(samples) {
		reference = b.last.Normal
	}
	b.mu.Unlock()

	// Deviation from the clean reference beat; without one, from the mean.
	var offset, sumSq float64
	if reference == nil {
		var mean float64
		for _, s := range samples {
			mean += s
		}
		reference = make([]float64, len(samples))
		for i := range reference {
			reference[i] = mean / float64(len(samples))
		}
	}
	for i, s := range samples {
		d := s - reference[i]
		offset += d
		sumSq += d * d
	}
	offset /= float64(len(samples))
	rms := math.Sqrt(sumSq / float64(len(samples)))

	probability := math.Round(clamp01(rms*2.5)*1000) / 10
	risk := model.RiskAssessment{ProbabilityPercent: probability}
	switch {
	case probability >= 70:
		risk.Level = model.RiskHigh
		risk.Recommendations = []string{"Refer to cardiology", "Schedule echocardiogram"}
	case probability >= 30:
		risk.Level = model.RiskModerate
		risk.Recommendations = []string{"Repeat ECG within 30 days"}
	default:
		risk.Level = model.RiskLow
		risk.Recommendations = []string{"Routine follow-up"}
	}
	if offset > 0.03 {
		risk.Factors = append(risk.Factors, "ST segment elevation")
	}
	if rms > 0.15 {
		risk.Factors = append(risk.Factors, "Irregular rhythm")
	}
	return risk, nil
}

func (b *synthBackend) PlotECG(ctx context.Context) (*model.ChartImage, error) {
	b.mu.Lock()
	last := b.last.Clone()
	b.mu.Unlock()
	if last == nil {
		var err error
		if last, err = b.GenerateECG(ctx); err != nil {
			return nil, err
		}
	} else if err := b.wait(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := renderChart(last).Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return model.DecodeChartImage(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// renderChart plots both channels against time.
func renderChart(bundle *model.SignalBundle) chart.Chart {
	line := func(name string, values []float64, c drawing.Color) chart.ContinuousSeries {
		return chart.ContinuousSeries{
			Name:    name,
			XValues: bundle.Time,
			YValues: values,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 1.5,
			},
		}
	}
	ch := chart.Chart{
		Title:      "ECG Signal",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Time (s)"},
		YAxis:      chart.YAxis{Name: "Amplitude (mV)"},
		Series: []chart.Series{
			line("Normal", bundle.Normal, drawing.ColorFromHex("10b981")),
			line("Abnormal", bundle.Abnormal, drawing.ColorFromHex("ef4444")),
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func (b *synthBackend) SetAbnormalityLevel(ctx context.Context, level float64) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	if math.IsNaN(level) || level < 0 || level > 1 {
		return fmt.Errorf("level %v outside [0,1]", level)
	}
	b.mu.Lock()
	b.level = level
	b.mu.Unlock()
	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
