package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/ecgdash/internal/model"
)

type ecgResponse struct {
	Time        []float64 `json:"time"`
	NormalECG   []float64 `json:"normal_ecg"`
	AbnormalECG []float64 `json:"abnormal_ecg"`
}

type metricsResponse struct {
	Accuracy *float64 `json:"accuracy"`
	F1       *float64 `json:"f1"`
	ROCAUC   *float64 `json:"roc_auc"`
}

type riskResponse struct {
	Probability     *float64 `json:"heart_failure_probability"`
	RiskLevel       string   `json:"risk_level"`
	RiskFactors     []string `json:"risk_factors"`
	Recommendations []string `json:"recommendations"`
}

type levelRequest struct {
	Level float64 `json:"level"`
}

// GenerateECG asks the backend for a fresh synthetic ECG bundle.
func (c *Client) GenerateECG(ctx context.Context) (*model.SignalBundle, error) {
	op := http.MethodPost + " " + PathGenerateECG
	body, err := c.do(ctx, http.MethodPost, PathGenerateECG, nil)
	if err != nil {
		return nil, err
	}

	var resp ecgResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, malformed(op, err)
	}
	if resp.Time == nil || resp.NormalECG == nil || resp.AbnormalECG == nil {
		return nil, malformed(op, fmt.Errorf("missing time, normal_ecg or abnormal_ecg"))
	}
	bundle, err := model.NewSignalBundle(resp.Time, resp.NormalECG, resp.AbnormalECG)
	if err != nil {
		return nil, malformed(op, err)
	}
	return bundle, nil
}

// TrainModel trains the backend classifier and returns its evaluation scores.
func (c *Client) TrainModel(ctx context.Context) (model.ModelMetrics, error) {
	op := http.MethodPost + " " + PathTrainModel
	body, err := c.do(ctx, http.MethodPost, PathTrainModel, nil)
	if err != nil {
		return model.ModelMetrics{}, err
	}

	var resp metricsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.ModelMetrics{}, malformed(op, err)
	}
	if resp.Accuracy == nil || resp.F1 == nil || resp.ROCAUC == nil {
		return model.ModelMetrics{}, malformed(op, fmt.Errorf("missing accuracy, f1 or roc_auc"))
	}
	metrics := model.ModelMetrics{Accuracy: *resp.Accuracy, F1: *resp.F1, ROCAUC: *resp.ROCAUC}
	if err := metrics.Validate(); err != nil {
		return model.ModelMetrics{}, malformed(op, err)
	}
	return metrics, nil
}

// CalculateRisk scores the given amplitude samples. The request body is the
// bare JSON array the backend expects.
func (c *Client) CalculateRisk(ctx context.Context, samples []float64) (model.RiskAssessment, error) {
	op := http.MethodPost + " " + PathCalculateRisk
	if samples == nil {
		samples = []float64{}
	}
	body, err := c.do(ctx, http.MethodPost, PathCalculateRisk, samples)
	if err != nil {
		return model.RiskAssessment{}, err
	}

	var resp riskResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.RiskAssessment{}, malformed(op, err)
	}
	if resp.Probability == nil {
		return model.RiskAssessment{}, malformed(op, fmt.Errorf("missing heart_failure_probability"))
	}
	level, err := model.ParseRiskLevel(resp.RiskLevel)
	if err != nil {
		return model.RiskAssessment{}, malformed(op, err)
	}
	risk := model.RiskAssessment{
		ProbabilityPercent: *resp.Probability,
		Level:              level,
		Factors:            nonNil(resp.RiskFactors),
		Recommendations:    nonNil(resp.Recommendations),
	}
	if err := risk.Validate(); err != nil {
		return model.RiskAssessment{}, malformed(op, err)
	}
	return risk, nil
}

// PlotECG fetches the server-rendered ECG chart.
func (c *Client) PlotECG(ctx context.Context) (*model.ChartImage, error) {
	op := http.MethodGet + " " + PathPlotECG
	body, err := c.do(ctx, http.MethodGet, PathPlotECG, nil)
	if err != nil {
		return nil, err
	}

	// The chart arrives as a JSON string; a bare base64 body is accepted too.
	var encoded string
	if err := json.Unmarshal(body, &encoded); err != nil {
		trimmed := strings.TrimSpace(string(body))
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "\"") {
			return nil, malformed(op, err)
		}
		encoded = trimmed
	}
	chart, err := model.DecodeChartImage(encoded)
	if err != nil {
		return nil, malformed(op, err)
	}
	return chart, nil
}

// SetAbnormalityLevel pushes the abnormality level used for future generations.
func (c *Client) SetAbnormalityLevel(ctx context.Context, level float64) error {
	_, err := c.do(ctx, http.MethodPost, PathAbnormalityLevel, levelRequest{Level: level})
	return err
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
