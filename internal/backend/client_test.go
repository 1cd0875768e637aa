package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/Veraticus/ecgdash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		baseURL string
	}{
		{name: "valid", baseURL: "http://localhost:8000"},
		{name: "missing", baseURL: "", wantErr: common.ErrMissingConfig},
		{name: "no scheme", baseURL: "localhost", wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(Config{BaseURL: tt.baseURL})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.baseURL, client.BaseURL())
		})
	}
}

func TestGenerateECG(t *testing.T) {
	var gotMethod, gotPath, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotRequestID = r.Header.Get(RequestIDHeader)
		_, _ = io.WriteString(w, `{"time":[0,0.1,0.2],"normal_ecg":[1,2,3],"abnormal_ecg":[4,5,6]}`)
	})

	bundle, err := client.GenerateECG(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, PathGenerateECG, gotPath)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, 3, bundle.Len())
	assert.Equal(t, []float64{4, 5, 6}, bundle.Series(model.ChannelAbnormal))
}

func TestGenerateECG_Malformed(t *testing.T) {
	tests := []struct {
		cause error
		name  string
		body  string
	}{
		{name: "not json", body: `<html>`},
		{name: "missing field", body: `{"time":[0],"normal_ecg":[1]}`},
		{name: "length mismatch", body: `{"time":[0,1],"normal_ecg":[1],"abnormal_ecg":[1,2]}`, cause: model.ErrSignalShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := client.GenerateECG(context.Background())
			require.ErrorIs(t, err, common.ErrMalformedResponse)
			assert.Equal(t, "server", common.Category(err))
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestRequestIDFromContext(t *testing.T) {
	var got string
	client := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
	})

	ctx := WithRequestID(context.Background(), "req-123")
	require.NoError(t, client.SetAbnormalityLevel(ctx, 0.3))
	assert.Equal(t, "req-123", got)
}

func TestTrainModel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathTrainModel, r.URL.Path)
		_, _ = io.WriteString(w, `{"accuracy":0.92,"f1":0.9,"roc_auc":0.95}`)
	})

	metrics, err := client.TrainModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ModelMetrics{Accuracy: 0.92, F1: 0.9, ROCAUC: 0.95}, metrics)
}

func TestTrainModel_OutOfRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"accuracy":1.7,"f1":0.9,"roc_auc":0.95}`)
	})

	_, err := client.TrainModel(context.Background())
	require.ErrorIs(t, err, common.ErrMalformedResponse)
	assert.ErrorIs(t, err, model.ErrInvalidMetrics)
}

func TestCalculateRisk(t *testing.T) {
	var sent []float64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = io.WriteString(w, `{
			"heart_failure_probability": 42.5,
			"risk_level": "moderate",
			"risk_factors": ["Irregular rhythm"],
			"recommendations": ["Follow up"]
		}`)
	})

	risk, err := client.CalculateRisk(context.Background(), []float64{0.1, 0.2})
	require.NoError(t, err)

	assert.Equal(t, []float64{0.1, 0.2}, sent)
	assert.InDelta(t, 42.5, risk.ProbabilityPercent, 1e-9)
	assert.Equal(t, model.RiskModerate, risk.Level)
	assert.Equal(t, []string{"Irregular rhythm"}, risk.Factors)
	assert.Equal(t, []string{"Follow up"}, risk.Recommendations)
}

func TestCalculateRisk_EmptyLists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"heart_failure_probability": 3, "risk_level": "Low"}`)
	})

	risk, err := client.CalculateRisk(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, risk.Factors)
	assert.Empty(t, risk.Factors)
	assert.False(t, risk.HasFactors())
}

func TestCalculateRisk_Invalid(t *testing.T) {
	tests := []struct {
		cause error
		name  string
		body  string
	}{
		{name: "missing probability", body: `{"risk_level":"Low"}`},
		{name: "unknown level", body: `{"heart_failure_probability":10,"risk_level":"extreme"}`, cause: model.ErrInvalidRisk},
		{name: "probability above range", body: `{"heart_failure_probability":140,"risk_level":"High"}`, cause: model.ErrInvalidRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := client.CalculateRisk(context.Background(), []float64{1})
			require.ErrorIs(t, err, common.ErrMalformedResponse)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestPlotECG(t *testing.T) {
	raw := []byte("not really a png")
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name string
		body string
	}{
		{name: "json string", body: `"` + encoded + `"`},
		{name: "bare body", body: encoded + "\n"},
		{name: "data url", body: `"data:image/png;base64,` + encoded + `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				_, _ = io.WriteString(w, tt.body)
			})
			chart, err := client.PlotECG(context.Background())
			require.NoError(t, err)
			assert.Equal(t, raw, chart.Data)
		})
	}
}

func TestPlotECG_Malformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"image": 1}`)
	})

	_, err := client.PlotECG(context.Background())
	require.ErrorIs(t, err, common.ErrMalformedResponse)
}

func TestSetAbnormalityLevel(t *testing.T) {
	var got levelRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathAbnormalityLevel, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.SetAbnormalityLevel(context.Background(), 0.75))
	assert.InDelta(t, 0.75, got.Level, 1e-9)
}

func TestServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not ready", http.StatusServiceUnavailable)
	})

	_, err := client.TrainModel(context.Background())
	require.ErrorIs(t, err, common.ErrServer)

	var serverErr *common.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusServiceUnavailable, serverErr.StatusCode)
	assert.Equal(t, "model not ready", serverErr.Body)
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = client.GenerateECG(context.Background())
	require.ErrorIs(t, err, common.ErrNetwork)
	assert.Equal(t, "network", common.Category(err))
}

func TestContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GenerateECG(ctx)
	require.ErrorIs(t, err, common.ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}
