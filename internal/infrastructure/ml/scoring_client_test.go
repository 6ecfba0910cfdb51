package ml_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/credit-risk-dashboard/internal/domain/scoring"
	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/metrics"
	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/ml"
)

var testVector = scoring.FeatureVector{
	RevolvingUtilization: 0.77,
	Age:                  45,
	PastDue30to59:        2,
	DebtRatio:            0.8,
	MonthlyIncome:        9120,
	OpenCreditLines:      13,
	RealEstateLoans:      6,
	NumberOfDependents:   2,
}

// fakeMLService simula el servicio Flask: registra el último body recibido por ruta.
type fakeMLService struct {
	bodies  map[string]map[string]any
	handler map[string]http.HandlerFunc
}

func newFakeMLService(t *testing.T) (*fakeMLService, *httptest.Server) {
	t.Helper()
	f := &fakeMLService{bodies: map[string]map[string]any{}, handler: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies[r.URL.Path] = body
		h, ok := f.handler[r.URL.Path]
		if !ok || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func TestPredict_SendsContractAndParsesScore(t *testing.T) {
	fake, srv := newFakeMLService(t)
	fake.handler["/predict"] = writeJSON(http.StatusOK, map[string]any{"score": 0.2351})

	client := ml.NewScoringClient(srv.URL+"/", 2*time.Second, metrics.New("test"))
	score, err := client.Predict(context.Background(), testVector)

	require.NoError(t, err)
	assert.InDelta(t, 0.2351, score, 1e-9)

	sent := fake.bodies["/predict"]
	assert.Len(t, sent, 10)
	assert.Equal(t, 2.0, sent["NumberOfTime30-59DaysPastDueNotWorse"])
	assert.Equal(t, 0.0, sent["NumberOfTime60-89DaysPastDueNotWorse"])
	assert.Equal(t, 45.0, sent["age"])
}

func TestPredict_ServiceErrorSurfacesMessage(t *testing.T) {
	fake, srv := newFakeMLService(t)
	fake.handler["/predict"] = writeJSON(http.StatusInternalServerError, map[string]any{"error": "Model not loaded"})

	client := ml.NewScoringClient(srv.URL, 2*time.Second, nil)
	_, err := client.Predict(context.Background(), testVector)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Model not loaded")
	assert.Contains(t, err.Error(), "500")
}

func TestPredict_MissingScoreIsError(t *testing.T) {
	fake, srv := newFakeMLService(t)
	fake.handler["/predict"] = writeJSON(http.StatusOK, map[string]any{"probability": 0.3})

	client := ml.NewScoringClient(srv.URL, 2*time.Second, nil)
	_, err := client.Predict(context.Background(), testVector)
	assert.Error(t, err)
}

func TestPredict_ContextDeadline(t *testing.T) {
	fake, srv := newFakeMLService(t)
	fake.handler["/predict"] = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		writeJSON(http.StatusOK, map[string]any{"score": 0.5})(w, r)
	}

	client := ml.NewScoringClient(srv.URL, 5*time.Second, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Predict(ctx, testVector)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExplain_ParsesAndValidates(t *testing.T) {
	fake, srv := newFakeMLService(t)
	fake.handler["/explain"] = writeJSON(http.StatusOK, map[string]any{
		"base_value":     -2.1,
		"feature_names":  []string{"age", "MonthlyIncome"},
		"shap_values":    []float64{0.3, -0.5},
		"feature_values": []float64{40, 5000},
	})

	client := ml.NewScoringClient(srv.URL, 2*time.Second, nil)
	exp, err := client.Explain(context.Background(), testVector)

	require.NoError(t, err)
	assert.Equal(t, -2.1, exp.BaseValue)
	assert.Equal(t, []string{"age", "MonthlyIncome"}, exp.FeatureNames)
	assert.Equal(t, []float64{0.3, -0.5}, exp.ShapValues)
	assert.Len(t, fake.bodies["/explain"], 10)
}

func TestExplain_MismatchedLengthsIsError(t *testing.T) {
	fake, srv := newFakeMLService(t)
	fake.handler["/explain"] = writeJSON(http.StatusOK, map[string]any{
		"base_value":     0,
		"feature_names":  []string{"age", "MonthlyIncome"},
		"shap_values":    []float64{0.3},
		"feature_values": []float64{40, 5000},
	})

	client := ml.NewScoringClient(srv.URL, 2*time.Second, nil)
	_, err := client.Explain(context.Background(), testVector)
	assert.Error(t, err)
}

func TestExplain_Unreachable(t *testing.T) {
	client := ml.NewScoringClient("http://127.0.0.1:1", 500*time.Millisecond, nil)
	_, err := client.Explain(context.Background(), testVector)
	assert.Error(t, err)
}
