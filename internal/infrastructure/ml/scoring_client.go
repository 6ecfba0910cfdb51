// Package ml implementa el adaptador HTTP hacia el servicio externo de scoring
// (modelo de riesgo + explicador SHAP). El servicio es una caja negra: este
// paquete solo serializa el vector de features y valida la forma de la respuesta.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/ports"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/scoring"
	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/metrics"
)

// Verificar en tiempo de compilación que ScoringClient implementa ScoringService.
var _ ports.ScoringService = (*ScoringClient)(nil)

const (
	predictPath = "/predict"
	explainPath = "/explain"

	maxResponseBytes = 64 * 1024
)

// ScoringClient adaptador de ScoringService sobre la API REST del servicio de ML.
// No reintenta ni implementa circuit breaker: cada fallo se devuelve al use case,
// que decide la política (degradar el score o fallar la explicación).
type ScoringClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewScoringClient construye el adaptador. baseURL sin barra final, ej. "http://localhost:8000".
// timeout es el límite de red; el use case impone además un deadline por llamada.
func NewScoringClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *ScoringClient {
	return &ScoringClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

// ── Estructuras del protocolo del servicio de ML ──────────────────────────────

type predictResponse struct {
	Score *float64 `json:"score"`
}

type explainResponse struct {
	BaseValue     float64   `json:"base_value"`
	FeatureNames  []string  `json:"feature_names"`
	ShapValues    []float64 `json:"shap_values"`
	FeatureValues []float64 `json:"feature_values"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Predict envía el vector a /predict y devuelve la probabilidad de impago.
func (c *ScoringClient) Predict(ctx context.Context, features scoring.FeatureVector) (score float64, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveScoringCall("predict", err, time.Since(start)) }()

	var resp predictResponse
	if err := c.post(ctx, predictPath, features, &resp); err != nil {
		return 0, err
	}
	if resp.Score == nil {
		return 0, fmt.Errorf("ML: respuesta de /predict sin campo score")
	}
	return *resp.Score, nil
}

// Explain envía el vector a /explain y devuelve el desglose SHAP validado.
func (c *ScoringClient) Explain(ctx context.Context, features scoring.FeatureVector) (exp *scoring.Explanation, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveScoringCall("explain", err, time.Since(start)) }()

	var resp explainResponse
	if err := c.post(ctx, explainPath, features, &resp); err != nil {
		return nil, err
	}
	exp = &scoring.Explanation{
		BaseValue:     resp.BaseValue,
		FeatureNames:  resp.FeatureNames,
		ShapValues:    resp.ShapValues,
		FeatureValues: resp.FeatureValues,
	}
	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("ML: %w", err)
	}
	return exp, nil
}

// post serializa body, hace POST a path y decodifica la respuesta 2xx en out.
func (c *ScoringClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("ML: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ML: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ML %s: timeout o cancelación: %w", path, ctx.Err())
		}
		return fmt.Errorf("ML %s: llamada HTTP fallida: %w", path, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("ML %s: leer respuesta: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// El servicio devuelve {"error": "..."} en 400/500
		var errResp errorResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != "" {
			return fmt.Errorf("ML %s: HTTP %d: %s", path, resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("ML %s: HTTP %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("ML %s: deserializar respuesta: %w", path, err)
	}
	return nil
}
