package ports

import (
	"context"

	"github.com/jhoicas/credit-risk-dashboard/internal/domain/scoring"
)

// ScoringService define el puerto de salida hacia el servicio externo de ML.
// El modelo de riesgo y los valores SHAP son cajas negras para esta aplicación.
// El contexto debe llevar un timeout: un servicio colgado no debe bloquear la petición.
type ScoringService interface {
	// Predict devuelve la probabilidad de impago del vector.
	Predict(ctx context.Context, features scoring.FeatureVector) (float64, error)
	// Explain devuelve el desglose SHAP del vector.
	Explain(ctx context.Context, features scoring.FeatureVector) (*scoring.Explanation, error)
}
