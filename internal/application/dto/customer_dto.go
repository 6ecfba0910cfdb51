package dto

import "github.com/shopspring/decimal"

// Los decimales viajan como números JSON, igual que los contadores enteros.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CustomerDTO fila de credit_risk tal como la consume el dashboard.
// Las claves JSON replican los nombres de columna originales.
type CustomerDTO struct {
	ID                   int64               `json:"id"`
	RevolvingUtilization decimal.Decimal     `json:"RevolvingUtilizationOfUnsecuredLines"`
	Age                  int                 `json:"age"`
	PastDue30to59        int                 `json:"NumberOfTime30-59DaysPastDueNotWorse"`
	DebtRatio            decimal.Decimal     `json:"DebtRatio"`
	MonthlyIncome        decimal.NullDecimal `json:"MonthlyIncome"` // null si no hay dato
	OpenCreditLines      int                 `json:"NumberOfOpenCreditLinesAndLoans"`
	Times90DaysLate      int                 `json:"NumberOfTimes90DaysLate"`
	RealEstateLoans      int                 `json:"NumberRealEstateLoansOrLines"`
	PastDue60to89        int                 `json:"NumberOfTime60-89DaysPastDueNotWorse"`
	NumberOfDependents   *int                `json:"NumberOfDependents"` // null si no hay dato
}

// ── Resultados etiquetados ────────────────────────────────────────────────────

// Valores de status de los sub-resultados.
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// ScoreResultDTO score etiquetado: value solo está presente si status = "ok".
// Así "riesgo cero" nunca se confunde con "servicio no disponible".
type ScoreResultDTO struct {
	Status  string   `json:"status"`
	Value   *float64 `json:"value,omitempty"`
	Message string   `json:"message,omitempty"`
}

// ExplanationDTO desglose SHAP con el formato del servicio de ML.
type ExplanationDTO struct {
	BaseValue     float64   `json:"base_value"`
	FeatureNames  []string  `json:"feature_names"`
	ShapValues    []float64 `json:"shap_values"`
	FeatureValues []float64 `json:"feature_values"`
}

// ExplanationResultDTO explicación etiquetada (solo en la evaluación combinada).
type ExplanationResultDTO struct {
	Status  string          `json:"status"`
	Value   *ExplanationDTO `json:"value,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// CustomerScoreResponse respuesta de GET /api/customer/:id.
type CustomerScoreResponse struct {
	Customer  CustomerDTO    `json:"customer"`
	RiskScore ScoreResultDTO `json:"riskScore"`
}

// ExplanationResponse respuesta de GET /api/customer/:id/explain.
type ExplanationResponse struct {
	Explanation ExplanationDTO `json:"explanation"`
}

// AssessmentResponse respuesta de GET /api/customer/:id/assessment: una sola lectura
// del cliente y las dos llamadas al servicio de ML en paralelo.
type AssessmentResponse struct {
	Customer    CustomerDTO          `json:"customer"`
	RiskScore   ScoreResultDTO       `json:"riskScore"`
	Explanation ExplanationResultDTO `json:"explanation"`
}
