package dto

// DashboardViewDTO modelo de vista del dashboard de riesgo: perfil, gauge y gráfico SHAP.
// Lo consumen la página HTML, el endpoint JSON y el reporte PDF.
type DashboardViewDTO struct {
	CustomerID int64             `json:"customer_id"`
	Profile    []ProfileFieldDTO `json:"profile"`
	Gauge      GaugeDTO          `json:"gauge"`
	Chart      ShapChartDTO      `json:"chart"`
}

// ProfileFieldDTO un par etiqueta/valor del perfil ya formateado.
type ProfileFieldDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// GaugeDTO gauge de aguja. RiskPercent es la probabilidad de impago * 100;
// NeedleAngle va de -90 (sin riesgo) a 90 (riesgo máximo).
type GaugeDTO struct {
	Available       bool     `json:"available"`
	RiskPercent     *float64 `json:"risk_percent,omitempty"`
	ProfileStrength *float64 `json:"profile_strength,omitempty"`
	Display         string   `json:"display"`
	NeedleAngle     float64  `json:"needle_angle"`
	Tier            string   `json:"tier"`
	Label           string   `json:"label"`
	Color           string   `json:"color"`
}

// ShapChartDTO gráfico de barras horizontal ordenado por |contribución| descendente.
type ShapChartDTO struct {
	Available      bool         `json:"available"`
	Message        string       `json:"message,omitempty"`
	BaseValue      float64      `json:"base_value"`
	BaseValueLabel string       `json:"base_value_label"`
	Bars           []ShapBarDTO `json:"bars"`
}

// ShapBarDTO una barra del gráfico SHAP. WidthPercent es relativo a la contribución
// de mayor valor absoluto del conjunto (que mide 100).
type ShapBarDTO struct {
	Feature           string  `json:"feature"`
	FeatureValue      float64 `json:"feature_value"`
	Contribution      float64 `json:"contribution"`
	WidthPercent      float64 `json:"width_percent"`
	IncreasesRisk     bool    `json:"increases_risk"`
	Class             string  `json:"class"` // "positive" | "negative"
	Color             string  `json:"color"`
	ValueLabel        string  `json:"value_label"`        // valor de la feature, 2 decimales
	ContributionLabel string  `json:"contribution_label"` // contribución con signo, 4 decimales
}
