package scoring

import "math"

// Convención canónica del dashboard: el score es la probabilidad de impago
// (mayor = más riesgo). El gauge muestra ese porcentaje de riesgo; la etiqueta
// cualitativa se decide sobre la fortaleza del perfil (100 - riesgo). En el gráfico
// SHAP una contribución positiva es la que aumenta el riesgo.

// RiskTier nivel cualitativo del perfil.
type RiskTier string

const (
	TierStrong   RiskTier = "strong"
	TierModerate RiskTier = "moderate"
	TierCritical RiskTier = "critical"
)

// Umbrales sobre la fortaleza del perfil, en porcentaje.
const (
	strongThreshold   = 70.0
	moderateThreshold = 30.0
)

// RiskPercent probabilidad de impago en porcentaje, redondeada a un decimal.
func RiskPercent(score float64) float64 {
	return round1(score * 100)
}

// ProfileStrength porcentaje de "no riesgo" redondeado a un decimal.
func ProfileStrength(score float64) float64 {
	return round1((1 - score) * 100)
}

// TierFor clasifica un score: fortaleza > 70 fuerte, > 30 moderado, resto crítico.
func TierFor(score float64) RiskTier {
	strength := ProfileStrength(score)
	switch {
	case strength > strongThreshold:
		return TierStrong
	case strength > moderateThreshold:
		return TierModerate
	default:
		return TierCritical
	}
}

// IncreasesRisk indica si una contribución SHAP empuja el score hacia el impago.
func IncreasesRisk(contribution float64) bool {
	return contribution > 0
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
