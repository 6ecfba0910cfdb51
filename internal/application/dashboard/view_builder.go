// Package dashboard construye el modelo de vista del dashboard de riesgo
// (perfil, gauge y gráfico SHAP) a partir de una evaluación. Es puro: no hace I/O.
package dashboard

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dto"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/usecase"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/entity"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/scoring"
)

const placeholder = "N/A"

// Colores de la paleta del dashboard.
const (
	ColorRiskUp      = "#ff4d4d"
	ColorRiskDown    = "#22c55e"
	ColorModerate    = "#fbbf24"
	ColorUnavailable = "#94a3b8"
)

// minMaxAbs piso del máximo |contribución| para no dividir por cero.
const minMaxAbs = 0.001

var tierStyle = map[scoring.RiskTier]struct{ label, color string }{
	scoring.TierStrong:   {"Strong Profile", ColorRiskDown},
	scoring.TierModerate: {"Moderate Risk", ColorModerate},
	scoring.TierCritical: {"Critical Risk", ColorRiskUp},
}

// ViewBuilder formatea perfil, gauge y gráfico.
type ViewBuilder struct {
	lang     language.Tag
	currency string
}

// NewViewBuilder crea el builder con el prefijo de moneda del ingreso mensual.
func NewViewBuilder(currency string) *ViewBuilder {
	return &ViewBuilder{
		lang:     language.English,
		currency: currency,
	}
}

// Build arma la vista completa de una evaluación.
func (b *ViewBuilder) Build(a *usecase.Assessment) *dto.DashboardViewDTO {
	view := &dto.DashboardViewDTO{
		CustomerID: a.Customer.ID,
		Profile:    b.BuildProfile(a.Customer),
		Gauge:      b.BuildGauge(a.Score),
	}
	if a.Explanation != nil {
		view.Chart = b.BuildShapChart(a.Explanation)
	} else {
		view.Chart = dto.ShapChartDTO{Available: false, Message: a.ExplanationErr, Bars: []dto.ShapBarDTO{}}
	}
	return view
}

// ── Perfil ────────────────────────────────────────────────────────────────────

// BuildProfile devuelve los once campos etiquetados del cliente.
// Un null se muestra como "N/A"; un cero se muestra como "0".
func (b *ViewBuilder) BuildProfile(c *entity.Customer) []dto.ProfileFieldDTO {
	income := placeholder
	if c.MonthlyIncome.Valid {
		income = b.currency + b.formatAmount(c.MonthlyIncome.Decimal)
	}
	dependents := placeholder
	if c.NumberOfDependents != nil {
		dependents = fmt.Sprintf("%d", *c.NumberOfDependents)
	}

	return []dto.ProfileFieldDTO{
		{Key: "id", Label: "ID", Value: fmt.Sprintf("%d", c.ID)},
		{Key: "age", Label: "Age", Value: fmt.Sprintf("%d", c.Age)},
		{Key: "MonthlyIncome", Label: "Monthly Income", Value: income},
		{Key: "DebtRatio", Label: "Debt Ratio", Value: c.DebtRatio.StringFixed(4)},
		{Key: "NumberOfDependents", Label: "Dependents", Value: dependents},
		{Key: "RevolvingUtilizationOfUnsecuredLines", Label: "Revolving Utilization", Value: c.RevolvingUtilization.StringFixed(4)},
		{Key: "NumberOfTime30-59DaysPastDueNotWorse", Label: "Late 30-59 Days", Value: fmt.Sprintf("%d", c.PastDue30to59)},
		{Key: "NumberOfTime60-89DaysPastDueNotWorse", Label: "Late 60-89 Days", Value: fmt.Sprintf("%d", c.PastDue60to89)},
		{Key: "NumberOfTimes90DaysLate", Label: "Late 90+ Days", Value: fmt.Sprintf("%d", c.Times90DaysLate)},
		{Key: "NumberOfOpenCreditLinesAndLoans", Label: "Open Credit Lines", Value: fmt.Sprintf("%d", c.OpenCreditLines)},
		{Key: "NumberRealEstateLoansOrLines", Label: "Real Estate Loans", Value: fmt.Sprintf("%d", c.RealEstateLoans)},
	}
}

// formatAmount separadores de miles, hasta 2 decimales: 9120 → "9,120", 1234.5 → "1,234.5".
func (b *ViewBuilder) formatAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return message.NewPrinter(b.lang).Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

// ── Gauge ─────────────────────────────────────────────────────────────────────

// BuildGauge traduce el score a aguja, porcentaje y nivel cualitativo.
func (b *ViewBuilder) BuildGauge(s scoring.Score) dto.GaugeDTO {
	if !s.OK() {
		return dto.GaugeDTO{
			Available:   false,
			Display:     placeholder,
			NeedleAngle: -90,
			Tier:        "unavailable",
			Label:       "Score Unavailable",
			Color:       ColorUnavailable,
		}
	}

	risk := scoring.RiskPercent(s.Value)
	strength := scoring.ProfileStrength(s.Value)
	tier := scoring.TierFor(s.Value)
	style := tierStyle[tier]

	return dto.GaugeDTO{
		Available:       true,
		RiskPercent:     &risk,
		ProfileStrength: &strength,
		Display:         fmt.Sprintf("%.1f%%", risk),
		NeedleAngle:     -90 + risk/100*180,
		Tier:            string(tier),
		Label:           style.label,
		Color:           style.color,
	}
}

// ── Gráfico SHAP ──────────────────────────────────────────────────────────────

// BuildShapChart ordena las contribuciones por |valor| descendente (orden estable)
// y escala los anchos contra la mayor.
func (b *ViewBuilder) BuildShapChart(e *scoring.Explanation) dto.ShapChartDTO {
	if err := e.Validate(); err != nil {
		return dto.ShapChartDTO{Available: false, Message: err.Error(), Bars: []dto.ShapBarDTO{}}
	}

	n := len(e.FeatureNames)
	idx := make([]int, n)
	maxAbs := minMaxAbs
	for i := range idx {
		idx[i] = i
		maxAbs = math.Max(maxAbs, math.Abs(e.ShapValues[i]))
	}
	sort.SliceStable(idx, func(x, y int) bool {
		return math.Abs(e.ShapValues[idx[x]]) > math.Abs(e.ShapValues[idx[y]])
	})

	bars := make([]dto.ShapBarDTO, 0, n)
	for _, i := range idx {
		v := e.ShapValues[i]
		bar := dto.ShapBarDTO{
			Feature:       e.FeatureNames[i],
			FeatureValue:  e.FeatureValues[i],
			Contribution:  v,
			WidthPercent:  math.Round(math.Abs(v)/maxAbs*100*100) / 100,
			IncreasesRisk: scoring.IncreasesRisk(v),
			ValueLabel:    fmt.Sprintf("%.2f", e.FeatureValues[i]),
		}
		if bar.IncreasesRisk {
			bar.Class, bar.Color = "positive", ColorRiskUp
			bar.ContributionLabel = fmt.Sprintf("+%.4f", v)
		} else {
			bar.Class, bar.Color = "negative", ColorRiskDown
			bar.ContributionLabel = fmt.Sprintf("%.4f", v)
		}
		bars = append(bars, bar)
	}

	return dto.ShapChartDTO{
		Available:      true,
		BaseValue:      e.BaseValue,
		BaseValueLabel: fmt.Sprintf("%.4f", e.BaseValue),
		Bars:           bars,
	}
}
