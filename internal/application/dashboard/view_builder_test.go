package dashboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dashboard"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/dto"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/usecase"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/entity"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/scoring"
)

func profileValue(t *testing.T, fields []dto.ProfileFieldDTO, key string) string {
	t.Helper()
	for _, f := range fields {
		if f.Key == key {
			return f.Value
		}
	}
	t.Fatalf("campo %q ausente del perfil", key)
	return ""
}

// ── Perfil ────────────────────────────────────────────────────────────────────

func TestBuildProfile_FormatsFields(t *testing.T) {
	deps := 0
	c := &entity.Customer{
		ID:                   7,
		Age:                  45,
		MonthlyIncome:        decimal.NewNullDecimal(decimal.NewFromInt(9120)),
		DebtRatio:            decimal.RequireFromString("0.802982"),
		RevolvingUtilization: decimal.RequireFromString("0.766126609"),
		NumberOfDependents:   &deps,
		PastDue30to59:        2,
	}
	b := dashboard.NewViewBuilder("₹")

	p := b.BuildProfile(c)

	assert.Len(t, p, 11)
	assert.Equal(t, "7", profileValue(t, p, "id"))
	assert.Equal(t, "₹9,120", profileValue(t, p, "MonthlyIncome"))
	assert.Equal(t, "0.8030", profileValue(t, p, "DebtRatio"))
	assert.Equal(t, "0.7661", profileValue(t, p, "RevolvingUtilizationOfUnsecuredLines"))
	assert.Equal(t, "0", profileValue(t, p, "NumberOfDependents"), "cero no es N/A")
	assert.Equal(t, "2", profileValue(t, p, "NumberOfTime30-59DaysPastDueNotWorse"))
	assert.Equal(t, "0", profileValue(t, p, "NumberOfTimes90DaysLate"))
}

func TestBuildProfile_NullsRenderPlaceholder(t *testing.T) {
	c := &entity.Customer{ID: 3, Age: 38}
	p := dashboard.NewViewBuilder("₹").BuildProfile(c)

	assert.Equal(t, "N/A", profileValue(t, p, "MonthlyIncome"))
	assert.Equal(t, "N/A", profileValue(t, p, "NumberOfDependents"))
}

func TestBuildProfile_FractionalIncome(t *testing.T) {
	c := &entity.Customer{MonthlyIncome: decimal.NewNullDecimal(decimal.RequireFromString("1234567.5"))}
	p := dashboard.NewViewBuilder("$").BuildProfile(c)
	assert.Equal(t, "$1,234,567.5", profileValue(t, p, "MonthlyIncome"))
}

// ── Gauge ─────────────────────────────────────────────────────────────────────

func TestBuildGauge_Tiers(t *testing.T) {
	b := dashboard.NewViewBuilder("₹")

	tests := []struct {
		score   float64
		tier    string
		label   string
		color   string
		display string
	}{
		{0.235, "strong", "Strong Profile", "#22c55e", "23.5%"},
		{0.3, "moderate", "Moderate Risk", "#fbbf24", "30.0%"},
		{0.5, "moderate", "Moderate Risk", "#fbbf24", "50.0%"},
		{0.7, "critical", "Critical Risk", "#ff4d4d", "70.0%"},
		{0.95, "critical", "Critical Risk", "#ff4d4d", "95.0%"},
	}
	for _, tt := range tests {
		g := b.BuildGauge(scoring.Available(tt.score))
		assert.True(t, g.Available)
		assert.Equal(t, tt.tier, g.Tier, "score %v", tt.score)
		assert.Equal(t, tt.label, g.Label, "score %v", tt.score)
		assert.Equal(t, tt.color, g.Color, "score %v", tt.score)
		assert.Equal(t, tt.display, g.Display, "score %v", tt.score)
	}
}

func TestBuildGauge_NeedleAngle(t *testing.T) {
	b := dashboard.NewViewBuilder("₹")
	assert.InDelta(t, -90.0, b.BuildGauge(scoring.Available(0)).NeedleAngle, 1e-9)
	assert.InDelta(t, 0.0, b.BuildGauge(scoring.Available(0.5)).NeedleAngle, 1e-9)
	assert.InDelta(t, 90.0, b.BuildGauge(scoring.Available(1)).NeedleAngle, 1e-9)
}

func TestBuildGauge_Unavailable(t *testing.T) {
	g := dashboard.NewViewBuilder("₹").BuildGauge(scoring.Unavailable("ML Service Unavailable"))

	assert.False(t, g.Available)
	assert.Nil(t, g.RiskPercent)
	assert.Equal(t, "N/A", g.Display)
	assert.Equal(t, "Score Unavailable", g.Label)
	assert.Equal(t, -90.0, g.NeedleAngle)
	assert.Equal(t, "#94a3b8", g.Color)
}

// ── Gráfico SHAP ──────────────────────────────────────────────────────────────

func TestBuildShapChart_RanksAndScales(t *testing.T) {
	e := &scoring.Explanation{
		BaseValue:     -2.123456,
		FeatureNames:  []string{"age", "MonthlyIncome"},
		ShapValues:    []float64{0.3, -0.5},
		FeatureValues: []float64{45, 9120},
	}

	chart := dashboard.NewViewBuilder("₹").BuildShapChart(e)

	require.True(t, chart.Available)
	require.Len(t, chart.Bars, 2)
	assert.Equal(t, "-2.1235", chart.BaseValueLabel)

	income, age := chart.Bars[0], chart.Bars[1]
	assert.Equal(t, "MonthlyIncome", income.Feature)
	assert.Equal(t, 100.0, income.WidthPercent)
	assert.False(t, income.IncreasesRisk)
	assert.Equal(t, "negative", income.Class)
	assert.Equal(t, "#22c55e", income.Color)
	assert.Equal(t, "-0.5000", income.ContributionLabel)
	assert.Equal(t, "9120.00", income.ValueLabel)

	assert.Equal(t, "age", age.Feature)
	assert.Equal(t, 60.0, age.WidthPercent)
	assert.True(t, age.IncreasesRisk)
	assert.Equal(t, "positive", age.Class)
	assert.Equal(t, "#ff4d4d", age.Color)
	assert.Equal(t, "+0.3000", age.ContributionLabel)
}

func TestBuildShapChart_StableOnTies(t *testing.T) {
	e := &scoring.Explanation{
		FeatureNames:  []string{"a", "b", "c"},
		ShapValues:    []float64{0.2, -0.2, 0.4},
		FeatureValues: []float64{1, 2, 3},
	}
	bars := dashboard.NewViewBuilder("").BuildShapChart(e).Bars
	require.Len(t, bars, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{bars[0].Feature, bars[1].Feature, bars[2].Feature})
}

func TestBuildShapChart_AllZeroUsesFloor(t *testing.T) {
	e := &scoring.Explanation{
		FeatureNames:  []string{"a", "b"},
		ShapValues:    []float64{0, 0},
		FeatureValues: []float64{1, 2},
	}
	bars := dashboard.NewViewBuilder("").BuildShapChart(e).Bars
	for _, bar := range bars {
		assert.Equal(t, 0.0, bar.WidthPercent)
		assert.Equal(t, "negative", bar.Class)
		assert.Equal(t, "0.0000", bar.ContributionLabel)
	}
}

func TestBuildShapChart_InvalidExplanation(t *testing.T) {
	e := &scoring.Explanation{FeatureNames: []string{"a"}, ShapValues: []float64{}, FeatureValues: []float64{1}}
	chart := dashboard.NewViewBuilder("").BuildShapChart(e)
	assert.False(t, chart.Available)
	assert.NotEmpty(t, chart.Message)
	assert.Empty(t, chart.Bars)
}

// ── DashboardUseCase ──────────────────────────────────────────────────────────

type fakeAssessor struct {
	a   *usecase.Assessment
	err error
}

func (f fakeAssessor) Assess(context.Context, int64) (*usecase.Assessment, error) {
	return f.a, f.err
}

type fakeReports struct {
	got *dto.DashboardViewDTO
}

func (f *fakeReports) GenerateRiskReport(_ context.Context, view *dto.DashboardViewDTO) ([]byte, error) {
	f.got = view
	return []byte("%PDF-1.3 fake"), nil
}

func TestDashboardUseCase_GetView_ExplanationMissing(t *testing.T) {
	a := &usecase.Assessment{
		Customer:       &entity.Customer{ID: 5},
		Score:          scoring.Available(0.8),
		ExplanationErr: domain.ErrExplanationUnavailable.Error(),
	}
	uc := dashboard.NewDashboardUseCase(fakeAssessor{a: a}, dashboard.NewViewBuilder("₹"), nil)

	view, err := uc.GetView(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), view.CustomerID)
	assert.Equal(t, "critical", view.Gauge.Tier)
	assert.False(t, view.Chart.Available)
	assert.Equal(t, domain.ErrExplanationUnavailable.Error(), view.Chart.Message)
}

func TestDashboardUseCase_GetView_PropagatesNotFound(t *testing.T) {
	uc := dashboard.NewDashboardUseCase(fakeAssessor{err: domain.ErrNotFound}, dashboard.NewViewBuilder("₹"), nil)
	_, err := uc.GetView(context.Background(), 5)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDashboardUseCase_RenderReport(t *testing.T) {
	a := &usecase.Assessment{Customer: &entity.Customer{ID: 9}, Score: scoring.Available(0.1)}
	reports := &fakeReports{}
	uc := dashboard.NewDashboardUseCase(fakeAssessor{a: a}, dashboard.NewViewBuilder("₹"), reports)

	pdf, name, err := uc.RenderReport(context.Background(), 9)

	require.NoError(t, err)
	assert.Equal(t, "risk-report-9.pdf", name)
	assert.Contains(t, string(pdf), "%PDF")
	require.NotNil(t, reports.got)
	assert.Equal(t, "strong", reports.got.Gauge.Tier)
}

func TestDashboardUseCase_RenderReport_NotConfigured(t *testing.T) {
	a := &usecase.Assessment{Customer: &entity.Customer{ID: 9}, Score: scoring.Available(0.1)}
	uc := dashboard.NewDashboardUseCase(fakeAssessor{a: a}, dashboard.NewViewBuilder("₹"), nil)
	_, _, err := uc.RenderReport(context.Background(), 9)
	assert.Error(t, err)
}
