package scoring_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/credit-risk-dashboard/internal/domain/entity"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/scoring"
)

func intPtr(v int) *int { return &v }

func fullCustomer() *entity.Customer {
	return &entity.Customer{
		ID:                   42,
		Age:                  45,
		MonthlyIncome:        decimal.NewNullDecimal(decimal.RequireFromString("9120")),
		DebtRatio:            decimal.RequireFromString("0.802982"),
		NumberOfDependents:   intPtr(2),
		RevolvingUtilization: decimal.RequireFromString("0.766126609"),
		PastDue30to59:        2,
		PastDue60to89:        1,
		Times90DaysLate:      3,
		OpenCreditLines:      13,
		RealEstateLoans:      6,
	}
}

func TestFeatureVector_ExactlyTenContractKeys(t *testing.T) {
	raw, err := json.Marshal(scoring.NewFeatureVector(fullCustomer()))
	require.NoError(t, err)

	var m map[string]float64
	require.NoError(t, json.Unmarshal(raw, &m))

	assert.Len(t, m, 10)
	for _, name := range scoring.FeatureNames {
		_, ok := m[name]
		assert.True(t, ok, "falta la clave %q", name)
	}
	assert.Equal(t, 2.0, m["NumberOfTime30-59DaysPastDueNotWorse"])
	assert.Equal(t, 1.0, m["NumberOfTime60-89DaysPastDueNotWorse"])
	assert.Equal(t, 9120.0, m["MonthlyIncome"])
	assert.InDelta(t, 0.766126609, m["RevolvingUtilizationOfUnsecuredLines"], 1e-12)
}

func TestFeatureVector_NullFieldsBecomeZero(t *testing.T) {
	c := fullCustomer()
	c.MonthlyIncome = decimal.NullDecimal{}
	c.NumberOfDependents = nil

	fv := scoring.NewFeatureVector(c)

	assert.Equal(t, 0.0, fv.MonthlyIncome)
	assert.Equal(t, 0.0, fv.NumberOfDependents)
	for _, v := range []float64{
		fv.RevolvingUtilization, fv.Age, fv.PastDue30to59, fv.DebtRatio, fv.MonthlyIncome,
		fv.OpenCreditLines, fv.Times90DaysLate, fv.RealEstateLoans, fv.PastDue60to89, fv.NumberOfDependents,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestScore_AvailableClampsAndUnavailableIsNotZero(t *testing.T) {
	assert.Equal(t, 1.0, scoring.Available(1.7).Value)
	assert.Equal(t, 0.0, scoring.Available(-0.2).Value)
	assert.Equal(t, 0.0, scoring.Available(math.NaN()).Value)
	assert.True(t, scoring.Available(0).OK())

	u := scoring.Unavailable("ML Service Unavailable")
	assert.False(t, u.OK())
	assert.Equal(t, scoring.ScoreStatusUnavailable, u.Status)
}

func TestExplanation_Validate(t *testing.T) {
	ok := &scoring.Explanation{
		FeatureNames:  []string{"age", "income"},
		ShapValues:    []float64{0.3, -0.5},
		FeatureValues: []float64{40, 5000},
	}
	assert.NoError(t, ok.Validate())

	bad := &scoring.Explanation{
		FeatureNames:  []string{"age", "income"},
		ShapValues:    []float64{0.3},
		FeatureValues: []float64{40, 5000},
	}
	assert.Error(t, bad.Validate())
}

func TestTierFor_Thresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  scoring.RiskTier
	}{
		{0.05, scoring.TierStrong},
		{0.29, scoring.TierStrong},
		{0.3, scoring.TierModerate}, // fortaleza 70 exacta no es "fuerte"
		{0.5, scoring.TierModerate},
		{0.7, scoring.TierCritical}, // fortaleza 30 exacta es crítica
		{0.95, scoring.TierCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, scoring.TierFor(tc.score), "score %v", tc.score)
	}
	assert.Equal(t, 23.5, scoring.RiskPercent(0.235))
	assert.Equal(t, 76.5, scoring.ProfileStrength(0.235))
}
