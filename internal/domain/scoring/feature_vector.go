// Package scoring contiene los value objects que viajan entre el agregador y el
// servicio externo de ML: el vector de features, el score etiquetado y la
// explicación SHAP, más la convención canónica de riesgo del dashboard.
package scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/credit-risk-dashboard/internal/domain/entity"
)

// FeatureVector es el contrato exacto que recibe el servicio de ML en /predict y /explain.
// Los nombres JSON (incluidos los guiones) son parte del contrato y no deben cambiar.
// El orden de los campos replica el orden de columnas que espera el modelo.
type FeatureVector struct {
	RevolvingUtilization float64 `json:"RevolvingUtilizationOfUnsecuredLines"`
	Age                  float64 `json:"age"`
	PastDue30to59        float64 `json:"NumberOfTime30-59DaysPastDueNotWorse"`
	DebtRatio            float64 `json:"DebtRatio"`
	MonthlyIncome        float64 `json:"MonthlyIncome"`
	OpenCreditLines      float64 `json:"NumberOfOpenCreditLinesAndLoans"`
	Times90DaysLate      float64 `json:"NumberOfTimes90DaysLate"`
	RealEstateLoans      float64 `json:"NumberRealEstateLoansOrLines"`
	PastDue60to89        float64 `json:"NumberOfTime60-89DaysPastDueNotWorse"`
	NumberOfDependents   float64 `json:"NumberOfDependents"`
}

// FeatureNames claves del vector en el orden del contrato.
var FeatureNames = []string{
	"RevolvingUtilizationOfUnsecuredLines",
	"age",
	"NumberOfTime30-59DaysPastDueNotWorse",
	"DebtRatio",
	"MonthlyIncome",
	"NumberOfOpenCreditLinesAndLoans",
	"NumberOfTimes90DaysLate",
	"NumberRealEstateLoansOrLines",
	"NumberOfTime60-89DaysPastDueNotWorse",
	"NumberOfDependents",
}

// NewFeatureVector convierte un cliente en el vector numérico del modelo.
//
// Política de coerción única: los campos nulos (MonthlyIncome, NumberOfDependents)
// se envían como 0, igual que el fillna(0) del propio servicio. Ningún campo
// sale como NaN o ±Inf.
func NewFeatureVector(c *entity.Customer) FeatureVector {
	fv := FeatureVector{
		RevolvingUtilization: decimalToFloat(c.RevolvingUtilization),
		Age:                  float64(c.Age),
		PastDue30to59:        float64(c.PastDue30to59),
		DebtRatio:            decimalToFloat(c.DebtRatio),
		OpenCreditLines:      float64(c.OpenCreditLines),
		Times90DaysLate:      float64(c.Times90DaysLate),
		RealEstateLoans:      float64(c.RealEstateLoans),
		PastDue60to89:        float64(c.PastDue60to89),
	}
	if c.MonthlyIncome.Valid {
		fv.MonthlyIncome = decimalToFloat(c.MonthlyIncome.Decimal)
	}
	if c.NumberOfDependents != nil {
		fv.NumberOfDependents = float64(*c.NumberOfDependents)
	}
	return fv
}

func decimalToFloat(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
