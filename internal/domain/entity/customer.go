package entity

import "github.com/shopspring/decimal"

// Customer representa una fila de la tabla credit_risk: el perfil crediticio de un
// cliente del banco. Es de solo lectura para este sistema.
//
// MonthlyIncome y NumberOfDependents son nulos en una parte del dataset de origen;
// se modelan como nullables para no confundir "sin dato" con cero.
type Customer struct {
	ID                   int64
	Age                  int
	MonthlyIncome        decimal.NullDecimal
	DebtRatio            decimal.Decimal
	NumberOfDependents   *int
	RevolvingUtilization decimal.Decimal // RevolvingUtilizationOfUnsecuredLines
	PastDue30to59        int             // NumberOfTime30-59DaysPastDueNotWorse
	PastDue60to89        int             // NumberOfTime60-89DaysPastDueNotWorse
	Times90DaysLate      int
	OpenCreditLines      int // NumberOfOpenCreditLinesAndLoans
	RealEstateLoans      int // NumberRealEstateLoansOrLines
}
