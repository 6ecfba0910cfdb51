package ports

import (
	"context"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dto"
)

// RiskReportGenerator renderiza el modelo de vista del dashboard como documento descargable.
type RiskReportGenerator interface {
	GenerateRiskReport(ctx context.Context, view *dto.DashboardViewDTO) ([]byte, error)
}
