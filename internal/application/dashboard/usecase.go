package dashboard

import (
	"context"
	"fmt"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dto"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/ports"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/usecase"
)

// Assessor fuente de evaluaciones (implementado por usecase.RiskUseCase).
type Assessor interface {
	Assess(ctx context.Context, id int64) (*usecase.Assessment, error)
}

// DashboardUseCase arma la vista del dashboard y su reporte PDF.
type DashboardUseCase struct {
	assessor Assessor
	builder  *ViewBuilder
	reports  ports.RiskReportGenerator
}

// NewDashboardUseCase construye el caso de uso. reports puede ser nil si no se expone el PDF.
func NewDashboardUseCase(assessor Assessor, builder *ViewBuilder, reports ports.RiskReportGenerator) *DashboardUseCase {
	return &DashboardUseCase{assessor: assessor, builder: builder, reports: reports}
}

// GetView evalúa al cliente y devuelve el modelo de vista.
// Errores de dominio (ErrNotFound, ErrStoreFailure, ErrInvalidInput) se propagan sin cambios.
func (uc *DashboardUseCase) GetView(ctx context.Context, id int64) (*dto.DashboardViewDTO, error) {
	a, err := uc.assessor.Assess(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.builder.Build(a), nil
}

// RenderReport devuelve el PDF del dashboard y el nombre de archivo sugerido.
func (uc *DashboardUseCase) RenderReport(ctx context.Context, id int64) ([]byte, string, error) {
	if uc.reports == nil {
		return nil, "", fmt.Errorf("reporte PDF no configurado")
	}
	view, err := uc.GetView(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.reports.GenerateRiskReport(ctx, view)
	if err != nil {
		return nil, "", fmt.Errorf("generar reporte de riesgo: %w", err)
	}
	return pdf, fmt.Sprintf("risk-report-%d.pdf", id), nil
}
