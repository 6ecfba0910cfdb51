// Package pdf genera el reporte descargable del dashboard de riesgo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + ID de cliente   │  fecha de emisión       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PERFIL: pares etiqueta / valor en dos columnas             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SCORE: porcentaje de riesgo + nivel cualitativo            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SHAP: feature (valor) │ barra coloreada │ contribución     │
//	│  Base value                                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dto"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/ports"
)

var _ ports.RiskReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 15, Green: 23, Blue: 42}
	colorGray    = &props.Color{Red: 100, Green: 116, Blue: 139}
)

// Columnas de la grilla de 12 reservadas a la barra SHAP.
const barGridCols = 7

// Las fuentes core de PDF son cp1252: símbolos fuera de ese juego se transliteran.
var pdfSafe = strings.NewReplacer("₹", "Rs. ")

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.RiskReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	now func() time.Time
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{now: time.Now}
}

// GenerateRiskReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateRiskReport(_ context.Context, view *dto.DashboardViewDTO) ([]byte, error) {
	if view == nil {
		return nil, fmt.Errorf("pdf: vista nula")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Customer Risk Assessment #%d", view.CustomerID), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(view.CustomerID, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("Customer Profile"))
	m.AddRows(profileRows(view.Profile)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	m.AddRows(sectionTitle("Risk Assessment"))
	m.AddRows(gaugeRow(view.Gauge))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	m.AddRows(sectionTitle("Why this score? (SHAP)"))
	m.AddRows(shapRows(view.Chart)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(customerID int64, now time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Bank Customer Risk Assessment", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Customer ID: %d", customerID), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+now.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
	))
}

// profileRows: dos pares etiqueta/valor por fila.
func profileRows(fields []dto.ProfileFieldDTO) []core.Row {
	cell := func(f dto.ProfileFieldDTO) []core.Col {
		return []core.Col{
			col.New(3).Add(text.New(f.Label+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(3).Add(text.New(pdfSafe.Replace(f.Value), props.Text{Size: 8, Top: 1})),
		}
	}

	rows := make([]core.Row, 0, (len(fields)+1)/2)
	for i := 0; i < len(fields); i += 2 {
		cols := cell(fields[i])
		if i+1 < len(fields) {
			cols = append(cols, cell(fields[i+1])...)
		} else {
			cols = append(cols, col.New(6))
		}
		rows = append(rows, row.New(6).Add(cols...))
	}
	return rows
}

func gaugeRow(g dto.GaugeDTO) core.Row {
	detail := "Score indicates probability of default."
	if g.Available && g.ProfileStrength != nil {
		detail = fmt.Sprintf("Probability of default %s. Profile strength %.1f%%.", g.Display, *g.ProfileStrength)
	}
	return row.New(16).Add(
		col.New(3).Add(text.New(g.Display, props.Text{
			Style: fontstyle.Bold, Size: 18, Color: hexColor(g.Color), Top: 2,
		})),
		col.New(9).Add(
			text.New(g.Label, props.Text{Style: fontstyle.Bold, Size: 11, Color: hexColor(g.Color), Top: 2}),
			text.New(detail, props.Text{Size: 8, Color: colorGray, Top: 9}),
		),
	)
}

// shapRows: una fila por contribución; la barra ocupa hasta barGridCols columnas.
func shapRows(chart dto.ShapChartDTO) []core.Row {
	if !chart.Available {
		msg := "Unavailable"
		if chart.Message != "" {
			msg = "Unavailable: " + chart.Message
		}
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New(msg, props.Text{Size: 9, Color: hexColor("#ff4d4d"), Top: 2}),
		))}
	}

	rows := make([]core.Row, 0, len(chart.Bars)+1)
	for _, b := range chart.Bars {
		cols := []core.Col{
			col.New(3).Add(text.New(fmt.Sprintf("%s (%s)", b.Feature, b.ValueLabel), props.Text{Size: 7, Top: 1.5})),
		}
		span := barSpan(b.WidthPercent)
		if span > 0 {
			cols = append(cols, col.New(span).WithStyle(&props.Cell{BackgroundColor: hexColor(b.Color)}))
		}
		if rest := barGridCols - span; rest > 0 {
			cols = append(cols, col.New(rest))
		}
		cols = append(cols, col.New(2).Add(text.New(b.ContributionLabel, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: hexColor(b.Color), Top: 1.5,
		})))
		rows = append(rows, row.New(7).Add(cols...))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Base value: "+chart.BaseValueLabel, props.Text{Size: 8, Color: colorGray, Top: 3}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// barSpan convierte un ancho porcentual en columnas de la grilla; todo ancho > 0 ocupa al menos una.
func barSpan(widthPercent float64) int {
	if widthPercent <= 0 {
		return 0
	}
	n := int(math.Round(widthPercent / 100 * barGridCols))
	if n < 1 {
		n = 1
	}
	if n > barGridCols {
		n = barGridCols
	}
	return n
}

// hexColor convierte "#rrggbb" a props.Color; entradas inválidas → gris.
func hexColor(hex string) *props.Color {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return colorGray
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return colorGray
	}
	return &props.Color{Red: int(v >> 16 & 0xff), Green: int(v >> 8 & 0xff), Blue: int(v & 0xff)}
}
