package http

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dashboard"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/dto"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/usecase"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// pageData contexto de la plantilla del dashboard.
type pageData struct {
	Title     string
	SearchID  string
	Error     string
	Customers []dto.CustomerDTO
	View      *dto.DashboardViewDTO
}

// DashboardHandler página HTML del dashboard, su vista JSON y el reporte PDF.
type DashboardHandler struct {
	uc   *dashboard.DashboardUseCase
	risk *usecase.RiskUseCase
}

// NewDashboardHandler construye el handler. risk se usa para el listado de la portada.
func NewDashboardHandler(uc *dashboard.DashboardUseCase, risk *usecase.RiskUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, risk: risk}
}

// View godoc
// @Summary      Modelo de vista del dashboard
// @Description  Perfil formateado, gauge (porcentaje, aguja, nivel) y gráfico SHAP ordenado.
// @Tags         dashboard
// @Produce      json
// @Param        id   path      int  true  "ID del cliente"
// @Success      200  {object}  dto.DashboardViewDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customer/{id}/dashboard [get]
func (h *DashboardHandler) View(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	view, err := h.uc.GetView(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

// Report godoc
// @Summary      Reporte PDF de riesgo
// @Tags         dashboard
// @Produce      application/pdf
// @Param        id   path      int  true  "ID del cliente"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customer/{id}/report.pdf [get]
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	pdf, filename, err := h.uc.RenderReport(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

// Home GET / : buscador y primeros clientes.
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	data := pageData{Title: "Bank Customer Risk Assessment"}
	list, err := h.risk.ListCustomers(c.UserContext())
	if err != nil {
		data.Error = "Database error"
		return h.render(c, fiber.StatusInternalServerError, data)
	}
	data.Customers = list
	return h.render(c, fiber.StatusOK, data)
}

// Search GET /customers?id=N : redirige a la página del cliente.
func (h *DashboardHandler) Search(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Redirect("/customers/"+url.PathEscape(id), fiber.StatusSeeOther)
}

// Page GET /customers/:id : dashboard renderizado en el servidor.
func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	data := pageData{Title: "Bank Customer Risk Assessment", SearchID: c.Params("id")}

	id, ok := parseID(c)
	if !ok {
		data.Error = "Customer ID must be a positive integer"
		return h.render(c, fiber.StatusBadRequest, data)
	}

	view, err := h.uc.GetView(c.UserContext(), id)
	switch {
	case err == nil:
		data.View = view
		return h.render(c, fiber.StatusOK, data)
	case errors.Is(err, domain.ErrNotFound):
		data.Error = "Customer not found!"
		return h.render(c, fiber.StatusNotFound, data)
	default:
		data.Error = "Database error"
		return h.render(c, fiber.StatusInternalServerError, data)
	}
}

func (h *DashboardHandler) render(c *fiber.Ctx, status int, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
