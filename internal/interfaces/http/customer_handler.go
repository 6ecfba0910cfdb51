package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dto"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/usecase"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain"
)

// CustomerHandler endpoints JSON de clientes y scoring.
type CustomerHandler struct {
	uc *usecase.RiskUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.RiskUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// List godoc
// @Summary      Listar clientes
// @Description  Primeras filas del almacén (límite configurable, 10 por defecto). Sin scoring.
// @Tags         customers
// @Produce      json
// @Success      200  {array}   dto.CustomerDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customer [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListCustomers(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Cliente y score de riesgo
// @Description  riskScore.status = "unavailable" si el servicio de ML falla; la respuesta sigue siendo 200.
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerScoreResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customer/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	resp, err := h.uc.GetCustomerAndScore(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Explain godoc
// @Summary      Explicación SHAP del score
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "ID del cliente"
// @Success      200  {object}  dto.ExplanationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customer/{id}/explain [get]
func (h *CustomerHandler) Explain(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	resp, err := h.uc.GetCustomerExplanation(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Assessment godoc
// @Summary      Evaluación combinada
// @Description  Una lectura del cliente; /predict y /explain en paralelo. Cada sub-resultado lleva su status.
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "ID del cliente"
// @Success      200  {object}  dto.AssessmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customer/{id}/assessment [get]
func (h *CustomerHandler) Assessment(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	resp, err := h.uc.GetAssessment(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// parseID acepta solo enteros positivos.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "el id debe ser un entero positivo"})
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return invalidID(c)
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ID not found"})
	case errors.Is(err, domain.ErrStoreFailure):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "DATABASE_ERROR", Message: "Database error"})
	case errors.Is(err, domain.ErrExplanationUnavailable):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPLANATION_UNAVAILABLE", Message: "ML Explanation Service Unavailable"})
	default:
		// El detalle queda en el log de acceso, no en la respuesta.
		c.Locals(localsError, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Internal error"})
	}
}
