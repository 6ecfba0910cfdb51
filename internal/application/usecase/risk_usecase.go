package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dto"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/ports"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/entity"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/repository"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/scoring"
	"github.com/jhoicas/credit-risk-dashboard/pkg/logger"
)

// Mensaje del score degradado cuando /predict falla.
const scoreUnavailableMessage = "ML Service Unavailable"

// RiskConfig parámetros del caso de uso.
type RiskConfig struct {
	ListLimit   int           // filas de GET /api/customer
	CallTimeout time.Duration // deadline de cada llamada al servicio de ML
}

// Assessment resultado combinado: el cliente, su score etiquetado y la explicación.
// Explanation es nil si la explicación falló; ExplanationErr lleva el motivo.
type Assessment struct {
	Customer       *entity.Customer
	Score          scoring.Score
	Explanation    *scoring.Explanation
	ExplanationErr string
}

// RiskUseCase orquesta almacén de clientes + servicio de ML.
// Un fallo de /predict degrada la respuesta (score "unavailable"), nunca la tumba.
// Un fallo de /explain sí es un error para el endpoint de explicación.
type RiskUseCase struct {
	repo   repository.CustomerRepository
	scorer ports.ScoringService
	cfg    RiskConfig
	log    *logger.Logger
}

// NewRiskUseCase construye el caso de uso. Valores no positivos de cfg toman los defaults.
func NewRiskUseCase(repo repository.CustomerRepository, scorer ports.ScoringService, cfg RiskConfig, log *logger.Logger) *RiskUseCase {
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 10
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 4 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RiskUseCase{repo: repo, scorer: scorer, cfg: cfg, log: log}
}

// ListCustomers devuelve las primeras filas del almacén, sin scoring.
func (uc *RiskUseCase) ListCustomers(ctx context.Context) ([]dto.CustomerDTO, error) {
	list, err := uc.repo.ListFirst(ctx, uc.cfg.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	out := make([]dto.CustomerDTO, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerDTO(c))
	}
	return out, nil
}

// GetCustomerAndScore lee el cliente y pide su score. Si el servicio de ML falla
// el score viaja como "unavailable" y la operación igualmente tiene éxito.
func (uc *RiskUseCase) GetCustomerAndScore(ctx context.Context, id int64) (*dto.CustomerScoreResponse, error) {
	c, err := uc.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	score := uc.score(ctx, c)
	return &dto.CustomerScoreResponse{
		Customer:  toCustomerDTO(c),
		RiskScore: toScoreDTO(score),
	}, nil
}

// GetCustomerExplanation lee el cliente y devuelve el desglose SHAP tal cual.
func (uc *RiskUseCase) GetCustomerExplanation(ctx context.Context, id int64) (*dto.ExplanationResponse, error) {
	c, err := uc.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	exp, err := uc.explain(ctx, c)
	if err != nil {
		return nil, err
	}
	return &dto.ExplanationResponse{Explanation: toExplanationDTO(exp)}, nil
}

// GetAssessment evaluación combinada en formato de API.
func (uc *RiskUseCase) GetAssessment(ctx context.Context, id int64) (*dto.AssessmentResponse, error) {
	a, err := uc.Assess(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.AssessmentResponse{
		Customer:  toCustomerDTO(a.Customer),
		RiskScore: toScoreDTO(a.Score),
	}
	if a.Explanation != nil {
		exp := toExplanationDTO(a.Explanation)
		resp.Explanation = dto.ExplanationResultDTO{Status: dto.StatusOK, Value: &exp}
	} else {
		resp.Explanation = dto.ExplanationResultDTO{Status: dto.StatusUnavailable, Message: a.ExplanationErr}
	}
	return resp, nil
}

// Assess lee el cliente una sola vez y lanza /predict y /explain en paralelo.
// La explicación se intenta siempre, aunque el score falle.
func (uc *RiskUseCase) Assess(ctx context.Context, id int64) (*Assessment, error) {
	c, err := uc.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	type explainResult struct {
		exp *scoring.Explanation
		err error
	}
	scoreCh := make(chan scoring.Score, 1)
	explainCh := make(chan explainResult, 1)

	go func() {
		scoreCh <- uc.score(ctx, c)
	}()
	go func() {
		exp, err := uc.explain(ctx, c)
		explainCh <- explainResult{exp, err}
	}()

	score := <-scoreCh
	ex := <-explainCh

	a := &Assessment{Customer: c, Score: score, Explanation: ex.exp}
	if ex.err != nil {
		a.ExplanationErr = domain.ErrExplanationUnavailable.Error()
	}
	return a, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// fetch valida el id y lee el cliente. Ausente → ErrNotFound, sin tocar el servicio de ML.
func (uc *RiskUseCase) fetch(ctx context.Context, id int64) (*entity.Customer, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id debe ser positivo", domain.ErrInvalidInput)
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		uc.log.Error().Err(err).Int64("customer_id", id).Msg("lectura de cliente fallida")
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *RiskUseCase) score(ctx context.Context, c *entity.Customer) scoring.Score {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.CallTimeout)
	defer cancel()

	value, err := uc.scorer.Predict(ctx, scoring.NewFeatureVector(c))
	if err != nil {
		uc.log.Warn().Err(err).Int64("customer_id", c.ID).Msg("predicción no disponible, score degradado")
		return scoring.Unavailable(scoreUnavailableMessage)
	}
	return scoring.Available(value)
}

func (uc *RiskUseCase) explain(ctx context.Context, c *entity.Customer) (*scoring.Explanation, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.CallTimeout)
	defer cancel()

	exp, err := uc.scorer.Explain(ctx, scoring.NewFeatureVector(c))
	if err == nil && exp == nil {
		err = errors.New("respuesta vacía")
	}
	if err != nil {
		uc.log.Error().Err(err).Int64("customer_id", c.ID).Msg("explicación SHAP fallida")
		return nil, fmt.Errorf("%w: %w", domain.ErrExplanationUnavailable, err)
	}
	return exp, nil
}

func toCustomerDTO(c *entity.Customer) dto.CustomerDTO {
	return dto.CustomerDTO{
		ID:                   c.ID,
		RevolvingUtilization: c.RevolvingUtilization,
		Age:                  c.Age,
		PastDue30to59:        c.PastDue30to59,
		DebtRatio:            c.DebtRatio,
		MonthlyIncome:        c.MonthlyIncome,
		OpenCreditLines:      c.OpenCreditLines,
		Times90DaysLate:      c.Times90DaysLate,
		RealEstateLoans:      c.RealEstateLoans,
		PastDue60to89:        c.PastDue60to89,
		NumberOfDependents:   c.NumberOfDependents,
	}
}

func toScoreDTO(s scoring.Score) dto.ScoreResultDTO {
	if !s.OK() {
		return dto.ScoreResultDTO{Status: dto.StatusUnavailable, Message: s.Message}
	}
	v := s.Value
	return dto.ScoreResultDTO{Status: dto.StatusOK, Value: &v}
}

func toExplanationDTO(e *scoring.Explanation) dto.ExplanationDTO {
	return dto.ExplanationDTO{
		BaseValue:     e.BaseValue,
		FeatureNames:  e.FeatureNames,
		ShapValues:    e.ShapValues,
		FeatureValues: e.FeatureValues,
	}
}
