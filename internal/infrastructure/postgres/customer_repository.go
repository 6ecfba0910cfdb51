package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/credit-risk-dashboard/internal/domain/entity"
	"github.com/jhoicas/credit-risk-dashboard/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `
	id, "RevolvingUtilizationOfUnsecuredLines", age, "NumberOfTime30-59DaysPastDueNotWorse",
	"DebtRatio", "MonthlyIncome", "NumberOfOpenCreditLinesAndLoans", "NumberOfTimes90DaysLate",
	"NumberRealEstateLoansOrLines", "NumberOfTime60-89DaysPastDueNotWorse", "NumberOfDependents"`

// CustomerRepo implementación read-only de CustomerRepository sobre la tabla credit_risk.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID obtiene un cliente por ID. Devuelve (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM credit_risk WHERE id = $1`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("get customer: tabla credit_risk inexistente (¿migraciones?): %w", err)
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// ListFirst lista los primeros limit clientes ordenados por id.
func (r *CustomerRepo) ListFirst(ctx context.Context, limit int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM credit_risk ORDER BY id LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Customer, 0, limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.RevolvingUtilization, &c.Age, &c.PastDue30to59,
		&c.DebtRatio, &c.MonthlyIncome, &c.OpenCreditLines, &c.Times90DaysLate,
		&c.RealEstateLoans, &c.PastDue60to89, &c.NumberOfDependents,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
