package repository

import (
	"context"

	"github.com/jhoicas/credit-risk-dashboard/internal/domain/entity"
)

// CustomerRepository define el puerto de lectura para los clientes de credit_risk.
type CustomerRepository interface {
	// GetByID devuelve (nil, nil) si no existe ningún cliente con ese id.
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	// ListFirst devuelve como máximo limit clientes ordenados por id.
	ListFirst(ctx context.Context, limit int) ([]*entity.Customer, error)
}
