package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// ErrStoreFailure falla de conectividad o de consulta contra el almacén de clientes.
	// El caller puede reintentar; internamente no se reintenta.
	ErrStoreFailure = errors.New("error de base de datos")

	// ErrScoringUnavailable el servicio de predicción no respondió con un score válido.
	// No es fatal: la respuesta se degrada con un score marcado como "unavailable".
	ErrScoringUnavailable = errors.New("servicio de scoring no disponible")

	// ErrExplanationUnavailable el servicio de explicación SHAP falló.
	ErrExplanationUnavailable = errors.New("servicio de explicación no disponible")
)
