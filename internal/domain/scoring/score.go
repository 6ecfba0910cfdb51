package scoring

import "math"

// ScoreStatus discrimina un score calculado de uno que no se pudo calcular.
type ScoreStatus string

const (
	ScoreStatusOK          ScoreStatus = "ok"
	ScoreStatusUnavailable ScoreStatus = "unavailable"
)

// Score resultado etiquetado de /predict. Value es la probabilidad de impago en [0,1]
// y solo es significativo cuando Status es ok: un score no disponible nunca se
// representa como cero.
type Score struct {
	Status  ScoreStatus
	Value   float64
	Message string
}

// Available construye un score calculado, acotado a [0,1].
func Available(value float64) Score {
	switch {
	case value < 0 || math.IsNaN(value):
		value = 0
	case value > 1:
		value = 1
	}
	return Score{Status: ScoreStatusOK, Value: value}
}

// Unavailable construye el centinela de servicio no disponible.
func Unavailable(message string) Score {
	return Score{Status: ScoreStatusUnavailable, Message: message}
}

// OK indica si el score fue calculado.
func (s Score) OK() bool { return s.Status == ScoreStatusOK }
