package scoring

import "fmt"

// Explanation desglose SHAP devuelto por /explain. Las tres secuencias están
// indexadas igual: el índice i describe una misma feature.
// Un valor SHAP positivo empuja la probabilidad de impago hacia arriba.
type Explanation struct {
	BaseValue     float64
	FeatureNames  []string
	ShapValues    []float64
	FeatureValues []float64
}

// Validate verifica que las tres secuencias tengan la misma longitud.
func (e *Explanation) Validate() error {
	n := len(e.FeatureNames)
	if len(e.ShapValues) != n || len(e.FeatureValues) != n {
		return fmt.Errorf("explicación inconsistente: %d nombres, %d valores SHAP, %d valores de feature",
			n, len(e.ShapValues), len(e.FeatureValues))
	}
	return nil
}
