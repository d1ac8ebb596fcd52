package lightgbm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/core/parallel"
	scigoErrors "github.com/IzaacCoding36/onia/pkg/errors"
)

// Predictor evaluates a trained Model over batches of samples in parallel.
// Every row is computed independently, so results do not depend on the thread count.
type Predictor struct {
	model      *Model
	numThreads int
}

// NewPredictor creates a new predictor with the given model
func NewPredictor(model *Model) *Predictor {
	return &Predictor{model: model, numThreads: -1}
}

// SetNumThreads sets the number of threads for parallel prediction (<= 0 for all cores)
func (p *Predictor) SetNumThreads(n int) {
	p.numThreads = n
}

func (p *Predictor) checkDims(X mat.Matrix) (int, error) {
	rows, cols := X.Dims()
	if cols != p.model.NumFeatures {
		return 0, scigoErrors.NewDimensionError("Predictor.Predict", p.model.NumFeatures, cols, 1)
	}
	return rows, nil
}

// PredictRaw returns the raw class scores, shape (n_samples, n_classes).
func (p *Predictor) PredictRaw(X mat.Matrix) (*mat.Dense, error) {
	return p.predict(X, false)
}

// PredictProba returns the softmax class probabilities, shape (n_samples, n_classes).
func (p *Predictor) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	return p.predict(X, true)
}

func (p *Predictor) predict(X mat.Matrix, proba bool) (*mat.Dense, error) {
	rows, err := p.checkDims(X)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return &mat.Dense{}, nil
	}

	out := mat.NewDense(rows, p.model.NumClass, nil)
	parallel.ParallelizeWithThreshold(rows, 256, p.numThreads, func(start, end int) {
		features := make([]float64, p.model.NumFeatures)
		for i := start; i < end; i++ {
			mat.Row(features, i, X)
			scores := p.model.PredictRaw(features, -1)
			if proba {
				scores = softmax(scores)
			}
			out.SetRow(i, scores)
		}
	})
	return out, nil
}
