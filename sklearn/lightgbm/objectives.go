package lightgbm

import (
	"github.com/IzaacCoding36/onia/core/parallel"
	scigoErrors "github.com/IzaacCoding36/onia/pkg/errors"
)

// minHessian keeps leaf weights finite when a probability saturates.
const minHessian = 1e-16

// MulticlassObjective is the interface for softmax-style objectives.
// Scores, gradients and hessians are stored row-major: index i*numClasses+k.
type MulticlassObjective interface {
	// CalculateGradientsAndHessians fills grad and hess for the current raw scores.
	CalculateGradientsAndHessians(yTrue []int, scores, grad, hess []float64)

	// CalculateLoss calculates the mean loss
	CalculateLoss(yTrue []int, scores []float64) float64

	// Name returns the name of the objective
	Name() string
}

// CreateObjectiveFunction returns the objective for the given name.
func CreateObjectiveFunction(objective string, numClasses, numThreads int) (MulticlassObjective, error) {
	switch ObjectiveType(objective) {
	case MulticlassSoftmax, "softmax", "multi:softprob", "":
		return NewMulticlassLogLoss(numClasses, numThreads), nil
	default:
		return nil, scigoErrors.NewValidationError("objective", "unsupported objective", objective)
	}
}

// MulticlassLogLossObjective implements multiclass cross-entropy loss with softmax
type MulticlassLogLossObjective struct {
	numClasses int
	numThreads int
}

// NewMulticlassLogLoss creates the softmax objective. numThreads <= 0 uses all cores.
func NewMulticlassLogLoss(numClasses, numThreads int) *MulticlassLogLossObjective {
	return &MulticlassLogLossObjective{
		numClasses: numClasses,
		numThreads: numThreads,
	}
}

// CalculateGradientsAndHessians implements the multiclass logloss gradients and hessians.
//
//	grad = p_k - 1[y == k]
//	hess = max(p_k * (1 - p_k), 1e-16)
func (m *MulticlassLogLossObjective) CalculateGradientsAndHessians(yTrue []int, scores, grad, hess []float64) {
	K := m.numClasses
	parallel.ParallelizeWithThreshold(len(yTrue), 1024, m.numThreads, func(start, end int) {
		for i := start; i < end; i++ {
			probabilities := softmax(scores[i*K : (i+1)*K])
			for k, prob := range probabilities {
				g := prob
				if k == yTrue[i] {
					g = prob - 1.0
				}
				h := prob * (1.0 - prob)
				if h < minHessian {
					h = minHessian
				}
				grad[i*K+k] = g
				hess[i*K+k] = h
			}
		}
	})
}

// CalculateLoss calculates the mean multiclass cross-entropy loss
func (m *MulticlassLogLossObjective) CalculateLoss(yTrue []int, scores []float64) float64 {
	K := m.numClasses
	if len(yTrue) == 0 {
		return 0
	}
	total := 0.0
	for i, y := range yTrue {
		logits := scores[i*K : (i+1)*K]
		total += scigoErrors.LogSumExp(logits) - logits[y]
	}
	return total / float64(len(yTrue))
}

// MetricMultiLogLoss は多クラス対数損失の評価名
const MetricMultiLogLoss = "multi_logloss"

// Name returns the name of the objective
func (m *MulticlassLogLossObjective) Name() string {
	return MetricMultiLogLoss
}

var _ MulticlassObjective = (*MulticlassLogLossObjective)(nil)
