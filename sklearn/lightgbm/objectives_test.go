package lightgbm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scigoErrors "github.com/IzaacCoding36/onia/pkg/errors"
)

func TestMulticlassLogLossGradients(t *testing.T) {
	obj := NewMulticlassLogLoss(3, 1)
	y := []int{0, 2}
	scores := make([]float64, 6)
	grad := make([]float64, 6)
	hess := make([]float64, 6)

	obj.CalculateGradientsAndHessians(y, scores, grad, hess)

	assert.InDelta(t, -2.0/3, grad[0], 1e-12)
	assert.InDelta(t, 1.0/3, grad[1], 1e-12)
	assert.InDelta(t, -2.0/3, grad[5], 1e-12)
	for i := 0; i < 2; i++ {
		sum := grad[i*3] + grad[i*3+1] + grad[i*3+2]
		assert.InDelta(t, 0.0, sum, 1e-12)
	}
	for _, h := range hess {
		assert.InDelta(t, 2.0/9, h, 1e-12)
	}
}

func TestMulticlassLogLossSaturatedHessian(t *testing.T) {
	obj := NewMulticlassLogLoss(2, 1)
	grad := make([]float64, 2)
	hess := make([]float64, 2)

	obj.CalculateGradientsAndHessians([]int{0}, []float64{800, -800}, grad, hess)
	assert.Equal(t, minHessian, hess[0])
	assert.Equal(t, minHessian, hess[1])
}

func TestMulticlassLogLossLoss(t *testing.T) {
	obj := NewMulticlassLogLoss(3, 1)

	assert.InDelta(t, math.Log(3), obj.CalculateLoss([]int{1, 2}, make([]float64, 6)), 1e-12)
	assert.Equal(t, 0.0, obj.CalculateLoss(nil, nil))
	assert.Equal(t, "multi_logloss", obj.Name())

	loss := obj.CalculateLoss([]int{0}, []float64{10, 0, 0})
	assert.Less(t, loss, 1e-3)
}

func TestCreateObjectiveFunction(t *testing.T) {
	for _, name := range []string{"multiclass", "softmax", "multi:softprob", ""} {
		obj, err := CreateObjectiveFunction(name, 3, -1)
		require.NoError(t, err, name)
		assert.Equal(t, "multi_logloss", obj.Name())
	}

	_, err := CreateObjectiveFunction("binary", 2, -1)
	var validationErr *scigoErrors.ValidationError
	assert.True(t, scigoErrors.As(err, &validationErr))
}
