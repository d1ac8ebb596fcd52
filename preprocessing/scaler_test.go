package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/pkg/errors"
)

func TestStandardScalerFit(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})

	scaler := NewStandardScalerDefault()
	require.NoError(t, scaler.Fit(X))

	assert.True(t, scaler.IsFitted())
	assert.Equal(t, 2, scaler.NFeatures())
	assert.InDeltaSlice(t, []float64{2.5, 10}, scaler.Mean, 1e-12)
	// 母標準偏差: sqrt(1.25)。定数列は 1
	assert.InDeltaSlice(t, []float64{math.Sqrt(1.25), 1}, scaler.Scale, 1e-12)
}

func TestStandardScalerTransform(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})

	scaler := NewStandardScalerDefault()
	Xs, err := scaler.FitTransform(X)
	require.NoError(t, err)

	col := mat.Col(nil, 0, Xs)
	assert.InDelta(t, 0, col[0]+col[1]+col[2], 1e-12)
	assert.InDelta(t, 0, col[1], 1e-12)
	assert.InDelta(t, -col[2], col[0], 1e-12)

	// 学習データの統計量がテストデータにもそのまま適用される
	XTest := mat.NewDense(1, 1, []float64{2})
	XTs, err := scaler.Transform(XTest)
	require.NoError(t, err)
	assert.InDelta(t, 0, XTs.At(0, 0), 1e-12)

	back, err := scaler.InverseTransform(Xs)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
}

func TestStandardScalerDeterministic(t *testing.T) {
	data := []float64{0.3, 1.7, -2.2, 5.1, 0.01, 9.9, 4.4, -0.5}
	X := mat.NewDense(4, 2, data)

	a := NewStandardScalerDefault()
	b := NewStandardScalerDefault()
	Xa, err := a.FitTransform(X)
	require.NoError(t, err)
	Xb, err := b.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, a.Mean, b.Mean)
	assert.Equal(t, a.Scale, b.Scale)
	assert.True(t, mat.Equal(Xa, Xb))
}

func TestStandardScalerIgnoresNaN(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, math.NaN(), 3})

	scaler := NewStandardScalerDefault()
	Xs, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.InDelta(t, 2, scaler.Mean[0], 1e-12)
	assert.InDelta(t, 1, scaler.Scale[0], 1e-12)
	assert.True(t, math.IsNaN(Xs.At(1, 0)))
}

func TestStandardScalerWithoutMeanAndStd(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})

	scaler := NewStandardScaler(false, false)
	Xs, err := scaler.FitTransform(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(X, Xs))
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScalerDefault()

	_, err := scaler.Transform(mat.NewDense(1, 1, nil))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	require.NoError(t, scaler.Fit(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})))
	_, err = scaler.Transform(mat.NewDense(1, 2, nil))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)

	err = NewStandardScalerDefault().Fit(&mat.Dense{})
	assert.Error(t, err)
}

func TestStandardScalerZeroRows(t *testing.T) {
	scaler := NewStandardScalerDefault()

	_, err := scaler.Transform(&mat.Dense{})
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))

	out, err := scaler.Transform(&mat.Dense{})
	require.NoError(t, err)
	rows, _ := out.Dims()
	assert.Zero(t, rows)

	out, err = scaler.InverseTransform(&mat.Dense{})
	require.NoError(t, err)
	rows, _ = out.Dims()
	assert.Zero(t, rows)
}
