package lightgbm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
)

// separableData returns n*len(labels) rows where feature 0 increases with the row
// index and blocks of n rows share a label. The other features are noise.
func separableData(n int, labels []int) (*mat.Dense, []int) {
	rows := n * len(labels)
	X := mat.NewDense(rows, 4, nil)
	y := make([]int, rows)
	for i := 0; i < rows; i++ {
		X.Set(i, 0, float64(i))
		for j := 1; j < 4; j++ {
			X.Set(i, j, float64((i*7+j)%10)/10.0)
		}
		y[i] = labels[i/n]
	}
	return X, y
}

// TestLGBMClassifierBinaryFit tests the fit method for binary classification
func TestLGBMClassifierBinaryFit(t *testing.T) {
	X := mat.NewDense(100, 4, nil)
	y := mat.NewDense(100, 1, nil)
	for i := 0; i < 100; i++ {
		for j := 0; j < 4; j++ {
			X.Set(i, j, float64(i*j)/100.0)
		}
		if i >= 50 {
			y.Set(i, 0, 1)
		}
	}

	clf := NewLGBMClassifier()
	require.NoError(t, clf.Fit(X, y))

	assert.True(t, clf.state.IsFitted())
	assert.NotNil(t, clf.Model)
	assert.Equal(t, 2, clf.nClasses_)
	assert.Equal(t, []int{0, 1}, clf.classes_)
	// 二値でもクラスごとに木を作る
	assert.Len(t, clf.Model.Trees, clf.NumIterations*2)
}

// TestLGBMClassifierMulticlassFit tests the fit method for multiclass classification
func TestLGBMClassifierMulticlassFit(t *testing.T) {
	X := mat.NewDense(150, 4, nil)
	y := mat.NewDense(150, 1, nil)
	for i := 0; i < 150; i++ {
		for j := 0; j < 4; j++ {
			X.Set(i, j, float64(i*j)/150.0)
		}
		y.Set(i, 0, float64(i%3))
	}

	clf := NewLGBMClassifier().WithNumIterations(20)
	require.NoError(t, clf.Fit(X, y))

	assert.True(t, clf.state.IsFitted())
	assert.Equal(t, 3, clf.nClasses_)
	assert.Equal(t, []int{0, 1, 2}, clf.classes_)
}

func TestLGBMClassifierSeparableMulticlass(t *testing.T) {
	X, y := separableData(50, []int{3, 7, 9})

	clf := NewLGBMClassifier().WithNumIterations(30)
	require.NoError(t, clf.FitLabels(X, y))
	assert.Equal(t, []int{3, 7, 9}, clf.Classes())

	pred, err := clf.PredictLabels(X)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	predMat, err := clf.Predict(X)
	require.NoError(t, err)
	rows, cols := predMat.Dims()
	assert.Equal(t, 150, rows)
	assert.Equal(t, 1, cols)
	assert.Equal(t, 9.0, predMat.At(149, 0))

	// 分割に使われるのは特徴量 0 のみ
	importance := clf.GetFeatureImportance("split")
	assert.InDelta(t, 1.0, importance[0], 1e-12)
	assert.InDelta(t, 0.0, importance[1]+importance[2]+importance[3], 1e-12)
}

// TestLGBMClassifierPredictProba tests probability prediction
func TestLGBMClassifierPredictProba(t *testing.T) {
	X, y := separableData(30, []int{0, 1, 2})

	clf := NewLGBMClassifier().WithNumIterations(10)
	require.NoError(t, clf.FitLabels(X, y))

	proba, err := clf.PredictProba(X)
	require.NoError(t, err)

	rows, cols := proba.Dims()
	assert.Equal(t, 90, rows)
	assert.Equal(t, 3, cols)

	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			prob := proba.At(i, j)
			assert.GreaterOrEqual(t, prob, 0.0)
			assert.LessOrEqual(t, prob, 1.0)
			sum += prob
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		// 正解クラスの確率が最大
		assert.Greater(t, proba.At(i, y[i]), 0.5)
	}
}

func TestLGBMClassifierDeterministicAcrossThreads(t *testing.T) {
	X, y := separableData(40, []int{0, 1, 2})
	// ノイズ特徴量も分割に使われるよう、ラベルを一部入れ替える
	y[5], y[45], y[85] = 2, 0, 1

	single := NewLGBMClassifier().WithNumIterations(15).WithNumThreads(1)
	multi := NewLGBMClassifier().WithNumIterations(15).WithNumThreads(4)
	require.NoError(t, single.FitLabels(X, y))
	require.NoError(t, multi.FitLabels(X, y))

	p1, err := single.PredictProba(X)
	require.NoError(t, err)
	p2, err := multi.PredictProba(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(p1, p2))
	assert.Equal(t, single.TrainingLoss(), multi.TrainingLoss())
}

func TestLGBMClassifierEvalsResult(t *testing.T) {
	X, y := separableData(20, []int{0, 1, 2})

	clf := NewLGBMClassifier().WithNumIterations(8)
	assert.Empty(t, clf.EvalsResult())
	require.NoError(t, clf.FitLabels(X, y))

	losses := clf.EvalsResult()[MetricMultiLogLoss]
	require.Len(t, losses, 8)
	assert.Equal(t, clf.TrainingLoss(), losses[len(losses)-1])
	assert.Less(t, losses[len(losses)-1], losses[0])

	// 返り値を書き換えても内部の履歴は変わらない
	losses[0] = -1
	assert.NotEqual(t, -1.0, clf.EvalsResult()[MetricMultiLogLoss][0])

	// 再学習で履歴は置き換わる
	require.NoError(t, clf.WithNumIterations(3).FitLabels(X, y))
	assert.Len(t, clf.EvalsResult()[MetricMultiLogLoss], 3)
}

func TestLGBMClassifierMissingValues(t *testing.T) {
	// class 0 has values 0..49, class 1 is entirely missing
	X := mat.NewDense(100, 1, nil)
	y := make([]int, 100)
	for i := 0; i < 100; i++ {
		if i < 50 {
			X.Set(i, 0, float64(i))
		} else {
			X.Set(i, 0, math.NaN())
			y[i] = 1
		}
	}

	clf := NewLGBMClassifier().WithNumIterations(20)
	require.NoError(t, clf.FitLabels(X, y))

	pred, err := clf.PredictLabels(mat.NewDense(2, 1, []float64{math.NaN(), 10}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, pred)
}

func TestLGBMClassifierErrors(t *testing.T) {
	t.Run("single class", func(t *testing.T) {
		err := NewLGBMClassifier().FitLabels(mat.NewDense(3, 1, []float64{1, 2, 3}), []int{4, 4, 4})
		var trainingErr *scigoErrors.TrainingError
		require.True(t, scigoErrors.As(err, &trainingErr))
		assert.Contains(t, err.Error(), "need at least 2 classes")
	})

	t.Run("negative label", func(t *testing.T) {
		err := NewLGBMClassifier().Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{0, -1}))
		var trainingErr *scigoErrors.TrainingError
		var validationErr *scigoErrors.ValidationError
		require.True(t, scigoErrors.As(err, &trainingErr))
		assert.True(t, scigoErrors.As(err, &validationErr))
	})

	t.Run("fractional label", func(t *testing.T) {
		err := NewLGBMClassifier().Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{0, 0.5}))
		var trainingErr *scigoErrors.TrainingError
		assert.True(t, scigoErrors.As(err, &trainingErr))
	})

	t.Run("empty data", func(t *testing.T) {
		err := NewLGBMClassifier().FitLabels(&mat.Dense{}, nil)
		var trainingErr *scigoErrors.TrainingError
		assert.True(t, scigoErrors.As(err, &trainingErr))
	})

	t.Run("feature mismatch on predict", func(t *testing.T) {
		X, y := separableData(5, []int{0, 1})
		clf := NewLGBMClassifier().WithNumIterations(2)
		require.NoError(t, clf.FitLabels(X, y))

		_, err := clf.PredictLabels(mat.NewDense(1, 3, nil))
		var dimErr *scigoErrors.DimensionError
		require.True(t, scigoErrors.As(err, &dimErr))
		assert.Equal(t, 4, dimErr.Expected)
	})
}

// TestLGBMClassifierNotFittedError tests error when predicting before fitting
func TestLGBMClassifierNotFittedError(t *testing.T) {
	clf := NewLGBMClassifier()
	X := mat.NewDense(10, 4, nil)

	_, err := clf.Predict(X)
	var notFitted *scigoErrors.NotFittedError
	assert.True(t, scigoErrors.As(err, &notFitted))

	_, err = clf.PredictProba(X)
	assert.True(t, scigoErrors.As(err, &notFitted))
}

// TestLGBMClassifierParameters tests parameter setting
func TestLGBMClassifierParameters(t *testing.T) {
	clf := NewLGBMClassifier().
		WithNumIterations(500).
		WithMaxDepth(20).
		WithLearningRate(0.1).
		WithRandomState(52)

	params := clf.GetParams()
	assert.Equal(t, 500, params["n_estimators"])
	assert.Equal(t, 20, params["max_depth"])
	assert.Equal(t, 0.1, params["learning_rate"])
	assert.Equal(t, 52, params["random_state"])
	assert.Equal(t, -1, params["n_jobs"])
	assert.Equal(t, "multiclass", params["objective"])
}

func TestLGBMClassifierLogsProgress(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	X, y := separableData(10, []int{0, 1})

	clf := NewLGBMClassifier().WithNumIterations(3).WithLogger(logger)
	require.NoError(t, clf.FitLabels(X, y))

	assert.True(t, logger.ContainsMessage("Booster fitted"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "LGBMClassifier"))
	assert.True(t, logger.ContainsMessage("Boosting iteration finished"))
}
