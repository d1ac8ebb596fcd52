// Package model はパイプラインで使用する推定器のインターフェースと状態管理を提供します。
package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は学習状態を持つモデルのインターフェース
type Estimator interface {
	Fitter
	IsFitted() bool
}

// Classifier は多クラス分類器のインターフェース。
// Predict は元のクラスラベルを (n_samples, 1) の行列で返す。
type Classifier interface {
	Estimator
	Predictor

	// PredictProba は各クラスの確率を (n_samples, n_classes) で返す。列の順序は Classes() と同じ。
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes は学習時に観測したクラスラベルを昇順で返す
	Classes() []int
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// Transformer は教師なしで学習する変換器のインターフェース。
// 学習データで Fit したパラメータを、検証データやテストデータにもそのまま適用する。
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
