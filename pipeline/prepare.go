package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/dataset"
	"github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
	"github.com/IzaacCoding36/onia/preprocessing"
	"github.com/IzaacCoding36/onia/sklearn/model_selection"
)

// Options は前処理と分割の設定です。
type Options struct {
	ValidationFraction float64
	RandomSeed         int
	UseScaling         bool
}

// Prepared は学習・検証・予測に使う行列です。
type Prepared struct {
	XTrain *mat.Dense
	XVal   *mat.Dense
	YTrain []int
	YVal   []int

	XTest   *mat.Dense
	TestIDs []string

	// Scaler は UseScaling が false の場合 nil
	Scaler       *preprocessing.StandardScaler
	FeatureNames []string
}

// Prepare は特徴量を標準化し、学習データを層化分割します。
// スケーラーは学習データ全体（分割前）で学習し、テストデータには変換のみを適用します。
func Prepare(train, test *dataset.Dataset, opts Options, logger log.Logger) (*Prepared, error) {
	logger = log.OrNop(logger).With(log.StageKey, log.StagePrepare)

	if train.NumFeatures() == 0 {
		return nil, errors.NewValueError("Prepare", "training data has no feature columns")
	}

	X, Xtest := train.Features, test.Features
	var scaler *preprocessing.StandardScaler
	if opts.UseScaling {
		scaler = preprocessing.NewStandardScalerDefault()
		scaled, err := scaler.FitTransform(X)
		if err != nil {
			return nil, err
		}
		X = toDense(scaled)

		scaledTest, err := scaler.Transform(Xtest)
		if err != nil {
			return nil, err
		}
		Xtest = toDense(scaledTest)
		logger.Info("Features standardized",
			log.OperationKey, log.OperationFitTransform,
			log.FeaturesKey, scaler.NFeatures(),
		)
	}

	XTrain, XVal, yTrain, yVal, err := model_selection.TrainTestSplit(X, train.Targets, model_selection.SplitOptions{
		TestSize:    opts.ValidationFraction,
		RandomState: opts.RandomSeed,
		Stratify:    true,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Data split",
		"train_samples", len(yTrain),
		"validation_samples", len(yVal),
		log.RandomSeedKey, opts.RandomSeed,
	)

	return &Prepared{
		XTrain:       XTrain,
		XVal:         XVal,
		YTrain:       yTrain,
		YVal:         yVal,
		XTest:        Xtest,
		TestIDs:      test.IDs,
		Scaler:       scaler,
		FeatureNames: train.FeatureNames,
	}, nil
}

func toDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}
