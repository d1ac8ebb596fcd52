package pipeline

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/pkg/log"
	"github.com/IzaacCoding36/onia/sklearn/lightgbm"
)

// TrainParams はアンサンブルのハイパーパラメータです。
type TrainParams struct {
	TreeCount    int
	MaxDepth     int
	LearningRate float64
	RandomSeed   int
	NumThreads   int // <= 0 で全コア
}

// Train fits the multiclass ensemble on (X, y).
func Train(X mat.Matrix, y []int, params TrainParams, logger log.Logger) (*lightgbm.LGBMClassifier, error) {
	logger = log.OrNop(logger).With(log.StageKey, log.StageTrain)

	clf := lightgbm.NewLGBMClassifier().
		WithNumIterations(params.TreeCount).
		WithMaxDepth(params.MaxDepth).
		WithLearningRate(params.LearningRate).
		WithRandomState(params.RandomSeed).
		WithNumThreads(params.NumThreads).
		WithLogger(logger)

	rows, cols := X.Dims()
	logger.Info("Training model",
		log.HyperParamsKey, clf.GetParams(),
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)

	start := time.Now()
	if err := clf.FitLabels(X, y); err != nil {
		return nil, err
	}

	fields := []any{
		log.ClassesKey, len(clf.Classes()),
		log.LossKey, clf.TrainingLoss(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if losses := clf.EvalsResult()[lightgbm.MetricMultiLogLoss]; len(losses) > 0 {
		fields = append(fields, log.IterationKey, len(losses), log.InitialLossKey, losses[0])
	}
	logger.Info("Model trained", fields...)
	return clf, nil
}
