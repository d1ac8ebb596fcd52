package pipeline

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/metrics"
	"github.com/IzaacCoding36/onia/pkg/log"
	"github.com/IzaacCoding36/onia/sklearn/lightgbm"
)

// Evaluation は検証データでの評価結果です。
type Evaluation struct {
	F1Weighted float64
	Accuracy   float64
	LogLoss    float64
	Report     *metrics.ClassificationReport

	// ConfusionMatrix の行・列は Labels の順
	ConfusionMatrix *mat.Dense
	Labels          []int
}

// Evaluate は検証データで予測し、重み付き F1 と分類レポートを計算します。
// スコアは以降のステージの実行可否には影響しません。
func Evaluate(clf *lightgbm.LGBMClassifier, XVal mat.Matrix, yVal []int, logger log.Logger) (*Evaluation, error) {
	logger = log.OrNop(logger).With(log.StageKey, log.StageEvaluate)

	yPred, err := clf.PredictLabels(XVal)
	if err != nil {
		return nil, err
	}

	report, err := metrics.NewClassificationReport(yVal, yPred)
	if err != nil {
		return nil, err
	}
	for _, w := range report.Warnings {
		log.Warning(logger, w)
	}
	f1 := report.WeightedAvg.F1
	cm, labels, err := metrics.ConfusionMatrix(yVal, yPred, nil)
	if err != nil {
		return nil, err
	}

	proba, err := clf.PredictProba(XVal)
	if err != nil {
		return nil, err
	}
	logLoss, err := metrics.LogLoss(yVal, proba, clf.Classes())
	if err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("Validation F1 (weighted): %.4f", f1),
		log.PhaseKey, log.PhaseValidation,
		log.F1WeightedKey, f1,
		log.AccuracyKey, report.Accuracy,
		log.LossKey, logLoss,
	)
	logger.Info("Classification report:\n" + report.String())
	if logger.Enabled(context.Background(), log.LevelDebug) {
		logger.Debug(fmt.Sprintf("Confusion matrix (labels %v):\n%v", labels, mat.Formatted(cm, mat.Squeeze())))
	}

	return &Evaluation{
		F1Weighted:      f1,
		Accuracy:        report.Accuracy,
		LogLoss:         logLoss,
		Report:          report,
		ConfusionMatrix: cm,
		Labels:          labels,
	}, nil
}
