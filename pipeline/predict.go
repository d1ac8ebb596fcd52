package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
	"github.com/IzaacCoding36/onia/sklearn/lightgbm"
	"github.com/IzaacCoding36/onia/submission"
)

// PredictionSummary は書き出した予測の集計です。
type PredictionSummary struct {
	Path         string
	Total        int
	Labels       []int
	Distribution []submission.ClassCount
}

// PredictAndWrite は XTest を予測し、ids と位置で対応させて path に書き出します。
func PredictAndWrite(clf *lightgbm.LGBMClassifier, XTest mat.Matrix, ids []string, path string, logger log.Logger) (*PredictionSummary, error) {
	logger = log.OrNop(logger).With(log.StageKey, log.StagePredict)

	var labels []int
	if len(ids) > 0 {
		err := errors.SafeExecute("PredictAndWrite", func() (err error) {
			labels, err = clf.PredictLabels(XTest)
			return err
		})
		if err != nil {
			return nil, err
		}
		if len(labels) != len(ids) {
			return nil, errors.NewDimensionError("PredictAndWrite", len(ids), len(labels), 0)
		}
	}

	if err := submission.Write(path, ids, labels); err != nil {
		return nil, err
	}

	summary := &PredictionSummary{
		Path:         path,
		Total:        len(labels),
		Labels:       labels,
		Distribution: submission.Distribution(labels, 0),
	}

	logger.Info("Predictions written",
		log.OperationKey, log.OperationPredict,
		log.PathKey, path,
		log.PredsKey, summary.Total,
	)
	for _, c := range summary.Distribution {
		logger.Info(fmt.Sprintf("  class %d: %d (%.1f%%)", c.Class, c.Count, c.Percent))
	}
	return summary, nil
}
