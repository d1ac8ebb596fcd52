package pipeline

import (
	"time"

	"github.com/IzaacCoding36/onia/config"
	"github.com/IzaacCoding36/onia/dataset"
	"github.com/IzaacCoding36/onia/metrics"
	"github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
	"github.com/IzaacCoding36/onia/sklearn/lightgbm"
)

// Result は一回の実行の結果です。
type Result struct {
	ValidationF1 float64
	Report       *metrics.ClassificationReport
	Evaluation   *Evaluation
	Summary      *PredictionSummary

	Validation   *dataset.ValidationResult
	Model        *lightgbm.LGBMClassifier
	FeatureNames []string
}

// Run は全ステージを順に実行します。
// ステージのエラーは StageError で包んで返すので、errors.StageOf で失敗したステージが分かります。
func Run(cfg *config.Config, logger log.Logger) (result *Result, err error) {
	logger = log.OrNop(logger)

	defer func() {
		if err != nil {
			logger.Error("Pipeline failed", err, log.StageKey, errors.StageOf(err))
		}
	}()

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewStageError(log.StageConfig, err)
	}
	logConfig(logger, cfg)
	start := time.Now()

	train, test, err := dataset.LoadDir(cfg.DataDir, logger)
	if err != nil {
		return nil, errors.NewStageError(log.StageLoad, err)
	}

	validation, err := dataset.Validate(train, test, logger)
	if err != nil {
		return nil, errors.NewStageError(log.StageValidate, err)
	}

	prepared, err := Prepare(train, test, Options{
		ValidationFraction: cfg.ValidationFraction,
		RandomSeed:         cfg.RandomSeed,
		UseScaling:         cfg.UseScaling,
	}, logger)
	if err != nil {
		return nil, errors.NewStageError(log.StagePrepare, err)
	}

	clf, err := Train(prepared.XTrain, prepared.YTrain, TrainParams{
		TreeCount:    cfg.TreeCount,
		MaxDepth:     cfg.MaxDepth,
		LearningRate: cfg.LearningRate,
		RandomSeed:   cfg.RandomSeed,
		NumThreads:   -1,
	}, logger)
	if err != nil {
		return nil, errors.NewStageError(log.StageTrain, err)
	}

	evaluation, err := Evaluate(clf, prepared.XVal, prepared.YVal, logger)
	if err != nil {
		return nil, errors.NewStageError(log.StageEvaluate, err)
	}

	summary, err := PredictAndWrite(clf, prepared.XTest, prepared.TestIDs, cfg.OutputFile, logger)
	if err != nil {
		return nil, errors.NewStageError(log.StagePredict, err)
	}

	logger.Info("Pipeline completed",
		log.F1WeightedKey, evaluation.F1Weighted,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &Result{
		ValidationF1: evaluation.F1Weighted,
		Report:       evaluation.Report,
		Evaluation:   evaluation,
		Summary:      summary,
		Validation:   validation,
		Model:        clf,
		FeatureNames: prepared.FeatureNames,
	}, nil
}

func logConfig(logger log.Logger, cfg *config.Config) {
	logger.Info("Configuration",
		"data_dir", cfg.DataDir,
		"output_file", cfg.OutputFile,
		"tree_count", cfg.TreeCount,
		"max_depth", cfg.MaxDepth,
		log.LearningRateKey, cfg.LearningRate,
		log.RandomSeedKey, cfg.RandomSeed,
		"validation_fraction", cfg.ValidationFraction,
		"use_scaling", cfg.UseScaling,
	)
}
