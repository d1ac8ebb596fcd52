// Package onia trains a multiclass gradient-boosted tree classifier on the ONIA
// challenge data and writes the predictions file expected by the judge.
//
// The pipeline reads templates/treino.csv and templates/teste.csv, checks that
// the id and target columns exist, standardizes the features, holds out a
// stratified validation split, trains the booster, reports the weighted F1 score
// and writes resultado.csv with one predicted class per test id.
//
// # Installation
//
//	go install github.com/IzaacCoding36/onia/cmd/onia@latest
//
// # Quick Start
//
//	$ onia train --data-dir templates --output resultado.csv
//	$ onia check -file resultado.csv
//
// Every option can also be read from a YAML file:
//
//	$ onia config > onia.yaml
//	$ onia train --config onia.yaml --n-estimators 200
//
// # Library Usage
//
//	cfg := config.Default()
//	cfg.DataDir = "templates"
//
//	logger, err := log.NewZerologLogger(log.Options{LogFile: log.DefaultLogFile})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	result, err := pipeline.Run(cfg, logger)
//	if err != nil {
//	    // errors.StageOf(err) は失敗したステージ名を返す
//	    return err
//	}
//	fmt.Printf("F1 (weighted): %.4f\n", result.ValidationF1)
//
// # Packages
//
//   - dataset: CSV loading and schema validation
//   - preprocessing: StandardScaler
//   - sklearn/model_selection: stratified train/validation split
//   - sklearn/lightgbm: gradient-boosted trees with the softmax objective
//   - metrics: accuracy, F1, confusion matrix, classification report, log loss
//   - submission: writing and verifying the predictions file
//   - pipeline: the stages above wired together
//   - config: YAML configuration
//   - core/model: estimator interfaces and fit state
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error types and zerolog-based logging
package onia
