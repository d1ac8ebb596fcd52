package main

import (
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/IzaacCoding36/onia/config"
	"github.com/IzaacCoding36/onia/pipeline"
	"github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
	"github.com/IzaacCoding36/onia/sklearn/lightgbm"
)

var (
	dataDir        string
	outputFile     string
	nEstimators    int
	maxDepth       int
	learningRate   float64
	validationSize float64
	randomState    int
	noScaling      bool
	configFile     string
	logFile        string
	logLevel       string
	importancePlot string
)

func trainCmd() *commander.Command {
	defaults := config.Default()
	cmd := &commander.Command{
		Run:       runTrain,
		UsageLine: "train [options]",
		Short:     "train the model and write predictions",
		Long: `
train the model on <data-dir>/treino.csv, report the validation F1 score
and write predictions for <data-dir>/teste.csv

	$ onia train --data-dir templates --output resultado.csv [options]

Values from --config are applied first; flags given on the command line override them.
`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&dataDir, "data-dir", defaults.DataDir, "directory containing treino.csv and teste.csv")
	cmd.Flag.StringVar(&outputFile, "output", defaults.OutputFile, "output CSV file")
	cmd.Flag.IntVar(&nEstimators, "n-estimators", defaults.TreeCount, "number of boosting rounds")
	cmd.Flag.IntVar(&maxDepth, "max-depth", defaults.MaxDepth, "maximum tree depth (0 for no limit)")
	cmd.Flag.Float64Var(&learningRate, "learning-rate", defaults.LearningRate, "learning rate")
	cmd.Flag.Float64Var(&validationSize, "validation-size", defaults.ValidationFraction, "fraction of the training data held out for validation")
	cmd.Flag.IntVar(&randomState, "random-state", defaults.RandomSeed, "random seed")
	cmd.Flag.BoolVar(&noScaling, "no-scaling", false, "do not standardize the features")
	cmd.Flag.StringVar(&configFile, "config", "", "YAML configuration file")
	cmd.Flag.StringVar(&logFile, "log-file", log.DefaultLogFile, "log file (empty to disable)")
	cmd.Flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flag.StringVar(&importancePlot, "importance-plot", "", "save a feature importance chart to this file (.png, .svg, .pdf)")
	return cmd
}

// trainConfig builds the run configuration: defaults, then --config, then the
// flags set on the command line.
func trainConfig(cmd *commander.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, errors.NewStageError(log.StageConfig, err)
		}
		cfg = loaded
	}

	cmd.Flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = dataDir
		case "output":
			cfg.OutputFile = outputFile
		case "n-estimators":
			cfg.TreeCount = nEstimators
		case "max-depth":
			cfg.MaxDepth = maxDepth
		case "learning-rate":
			cfg.LearningRate = learningRate
		case "validation-size":
			cfg.ValidationFraction = validationSize
		case "random-state":
			cfg.RandomSeed = randomState
		case "no-scaling":
			cfg.UseScaling = !noScaling
		}
	})
	return cfg, nil
}

func newLogger(file string) (*log.ZerologLogger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return log.NewZerologLogger(log.Options{Level: level, LogFile: file})
}

func runTrain(cmd *commander.Command, args []string) (err error) {
	cfg, err := trainConfig(cmd)
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(cfg.DataDir); statErr != nil || !info.IsDir() {
		if statErr == nil {
			statErr = errors.Newf("%s is not a directory", cfg.DataDir)
		}
		return errors.NewStageError(log.StageLoad, errors.NewFileNotFoundError(cfg.DataDir, statErr))
	}

	logger, err := newLogger(logFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logger.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	result, err := pipeline.Run(cfg, logger)
	if err != nil {
		return err
	}

	if importancePlot != "" {
		if err := lightgbm.PlotImportance(result.Model.Model, result.FeatureNames, "gain", 20, importancePlot); err != nil {
			return err
		}
		logger.Info("Feature importance chart saved", log.PathKey, importancePlot)
	}
	return nil
}
