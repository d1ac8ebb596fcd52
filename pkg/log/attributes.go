// Package log defines standard attribute keys for pipeline logging.
//
// Using the same keys in every stage makes a run's log file easy to filter:
// every record of the training stage carries pipeline.stage=train, every data
// shape is reported under data.samples / data.features, and so on.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples").

package log

// Pipeline context
const (
	// StageKey names the pipeline stage emitting the record.
	// Values: StageLoad, StageValidate, StagePrepare, StageTrain, StageEvaluate,
	// StagePredict, StageVerify.
	StageKey = "pipeline.stage"

	// PathKey is a file or directory path read or written by the stage.
	PathKey = "io.path"
)

// Model and Operation Context
const (
	// ModelNameKey identifies the type of estimator.
	// Examples: "LGBMClassifier", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "lightgbm", "preprocessing", "dataset"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	// Examples: "training", "inference", "validation", "preprocessing"
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct class labels.
	ClassesKey = "data.classes"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy, range [0.0, 1.0].
	AccuracyKey = "metrics.accuracy"

	// F1WeightedKey records the support-weighted F1 score, range [0.0, 1.0].
	F1WeightedKey = "metrics.f1_weighted"

	// LossKey records loss value during training or evaluation.
	LossKey = "metrics.loss"

	// InitialLossKey records the training loss after the first boosting round.
	InitialLossKey = "metrics.initial_loss"

	// IterationKey records the current boosting round.
	IterationKey = "training.iteration"
)

// Prediction and Output Context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the type of error or warning encountered.
	// Examples: "SchemaError", "FeatureCountMismatchWarning"
	ErrorTypeKey = "error.type"

	// StacktraceKey contains the cockroachdb/errors stack of a logged error.
	// Populated automatically when an error is logged.
	StacktraceKey = "error.stacktrace"

	// DetailKey holds the structured fields of a typed error or warning.
	DetailKey = "error.detail"
)

// Hyperparameters and Configuration
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// LearningRateKey records the boosting learning rate.
	LearningRateKey = "hyperparams.learning_rate"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute value constants for common operations.
const (
	// Standard ML operations
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"

	// Standard ML phases
	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	// Pipeline stages
	StageConfig   = "config"
	StageLoad     = "load"
	StageValidate = "validate"
	StagePrepare  = "prepare"
	StageTrain    = "train"
	StageEvaluate = "evaluate"
	StagePredict  = "predict"
	StageVerify   = "verify"
)
