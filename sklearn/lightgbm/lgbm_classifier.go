package lightgbm

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/core/model"
	scigoErrors "github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
)

const classifierName = "LGBMClassifier"

// LGBMClassifier is a multiclass gradient-boosted tree classifier with a
// scikit-learn style API. Labels are arbitrary non-negative integers; they are
// mapped to class indices in ascending order.
type LGBMClassifier struct {
	state *model.StateManager

	// Model
	Model     *Model
	Predictor *Predictor

	// Hyperparameters
	NumIterations  int     // Number of boosting iterations (trees per class)
	MaxDepth       int     // Maximum tree depth (<= 0 for no limit)
	LearningRate   float64 // Boosting learning rate
	RegLambda      float64 // L2 regularization on leaf weights
	MinChildWeight float64 // Minimum sum of hessians in one child
	MinSplitGain   float64 // Minimum loss reduction to make a split
	RandomState    int     // Random seed
	Objective      string  // Objective function
	NumThreads     int     // Number of threads (-1 for all cores)

	callbacks []Callback
	logger    log.Logger

	// Internal state
	classes_     []int
	nClasses_    int
	trainLoss_   float64
	evalsResult_ map[string][]float64
	fitDuration_ time.Duration
}

var _ model.Classifier = (*LGBMClassifier)(nil)

// NewLGBMClassifier creates a new classifier with default parameters
func NewLGBMClassifier() *LGBMClassifier {
	defaults := DefaultTrainingParams()
	return &LGBMClassifier{
		state:          model.NewStateManager(),
		NumIterations:  defaults.NumIterations,
		MaxDepth:       defaults.MaxDepth,
		LearningRate:   defaults.LearningRate,
		RegLambda:      defaults.Lambda,
		MinChildWeight: defaults.MinChildWeight,
		MinSplitGain:   defaults.MinGainToSplit,
		Objective:      string(MulticlassSoftmax),
		NumThreads:     -1, // Use all cores
	}
}

// WithNumIterations sets the number of iterations
func (lgb *LGBMClassifier) WithNumIterations(n int) *LGBMClassifier {
	lgb.NumIterations = n
	return lgb
}

// WithMaxDepth sets the maximum depth
func (lgb *LGBMClassifier) WithMaxDepth(d int) *LGBMClassifier {
	lgb.MaxDepth = d
	return lgb
}

// WithLearningRate sets the learning rate
func (lgb *LGBMClassifier) WithLearningRate(lr float64) *LGBMClassifier {
	lgb.LearningRate = lr
	return lgb
}

// WithRandomState sets the random seed
func (lgb *LGBMClassifier) WithRandomState(seed int) *LGBMClassifier {
	lgb.RandomState = seed
	return lgb
}

// WithNumThreads sets the number of worker goroutines
func (lgb *LGBMClassifier) WithNumThreads(n int) *LGBMClassifier {
	lgb.NumThreads = n
	return lgb
}

// WithCallbacks adds training callbacks
func (lgb *LGBMClassifier) WithCallbacks(callbacks ...Callback) *LGBMClassifier {
	lgb.callbacks = append(lgb.callbacks, callbacks...)
	return lgb
}

// WithLogger sets the logger used for training progress
func (lgb *LGBMClassifier) WithLogger(logger log.Logger) *LGBMClassifier {
	lgb.logger = logger
	return lgb
}

// IsFitted reports whether Fit has completed successfully
func (lgb *LGBMClassifier) IsFitted() bool {
	return lgb.state.IsFitted()
}

// Fit trains the classifier. y must be a single column of non-negative integer labels.
func (lgb *LGBMClassifier) Fit(X, y mat.Matrix) error {
	rows, _ := X.Dims()
	yRows, yCols := y.Dims()
	if yCols != 1 {
		return scigoErrors.NewTrainingError(classifierName, "invalid labels",
			scigoErrors.NewDimensionError("Fit", 1, yCols, 1))
	}
	if rows != yRows {
		return scigoErrors.NewTrainingError(classifierName, "invalid labels",
			scigoErrors.NewDimensionError("Fit", rows, yRows, 0))
	}

	labels := make([]int, yRows)
	for i := range labels {
		v := y.At(i, 0)
		if v < 0 || v != math.Trunc(v) || math.IsInf(v, 0) {
			return scigoErrors.NewTrainingError(classifierName, "invalid labels",
				scigoErrors.NewValidationError("y", "labels must be non-negative integers", v))
		}
		labels[i] = int(v)
	}
	return lgb.FitLabels(X, labels)
}

// FitLabels trains the classifier on integer labels.
// Any failure, including a panic, is reported as a TrainingError.
func (lgb *LGBMClassifier) FitLabels(X mat.Matrix, y []int) (err error) {
	defer func() {
		var trainingErr *scigoErrors.TrainingError
		if err != nil && !scigoErrors.As(err, &trainingErr) {
			err = scigoErrors.NewTrainingError(classifierName, "fit failed", err)
		}
	}()
	defer scigoErrors.Recover(&err, classifierName+".Fit")

	logger := log.OrNop(lgb.logger).With(log.ModelNameKey, classifierName)
	start := time.Now()

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return scigoErrors.NewTrainingError(classifierName, "empty training data", scigoErrors.ErrEmptyData)
	}
	if rows != len(y) {
		return scigoErrors.NewDimensionError("Fit", rows, len(y), 0)
	}

	classes, encoded, err := encodeLabels(y)
	if err != nil {
		return err
	}
	if len(classes) < 2 {
		return scigoErrors.NewTrainingError(classifierName,
			fmt.Sprintf("need at least 2 classes, got %d", len(classes)), nil)
	}

	lgb.state.Reset()
	params := lgb.trainingParams(len(classes))

	var history map[string][]float64
	callbacks := append([]Callback(nil), lgb.callbacks...)
	callbacks = append(callbacks, RecordEvaluation(&history))
	if lgb.logger != nil {
		callbacks = append(callbacks, LogEvaluation(logger, 50))
	}

	logger.Debug("Fitting booster",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, len(classes),
	)

	trainer := NewTrainer(params).WithCallbacks(callbacks...)
	if err := trainer.Fit(X, encoded); err != nil {
		return err
	}

	lgb.Model = trainer.GetModel()
	lgb.Predictor = NewPredictor(lgb.Model)
	lgb.Predictor.SetNumThreads(lgb.NumThreads)
	lgb.classes_ = classes
	lgb.nClasses_ = len(classes)
	lgb.trainLoss_ = trainer.TrainingLoss()
	lgb.evalsResult_ = history
	lgb.fitDuration_ = time.Since(start)
	lgb.state.SetDimensions(cols, rows)
	lgb.state.SetFitted()

	logger.Debug("Booster fitted",
		log.IterationKey, lgb.Model.NumIteration,
		log.LossKey, lgb.trainLoss_,
		log.DurationMsKey, lgb.fitDuration_.Milliseconds(),
	)
	return nil
}

func (lgb *LGBMClassifier) trainingParams(numClass int) TrainingParams {
	return TrainingParams{
		NumIterations:  lgb.NumIterations,
		LearningRate:   lgb.LearningRate,
		MaxDepth:       lgb.MaxDepth,
		Lambda:         lgb.RegLambda,
		MinChildWeight: lgb.MinChildWeight,
		MinGainToSplit: lgb.MinSplitGain,
		Objective:      lgb.Objective,
		NumClass:       numClass,
		Seed:           lgb.RandomState,
		NumThreads:     lgb.NumThreads,
	}
}

// encodeLabels returns the sorted distinct labels and each label's class index.
func encodeLabels(y []int) ([]int, []int, error) {
	seen := make(map[int]int)
	for i, label := range y {
		if label < 0 {
			return nil, nil, scigoErrors.NewValidationError("y", "labels must be non-negative integers",
				map[string]int{"row": i, "label": label})
		}
		seen[label]++
	}
	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	index := make(map[int]int, len(classes))
	for k, c := range classes {
		index[c] = k
	}
	encoded := make([]int, len(y))
	for i, label := range y {
		encoded[i] = index[label]
	}
	return classes, encoded, nil
}

// PredictProba returns class probabilities, shape (n_samples, n_classes),
// with columns ordered like Classes().
func (lgb *LGBMClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	_, cols := X.Dims()
	if err := lgb.state.RequireFeatures(classifierName, "PredictProba", cols); err != nil {
		return nil, err
	}
	return lgb.Predictor.PredictProba(X)
}

// PredictLabels returns the predicted class label for each row of X.
func (lgb *LGBMClassifier) PredictLabels(X mat.Matrix) ([]int, error) {
	_, cols := X.Dims()
	if err := lgb.state.RequireFeatures(classifierName, "Predict", cols); err != nil {
		return nil, err
	}
	raw, err := lgb.Predictor.PredictRaw(X)
	if err != nil {
		return nil, err
	}

	rows, _ := raw.Dims()
	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		// 同点の場合は最初のクラス
		labels[i] = lgb.classes_[floats.MaxIdx(raw.RawRowView(i))]
	}
	return labels, nil
}

// Predict returns the predicted labels as a (n_samples, 1) matrix.
func (lgb *LGBMClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	labels, err := lgb.PredictLabels(X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(labels), 1, nil)
	for i, label := range labels {
		out.Set(i, 0, float64(label))
	}
	return out, nil
}

// Classes returns the class labels seen during fitting, in ascending order.
func (lgb *LGBMClassifier) Classes() []int {
	return append([]int(nil), lgb.classes_...)
}

// TrainingLoss returns the mean multiclass log loss on the training data after the final iteration.
func (lgb *LGBMClassifier) TrainingLoss() float64 {
	return lgb.trainLoss_
}

// EvalsResult returns the per-iteration training metrics recorded during the
// last fit, keyed by metric name (MetricMultiLogLoss).
func (lgb *LGBMClassifier) EvalsResult() map[string][]float64 {
	out := make(map[string][]float64, len(lgb.evalsResult_))
	for name, values := range lgb.evalsResult_ {
		out[name] = append([]float64(nil), values...)
	}
	return out
}

// GetFeatureImportance returns normalized feature importance ("split" or "gain").
func (lgb *LGBMClassifier) GetFeatureImportance(importanceType string) []float64 {
	if lgb.Model == nil {
		return nil
	}
	return lgb.Model.GetFeatureImportance(importanceType)
}

// GetParams returns the hyperparameters
func (lgb *LGBMClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":     lgb.NumIterations,
		"max_depth":        lgb.MaxDepth,
		"learning_rate":    lgb.LearningRate,
		"reg_lambda":       lgb.RegLambda,
		"min_child_weight": lgb.MinChildWeight,
		"min_split_gain":   lgb.MinSplitGain,
		"random_state":     lgb.RandomState,
		"objective":        lgb.Objective,
		"n_jobs":           lgb.NumThreads,
	}
}
