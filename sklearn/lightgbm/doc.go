// Package lightgbm provides a pure Go gradient-boosted decision tree classifier
// for multiclass problems.
//
// Each boosting round fits one regression tree per class on the gradients of the
// softmax (multiclass log loss) objective. Trees are grown depth-wise with exact
// greedy split search over presorted feature values; the search over features runs
// in parallel and is reduced in feature order, so a model is identical for any
// number of threads. Missing values (NaN) are routed by a learned default direction.
//
// # scikit-learn Compatible API
//
//	clf := lightgbm.NewLGBMClassifier().
//	    WithNumIterations(500).
//	    WithMaxDepth(20).
//	    WithLearningRate(0.1).
//	    WithRandomState(52)
//
//	if err := clf.FitLabels(XTrain, yTrain); err != nil {
//	    return err
//	}
//	labels, err := clf.PredictLabels(XTest)
//	proba, err := clf.PredictProba(XTest)
//
// Labels are arbitrary non-negative integers. Classes() returns them in ascending
// order, which is also the column order of PredictProba.
//
// # Low-level Training
//
// Trainer works on class indices in [0, NumClass) and produces a Model:
//
//	params := lightgbm.DefaultTrainingParams()
//	params.NumClass = 3
//	trainer := lightgbm.NewTrainer(params).WithCallbacks(lightgbm.RecordEvaluation(&history))
//	err := trainer.Fit(X, y)
//	model := trainer.GetModel()
//
// # Hyperparameters
//
// The defaults follow XGBoost's tree booster: L2 regularization (lambda) 1,
// minimum child hessian 1, maximum depth 6, learning rate 0.1.
package lightgbm
