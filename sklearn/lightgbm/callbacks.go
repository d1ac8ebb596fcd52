package lightgbm

import (
	"sort"
	"time"

	"github.com/IzaacCoding36/onia/pkg/log"
)

// CallbackEnv contains the environment for callbacks
type CallbackEnv struct {
	Model        *Model
	Iteration    int
	BeginTime    time.Time
	EndTime      time.Time
	EvalResults  map[string]float64
	StopTraining bool
}

// Callback is a function that can be called during training
type Callback func(env *CallbackEnv) error

// LogEvaluation logs the evaluation results every period iterations (and on the
// first iteration) at DEBUG level.
func LogEvaluation(logger log.Logger, period int) Callback {
	logger = log.OrNop(logger)
	if period <= 0 {
		period = 1
	}
	return func(env *CallbackEnv) error {
		if env.EvalResults == nil || (env.Iteration+1)%period != 0 && env.Iteration != 0 {
			return nil
		}
		fields := []any{log.IterationKey, env.Iteration + 1}
		names := make([]string, 0, len(env.EvalResults))
		for name := range env.EvalResults {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fields = append(fields, name, env.EvalResults[name])
		}
		logger.Debug("Boosting iteration finished", fields...)
		return nil
	}
}

// RecordEvaluation records evaluation history
func RecordEvaluation(history *map[string][]float64) Callback {
	return func(env *CallbackEnv) error {
		if env.EvalResults == nil {
			return nil
		}
		if *history == nil {
			*history = make(map[string][]float64)
		}
		for name, value := range env.EvalResults {
			(*history)[name] = append((*history)[name], value)
		}
		return nil
	}
}

// CallbackList manages multiple callbacks. A nil *CallbackList is valid and does nothing.
type CallbackList struct {
	callbacks []Callback
	env       *CallbackEnv
}

// NewCallbackList creates a new callback list
func NewCallbackList(callbacks ...Callback) *CallbackList {
	return &CallbackList{
		callbacks: callbacks,
		env:       &CallbackEnv{},
	}
}

// BeforeIteration calls callbacks before each iteration
func (cl *CallbackList) BeforeIteration(iteration int, model *Model) error {
	if cl == nil {
		return nil
	}
	cl.env.Iteration = iteration
	cl.env.Model = model
	cl.env.BeginTime = time.Now()
	cl.env.EvalResults = nil

	for _, cb := range cl.callbacks {
		if err := cb(cl.env); err != nil {
			return err
		}
		if cl.env.StopTraining {
			break
		}
	}
	return nil
}

// AfterIteration calls callbacks after each iteration
func (cl *CallbackList) AfterIteration(iteration int, model *Model, evalResults map[string]float64) error {
	if cl == nil {
		return nil
	}
	cl.env.Iteration = iteration
	cl.env.Model = model
	cl.env.EndTime = time.Now()
	cl.env.EvalResults = evalResults

	for _, cb := range cl.callbacks {
		if err := cb(cl.env); err != nil {
			return err
		}
	}
	return nil
}

// ShouldStop returns whether training should stop
func (cl *CallbackList) ShouldStop() bool {
	return cl != nil && cl.env.StopTraining
}
