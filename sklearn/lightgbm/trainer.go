package lightgbm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/core/parallel"
	scigoErrors "github.com/IzaacCoding36/onia/pkg/errors"
)

// minSplitGain is the smallest loss reduction accepted for a split.
const minSplitGain = 1e-6

// Trainer implements gradient boosting with exact greedy, depth-wise tree growth
// for the multiclass softmax objective. Each iteration fits one tree per class.
type Trainer struct {
	// Training parameters
	params TrainingParams

	// Data, stored feature-major: columns[j][i] is feature j of sample i
	columns   [][]float64
	y         []int
	nSamples  int
	nFeatures int

	// sortedIdx[j] lists the samples with a non-missing value of feature j,
	// in ascending order of that value
	sortedIdx [][]int

	// Raw scores, gradients and hessians, row-major (i*numClass + k)
	scores    []float64
	gradients []float64
	hessians  []float64

	// Gradient and hessian of the class whose tree is being built
	grad []float64
	hess []float64

	// Trees
	trees []Tree

	// Training state
	iteration int
	lastLoss  float64

	// Objective function
	objective MulticlassObjective

	// Callbacks
	callbacks *CallbackList
}

// TrainingParams contains all training hyperparameters
type TrainingParams struct {
	// Basic parameters
	NumIterations int     `json:"num_iterations"`
	LearningRate  float64 `json:"learning_rate"`
	MaxDepth      int     `json:"max_depth"` // <= 0 means no limit

	// Regularization
	Lambda         float64 `json:"lambda_l2"`
	MinChildWeight float64 `json:"min_child_weight"`
	MinGainToSplit float64 `json:"min_gain_to_split"`

	// Objective
	Objective string `json:"objective"`
	NumClass  int    `json:"num_class"`

	// Other
	Seed       int `json:"seed"`
	NumThreads int `json:"num_threads"` // <= 0 means all cores
}

// DefaultTrainingParams returns the defaults used by XGBoost's tree booster.
func DefaultTrainingParams() TrainingParams {
	return TrainingParams{
		NumIterations:  100,
		LearningRate:   0.1,
		MaxDepth:       6,
		Lambda:         1.0,
		MinChildWeight: 1.0,
		Objective:      string(MulticlassSoftmax),
		NumThreads:     -1,
	}
}

// nodeStat holds the gradient statistics of one node.
type nodeStat struct {
	grad  float64
	hess  float64
	count int
}

// SplitInfo contains information about a potential split
type SplitInfo struct {
	Feature     int
	Threshold   float64
	Gain        float64
	DefaultLeft bool
	Valid       bool
}

// NewTrainer creates a new trainer
func NewTrainer(params TrainingParams) *Trainer {
	if params.NumIterations == 0 {
		params.NumIterations = 100
	}
	if params.LearningRate == 0 {
		params.LearningRate = 0.1
	}
	return &Trainer{params: params}
}

// WithCallbacks sets the callbacks for training
func (t *Trainer) WithCallbacks(callbacks ...Callback) *Trainer {
	t.callbacks = NewCallbackList(callbacks...)
	return t
}

// Fit trains the ensemble. y holds class indices in [0, NumClass).
func (t *Trainer) Fit(X mat.Matrix, y []int) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return scigoErrors.NewTrainingError("Trainer", "empty training data", scigoErrors.ErrEmptyData)
	}
	if len(y) != rows {
		return scigoErrors.NewDimensionError("Trainer.Fit", rows, len(y), 0)
	}
	if t.params.NumClass < 2 {
		return scigoErrors.NewTrainingError("Trainer",
			"multiclass training needs at least 2 classes", nil)
	}
	for i, label := range y {
		if label < 0 || label >= t.params.NumClass {
			return scigoErrors.NewValidationError("y", "class index out of range",
				map[string]int{"row": i, "label": label})
		}
	}

	objective, err := CreateObjectiveFunction(t.params.Objective, t.params.NumClass, t.params.NumThreads)
	if err != nil {
		return err
	}
	t.objective = objective
	t.y = y
	t.nSamples = rows
	t.nFeatures = cols
	t.initialize(X)

	for iter := 0; iter < t.params.NumIterations; iter++ {
		if err := t.callbacks.BeforeIteration(iter, t.GetModel()); err != nil {
			return err
		}
		if t.callbacks.ShouldStop() {
			break
		}

		t.objective.CalculateGradientsAndHessians(t.y, t.scores, t.gradients, t.hessians)
		if err := scigoErrors.CheckNumericalStability("gradient_update", t.gradients, iter); err != nil {
			return scigoErrors.NewTrainingError("Trainer", "gradients diverged", err)
		}

		for k := 0; k < t.params.NumClass; k++ {
			t.loadClassGradients(k)
			tree, leafOf := t.buildTree(k)
			tree.TreeIndex = len(t.trees)
			t.trees = append(t.trees, tree)
			t.updatePredictions(&tree, leafOf)
		}
		t.iteration = iter + 1

		t.lastLoss = t.objective.CalculateLoss(t.y, t.scores)
		if err := scigoErrors.CheckScalar("loss_calculation", t.lastLoss, iter); err != nil {
			return scigoErrors.NewTrainingError("Trainer", "loss diverged", err)
		}

		evalResults := map[string]float64{t.objective.Name(): t.lastLoss}
		if err := t.callbacks.AfterIteration(iter, t.GetModel(), evalResults); err != nil {
			return err
		}
		if t.callbacks.ShouldStop() {
			break
		}
	}

	return nil
}

// initialize prepares the training data structures
func (t *Trainer) initialize(X mat.Matrix) {
	n, K := t.nSamples, t.params.NumClass

	t.columns = make([][]float64, t.nFeatures)
	t.sortedIdx = make([][]int, t.nFeatures)
	parallel.Parallelize(t.nFeatures, t.params.NumThreads, func(start, end int) {
		for j := start; j < end; j++ {
			col := mat.Col(nil, j, X)
			idx := make([]int, 0, n)
			for i, v := range col {
				if !math.IsNaN(v) {
					idx = append(idx, i)
				}
			}
			sort.SliceStable(idx, func(a, b int) bool { return col[idx[a]] < col[idx[b]] })
			t.columns[j] = col
			t.sortedIdx[j] = idx
		}
	})

	t.scores = make([]float64, n*K)
	t.gradients = make([]float64, n*K)
	t.hessians = make([]float64, n*K)
	t.grad = make([]float64, n)
	t.hess = make([]float64, n)
	t.trees = make([]Tree, 0, t.params.NumIterations*K)
	t.iteration = 0
}

// loadClassGradients copies the gradient column of class k.
func (t *Trainer) loadClassGradients(k int) {
	K := t.params.NumClass
	for i := 0; i < t.nSamples; i++ {
		t.grad[i] = t.gradients[i*K+k]
		t.hess[i] = t.hessians[i*K+k]
	}
}

// buildTree grows one tree level by level. It returns the tree and, for every
// training sample, the index of the leaf it ends in.
func (t *Trainer) buildTree(class int) (Tree, []int) {
	tree := Tree{
		Class:         class,
		ShrinkageRate: t.params.LearningRate,
		Nodes:         []Node{{NodeID: 0, ParentID: -1, LeftChild: -1, RightChild: -1}},
	}
	positions := make([]int, t.nSamples) // all samples start at the root

	frontier := []int{0}
	for depth := 0; len(frontier) > 0; depth++ {
		slotOf := make([]int, len(tree.Nodes))
		for i := range slotOf {
			slotOf[i] = -1
		}
		for s, id := range frontier {
			slotOf[id] = s
		}

		stats := t.nodeStats(len(frontier), slotOf, positions)
		for s, id := range frontier {
			node := &tree.Nodes[id]
			node.SumHessian = stats[s].hess
			node.Count = stats[s].count
			node.LeafValue = t.calculateLeafValue(stats[s].grad, stats[s].hess)
		}

		if t.params.MaxDepth > 0 && depth >= t.params.MaxDepth {
			break
		}

		splits := t.findBestSplits(len(frontier), slotOf, stats, positions)

		var next []int
		for s, id := range frontier {
			split := splits[s]
			if !split.Valid {
				continue
			}
			left := len(tree.Nodes)
			right := left + 1
			tree.Nodes = append(tree.Nodes,
				Node{NodeID: left, ParentID: id, LeftChild: -1, RightChild: -1, Depth: depth + 1},
				Node{NodeID: right, ParentID: id, LeftChild: -1, RightChild: -1, Depth: depth + 1},
			)
			node := &tree.Nodes[id]
			node.SplitFeature = split.Feature
			node.Threshold = split.Threshold
			node.DefaultLeft = split.DefaultLeft
			node.Gain = split.Gain
			node.LeftChild = left
			node.RightChild = right
			next = append(next, left, right)
		}
		if len(next) == 0 {
			break
		}

		for i, pos := range positions {
			node := &tree.Nodes[pos]
			if node.IsLeaf() {
				continue
			}
			positions[i] = node.next(t.columns[node.SplitFeature][i])
		}
		frontier = next
	}

	for _, node := range tree.Nodes {
		if node.IsLeaf() {
			tree.NumLeaves++
		}
		if node.Depth > tree.MaxDepth {
			tree.MaxDepth = node.Depth
		}
	}
	return tree, positions
}

// nodeStats sums gradients and hessians of the samples in each frontier node.
func (t *Trainer) nodeStats(nSlots int, slotOf, positions []int) []nodeStat {
	stats := make([]nodeStat, nSlots)
	for i, pos := range positions {
		s := slotOf[pos]
		if s < 0 {
			continue
		}
		stats[s].grad += t.grad[i]
		stats[s].hess += t.hess[i]
		stats[s].count++
	}
	return stats
}

// findBestSplits searches every feature in parallel and keeps, per node, the split
// with the highest gain. Ties go to the lower feature index so the result does not
// depend on the number of workers.
func (t *Trainer) findBestSplits(nSlots int, slotOf []int, stats []nodeStat, positions []int) []SplitInfo {
	perFeature := make([][]SplitInfo, t.nFeatures)
	parallel.Parallelize(t.nFeatures, t.params.NumThreads, func(start, end int) {
		for j := start; j < end; j++ {
			perFeature[j] = t.findBestSplitForFeature(j, nSlots, slotOf, stats, positions)
		}
	})

	best := make([]SplitInfo, nSlots)
	for j := 0; j < t.nFeatures; j++ {
		for s, split := range perFeature[j] {
			if split.Valid && (!best[s].Valid || split.Gain > best[s].Gain) {
				best[s] = split
			}
		}
	}
	return best
}

// findBestSplitForFeature scans the presorted values of one feature once for all
// frontier nodes. Missing values are tried on both sides when present.
func (t *Trainer) findBestSplitForFeature(feature, nSlots int, slotOf []int, stats []nodeStat, positions []int) []SplitInfo {
	order := t.sortedIdx[feature]
	col := t.columns[feature]

	present := make([]nodeStat, nSlots)
	for _, i := range order {
		if s := slotOf[positions[i]]; s >= 0 {
			present[s].grad += t.grad[i]
			present[s].hess += t.hess[i]
			present[s].count++
		}
	}

	left := make([]nodeStat, nSlots)
	last := make([]float64, nSlots)
	best := make([]SplitInfo, nSlots)
	for _, i := range order {
		s := slotOf[positions[i]]
		if s < 0 {
			continue
		}
		v := col[i]
		if left[s].count > 0 && v != last[s] {
			t.evaluateSplit(&best[s], feature, last[s], v, left[s], present[s], stats[s])
		}
		left[s].grad += t.grad[i]
		left[s].hess += t.hess[i]
		left[s].count++
		last[s] = v
	}
	return best
}

// evaluateSplit considers splitting between the values lo and hi, with left holding
// the statistics of the present samples <= lo.
func (t *Trainer) evaluateSplit(best *SplitInfo, feature int, lo, hi float64, left, present, total nodeStat) {
	threshold := lo + (hi-lo)/2
	if threshold >= hi {
		threshold = lo
	}

	try := func(gl, hl float64, defaultLeft bool) {
		gr, hr := total.grad-gl, total.hess-hl
		if hl < t.params.MinChildWeight || hr < t.params.MinChildWeight {
			return
		}
		gain := t.calculateSplitGain(gl, hl, gr, hr, total.grad, total.hess)
		if gain <= t.params.MinGainToSplit || gain <= minSplitGain {
			return
		}
		if !best.Valid || gain > best.Gain {
			*best = SplitInfo{
				Feature:     feature,
				Threshold:   threshold,
				Gain:        gain,
				DefaultLeft: defaultLeft,
				Valid:       true,
			}
		}
	}

	// missing values go right
	try(left.grad, left.hess, false)
	if missing := total.count - present.count; missing > 0 {
		// missing values go left
		try(left.grad+total.grad-present.grad, left.hess+total.hess-present.hess, true)
	}
}

// calculateSplitGain calculates the gain from a split
func (t *Trainer) calculateSplitGain(leftGrad, leftHess, rightGrad, rightHess, totalGrad, totalHess float64) float64 {
	lambda := t.params.Lambda
	return 0.5 * (leftGrad*leftGrad/(leftHess+lambda) +
		rightGrad*rightGrad/(rightHess+lambda) -
		totalGrad*totalGrad/(totalHess+lambda))
}

// calculateLeafValue calculates the optimal value for a leaf node
func (t *Trainer) calculateLeafValue(sumGrad, sumHess float64) float64 {
	return -sumGrad / (sumHess + t.params.Lambda)
}

// updatePredictions adds the new tree's output to the cached raw scores,
// using the leaf each training sample reached while the tree was built.
func (t *Trainer) updatePredictions(tree *Tree, leafOf []int) {
	K := t.params.NumClass
	for i, leaf := range leafOf {
		t.scores[i*K+tree.Class] += tree.Nodes[leaf].LeafValue * tree.ShrinkageRate
	}
}

// TrainingLoss returns the mean training loss after the last iteration.
func (t *Trainer) TrainingLoss() float64 {
	return t.lastLoss
}

// GetModel returns the trained model
func (t *Trainer) GetModel() *Model {
	return &Model{
		Objective:    MulticlassSoftmax,
		NumClass:     t.params.NumClass,
		NumIteration: t.iteration,
		LearningRate: t.params.LearningRate,
		MaxDepth:     t.params.MaxDepth,
		Trees:        t.trees,
		NumFeatures:  t.nFeatures,
	}
}
