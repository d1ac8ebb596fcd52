package lightgbm

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Node represents a single node in a decision tree
type Node struct {
	// Node identification
	NodeID     int // Unique identifier for the node (index in Tree.Nodes)
	ParentID   int // Parent node ID (-1 for root)
	LeftChild  int // Left child node ID (-1 if leaf)
	RightChild int // Right child node ID (-1 if leaf)
	Depth      int // Root is depth 0

	// Split information (for non-leaf nodes)
	SplitFeature int     // Feature index used for splitting
	Threshold    float64 // Samples with value <= Threshold go left
	DefaultLeft  bool    // Default direction for missing values
	Gain         float64 // Split gain (reduction in loss)

	// Leaf information (for leaf nodes)
	LeafValue float64 // Raw leaf weight, before shrinkage

	// Statistics
	SumHessian float64 // Hessian sum of the training samples in the node ("cover")
	Count      int     // Number of training samples in the node
}

// IsLeaf returns true if the node is a leaf node
func (n *Node) IsLeaf() bool {
	return n.LeftChild == -1 && n.RightChild == -1
}

// next returns the child a sample with the given feature value moves to.
func (n *Node) next(value float64) int {
	if math.IsNaN(value) {
		if n.DefaultLeft {
			return n.LeftChild
		}
		return n.RightChild
	}
	if value <= n.Threshold {
		return n.LeftChild
	}
	return n.RightChild
}

// Tree represents a single decision tree in the ensemble.
// In a multiclass model each boosting round adds one tree per class.
type Tree struct {
	TreeIndex     int     // Index of the tree in ensemble
	Class         int     // Class index (column of the raw score) this tree contributes to
	NumLeaves     int     // Number of leaf nodes
	MaxDepth      int     // Depth reached by the deepest leaf
	ShrinkageRate float64 // Learning rate applied to this tree

	Nodes []Node // All nodes in the tree, Nodes[0] is the root
}

// leafIndex returns the index of the leaf reached by features.
func (t *Tree) leafIndex(features []float64) int {
	nodeID := 0
	for {
		node := &t.Nodes[nodeID]
		if node.IsLeaf() {
			return nodeID
		}
		nodeID = node.next(features[node.SplitFeature])
	}
}

// Predict makes a prediction for a single sample using this tree
func (t *Tree) Predict(features []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	return t.Nodes[t.leafIndex(features)].LeafValue * t.ShrinkageRate
}

// ObjectiveType represents the objective function type
type ObjectiveType string

const (
	// MulticlassSoftmax is the multi-class log loss with softmax outputs.
	MulticlassSoftmax ObjectiveType = "multiclass"
)

// Model represents a trained gradient-boosted tree ensemble
type Model struct {
	// Model configuration
	Objective    ObjectiveType // Objective function
	NumClass     int           // Number of classes (trees per iteration)
	NumIteration int           // Number of completed boosting iterations
	LearningRate float64       // Base learning rate
	MaxDepth     int           // Maximum tree depth

	// Trees, ordered by iteration then class
	Trees []Tree

	// Feature information
	NumFeatures  int      // Number of features
	FeatureNames []string // Feature names (optional)

	// BaseScore is added to every raw class score before the trees.
	BaseScore float64
}

// NewModel creates a new empty model
func NewModel() *Model {
	return &Model{
		Objective:    MulticlassSoftmax,
		Trees:        make([]Tree, 0),
		LearningRate: 0.1,
	}
}

// PredictRaw returns the raw (pre-softmax) class scores for a single sample.
// numIteration limits how many boosting rounds are used (-1 for all).
func (m *Model) PredictRaw(features []float64, numIteration int) []float64 {
	scores := make([]float64, m.NumClass)
	for k := range scores {
		scores[k] = m.BaseScore
	}

	nTrees := len(m.Trees)
	if numIteration >= 0 && numIteration*m.NumClass < nTrees {
		nTrees = numIteration * m.NumClass
	}
	for i := 0; i < nTrees; i++ {
		tree := &m.Trees[i]
		scores[tree.Class] += tree.Predict(features)
	}
	return scores
}

// PredictSingle returns the class probabilities for a single sample.
func (m *Model) PredictSingle(features []float64, numIteration int) []float64 {
	return softmax(m.PredictRaw(features, numIteration))
}

// GetFeatureImportance calculates and returns normalized feature importance scores.
// importanceType is "split" (number of splits) or "gain" (total split gain).
func (m *Model) GetFeatureImportance(importanceType string) []float64 {
	importance := make([]float64, m.NumFeatures)

	for _, tree := range m.Trees {
		for _, node := range tree.Nodes {
			if node.IsLeaf() {
				continue
			}
			switch importanceType {
			case "gain":
				importance[node.SplitFeature] += node.Gain
			default:
				importance[node.SplitFeature]++
			}
		}
	}

	if total := floats.Sum(importance); total > 0 {
		floats.Scale(1/total, importance)
	}
	return importance
}

// softmax computes softmax with numerical stability
func softmax(x []float64) []float64 {
	result := make([]float64, len(x))
	if len(x) == 0 {
		return result
	}
	maxVal := floats.Max(x)
	for i, v := range x {
		result[i] = math.Exp(v - maxVal)
	}
	if sum := floats.Sum(result); sum > 0 {
		floats.Scale(1/sum, result)
	}
	return result
}
