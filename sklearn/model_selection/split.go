// Package model_selection はデータセットの学習/検証分割を提供します。
package model_selection

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/pkg/errors"
)

// SplitOptions は TrainTestSplit の設定です。
type SplitOptions struct {
	// TestSize は検証側に割り当てる割合。(0, 1) の範囲でなければならない。
	TestSize float64
	// RandomState は乱数シード。同じシードなら同じ分割になる。
	RandomState int
	// Stratify が true の場合、クラス比率を保った層化分割を行う。
	Stratify bool
}

// Split は分割結果のインデックスです。いずれも元の行番号を指します。
type Split struct {
	TrainIndices []int
	TestIndices  []int
}

// TrainTestSplit は X と y を学習用と検証用に分割します。
//
// 使用例:
//
//	XTrain, XVal, yTrain, yVal, err := model_selection.TrainTestSplit(X, y,
//	    model_selection.SplitOptions{TestSize: 0.1, RandomState: 52, Stratify: true})
func TrainTestSplit(X mat.Matrix, y []int, opts SplitOptions) (XTrain, XTest *mat.Dense, yTrain, yTest []int, err error) {
	r, _ := X.Dims()
	if r != len(y) {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", r, len(y), 0)
	}

	var split *Split
	if opts.Stratify {
		split, err = StratifiedShuffleSplit(y, opts.TestSize, opts.RandomState)
	} else {
		split, err = ShuffleSplit(len(y), opts.TestSize, opts.RandomState)
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return TakeRows(X, split.TrainIndices), TakeRows(X, split.TestIndices),
		takeLabels(y, split.TrainIndices), takeLabels(y, split.TestIndices), nil
}

// splitSizes は sklearn と同じく nTest = ceil(testSize * n) とする。
func splitSizes(n int, testSize float64) (nTrain, nTest int, err error) {
	if !(testSize > 0 && testSize < 1) {
		return 0, 0, errors.NewSplitError("test size must be in (0, 1)")
	}
	nTest = int(math.Ceil(testSize * float64(n)))
	nTrain = n - nTest
	if nTrain <= 0 || nTest <= 0 {
		return 0, 0, errors.NewSplitError("the resulting train or test set is empty")
	}
	return nTrain, nTest, nil
}

func newRand(seed int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// ShuffleSplit はクラスを考慮せずにランダムに分割します。
func ShuffleSplit(n int, testSize float64, randomState int) (*Split, error) {
	nTrain, nTest, err := splitSizes(n, testSize)
	if err != nil {
		return nil, err
	}
	perm := newRand(randomState).Perm(n)
	return &Split{
		TestIndices:  append([]int(nil), perm[:nTest]...),
		TrainIndices: append([]int(nil), perm[nTest:nTest+nTrain]...),
	}, nil
}

// StratifiedShuffleSplit はクラス比率を保って分割します。
//
// 各クラスの学習側の件数は期待値の切り捨てとし、不足分は小数部の大きいクラスから
// （同値ならクラスラベルの小さい順に）1件ずつ割り当てます。検証側も残りの件数から同様に決めます。
// 要素数が 2 未満のクラスがある場合や、どちらかの側がクラス数より小さくなる場合は SplitError を返します。
func StratifiedShuffleSplit(y []int, testSize float64, randomState int) (*Split, error) {
	nTrain, nTest, err := splitSizes(len(y), testSize)
	if err != nil {
		return nil, err
	}

	classes, classIndices := groupByClass(y)
	counts := make([]int, len(classes))
	for i, idx := range classIndices {
		counts[i] = len(idx)
		if counts[i] < 2 {
			return nil, errors.NewClassSplitError(
				"the least populated class in y has only 1 member, which is too few; the minimum number of groups for any class cannot be less than 2",
				classes[i], counts[i])
		}
	}
	if nTrain < len(classes) {
		return nil, errors.NewSplitError(
			"train size should be greater or equal to the number of classes; decrease the validation fraction")
	}
	if nTest < len(classes) {
		return nil, errors.NewSplitError(
			"test size should be greater or equal to the number of classes; increase the validation fraction")
	}

	trainCounts := approximateMode(counts, nTrain)
	rest := make([]int, len(counts))
	for i := range counts {
		rest[i] = counts[i] - trainCounts[i]
	}
	testCounts := approximateMode(rest, nTest)

	rng := newRand(randomState)
	train := make([]int, 0, nTrain)
	test := make([]int, 0, nTest)
	for i, idx := range classIndices {
		perm := rng.Perm(len(idx))
		for k := 0; k < trainCounts[i]; k++ {
			train = append(train, idx[perm[k]])
		}
		for k := trainCounts[i]; k < trainCounts[i]+testCounts[i]; k++ {
			test = append(test, idx[perm[k]])
		}
	}

	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })

	return &Split{TrainIndices: train, TestIndices: test}, nil
}

// groupByClass はラベルを昇順に並べ、クラスごとの行番号（元の順序）を返す。
func groupByClass(y []int) ([]int, [][]int) {
	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	indices := make([][]int, len(classes))
	for i, c := range classes {
		indices[i] = byClass[c]
	}
	return classes, indices
}

// approximateMode は counts に比例するよう nDraws 件を整数で配分する。
// 期待値 nDraws*count/total を切り捨て、余りは小数部の大きい順（同値は先頭から）に1件ずつ足す。
// 小数部の比較は整数の剰余で行うため丸め誤差がない。
func approximateMode(counts []int, nDraws int) []int {
	total := 0
	for _, c := range counts {
		total += c
	}
	alloc := make([]int, len(counts))
	if total == 0 {
		return alloc
	}

	remainders := make([]int, len(counts))
	assigned := 0
	for i, c := range counts {
		alloc[i] = nDraws * c / total
		remainders[i] = nDraws * c % total
		assigned += alloc[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for k := 0; assigned < nDraws && k < len(order); k++ {
		alloc[order[k]]++
		assigned++
	}
	return alloc
}

// TakeRows は X から指定した行を順に取り出した新しい行列を返す。
func TakeRows(X mat.Matrix, rows []int) *mat.Dense {
	_, c := X.Dims()
	if len(rows) == 0 || c == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(len(rows), c, nil)
	buf := make([]float64, c)
	for i, r := range rows {
		out.SetRow(i, mat.Row(buf, r, X))
	}
	return out
}

func takeLabels(y []int, rows []int) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = y[r]
	}
	return out
}
