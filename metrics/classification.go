// Package metrics は分類モデルの評価指標を提供します。
// ラベルは任意の非負整数で、yTrue と yPred に現れるラベルの和集合を昇順に扱います。
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/pkg/errors"
)

// Average は多クラス指標の平均方法です。
type Average int

const (
	// Macro はクラスごとの値の単純平均
	Macro Average = iota
	// Weighted はサポート数（真のサンプル数）で重み付けした平均
	Weighted
	// Micro は全体の TP/FP/FN から計算する。単一ラベル分類では Accuracy と等しい
	Micro
)

func (a Average) String() string {
	switch a {
	case Macro:
		return "macro"
	case Weighted:
		return "weighted"
	case Micro:
		return "micro"
	default:
		return "Average(" + strconv.Itoa(int(a)) + ")"
	}
}

// ClassMetrics はひとつのクラスの適合率・再現率・F1・サポート数です。
type ClassMetrics struct {
	Label     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

func checkLabels(op string, yTrue, yPred []int) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty label slice")
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// uniqueLabels は yTrue と yPred に現れるラベルを昇順で返す
func uniqueLabels(yTrue, yPred []int) []int {
	seen := make(map[int]struct{})
	for _, y := range yTrue {
		seen[y] = struct{}{}
	}
	for _, y := range yPred {
		seen[y] = struct{}{}
	}
	labels := make([]int, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred []int) (float64, error) {
	if err := checkLabels("Accuracy", yTrue, yPred); err != nil {
		return 0, err
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ConfusionMatrix は混同行列を計算する。
// 行が真のラベル、列が予測ラベルで、順序は返り値の labels と同じ。
// labels が nil の場合は yTrue と yPred の和集合を使う。labels に含まれないサンプルは数えない。
func ConfusionMatrix(yTrue, yPred []int, labels []int) (*mat.Dense, []int, error) {
	if err := checkLabels("ConfusionMatrix", yTrue, yPred); err != nil {
		return nil, nil, err
	}
	if labels == nil {
		labels = uniqueLabels(yTrue, yPred)
	}
	if len(labels) == 0 {
		return nil, nil, errors.NewValueError("ConfusionMatrix", "labels must not be empty")
	}

	index := make(map[int]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := range yTrue {
		r, okTrue := index[yTrue[i]]
		c, okPred := index[yPred[i]]
		if okTrue && okPred {
			cm.Set(r, c, cm.At(r, c)+1)
		}
	}
	return cm, labels, nil
}

// PrecisionRecallFSupport はクラスごとの適合率・再現率・F1・サポート数を計算する。
// 予測が一つもないクラスの適合率、真のサンプルがないクラスの再現率は 0 とし、
// UndefinedMetricWarning を errors.Warn で発行する。
func PrecisionRecallFSupport(yTrue, yPred []int) ([]ClassMetrics, error) {
	classes, warnings, err := classMetrics(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		errors.Warn(w)
	}
	return classes, nil
}

// classMetrics は PrecisionRecallFSupport の本体で、警告を発行せずに返す
func classMetrics(yTrue, yPred []int) ([]ClassMetrics, []error, error) {
	cm, labels, err := ConfusionMatrix(yTrue, yPred, nil)
	if err != nil {
		return nil, nil, err
	}

	n := len(labels)
	predicted := make([]float64, n)
	actual := make([]float64, n)
	for i := 0; i < n; i++ {
		actual[i] = floats.Sum(cm.RawRowView(i))
		predicted[i] = mat.Sum(cm.ColView(i))
	}

	var noPred, noTrue []string
	out := make([]ClassMetrics, n)
	for i, label := range labels {
		tp := cm.At(i, i)
		m := ClassMetrics{Label: label, Support: int(actual[i])}

		if predicted[i] > 0 {
			m.Precision = tp / predicted[i]
		} else {
			noPred = append(noPred, strconv.Itoa(label))
		}
		if actual[i] > 0 {
			m.Recall = tp / actual[i]
		} else {
			noTrue = append(noTrue, strconv.Itoa(label))
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		out[i] = m
	}

	var warnings []error
	if len(noPred) > 0 {
		warnings = append(warnings, errors.NewUndefinedMetricWarning("precision",
			"no predicted samples in labels "+strings.Join(noPred, ","), 0))
	}
	if len(noTrue) > 0 {
		warnings = append(warnings, errors.NewUndefinedMetricWarning("recall",
			"no true samples in labels "+strings.Join(noTrue, ","), 0))
	}
	return out, warnings, nil
}

// AverageMetrics は平均化された指標です。
type AverageMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

func average(classes []ClassMetrics, avg Average) AverageMetrics {
	var out AverageMetrics
	if len(classes) == 0 {
		return out
	}
	weights := make([]float64, len(classes))
	for i, c := range classes {
		out.Support += c.Support
		switch avg {
		case Weighted:
			weights[i] = float64(c.Support)
		default:
			weights[i] = 1
		}
	}
	total := floats.Sum(weights)
	if total == 0 {
		return out
	}
	for i, c := range classes {
		w := weights[i] / total
		out.Precision += w * c.Precision
		out.Recall += w * c.Recall
		out.F1 += w * c.F1
	}
	return out
}

// F1Score は多クラスの F1 スコアを計算する
func F1Score(yTrue, yPred []int, avg Average) (float64, error) {
	if avg == Micro {
		// 単一ラベル分類では micro 平均は正解率に一致する
		return Accuracy(yTrue, yPred)
	}
	if avg != Macro && avg != Weighted {
		return 0, errors.NewValidationError("average", "unsupported average", avg.String())
	}
	classes, err := PrecisionRecallFSupport(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return average(classes, avg).F1, nil
}

// ClassificationReport は scikit-learn の classification_report に相当する集計です。
type ClassificationReport struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    AverageMetrics
	WeightedAvg AverageMetrics
	Digits      int

	// Warnings は計算中の UndefinedMetricWarning。errors.Warn には流さず、
	// 呼び出し側が自分のロガーで記録する
	Warnings []error
}

// NewClassificationReport はクラスごとの指標と平均をまとめて計算する
func NewClassificationReport(yTrue, yPred []int) (*ClassificationReport, error) {
	classes, warnings, err := classMetrics(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	return &ClassificationReport{
		Classes:     classes,
		Accuracy:    acc,
		MacroAvg:    average(classes, Macro),
		WeightedAvg: average(classes, Weighted),
		Digits:      2,
		Warnings:    warnings,
	}, nil
}

// String は classification_report と同じ体裁の表を返す
func (r *ClassificationReport) String() string {
	const lastLine = "weighted avg"
	digits := r.Digits
	if digits <= 0 {
		digits = 2
	}

	width := len(lastLine)
	for _, c := range r.Classes {
		if w := len(strconv.Itoa(c.Label)); w > width {
			width = w
		}
	}

	var b strings.Builder
	row := func(name string, p, rc, f float64, support int) {
		fmt.Fprintf(&b, "%*s  %9.*f %9.*f %9.*f %9d\n", width, name, digits, p, digits, rc, digits, f, support)
	}

	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		row(strconv.Itoa(c.Label), c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %9s %9s %9.*f %9d\n", width, "accuracy", "", "", digits, r.Accuracy, r.WeightedAvg.Support)
	row("macro avg", r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.MacroAvg.Support)
	row(lastLine, r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1, r.WeightedAvg.Support)
	return b.String()
}

// logLossEps は確率を [eps, 1-eps] に丸める
const logLossEps = 1e-15

// LogLoss は多クラスの交差エントロピー損失を計算する。
// proba の列は classes の順に並んだクラス確率で、各行は和が 1 になるよう正規化される。
func LogLoss(yTrue []int, proba mat.Matrix, classes []int) (float64, error) {
	rows, cols := proba.Dims()
	if len(yTrue) == 0 {
		return 0, errors.NewValueError("LogLoss", "empty label slice")
	}
	if rows != len(yTrue) {
		return 0, errors.NewDimensionError("LogLoss", len(yTrue), rows, 0)
	}
	if cols != len(classes) {
		return 0, errors.NewDimensionError("LogLoss", len(classes), cols, 1)
	}

	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	p := make([]float64, cols)
	total := 0.0
	for i, y := range yTrue {
		k, ok := index[y]
		if !ok {
			return 0, errors.NewValidationError("yTrue", "label not in classes", y)
		}
		mat.Row(p, i, proba)
		for j := range p {
			p[j] = math.Min(math.Max(p[j], logLossEps), 1-logLossEps)
		}
		total -= math.Log(p[k] / floats.Sum(p))
	}
	return total / float64(len(yTrue)), nil
}
