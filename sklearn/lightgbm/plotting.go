package lightgbm

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	scigoErrors "github.com/IzaacCoding36/onia/pkg/errors"
)

// PlotImportance saves a horizontal bar chart of the model's feature importance
// ("split" or "gain"), largest at the top. maxNumFeatures <= 0 plots every
// feature. The image format follows the file extension (.png, .svg, .pdf, ...).
func PlotImportance(m *Model, featureNames []string, importanceType string, maxNumFeatures int, path string) error {
	if m == nil || m.NumFeatures == 0 {
		return scigoErrors.NewNotFittedError("Model", "PlotImportance")
	}
	if featureNames != nil && len(featureNames) != m.NumFeatures {
		return scigoErrors.NewDimensionError("PlotImportance", m.NumFeatures, len(featureNames), 1)
	}

	importance := m.GetFeatureImportance(importanceType)
	order := make([]int, len(importance))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return importance[order[a]] > importance[order[b]] })
	if maxNumFeatures > 0 && maxNumFeatures < len(order) {
		order = order[:maxNumFeatures]
	}

	// 下から上へ描画されるので昇順に並べ替える
	values := make(plotter.Values, len(order))
	names := make([]string, len(order))
	for k, j := range order {
		pos := len(order) - 1 - k
		values[pos] = importance[j]
		if featureNames != nil {
			names[pos] = featureNames[j]
		} else {
			names[pos] = fmt.Sprintf("Column_%d", j)
		}
	}

	p := plot.New()
	p.Title.Text = "Feature importance"
	p.X.Label.Text = fmt.Sprintf("Importance (%s)", importanceType)
	p.Y.Label.Text = "Features"

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return scigoErrors.Wrap(err, "PlotImportance")
	}
	bars.Horizontal = true
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalY(names...)

	height := vg.Length(len(order))*vg.Points(16) + 2*vg.Inch
	if err := p.Save(6*vg.Inch, height, path); err != nil {
		return scigoErrors.NewWriteError(path, err)
	}
	return nil
}
