// Package dataset は競技データ（treino.csv / teste.csv）の読み込みと検証を行います。
//
// CSV はヘッダー行必須で、`id` 列と（学習データのみ）`target` 列以外のすべての列を
// 数値特徴量として扱います。空のセルは欠損値（NaN）として読み込みます。
package dataset

import (
	"gonum.org/v1/gonum/mat"
)

const (
	// TrainFileName はデータディレクトリ内の学習データのファイル名
	TrainFileName = "treino.csv"
	// TestFileName はデータディレクトリ内のテストデータのファイル名
	TestFileName = "teste.csv"

	// IDColumn は行識別子の列名
	IDColumn = "id"
	// TargetColumn は正解ラベルの列名
	TargetColumn = "target"
)

// Dataset は読み込んだ CSV ファイルひとつ分のデータです。
// 行の順序はファイルの順序をそのまま保持します。
type Dataset struct {
	// Path は読み込み元のファイル
	Path string
	// Columns はヘッダーの列名（ファイル上の順序）
	Columns []string

	// IDs は `id` 列の値（前後の空白を除いた元の文字列）。`id` 列がない場合は nil
	IDs []string
	// Targets は `target` 列の値。HasTarget が false の場合は nil
	Targets   []int
	HasTarget bool

	// Features は `id` / `target` を除いた数値列、shape (rows, len(FeatureNames))。
	// 行または特徴量が 0 の場合は空の行列
	Features     *mat.Dense
	FeatureNames []string

	rows int
}

// NumRows returns the number of data rows.
func (d *Dataset) NumRows() int {
	return d.rows
}

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int {
	return len(d.FeatureNames)
}

// HasColumn reports whether the header contains name.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}
