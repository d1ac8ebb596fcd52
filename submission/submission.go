// Package submission は予測結果ファイル（id,target）の書き出しと検証を行います。
package submission

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/IzaacCoding36/onia/pkg/errors"
)

// Header は出力ファイルのヘッダー行
var Header = []string{"id", "target"}

// ClassCount はひとつのクラスの予測件数です。
type ClassCount struct {
	Class   int
	Count   int
	Percent float64 // 全行数に対する割合（%）
}

// Distribution returns the per-class counts of labels, sorted by class.
// Percentages are relative to total, or to len(labels) when total <= 0.
func Distribution(labels []int, total int) []ClassCount {
	if total <= 0 {
		total = len(labels)
	}
	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}
	out := make([]ClassCount, 0, len(counts))
	for class, n := range counts {
		out = append(out, ClassCount{
			Class:   class,
			Count:   n,
			Percent: errors.SafeDivide(float64(n), float64(total)) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}

// Write は ids と labels を位置で対応させ、ヘッダー付きの id,target CSV として書き出します。
// 行の順序は ids の順序のままで、id は読み込んだ文字列をそのまま書きます。
//
// 同じディレクトリの一時ファイルに書いてから path へ rename するため、失敗しても
// path に書きかけのファイルが残ることはありません。
func Write(path string, ids []string, labels []int) (err error) {
	if len(ids) != len(labels) {
		return errors.NewDimensionError("submission.Write", len(ids), len(labels), 0)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".resultado-*.csv")
	if err != nil {
		return errors.NewWriteError(path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err := writeRecords(f, ids, labels); err != nil {
		return errors.NewWriteError(path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewWriteError(path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return errors.NewWriteError(path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.NewWriteError(path, err)
	}
	return nil
}

func writeRecords(w io.Writer, ids []string, labels []int) error {
	buf := bufio.NewWriter(w)
	cw := csv.NewWriter(buf)
	if err := cw.Write(Header); err != nil {
		return err
	}
	record := make([]string, 2)
	for i, id := range ids {
		record[0] = id
		record[1] = strconv.Itoa(labels[i])
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}
