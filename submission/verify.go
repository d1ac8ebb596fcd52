package submission

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
)

// headRows is the number of leading rows echoed by Verify.
const headRows = 5

// Report は Verify の結果です。
type Report struct {
	Path    string
	Rows    int
	Columns []string
	// NullCount は全列を通した空セルの数
	NullCount int
	// TargetIsInteger は target 列のすべての値が整数として読めるかどうか
	TargetIsInteger bool
	// Distribution は整数として読めた target 値のクラス別件数（割合は全行数に対する値）
	Distribution []ClassCount
	// Head は先頭 5 行の id,target
	Head [][2]string
}

// Verify は出力ファイルを読み取り専用で検査します。
//
// ファイルがなければ FileNotFoundError、`id` か `target` 列がなければ SchemaError を
// 返します。空セルや整数でない target は警告ログのみで、エラーにはしません。
func Verify(path string, logger log.Logger) (*Report, error) {
	logger = log.OrNop(logger).With(log.StageKey, log.StageVerify, log.PathKey, path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path, err)
		}
		return nil, errors.NewLoadError(path, 0, "cannot open file", err)
	}
	defer f.Close()

	logger.Info("Verifying file")

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewLoadError(path, 0, "empty file", nil)
	}
	if err != nil {
		return nil, errors.NewLoadError(path, 1, "malformed header", err)
	}

	report := &Report{Path: path, Columns: header, TargetIsInteger: true}
	idCol, targetCol := indexOf(header, "id"), indexOf(header, "target")
	if idCol < 0 {
		return nil, errors.NewSchemaError("submission", "id", header)
	}
	if targetCol < 0 {
		return nil, errors.NewSchemaError("submission", "target", header)
	}
	logger.Info("Columns present", "columns", strings.Join(header, ","))
	if len(header) != 2 {
		logger.Warn("Unexpected columns besides id and target", "columns", strings.Join(header, ","))
	}

	var targets []int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			return nil, errors.NewLoadError(path, line, "malformed row", err)
		}
		report.Rows++

		for _, cell := range record {
			if strings.TrimSpace(cell) == "" {
				report.NullCount++
			}
		}
		if target, err := strconv.Atoi(strings.TrimSpace(record[targetCol])); err == nil {
			targets = append(targets, target)
		} else {
			report.TargetIsInteger = false
		}
		if len(report.Head) < headRows {
			report.Head = append(report.Head, [2]string{record[idCol], record[targetCol]})
		}
	}
	report.Distribution = Distribution(targets, report.Rows)

	logger.Info("Row count", log.SamplesKey, report.Rows)
	if report.NullCount > 0 {
		logger.Warn("Empty values found", "null_count", report.NullCount)
	} else {
		logger.Info("No empty values found")
	}
	if !report.TargetIsInteger {
		logger.Warn("target column is not integer")
	}

	logger.Info("Class distribution")
	for _, c := range report.Distribution {
		logger.Info(fmt.Sprintf("  class %d: %d (%.1f%%)", c.Class, c.Count, c.Percent))
	}
	logger.Info(fmt.Sprintf("First %d rows", len(report.Head)))
	for _, row := range report.Head {
		logger.Info("  " + row[0] + "," + row[1])
	}

	logger.Info("Verification completed")
	return report, nil
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if strings.TrimSpace(c) == name {
			return i
		}
	}
	return -1
}
