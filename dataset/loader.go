package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
)

// LoadDir は dir から学習データ、テストデータの順に読み込みます。
func LoadDir(dir string, logger log.Logger) (train, test *Dataset, err error) {
	logger = log.OrNop(logger).With(log.StageKey, log.StageLoad)

	train, err = ReadCSV(filepath.Join(dir, TrainFileName))
	if err != nil {
		return nil, nil, err
	}
	logLoaded(logger, "Training data loaded", train)

	test, err = ReadCSV(filepath.Join(dir, TestFileName))
	if err != nil {
		return nil, nil, err
	}
	logLoaded(logger, "Test data loaded", test)

	return train, test, nil
}

func logLoaded(logger log.Logger, msg string, d *Dataset) {
	logger.Info(msg,
		log.PathKey, d.Path,
		log.SamplesKey, d.NumRows(),
		"data.columns", len(d.Columns),
	)
}

// ReadCSV reads a single CSV file with a header row.
//
// A missing file is a FileNotFoundError. Every other problem (empty file, ragged
// row, unparseable number, duplicate id, invalid target) is a LoadError carrying
// the 1-based line number.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path, err)
		}
		return nil, errors.NewLoadError(path, 0, "cannot open file", err)
	}
	defer f.Close()

	return parseCSV(path, bufio.NewReader(f))
}

// columnLayout は ヘッダーから求めた列の役割
type columnLayout struct {
	id       int
	target   int
	features []int
}

func newColumnLayout(header []string) columnLayout {
	layout := columnLayout{id: -1, target: -1}
	for i, name := range header {
		switch name {
		case IDColumn:
			layout.id = i
		case TargetColumn:
			layout.target = i
		default:
			layout.features = append(layout.features, i)
		}
	}
	return layout
}

func parseCSV(path string, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewLoadError(path, 0, "empty file", nil)
	}
	if err != nil {
		return nil, errors.NewLoadError(path, 1, "malformed header", err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if seen[name] {
			return nil, errors.NewLoadError(path, 1, fmt.Sprintf("duplicate column %q", name), nil)
		}
		seen[name] = true
		columns[i] = name
	}

	layout := newColumnLayout(columns)
	d := &Dataset{
		Path:      path,
		Columns:   columns,
		HasTarget: layout.target >= 0,
	}
	for _, j := range layout.features {
		d.FeatureNames = append(d.FeatureNames, columns[j])
	}

	var values []float64
	ids := make(map[string]int)
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
		line, _ := reader.FieldPos(0)

		if layout.id >= 0 {
			id, err := parseID(record[layout.id])
			if err != nil {
				return nil, errors.NewLoadError(path, line, "invalid id", err)
			}
			if first, dup := ids[id]; dup {
				return nil, errors.NewLoadError(path, line,
					fmt.Sprintf("duplicate id %q (first seen on line %d)", id, first), nil)
			}
			ids[id] = line
			d.IDs = append(d.IDs, id)
		}

		if layout.target >= 0 {
			target, err := parseTarget(record[layout.target])
			if err != nil {
				return nil, errors.NewLoadError(path, line, "invalid target", err)
			}
			d.Targets = append(d.Targets, target)
		}

		for _, j := range layout.features {
			v, err := parseFeature(record[j])
			if err != nil {
				return nil, errors.NewLoadError(path, line,
					fmt.Sprintf("non-numeric value in column %q", columns[j]), err)
			}
			values = append(values, v)
		}
		d.rows++
	}

	if d.rows > 0 && len(d.FeatureNames) > 0 {
		d.Features = mat.NewDense(d.rows, len(d.FeatureNames), values)
	} else {
		d.Features = &mat.Dense{}
	}
	return d, nil
}

// parseFeature は空のセルを NaN として読む
func parseFeature(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseID は id をそのままの文字列として読む。前後の空白だけ取り除く
func parseID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("missing id")
	}
	return s, nil
}

func parseTarget(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing target")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, errors.Newf("target %q is not a non-negative integer", s)
	}
	return int(v), nil
}
