package errors

import (
	"fmt"
	"math"
	"os"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "onia: Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "onia: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 5, 4, 1)

	want := "onia: Predict: dimension mismatch on axis 1 (features). Expected 5, got 4"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("StandardScaler", "Transform")

	want := "onia: StandardScaler: this model is not fitted yet. Call Fit() before using Transform()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestPipelineErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
		check   func(error) bool
	}{
		{
			name:    "file not found",
			err:     NewFileNotFoundError("templates/treino.csv", os.ErrNotExist),
			wantMsg: "onia: file not found: templates/treino.csv",
			check: func(err error) bool {
				var target *FileNotFoundError
				return As(err, &target) && Is(err, os.ErrNotExist)
			},
		},
		{
			name:    "load error with line",
			err:     NewLoadError("teste.csv", 4, "expected 3 fields, got 2", nil),
			wantMsg: "onia: load error: teste.csv:4: expected 3 fields, got 2",
			check: func(err error) bool {
				var target *LoadError
				return As(err, &target) && target.Line == 4
			},
		},
		{
			name:    "schema error",
			err:     NewSchemaError("train", "target", []string{"id", "f1"}),
			wantMsg: "onia: schema error: train data must contain column 'target' (found: id,f1)",
			check: func(err error) bool {
				var target *SchemaError
				return As(err, &target) && target.Column == "target"
			},
		},
		{
			name:    "split error for class",
			err:     NewClassSplitError("the least populated class has too few members", 2, 1),
			wantMsg: "onia: split error: the least populated class has too few members (class 2 has 1 members)",
			check: func(err error) bool {
				var target *SplitError
				return As(err, &target) && target.Class == 2
			},
		},
		{
			name:    "split error without class",
			err:     NewSplitError("test size must be in (0, 1)"),
			wantMsg: "onia: split error: test size must be in (0, 1)",
			check: func(err error) bool {
				var target *SplitError
				return As(err, &target) && target.Class == -1
			},
		},
		{
			name:    "training error",
			err:     NewTrainingError("LGBMClassifier", "need at least 2 classes", nil),
			wantMsg: "onia: LGBMClassifier: training failed: need at least 2 classes",
			check: func(err error) bool {
				var target *TrainingError
				return As(err, &target)
			},
		},
		{
			name:    "write error",
			err:     NewWriteError("/ro/resultado.csv", os.ErrPermission),
			wantMsg: "onia: cannot write /ro/resultado.csv: permission denied",
			check: func(err error) bool {
				return Is(err, os.ErrPermission)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !tt.check(tt.err) {
				t.Error("error chain check failed")
			}
		})
	}
}

func TestStageError(t *testing.T) {
	if NewStageError("load", nil) != nil {
		t.Fatal("NewStageError(nil) should be nil")
	}

	inner := NewSchemaError("test", "id", []string{"f1"})
	err := Wrap(NewStageError("validate", inner), "run")

	if got := StageOf(err); got != "validate" {
		t.Errorf("StageOf() = %q, want validate", got)
	}
	var schemaErr *SchemaError
	if !As(err, &schemaErr) {
		t.Error("SchemaError should be reachable through StageError")
	}
	if StageOf(inner) != "" {
		t.Error("StageOf() should be empty without a StageError")
	}
}

func TestWarn(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewFeatureCountMismatchWarning(5, 4))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	want := "feature count differs between datasets: train=5, test=4"
	if got[0].Error() != want {
		t.Errorf("warning = %q, want %q", got[0].Error(), want)
	}
}

func TestWarnFallsBackToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewUndefinedMetricWarning("precision", "no predicted samples", 0))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
}

func TestNumericalHelpers(t *testing.T) {
	if err := CheckScalar("loss", math.NaN(), 3); err == nil {
		t.Error("CheckScalar(NaN) should fail")
	}
	if err := CheckNumericalStability("grad", []float64{1, math.Inf(1)}, 0); err == nil {
		t.Error("CheckNumericalStability(Inf) should fail")
	}
	if err := CheckNumericalStability("grad", []float64{1, 2}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if SafeDivide(1, 0) != 0 {
		t.Error("SafeDivide by zero should return 0")
	}
	if got := LogSumExp([]float64{0, 0}); math.Abs(got-math.Log(2)) > 1e-12 {
		t.Errorf("LogSumExp = %v, want log 2", got)
	}
}
