// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// パイプラインの各ステージ（読み込み、検証、前処理、学習、評価、予測）が返すエラーを
// 型で区別できるようにし、cockroachdb/errors によるスタックトレースを付与します。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("onia-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、あるクラスの予測が一つもなく適合率(precision)が定義できない場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// FeatureCountMismatchWarning は学習データとテストデータの特徴量数が異なる場合の警告です。
// 個数のみを比較し、列名や順序の違いは検出しません。
type FeatureCountMismatchWarning struct {
	TrainFeatures int
	TestFeatures  int
}

func (w *FeatureCountMismatchWarning) Error() string {
	return fmt.Sprintf("feature count differs between datasets: train=%d, test=%d", w.TrainFeatures, w.TestFeatures)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *FeatureCountMismatchWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("train_features", w.TrainFeatures).
		Int("test_features", w.TestFeatures).
		Str("type", "FeatureCountMismatchWarning")
}

// NewFeatureCountMismatchWarning は新しいFeatureCountMismatchWarningを作成します。
func NewFeatureCountMismatchWarning(train, test int) *FeatureCountMismatchWarning {
	return &FeatureCountMismatchWarning{TrainFeatures: train, TestFeatures: test}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("onia: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 は行、1 は列（特徴量）
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("onia: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("onia: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("onia: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("onia: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("onia: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	パイプラインのエラー型
//
// ===========================================================================

// FileNotFoundError は入力ファイルやディレクトリが存在しない場合のエラーです。
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("onia: file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FileNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).Str("type", "FileNotFoundError")
}

// NewFileNotFoundError は新しいFileNotFoundErrorを作成し、スタックトレースを付与します。
func NewFileNotFoundError(path string, cause error) error {
	return errors.WithStack(&FileNotFoundError{Path: path, Err: cause})
}

// LoadError はファイルの読み込みや解析に失敗した場合のエラーです。
// Line は 1 始まりの CSV 行番号（ヘッダーが 1 行目）。不明な場合は 0。
type LoadError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "onia: load error: %s", e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *LoadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Int("line", e.Line).
		Str("reason", e.Reason).
		Str("type", "LoadError")
}

// NewLoadError は新しいLoadErrorを作成し、スタックトレースを付与します。
func NewLoadError(path string, line int, reason string, cause error) error {
	return errors.WithStack(&LoadError{Path: path, Line: line, Reason: reason, Err: cause})
}

// SchemaError は必須の列が存在しない場合のエラーです。
type SchemaError struct {
	Dataset string   // "train", "test", "submission" など
	Column  string   // 見つからなかった列
	Columns []string // 実際に存在した列
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("onia: schema error: %s data must contain column '%s' (found: %s)",
		e.Dataset, e.Column, strings.Join(e.Columns, ","))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("dataset", e.Dataset).
		Str("column", e.Column).
		Strs("columns", e.Columns).
		Str("type", "SchemaError")
}

// NewSchemaError は新しいSchemaErrorを作成し、スタックトレースを付与します。
func NewSchemaError(dataset, column string, columns []string) error {
	return errors.WithStack(&SchemaError{Dataset: dataset, Column: column, Columns: columns})
}

// SplitError は学習/検証分割ができない場合のエラーです。
// 層化分割で要素数が 2 未満のクラスがある場合など。
type SplitError struct {
	Reason string
	Class  int // 原因となったクラス。該当しない場合は -1
	Count  int
}

func (e *SplitError) Error() string {
	if e.Class >= 0 {
		return fmt.Sprintf("onia: split error: %s (class %d has %d members)", e.Reason, e.Class, e.Count)
	}
	return fmt.Sprintf("onia: split error: %s", e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SplitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("reason", e.Reason).
		Int("class", e.Class).
		Int("count", e.Count).
		Str("type", "SplitError")
}

// NewSplitError はクラスに依存しないSplitErrorを作成します。
func NewSplitError(reason string) error {
	return errors.WithStack(&SplitError{Reason: reason, Class: -1})
}

// NewClassSplitError は特定のクラスが原因のSplitErrorを作成します。
func NewClassSplitError(reason string, class, count int) error {
	return errors.WithStack(&SplitError{Reason: reason, Class: class, Count: count})
}

// TrainingError はモデルの学習に失敗した場合のエラーです。
type TrainingError struct {
	Model  string
	Reason string
	Err    error
}

func (e *TrainingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("onia: %s: training failed: %s: %v", e.Model, e.Reason, e.Err)
	}
	return fmt.Sprintf("onia: %s: training failed: %s", e.Model, e.Reason)
}

func (e *TrainingError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *TrainingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.Model).
		Str("reason", e.Reason).
		Str("type", "TrainingError")
}

// NewTrainingError は新しいTrainingErrorを作成し、スタックトレースを付与します。
func NewTrainingError(model, reason string, cause error) error {
	return errors.WithStack(&TrainingError{Model: model, Reason: reason, Err: cause})
}

// WriteError は出力ファイルを書き込めない場合のエラーです。
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("onia: cannot write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *WriteError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).Str("type", "WriteError")
}

// NewWriteError は新しいWriteErrorを作成し、スタックトレースを付与します。
func NewWriteError(path string, cause error) error {
	return errors.WithStack(&WriteError{Path: path, Err: cause})
}

// StageError はどのステージで致命的なエラーが起きたかを記録します。
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError は err をステージ名で包みます。err が nil の場合は nil を返します。
func NewStageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf は err の連鎖からステージ名を取り出します。見つからない場合は空文字列。
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
