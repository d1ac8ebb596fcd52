package log

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	scigoErrors "github.com/IzaacCoding36/onia/pkg/errors"
)

// DefaultLogFile はCLIが既定で使用するログファイル名です。
const DefaultLogFile = "modelo_onia.log"

// Options は NewZerologLogger の設定です。
type Options struct {
	// Level より低いレベルのログは出力されません。
	Level Level

	// Console は人間向けの出力先です。nil の場合は os.Stdout。
	// io.Discard を渡すとコンソール出力を無効にできます。
	Console io.Writer

	// LogFile が空でなければ、JSON形式のログを追記モードで書き込みます。
	LogFile string

	// NoColor はコンソール出力の色付けを無効にします。
	NoColor bool
}

// ZerologLogger は rs/zerolog をバックエンドとする Logger の実装です。
// コンソールには読みやすい形式、ログファイルには1行1レコードのJSONを出力します。
type ZerologLogger struct {
	logger zerolog.Logger
	level  Level
	file   *os.File
}

var _ Logger = (*ZerologLogger)(nil)

// NewZerologLogger はコンソールとログファイルの両方に書き込むロガーを作成します。
// ログファイルを開けない場合は WriteError を返します。
func NewZerologLogger(opts Options) (*ZerologLogger, error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    opts.NoColor,
			// スタックトレースはファイルにのみ残す
			FieldsExclude: []string{StacktraceKey},
		},
	}

	var file *os.File
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, scigoErrors.NewWriteError(opts.LogFile, err)
		}
		file = f
		writers = append(writers, f)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(toZerologLevel(opts.Level)).
		With().
		Timestamp().
		Logger()

	return &ZerologLogger{logger: logger, level: opts.Level, file: file}, nil
}

// NewNopLogger は何も出力しないロガーを返します。
func NewNopLogger() Logger {
	return &ZerologLogger{logger: zerolog.Nop(), level: LevelError + 1}
}

// OrNop は logger が nil の場合に NewNopLogger を返します。
func OrNop(logger Logger) Logger {
	if logger == nil {
		return NewNopLogger()
	}
	return logger
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	case level <= LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// Debug implements Logger.Debug.
func (z *ZerologLogger) Debug(msg string, fields ...any) {
	z.logger.Debug().Fields(fields).Msg(msg)
}

// Info implements Logger.Info.
func (z *ZerologLogger) Info(msg string, fields ...any) {
	z.logger.Info().Fields(fields).Msg(msg)
}

// Warn implements Logger.Warn.
func (z *ZerologLogger) Warn(msg string, fields ...any) {
	z.logger.Warn().Fields(fields).Msg(msg)
}

// Error implements Logger.Error.
// 最初のフィールドが error の場合、エラー型・構造化された詳細・スタックトレースを付与します。
func (z *ZerologLogger) Error(msg string, fields ...any) {
	event := z.logger.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			event = withError(event, err)
			fields = fields[1:]
		}
	}
	event.Fields(fields).Msg(msg)
}

func withError(event *zerolog.Event, err error) *zerolog.Event {
	event = event.Err(err).
		Str(ErrorTypeKey, errorType(err)).
		Str(StacktraceKey, fmt.Sprintf("%+v", err))

	var detail zerolog.LogObjectMarshaler
	if scigoErrors.As(err, &detail) {
		event = event.Object(DetailKey, detail)
	}
	return event
}

// errorType は連鎖の中で最初に見つかったパッケージ定義のエラー型名を返します。
func errorType(err error) string {
	var detail zerolog.LogObjectMarshaler
	if scigoErrors.As(err, &detail) {
		return fmt.Sprintf("%T", detail)
	}
	return fmt.Sprintf("%T", err)
}

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{
		logger: z.logger.With().Fields(fields).Logger(),
		level:  z.level,
		file:   z.file,
	}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= z.level && z.logger.GetLevel() != zerolog.Disabled
}

// Warning は警告値 w を logger に WARN レベルで1件だけ記録します。
// メッセージは w.Error()、型名は ErrorTypeKey に入ります。ステージは errors.Warn を
// 経由せず、受け取ったロガーにこれで直接書き込みます。
func Warning(logger Logger, w error, fields ...any) {
	if w == nil {
		return
	}
	OrNop(logger).Warn(w.Error(), append([]any{ErrorTypeKey, errorType(w)}, fields...)...)
}

// LogWarning は errors.Warn から渡された警告を WARN レベルで記録します。
// errors.SetZerologWarnFunc に登録して使用します。
func (z *ZerologLogger) LogWarning(w error) {
	event := z.logger.Warn().Str(ErrorTypeKey, fmt.Sprintf("%T", w))
	if m, ok := w.(zerolog.LogObjectMarshaler); ok {
		event = event.Object(DetailKey, m)
	}
	event.Msg(w.Error())
}

// Close はログファイルをフラッシュして閉じます。With で派生したロガーも同じファイルを共有するため、
// Close は実行の最後に一度だけ呼び出してください。
func (z *ZerologLogger) Close() error {
	if z.file == nil {
		return nil
	}
	f := z.file
	z.file = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return scigoErrors.NewWriteError(f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return scigoErrors.NewWriteError(f.Name(), err)
	}
	return nil
}
