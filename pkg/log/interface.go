// Package log provides the structured logging interface used by every pipeline stage.
//
// There is no package-level logger. A run builds one Logger (normally a
// ZerologLogger writing to the console and an optional log file), hands it to each
// stage explicitly, and closes it when the run ends. Library code that is given a
// nil Logger falls back to NewNopLogger.
//
// Example usage:
//
//	logger, err := log.NewZerologLogger(log.Options{Level: log.LevelInfo, LogFile: "modelo_onia.log"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.With(log.StageKey, "train").Info("Training started",
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 5,
//	)

package log

import (
	"context"
	"fmt"
	"strings"
)

// Logger はパイプラインの各ステージが受け取る構造化ロガーです。
// fields は log/slog と同じく key, value の交互の並びで、キーは attributes.go の定数を使います。
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)

	// Error は最初のフィールドが error の場合、エラー型と詳細を付けて記録します。
	//
	//	logger.Error("Pipeline failed", err, log.StageKey, errors.StageOf(err))
	Error(msg string, fields ...any)

	// With は fields を常に付与する派生ロガーを返します。
	With(fields ...any) Logger

	// Enabled は level のレコードが出力されるかどうかを返します。
	// 重い値（混同行列の文字列化など）を組み立てる前の判定に使います。
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}
