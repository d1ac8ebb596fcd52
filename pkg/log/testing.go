package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// TestLogger はテスト用の Logger です。
// 各レコードを1行のJSONとしてメモリ上のバッファに書き込み、後から検査できます。
//
//	logger, _ := log.NewTestLogger(log.LevelDebug)
//	pipeline.Run(cfg, logger)
//	assert.True(t, logger.ContainsField(log.StageKey, log.StagePredict))
type TestLogger struct {
	mu     *sync.Mutex // With で派生したロガーと共有
	buffer *bytes.Buffer
	level  Level
	fields map[string]any
}

var _ Logger = (*TestLogger)(nil)

// NewTestLogger は level 以上のレコードを記録する TestLogger と、その出力先バッファを返します。
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return &TestLogger{
		mu:     &sync.Mutex{},
		buffer: buffer,
		level:  level,
		fields: map[string]any{},
	}, buffer
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.write(LevelDebug, msg, fields) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.write(LevelInfo, msg, fields) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.write(LevelWarn, msg, fields) }

// Error は ZerologLogger と同じく、先頭の error 値を "error" キーで記録します。
func (t *TestLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{"error", err}, fields[1:]...)
		}
	}
	t.write(LevelError, msg, fields)
}

// With implements Logger.With.
func (t *TestLogger) With(fields ...any) Logger {
	merged := make(map[string]any, len(t.fields)+len(fields)/2)
	for k, v := range t.fields {
		merged[k] = v
	}
	addFields(merged, fields)
	return &TestLogger{mu: t.mu, buffer: t.buffer, level: t.level, fields: merged}
}

// Enabled implements Logger.Enabled.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return t.level <= level
}

func (t *TestLogger) write(level Level, msg string, fields []any) {
	if level < t.level {
		return
	}
	entry := map[string]any{"level": level.String(), "message": msg}
	for k, v := range t.fields {
		entry[k] = v
	}
	addFields(entry, fields)

	line, _ := json.Marshal(entry)
	t.mu.Lock()
	t.buffer.Write(append(line, '\n'))
	t.mu.Unlock()
}

// addFields は key/value の組を dst に追加します。error は文字列として記録します。
func addFields(dst map[string]any, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		value := fields[i+1]
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		dst[fmt.Sprint(fields[i])] = value
	}
}

// GetBuffer returns the buffer holding the captured JSON lines.
func (t *TestLogger) GetBuffer() *bytes.Buffer {
	return t.buffer
}

// GetLogEntries は記録済みのレコードをデコードして返します。
// 数値は JSON の仕様どおり float64 になります。
func (t *TestLogger) GetLogEntries() ([]map[string]any, error) {
	t.mu.Lock()
	content := strings.TrimSpace(t.buffer.String())
	t.mu.Unlock()

	var entries []map[string]any
	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ContainsMessage reports whether any captured record contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Contains(t.buffer.String(), message)
}

// ContainsField reports whether some record has key set to value.
// Numbers match regardless of their Go type (42 matches the decoded 42.0).
func (t *TestLogger) ContainsField(key string, value any) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		got, ok := entry[key]
		if !ok {
			continue
		}
		if fmt.Sprint(got) == fmt.Sprint(value) {
			return true
		}
	}
	return false
}

// Clear discards everything captured so far.
func (t *TestLogger) Clear() {
	t.mu.Lock()
	t.buffer.Reset()
	t.mu.Unlock()
}
