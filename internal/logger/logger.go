package logger

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

// Level уровень логирования
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel задает минимальный уровень выводимых сообщений
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

// ParseLevel разбирает уровень из конфигурации ("debug", "info", "warn", "error").
// Неизвестное значение дает LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func enabled(l Level) bool {
	return int32(l) >= currentLevel.Load()
}

func Debug(ctx context.Context, msg string, fields ...any) {
	if enabled(LevelDebug) {
		output("DEBUG", msg, fields)
	}
}

func Info(ctx context.Context, msg string, fields ...any) {
	if enabled(LevelInfo) {
		output("INFO", msg, fields)
	}
}

func Warn(ctx context.Context, msg string, fields ...any) {
	if enabled(LevelWarn) {
		output("WARN", msg, fields)
	}
}

// Error пишет сообщение вместе с ошибкой; err может быть nil
func Error(ctx context.Context, err error, msg string, fields ...any) {
	if !enabled(LevelError) {
		return
	}
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	output("ERROR", msg, fields)
}

func output(level, msg string, fields []any) {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(level)
	b.WriteString("] ")
	b.WriteString(msg)

	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if i+1 < len(fields) {
			fmt.Fprintf(&b, " %s=%v", key, fields[i+1])
		} else {
			// Нечетное число аргументов: ключ без значения
			fmt.Fprintf(&b, " %s=?", key)
		}
	}

	log.Print(b.String())
}
