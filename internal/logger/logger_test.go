package logger

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	// Сохраняем оригинальный output
	oldOutput := log.Writer()
	defer log.SetOutput(oldOutput)

	// Перехватываем вывод
	var buf bytes.Buffer
	log.SetOutput(&buf)

	ctx := context.Background()

	t.Run("Info", func(t *testing.T) {
		buf.Reset()
		Info(ctx, "задачи загружены")
		if !strings.Contains(buf.String(), "[INFO] задачи загружены") {
			t.Errorf("Неверный формат лога Info: %s", buf.String())
		}
	})

	t.Run("Error with error", func(t *testing.T) {
		buf.Reset()
		err := errors.New("connection refused")
		Error(ctx, err, "не удалось загрузить задачи")
		if !strings.Contains(buf.String(), "[ERROR] не удалось загрузить задачи: connection refused") {
			t.Errorf("Неверный формат лога Error: %s", buf.String())
		}
	})

	t.Run("Error without error", func(t *testing.T) {
		buf.Reset()
		Error(ctx, nil, "сообщение без ошибки")
		if !strings.Contains(buf.String(), "[ERROR] сообщение без ошибки") {
			t.Errorf("Неверный формат лога Error без ошибки: %s", buf.String())
		}
	})

	t.Run("Debug with level", func(t *testing.T) {
		buf.Reset()
		SetLevel(LevelDebug)
		defer SetLevel(LevelInfo)

		Debug(ctx, "запрос к хранилищу")
		if !strings.Contains(buf.String(), "[DEBUG] запрос к хранилищу") {
			t.Errorf("Неверный формат лога Debug: %s", buf.String())
		}
	})

	t.Run("Debug without level", func(t *testing.T) {
		buf.Reset()
		SetLevel(LevelInfo)

		Debug(ctx, "Это не должно логироваться")
		if buf.String() != "" {
			t.Errorf("Debug сообщение не должно логироваться при LevelInfo: %s", buf.String())
		}
	})

	t.Run("Warn suppressed at error level", func(t *testing.T) {
		buf.Reset()
		SetLevel(LevelError)
		defer SetLevel(LevelInfo)

		Warn(ctx, "операция отклонена")
		if buf.String() != "" {
			t.Errorf("Warn не должен логироваться при LevelError: %s", buf.String())
		}
	})
}

func TestLoggerWithFields(t *testing.T) {
	// Перехватываем вывод
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	ctx := context.Background()

	t.Run("Info with fields", func(t *testing.T) {
		buf.Reset()
		Info(ctx, "задача добавлена", "id", "7", "count", 42)
		output := buf.String()
		if !strings.Contains(output, "[INFO] задача добавлена") ||
			!strings.Contains(output, "id=7") ||
			!strings.Contains(output, "count=42") {
			t.Errorf("Неверный формат лога с полями: %s", output)
		}
	})

	t.Run("Odd number of fields", func(t *testing.T) {
		buf.Reset()
		Info(ctx, "поле без значения", "orphan")
		if !strings.Contains(buf.String(), "orphan=?") {
			t.Errorf("Ожидался ключ без значения: %s", buf.String())
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, ожидалось %v", in, got, want)
		}
	}
}
