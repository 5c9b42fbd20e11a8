package manager

import (
	"context"
	"errors"
	"testing"

	"eisenhower-app/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestControllerMetrics(t *testing.T) {
	// Сохраняем оригинальную метрику
	originalOperationCount := operationCount
	defer func() { operationCount = originalOperationCount }()

	testOperationCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eisenhower_controller_operations_total",
			Help: "Test counter",
		},
		[]string{"op", "status"},
	)
	registry := prometheus.NewRegistry()
	registry.MustRegister(testOperationCount)
	operationCount = testOperationCount

	store := testutil.NewFakeStore()
	c := NewController(store)
	ctx := context.Background()

	c.Load(ctx)
	c.CreateTask(ctx, "Купить молоко", true, false)
	c.CreateTask(ctx, "  ", true, false)

	store.DeleteErr = errors.New("boom")
	c.DeleteTask(ctx, "1")

	tests := []struct {
		op, status string
		want       float64
	}{
		{"load", "success", 1},
		{"create", "success", 1},
		{"create", "invalid", 1},
		{"delete", "error", 1},
		{"delete", "success", 0},
	}
	for _, tt := range tests {
		if got := promtest.ToFloat64(testOperationCount.WithLabelValues(tt.op, tt.status)); got != tt.want {
			t.Errorf("%s/%s: ожидалось %v, получено %v", tt.op, tt.status, tt.want, got)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelSuccess.String() != "success" || LevelError.String() != "error" {
		t.Errorf("Неверные имена уровней: %s, %s", LevelSuccess, LevelError)
	}
}
