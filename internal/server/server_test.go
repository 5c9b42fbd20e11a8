package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"eisenhower-app/internal/models"
	"eisenhower-app/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func createPath(prefix, title string, urgent, important string) string {
	q := url.Values{}
	q.Set("title", title)
	q.Set("urgent", urgent)
	q.Set("important", important)
	return prefix + "/tasks?" + q.Encode()
}

func TestCreateListDelete(t *testing.T) {
	for _, prefix := range []string{"", APIPrefix} {
		t.Run("prefix="+prefix, func(t *testing.T) {
			router := NewRouter(storage.NewMemoryStorage())

			rr := do(t, router, http.MethodPost, createPath(prefix, "Buy milk & bread", "true", "false"))
			if rr.Code != http.StatusOK {
				t.Fatalf("POST: ожидался 200, получено %d (%s)", rr.Code, rr.Body)
			}

			var created models.CreateTaskResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if created.Status != "success" || created.Task.ID == "" {
				t.Fatalf("Неверный ответ: %+v", created)
			}
			if created.Task.Title != "Buy milk & bread" || !created.Task.Urgent || created.Task.Important {
				t.Errorf("Поля задачи не совпадают: %+v", created.Task)
			}

			rr = do(t, router, http.MethodGet, prefix+"/tasks")
			var tasks []models.Task
			if err := json.Unmarshal(rr.Body.Bytes(), &tasks); err != nil {
				t.Fatalf("decode list: %v", err)
			}
			if len(tasks) != 1 || tasks[0] != created.Task {
				t.Fatalf("Ожидалась созданная задача в списке, получено %+v", tasks)
			}

			rr = do(t, router, http.MethodDelete, prefix+"/tasks/"+string(created.Task.ID))
			if rr.Code != http.StatusOK {
				t.Fatalf("DELETE: ожидался 200, получено %d", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), `"deleted"`) {
				t.Errorf("Неверное тело ответа: %s", rr.Body)
			}

			rr = do(t, router, http.MethodGet, prefix+"/tasks")
			if strings.TrimSpace(rr.Body.String()) != "[]" {
				t.Errorf("Ожидался пустой массив, получено %s", rr.Body)
			}
		})
	}
}

func TestDeleteUnknownTask(t *testing.T) {
	router := NewRouter(storage.NewMemoryStorage())

	rr := do(t, router, http.MethodDelete, "/tasks/missing")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("Ожидался 404, получено %d", rr.Code)
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Detail != "Task not found" {
		t.Errorf("Неверный detail: %q", body.Detail)
	}
}

func TestCreateValidation(t *testing.T) {
	router := NewRouter(storage.NewMemoryStorage())

	tests := []struct {
		name   string
		target string
	}{
		{"missing title", "/tasks?urgent=true&important=true"},
		{"blank title", createPath("", "   ", "true", "true")},
		{"bad urgent", createPath("", "x", "maybe", "true")},
		{"missing important", "/tasks?title=x&urgent=false"},
		{"too long", createPath("", strings.Repeat("a", MaxTitleLength+1), "true", "true")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, router, http.MethodPost, tt.target)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("Ожидался 422, получено %d", rr.Code)
			}
		})
	}
}

func TestCreateCountsTitleInCharacters(t *testing.T) {
	router := NewRouter(storage.NewMemoryStorage())

	// 1000 кириллических символов занимают 2000 байт
	title := strings.Repeat("ж", MaxTitleLength)
	rr := do(t, router, http.MethodPost, createPath("", title, "false", "true"))
	if rr.Code != http.StatusOK {
		t.Fatalf("Ожидался 200 для %d символов, получено %d: %s", MaxTitleLength, rr.Code, rr.Body.String())
	}

	var resp models.CreateTaskResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Ошибка разбора ответа: %v", err)
	}
	if resp.Task.Title != title {
		t.Error("Заголовок должен сохраниться без изменений")
	}

	rr = do(t, router, http.MethodPost, createPath("", title+"ж", "false", "true"))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("Ожидался 422 для %d символов, получено %d", MaxTitleLength+1, rr.Code)
	}
}

func TestQueryBool(t *testing.T) {
	for in, want := range map[string]bool{"true": true, "1": true, "on": true, "Yes": true, "false": false, "0": false, "off": false} {
		got, err := queryBool(in)
		if err != nil || got != want {
			t.Errorf("queryBool(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := queryBool(""); err == nil {
		t.Error("Ожидалась ошибка для пустого значения")
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(storage.NewMemoryStorage())

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Ожидался 200 на preflight, получено %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete) {
		t.Errorf("DELETE не разрешен: %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Ожидался Allow-Credentials")
	}
}

func TestCORSSimpleRequest(t *testing.T) {
	router := NewRouter(storage.NewMemoryStorage())

	req := httptest.NewRequest(http.MethodGet, APIPrefix+"/tasks", nil)
	req.Header.Set("Origin", "https://tasks.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Ожидался 200, получено %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://tasks.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestAddTaskMetrics(t *testing.T) {
	// Подменяем глобальные метрики на тестовые
	originalAddTaskCount := addTaskCount
	testAddTaskCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "taskstore_tasks_added_total", Help: "Test counter"},
		[]string{"status"},
	)
	registry := prometheus.NewRegistry()
	registry.MustRegister(testAddTaskCount)
	addTaskCount = testAddTaskCount
	defer func() { addTaskCount = originalAddTaskCount }()

	router := NewRouter(storage.NewMemoryStorage())

	do(t, router, http.MethodPost, createPath("", "Valid", "true", "true"))
	do(t, router, http.MethodPost, "/tasks?title=")

	if got := testutil.ToFloat64(testAddTaskCount.WithLabelValues("success")); got != 1 {
		t.Errorf("Ожидался 1 success, получено %v", got)
	}
	if got := testutil.ToFloat64(testAddTaskCount.WithLabelValues("error")); got != 1 {
		t.Errorf("Ожидался 1 error, получено %v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter(storage.NewMemoryStorage())
	do(t, router, http.MethodGet, "/tasks")

	rr := do(t, router, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("Ожидался 200, получено %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "taskstore_http_request_duration_seconds") {
		t.Error("Метрика длительности запросов не найдена")
	}
}
