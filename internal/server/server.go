// Package server HTTP API хранилища задач: GET/POST /tasks, DELETE /tasks/{id}.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"eisenhower-app/internal/logger"
	"eisenhower-app/internal/models"
	"eisenhower-app/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIPrefix относительный путь, под которым API доступно в продакшене
const APIPrefix = "/api"

// MaxTitleLength ограничение на длину заголовка в символах, как у поля формы
const MaxTitleLength = 1000

func NewRouter(s storage.Storage) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions))
	r.Use(instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.StatusResponse{Status: "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Одни и те же маршруты в корне (dev) и под /api (prod)
	r.Group(func(r chi.Router) { taskRoutes(r, s) })
	r.Route(APIPrefix, func(r chi.Router) { taskRoutes(r, s) })

	return r
}

func taskRoutes(r chi.Router, s storage.Storage) {
	r.Get("/tasks", listTasksHandler(s))
	r.Post("/tasks", addTaskHandler(s))
	r.Delete("/tasks/{id}", deleteTaskHandler(s))
}

func listTasksHandler(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := s.GetAllTasks(r.Context())
		if err != nil {
			logger.Error(r.Context(), err, "Ошибка чтения задач")
			writeError(w, http.StatusInternalServerError, "failed to list tasks")
			return
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

func addTaskHandler(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		title := q.Get("title")
		if !q.Has("title") || strings.TrimSpace(title) == "" {
			addTaskCount.WithLabelValues("error").Inc()
			writeError(w, http.StatusUnprocessableEntity, "title is required")
			return
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			addTaskCount.WithLabelValues("error").Inc()
			writeError(w, http.StatusUnprocessableEntity, "title must not exceed 1000 characters")
			return
		}

		urgent, err := queryBool(q.Get("urgent"))
		if err != nil {
			addTaskCount.WithLabelValues("error").Inc()
			writeError(w, http.StatusUnprocessableEntity, "urgent must be a boolean")
			return
		}
		important, err := queryBool(q.Get("important"))
		if err != nil {
			addTaskCount.WithLabelValues("error").Inc()
			writeError(w, http.StatusUnprocessableEntity, "important must be a boolean")
			return
		}

		task, err := s.AddTask(r.Context(), title, urgent, important)
		if err != nil {
			addTaskCount.WithLabelValues("error").Inc()
			logger.Error(r.Context(), err, "Ошибка добавления задачи")
			writeError(w, http.StatusInternalServerError, "failed to add task")
			return
		}

		addTaskCount.WithLabelValues("success").Inc()
		taskTitleLength.Observe(float64(len(title)))
		logger.Info(r.Context(), "Задача добавлена", "id", task.ID, "urgent", urgent, "important", important)

		writeJSON(w, http.StatusOK, models.CreateTaskResponse{Status: "success", Task: task})
	}
}

func deleteTaskHandler(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := models.TaskID(chi.URLParam(r, "id"))

		if err := s.DeleteTask(r.Context(), id); err != nil {
			deleteTaskCount.WithLabelValues("error").Inc()
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Task not found")
				return
			}
			logger.Error(r.Context(), err, "Ошибка удаления задачи", "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete task")
			return
		}

		deleteTaskCount.WithLabelValues("success").Inc()
		logger.Info(r.Context(), "Задача удалена", "id", id)

		writeJSON(w, http.StatusOK, models.StatusResponse{Status: "deleted"})
	}
}

// queryBool разбирает булев параметр запроса; пустое значение ошибка
func queryBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(v)
}

// corsOptions разрешает запросы с любых доменов, как того требует фронтенд без прокси
var corsOptions = cors.Options{
	AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
	AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"*"},
	AllowCredentials: true,
	MaxAge:           300,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(context.Background(), err, "Ошибка кодирования ответа")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}
