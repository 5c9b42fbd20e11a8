package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"eisenhower-app/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound задача с таким id отсутствует
var ErrNotFound = errors.New("task not found")

// Storage интерфейс для абстракции хранилища задач
type Storage interface {
	AddTask(ctx context.Context, title string, urgent, important bool) (models.Task, error)
	// GetAllTasks возвращает задачи в порядке добавления
	GetAllTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id models.TaskID) (*models.Task, error)
	DeleteTask(ctx context.Context, id models.TaskID) error

	// Закрытие соединения
	Close() error
}

// Драйверы хранилища
const (
	DriverMemory  = "memory"
	DriverSQLite  = "sqlite"  // modernc.org/sqlite, без cgo
	DriverSQLite3 = "sqlite3" // github.com/mattn/go-sqlite3, требует cgo
)

// Open создает хранилище по имени драйвера
func Open(driver, dbPath string) (Storage, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStorage(), nil
	case DriverSQLite, DriverSQLite3, "":
		if driver == "" {
			driver = DriverSQLite
		}
		return NewSQLiteStorage(driver, dbPath)
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %q", driver)
	}
}

func newID() models.TaskID {
	return models.TaskID(uuid.NewString())
}

// In-memory хранилище, данные живут до остановки процесса
type MemoryStorage struct {
	tasks []models.Task
	mu    sync.Mutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) AddTask(ctx context.Context, title string, urgent, important bool) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := models.Task{
		ID:        newID(),
		Title:     title,
		Urgent:    urgent,
		Important: important,
	}
	m.tasks = append(m.tasks, task)

	return task, nil
}

func (m *MemoryStorage) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]models.Task, len(m.tasks))
	copy(tasks, m.tasks)
	return tasks, nil
}

func (m *MemoryStorage) GetTask(ctx context.Context, id models.TaskID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, task := range m.tasks {
		if task.ID == id {
			return &task, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStorage) DeleteTask(ctx context.Context, id models.TaskID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, task := range m.tasks {
		if task.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStorage) Close() error {
	return nil
}
