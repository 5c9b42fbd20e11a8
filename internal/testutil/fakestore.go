// Package testutil вспомогательные типы для тестов.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"eisenhower-app/internal/models"
)

// ErrNotFound id задачи неизвестен фейковому хранилищу
var ErrNotFound = errors.New("not found")

// FakeStore реализация manager.Store в памяти для тестов.
// Id выдаются по порядку, начиная с NextID.
type FakeStore struct {
	mu     sync.Mutex
	tasks  []models.Task
	NextID int

	// Ошибки, которые вернут соответствующие вызовы
	ListErr   error
	CreateErr error
	DeleteErr error

	// Gate, если задан, держит каждый вызов до закрытия канала или отмены контекста
	Gate chan struct{}
	// Entered получает значение, когда вызов дошел до Gate
	Entered chan struct{}

	Calls []string
}

// NewFakeStore создает хранилище с указанными задачами
func NewFakeStore(tasks ...models.Task) *FakeStore {
	return &FakeStore{
		tasks:  append([]models.Task(nil), tasks...),
		NextID: 1,
	}
}

// Tasks возвращает копию списка задач
func (f *FakeStore) Tasks() []models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// CallCount число вызовов хранилища
func (f *FakeStore) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

func (f *FakeStore) enter(ctx context.Context, call string) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, call)
	gate, entered := f.Gate, f.Entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// List реализует manager.Store
func (f *FakeStore) List(ctx context.Context) ([]models.Task, error) {
	if err := f.enter(ctx, "list"); err != nil {
		return nil, err
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Tasks(), nil
}

// Create реализует manager.Store
func (f *FakeStore) Create(ctx context.Context, title string, urgent, important bool) (models.Task, error) {
	if err := f.enter(ctx, "create"); err != nil {
		return models.Task{}, err
	}
	if f.CreateErr != nil {
		return models.Task{}, f.CreateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	task := models.Task{
		ID:        models.TaskID(strconv.Itoa(f.NextID)),
		Title:     title,
		Urgent:    urgent,
		Important: important,
	}
	f.NextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// Delete реализует manager.Store
func (f *FakeStore) Delete(ctx context.Context, id models.TaskID) error {
	if err := f.enter(ctx, "delete"); err != nil {
		return err
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, task := range f.tasks {
		if task.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
