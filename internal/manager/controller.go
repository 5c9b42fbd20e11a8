package manager

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"eisenhower-app/internal/logger"
	"eisenhower-app/internal/matrix"
	"eisenhower-app/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Тексты уведомлений
const (
	MsgLoadFailed   = "failed to load tasks"
	MsgAddFailed    = "failed to add task"
	MsgDeleteFailed = "failed to delete task"
	MsgAdded        = "task added"
	MsgDeleted      = "task deleted"
)

var (
	// ErrBusy другая операция контроллера еще не завершилась
	ErrBusy = errors.New("another operation is in progress")
	// ErrEmptyTitle заголовок пуст после обрезки пробелов
	ErrEmptyTitle = errors.New("task title is required")
)

var (
	operationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eisenhower_controller_operations_total",
			Help: "Total number of controller operations by outcome",
		},
		[]string{"op", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eisenhower_controller_operation_duration_seconds",
			Help:    "Duration of controller operations including the store call",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// Store внешнее хранилище задач, с которым работает контроллер
type Store interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, title string, urgent, important bool) (models.Task, error)
	Delete(ctx context.Context, id models.TaskID) error
}

type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notification одноразовое сообщение пользователю
type Notification struct {
	Level Level
	Text  string
}

// State снимок состояния представления вместе с заново посчитанной матрицей
type State struct {
	Tasks        []models.Task
	Loading      bool
	Blocking     bool
	Notification *Notification
	Matrix       matrix.Matrix
}

// Controller владеет списком задач сессии и флагами loading/blocking/notification.
// Одновременно выполняется не более одной операции, остальные получают ErrBusy.
type Controller struct {
	store Store

	mu           sync.Mutex
	tasks        []models.Task
	loading      bool
	blocking     bool
	notification *Notification
	inFlight     bool
}

func NewController(store Store) *Controller {
	return &Controller{
		store:   store,
		tasks:   []models.Task{},
		loading: true,
	}
}

// Snapshot возвращает копию текущего состояния
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks := make([]models.Task, len(c.tasks))
	copy(tasks, c.tasks)

	var n *Notification
	if c.notification != nil {
		cp := *c.notification
		n = &cp
	}

	return State{
		Tasks:        tasks,
		Loading:      c.loading,
		Blocking:     c.blocking,
		Notification: n,
		Matrix:       matrix.Categorize(tasks),
	}
}

// Dismiss убирает текущее уведомление
func (c *Controller) Dismiss() {
	c.mu.Lock()
	c.notification = nil
	c.mu.Unlock()
}

// Load заменяет список задач ответом хранилища. При ошибке список не меняется.
func (c *Controller) Load(ctx context.Context) error {
	done := c.observe("load")
	defer done()

	if !c.acquire(func() { c.loading = true }) {
		operationCount.WithLabelValues("load", "busy").Inc()
		return ErrBusy
	}

	tasks, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.inFlight = false

	if err != nil {
		c.notification = &Notification{Level: LevelError, Text: MsgLoadFailed}
		operationCount.WithLabelValues("load", "error").Inc()
		logger.Error(ctx, err, "Ошибка загрузки задач")
		return err
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	c.tasks = tasks
	operationCount.WithLabelValues("load", "success").Inc()
	logger.Debug(ctx, "Задачи загружены", "count", len(tasks))
	return nil
}

// CreateTask добавляет задачу в конец списка после успешного ответа хранилища
func (c *Controller) CreateTask(ctx context.Context, title string, urgent, important bool) (models.Task, error) {
	done := c.observe("create")
	defer done()

	if strings.TrimSpace(title) == "" {
		operationCount.WithLabelValues("create", "invalid").Inc()
		return models.Task{}, ErrEmptyTitle
	}

	if !c.acquire(func() { c.blocking = true }) {
		operationCount.WithLabelValues("create", "busy").Inc()
		return models.Task{}, ErrBusy
	}

	task, err := c.store.Create(ctx, title, urgent, important)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocking = false
	c.inFlight = false

	if err != nil {
		c.notification = &Notification{Level: LevelError, Text: MsgAddFailed}
		operationCount.WithLabelValues("create", "error").Inc()
		logger.Error(ctx, err, "Ошибка добавления задачи")
		return models.Task{}, err
	}

	c.upsert(task)
	c.notification = &Notification{Level: LevelSuccess, Text: MsgAdded}
	operationCount.WithLabelValues("create", "success").Inc()
	logger.Info(ctx, "Задача добавлена", "id", task.ID)
	return task, nil
}

// DeleteTask удаляет задачу после успешного ответа хранилища.
// Запрос уходит даже если id нет в локальном списке.
func (c *Controller) DeleteTask(ctx context.Context, id models.TaskID) error {
	done := c.observe("delete")
	defer done()

	if !c.acquire(func() { c.blocking = true }) {
		operationCount.WithLabelValues("delete", "busy").Inc()
		return ErrBusy
	}

	err := c.store.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocking = false
	c.inFlight = false

	if err != nil {
		c.notification = &Notification{Level: LevelError, Text: MsgDeleteFailed}
		operationCount.WithLabelValues("delete", "error").Inc()
		logger.Error(ctx, err, "Ошибка удаления задачи", "id", id)
		return err
	}

	kept := c.tasks[:0:0]
	for _, task := range c.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	c.tasks = kept
	c.notification = &Notification{Level: LevelSuccess, Text: MsgDeleted}
	operationCount.WithLabelValues("delete", "success").Inc()
	logger.Info(ctx, "Задача удалена", "id", id)
	return nil
}

// acquire занимает единственный слот операции и выставляет флаг под той же блокировкой
func (c *Controller) acquire(mark func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return false
	}
	c.inFlight = true
	mark()
	return true
}

// upsert добавляет задачу в конец; задача с тем же id заменяется на месте. Вызывать под c.mu.
func (c *Controller) upsert(task models.Task) {
	for i := range c.tasks {
		if c.tasks[i].ID == task.ID {
			c.tasks[i] = task
			return
		}
	}
	c.tasks = append(c.tasks, task)
}

func (c *Controller) observe(op string) func() {
	startTime := time.Now()
	return func() {
		operationDuration.WithLabelValues(op).Observe(time.Since(startTime).Seconds())
	}
}
