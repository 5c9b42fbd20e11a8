// Package client реализует HTTP-клиент внешнего хранилища задач.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eisenhower-app/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultTimeout таймаут одного запроса к хранилищу
const DefaultTimeout = 10 * time.Second

var (
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
)

var (
	requestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eisenhower_store_client_requests_total",
			Help: "Total number of requests sent to the task store",
		},
		[]string{"code", "method"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eisenhower_store_client_request_duration_seconds",
			Help:    "Duration of requests sent to the task store",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"code", "method"},
	)
)

// TransportError единственный вид ошибки клиента: сеть, не-2xx статус или битый ответ
type TransportError struct {
	Op         string // list, create, delete
	Method     string
	URL        string
	StatusCode int // 0, если ответа не было
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s tasks: %s %s: %d: %v", e.Op, e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s tasks: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithTimeout задает таймаут одного запроса
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient подменяет http.Client (тесты, прокси); транспорт оборачивается метриками
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.httpClient = &cp
	}
}

// New создает клиент хранилища; baseURL должен быть абсолютным (http://host[:port][/prefix])
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	next := c.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c.httpClient.Transport = promhttp.InstrumentRoundTripperCounter(requestCount,
		promhttp.InstrumentRoundTripperDuration(requestDuration, next))

	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// List GET /tasks
func (c *Client) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, "list", http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	// id каждой задачи должен быть непустым и уникальным в пределах списка
	seen := make(map[models.TaskID]struct{}, len(tasks))
	for i, task := range tasks {
		if task.ID == "" {
			return nil, c.malformed("list", http.MethodGet, fmt.Sprintf("task #%d has no id", i))
		}
		if _, dup := seen[task.ID]; dup {
			return nil, c.malformed("list", http.MethodGet, fmt.Sprintf("duplicate task id %q", task.ID))
		}
		seen[task.ID] = struct{}{}
	}
	return tasks, nil
}

// Create POST /tasks?title=...&urgent=...&important=...
func (c *Client) Create(ctx context.Context, title string, urgent, important bool) (models.Task, error) {
	q := url.Values{}
	q.Set("title", title)
	q.Set("urgent", strconv.FormatBool(urgent))
	q.Set("important", strconv.FormatBool(important))

	var resp models.CreateTaskResponse
	if err := c.do(ctx, "create", http.MethodPost, "/tasks", q, &resp); err != nil {
		return models.Task{}, err
	}
	if resp.Task.ID == "" {
		return models.Task{}, c.malformed("create", http.MethodPost, "missing task id")
	}
	return resp.Task, nil
}

// Delete DELETE /tasks/{id}; тело ответа не используется
func (c *Client) Delete(ctx context.Context, id models.TaskID) error {
	return c.do(ctx, "delete", http.MethodDelete, "/tasks/"+url.PathEscape(string(id)), nil, nil)
}

// malformed ошибка ответа, который разобрался, но нарушает формат задач
func (c *Client) malformed(op, method, reason string) error {
	return &TransportError{
		Op: op, Method: method, URL: c.baseURL + "/tasks",
		Err: fmt.Errorf("%w: %s", ErrMalformedResponse, reason),
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	fail := func(status int, err error) error {
		return &TransportError{Op: op, Method: method, URL: c.baseURL + path, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fail(resp.StatusCode, fmt.Errorf("%w: %s", ErrUnexpectedStatus, strings.TrimSpace(string(body))))
	}

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return nil
}
