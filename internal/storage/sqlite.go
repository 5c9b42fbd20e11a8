package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"eisenhower-app/internal/models"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage открывает базу через driver ("sqlite" или "sqlite3") и создает схему
func NewSQLiteStorage(driver, dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Создаем таблицы
	if err := CreateTables(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("SQLite база данных инициализирована: %s (%s)", dbPath, driver)
	return &SQLiteStorage{db: db}, nil
}

// CreateTables создает схему, если ее еще нет
func CreateTables(db *sql.DB) error {
	createTasksTable := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		urgent BOOLEAN NOT NULL DEFAULT FALSE,
		important BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL
	)`

	if _, err := db.Exec(createTasksTable); err != nil {
		return fmt.Errorf("ошибка создания таблицы tasks: %w", err)
	}
	return nil
}

// Закрытие соединения
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) AddTask(ctx context.Context, title string, urgent, important bool) (models.Task, error) {
	task := models.Task{
		ID:        newID(),
		Title:     title,
		Urgent:    urgent,
		Important: important,
	}

	query := `
	INSERT INTO tasks (id, title, urgent, important, created_at)
	VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, string(task.ID), task.Title, task.Urgent, task.Important, time.Now().UTC())
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *SQLiteStorage) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	// rowid отражает порядок вставки
	query := `SELECT id, title, urgent, important FROM tasks ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (s *SQLiteStorage) GetTask(ctx context.Context, id models.TaskID) (*models.Task, error) {
	query := `SELECT id, title, urgent, important FROM tasks WHERE id = ?`

	var task models.Task
	var rawID string
	err := s.db.QueryRowContext(ctx, query, string(id)).Scan(&rawID, &task.Title, &task.Urgent, &task.Important)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	task.ID = models.TaskID(rawID)

	return &task, nil
}

func (s *SQLiteStorage) DeleteTask(ctx context.Context, id models.TaskID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", string(id))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Вспомогательная функция для сканирования задач
func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		var rawID string

		if err := rows.Scan(&rawID, &task.Title, &task.Urgent, &task.Important); err != nil {
			return nil, err
		}
		task.ID = models.TaskID(rawID)

		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}
