package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"eisenhower-app/internal/config"
	"eisenhower-app/internal/logger"
	"eisenhower-app/internal/server"
	"eisenhower-app/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "config file (default $XDG_CONFIG_HOME/eisenhower/config.yaml)")
	addr := flag.String("addr", "", "listen address")
	driver := flag.String("driver", "", "storage driver: memory, sqlite, sqlite3")
	dbPath := flag.String("db", "", "sqlite database path")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(ctx, err, "Ошибка загрузки конфигурации")
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Store.Addr = *addr
	}
	if *driver != "" {
		cfg.Store.Driver = *driver
	}
	if *dbPath != "" {
		cfg.Store.DBPath = *dbPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	if cfg.Store.Driver != storage.DriverMemory {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.DBPath), 0755); err != nil {
			logger.Error(ctx, err, "Ошибка создания директории базы данных")
			os.Exit(1)
		}
	}

	store, err := storage.Open(cfg.Store.Driver, cfg.Store.DBPath)
	if err != nil {
		logger.Error(ctx, err, "Ошибка инициализации хранилища", "driver", cfg.Store.Driver)
		os.Exit(1)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              cfg.Store.Addr,
		Handler:           server.NewRouter(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "Хранилище задач запущено", "addr", cfg.Store.Addr, "driver", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, err, "Ошибка HTTP-сервера")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	<-stop
	logger.Info(ctx, "Получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, err, "Ошибка остановки сервера")
		return
	}
	logger.Info(ctx, "Сервер остановлен")
}
