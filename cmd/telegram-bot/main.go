package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eisenhower-app/internal/bot"
	"eisenhower-app/internal/client"
	"eisenhower-app/internal/config"
	"eisenhower-app/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "config file (default $XDG_CONFIG_HOME/eisenhower/config.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(ctx, err, "Ошибка загрузки конфигурации")
		return
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	logger.Info(ctx, "Запуск Telegram-бота...")

	if cfg.Telegram.Token == "" {
		logger.Error(ctx, errors.New("token is empty"), "Не задан токен бота (TELEGRAM_BOT_TOKEN)")
		return
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Error(ctx, err, "Ошибка создания бота")
		return
	}
	api.Debug = cfg.Telegram.Debug
	logger.Info(ctx, "Авторизован", "username", api.Self.UserName)

	store := client.New(cfg.BaseURL(), client.WithTimeout(cfg.Timeout()))
	logger.Info(ctx, "Хранилище задач", "baseURL", store.BaseURL())

	if cfg.Telegram.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.Telegram.MetricsAddr)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		logger.Error(ctx, err, "Ошибка получения updates")
		return
	}

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	bot.NewBot(api, store).Run(ctx, updates)
	logger.Info(ctx, "Бот остановлен")
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	logger.Info(ctx, "Метрики доступны", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, err, "Ошибка сервера метрик")
	}
}
