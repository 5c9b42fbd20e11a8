package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"path/filepath"

	"eisenhower-app/internal/config"
	"eisenhower-app/internal/storage"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

func main() {
	configPath := flag.String("config", "", "config file (default $XDG_CONFIG_HOME/eisenhower/config.yaml)")
	dbPath := flag.String("db", "", "sqlite database path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("❌ Ошибка загрузки конфигурации: ", err)
	}
	if *dbPath != "" {
		cfg.Store.DBPath = *dbPath
	}

	driver := cfg.Store.Driver
	if driver == storage.DriverMemory || driver == "" {
		driver = storage.DriverSQLite
	}

	log.Println("🔄 Создание базы данных...", cfg.Store.DBPath)

	// Убедимся что папка существует
	if err := os.MkdirAll(filepath.Dir(cfg.Store.DBPath), 0755); err != nil {
		log.Fatal("❌ Ошибка создания директории: ", err)
	}

	db, err := sql.Open(driver, cfg.Store.DBPath)
	if err != nil {
		log.Fatal("❌ Ошибка открытия БД: ", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("❌ Ошибка подключения: ", err)
	}

	if err := storage.CreateTables(db); err != nil {
		log.Fatal("❌ Ошибка создания таблиц: ", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		log.Fatal("❌ Ошибка проверки таблицы tasks: ", err)
	}

	log.Printf("✅ Таблица tasks готова, задач: %d", count)
	log.Println("🎉 Миграция завершена успешно!")
}
