// Package config загружает настройки клиента, хранилища и бота.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// AppName имя каталога в XDG_CONFIG_HOME
const AppName = "eisenhower"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Значения по умолчанию
const (
	DefaultDevBaseURL     = "http://localhost:8000"
	DefaultOrigin         = "http://localhost"
	DefaultRequestTimeout = 10 * time.Second
	DefaultStoreAddr      = ":8000"
	DefaultDBPath         = "./data/eisenhower.db"
	DefaultDBDriver       = "sqlite"
	DefaultMetricsAddr    = ":9090"
)

// ProdPathPrefix относительный путь хранилища в production-развертывании
const ProdPathPrefix = "/api"

type Config struct {
	Environment string `yaml:"environment" toml:"environment"`
	DevBaseURL  string `yaml:"dev_base_url" toml:"dev_base_url"`
	// ProdBaseURL, если задан, используется вместо Origin + "/api"
	ProdBaseURL    string `yaml:"prod_base_url" toml:"prod_base_url"`
	Origin         string `yaml:"origin" toml:"origin"`
	RequestTimeout string `yaml:"request_timeout" toml:"request_timeout"`
	// LogLevel пустой означает уровень по умолчанию для конкретной команды
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// LogFile файл журнала для терминального интерфейса
	LogFile  string         `yaml:"log_file" toml:"log_file"`
	Store    StoreConfig    `yaml:"store" toml:"store"`
	Telegram TelegramConfig `yaml:"telegram" toml:"telegram"`
}

type StoreConfig struct {
	Addr   string `yaml:"addr" toml:"addr"`
	Driver string `yaml:"driver" toml:"driver"`
	DBPath string `yaml:"db_path" toml:"db_path"`
}

type TelegramConfig struct {
	Token       string `yaml:"token" toml:"token"`
	MetricsAddr string `yaml:"metrics_addr" toml:"metrics_addr"`
	Debug       bool   `yaml:"debug" toml:"debug"`
}

// Default возвращает конфигурацию для локальной разработки
func Default() Config {
	return Config{
		Environment:    EnvDevelopment,
		DevBaseURL:     DefaultDevBaseURL,
		Origin:         DefaultOrigin,
		RequestTimeout: DefaultRequestTimeout.String(),
		Store: StoreConfig{
			Addr:   DefaultStoreAddr,
			Driver: DefaultDBDriver,
			DBPath: DefaultDBPath,
		},
		Telegram: TelegramConfig{MetricsAddr: DefaultMetricsAddr},
	}
}

// Dir возвращает каталог конфигурации: $XDG_CONFIG_HOME/eisenhower или ~/.config/eisenhower
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// Path ищет config.yaml, config.yml или config.toml в каталоге dir.
// Если файла нет, возвращает путь к config.yaml.
func Path(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, "config.yaml")
}

// Load читает файл конфигурации (если он есть) и применяет переменные окружения.
// Пустой path означает файл по умолчанию в XDG-каталоге.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err == nil {
			path = Path(dir)
		}
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.applyEnv()

	if _, err := cfg.parseTimeout(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(raw, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, c)
	default:
		return fmt.Errorf("неподдерживаемый формат конфигурации: %s", path)
	}
	if err != nil {
		return fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	set(&c.Environment, "EISENHOWER_ENV")
	set(&c.LogLevel, "EISENHOWER_LOG_LEVEL")
	set(&c.LogFile, "EISENHOWER_LOG_FILE")
	set(&c.Store.Addr, "EISENHOWER_STORE_ADDR")
	set(&c.Store.DBPath, "EISENHOWER_DB_PATH")
	set(&c.Store.Driver, "EISENHOWER_DB_DRIVER")
	set(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")

	// Явный адрес хранилища перекрывает выбор по окружению
	if v := os.Getenv("EISENHOWER_BASE_URL"); v != "" {
		c.DevBaseURL = v
		c.ProdBaseURL = v
	}
	if v := os.Getenv("EISENHOWER_TELEGRAM_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Telegram.Debug = b
		}
	}
}

// BaseURL адрес хранилища для текущего окружения
func (c Config) BaseURL() string {
	switch strings.ToLower(c.Environment) {
	case EnvDevelopment, "dev":
		return c.DevBaseURL
	}
	if c.ProdBaseURL != "" {
		return c.ProdBaseURL
	}
	return strings.TrimRight(c.Origin, "/") + ProdPathPrefix
}

// Timeout таймаут одного запроса к хранилищу
func (c Config) Timeout() time.Duration {
	d, err := c.parseTimeout()
	if err != nil {
		return DefaultRequestTimeout
	}
	return d
}

func (c Config) parseTimeout() (time.Duration, error) {
	if c.RequestTimeout == "" {
		return DefaultRequestTimeout, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("неверный request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("request_timeout должен быть положительным: %q", c.RequestTimeout)
	}
	return d, nil
}
