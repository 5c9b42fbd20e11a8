// Package cli команды eisenhower: интерфейс по умолчанию и неинтерактивные list/add/delete.
package cli

import (
	"context"
	"io"
	"log"

	"eisenhower-app/internal/client"
	"eisenhower-app/internal/config"
	"eisenhower-app/internal/logger"
	"eisenhower-app/internal/manager"
	"eisenhower-app/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// Version задается при сборке через -ldflags
var Version = "dev"

// StoreFactory создает хранилище по конфигурации; подменяется в тестах
type StoreFactory func(cfg config.Config) manager.Store

// DefaultStoreFactory HTTP-клиент хранилища для текущего окружения
func DefaultStoreFactory(cfg config.Config) manager.Store {
	return client.New(cfg.BaseURL(), client.WithTimeout(cfg.Timeout()))
}

// TUIRunner запускает терминальный интерфейс
type TUIRunner func(ctx context.Context, ctrl *manager.Controller) error

type App struct {
	NewStore StoreFactory
	RunTUI   TUIRunner

	configPath string
	baseURL    string
	env        string
	cfg        config.Config
}

func NewApp() *App {
	return &App{
		NewStore: DefaultStoreFactory,
		RunTUI:   tui.Run,
	}
}

func Execute(ctx context.Context) error {
	return NewApp().Root().ExecuteContext(ctx)
}

func (a *App) Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "eisenhower",
		Short:         "Eisenhower matrix task client",
		Long:          "Sorts tasks into four quadrants by urgency and importance.\nRun without a command to open the interactive matrix.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Журнал не должен портить экран интерфейса
			if a.cfg.LogFile != "" {
				f, err := tea.LogToFile(a.cfg.LogFile, "eisenhower")
				if err != nil {
					return err
				}
				defer f.Close()
			} else {
				log.SetOutput(io.Discard)
			}
			return a.RunTUI(cmd.Context(), a.controller())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/eisenhower/config.yaml)")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "task store base URL")
	root.PersistentFlags().StringVar(&a.env, "env", "", "environment: development or production")

	root.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.deleteCmd(),
		versionCmd(),
	)
	return root
}

func (a *App) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.env != "" {
		cfg.Environment = a.env
	}
	if a.baseURL != "" {
		cfg.DevBaseURL = a.baseURL
		cfg.ProdBaseURL = a.baseURL
	}

	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	logger.SetLevel(logger.ParseLevel(level))

	a.cfg = cfg
	return nil
}

func (a *App) controller() *manager.Controller {
	return manager.NewController(a.NewStore(a.cfg))
}
