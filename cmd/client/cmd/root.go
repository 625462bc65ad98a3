// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"tourdesk/cmd/client/cmd/auth"
	"tourdesk/cmd/client/cmd/calendar"
	"tourdesk/cmd/client/cmd/record"
	"tourdesk/cmd/client/cmd/tour"
	"tourdesk/cmd/client/cmd/types"
	"tourdesk/internal/app/client"
	"tourdesk/internal/app/client/config"
	"tourdesk/internal/utils/logger"
)

var (
	cfgFile  string
	cfg      *config.Config
	log      *slog.Logger
	app      *client.App
	debug    bool
	apiURL   string
	pushURL  string
	quietOut bool
)

var rootCmd = &cobra.Command{
	Use:   "tourdesk",
	Short: "TourDesk - панель администратора туристического сервиса",
	Long: `TourDesk - клиент панели администратора: туры, типы туров, бронирования,
команда, FAQ, заявки, подписчики, календарь событий и страницы сайта.

Все изменения выполняются на сервере, локально хранится только сессия.`,
	PersistentPreRunE: setupApp,
	PersistentPostRun: shutdownApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if pushURL != "" {
		cfg.PushURL = pushURL
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	log = logger.WithLevel(cfg.Env, cfg.LogLevel)

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	if !quietOut {
		app.Notices().Subscribe(client.NewNoticePrinter(os.Stdout).Handle)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func shutdownApp(_ *cobra.Command, _ []string) {
	if app != nil {
		app.Shutdown()
	}
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Ищем конфиг в стандартных местах
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		viper.AddConfigPath(filepath.Join(home, ".tourdesk"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// Конфиг не найден, используем значения по умолчанию
	}

	return config.Load()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "базовый URL API")
	rootCmd.PersistentFlags().StringVar(&pushURL, "push", "", "адрес push-канала")
	rootCmd.PersistentFlags().BoolVarP(&quietOut, "quiet", "q", false, "не печатать уведомления")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(record.RecordCmd)
	rootCmd.AddCommand(tour.TourCmd)
	rootCmd.AddCommand(calendar.CalendarCmd)
	rootCmd.AddCommand(watchCmd)
}
