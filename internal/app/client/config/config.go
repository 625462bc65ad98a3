package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	defaultAPIURL             = "http://localhost:5500/api"
	defaultPushURL            = "ws://localhost:5500"
	defaultLogLevel           = "info"
	defaultEnv                = EnvLocal
	defaultConfigDir          = ".tourdesk"
	defaultStateFile          = "state.db"
	defaultRevalidateInterval = 15
	defaultRequestTimeout     = 30
	defaultCalendarOffset     = 4
)

type Config struct {
	Env                string `mapstructure:"app_env"`
	APIURL             string `mapstructure:"api_url"`
	PushURL            string `mapstructure:"push_url"`
	LogLevel           string `mapstructure:"log_level"`
	ConfigDir          string `mapstructure:"config_dir"`
	StatePath          string `mapstructure:"state_path"`
	RevalidateInterval int    `mapstructure:"revalidate_interval_minutes"`
	RequestTimeout     int    `mapstructure:"request_timeout_seconds"`
	CalendarOffset     int    `mapstructure:"calendar_offset_hours"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env, переменные окружения и уже прочитанный viper конфиг.
func Load() (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("API_URL", defaultAPIURL)
	viper.SetDefault("PUSH_URL", defaultPushURL)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("REVALIDATE_INTERVAL_MINUTES", defaultRevalidateInterval)
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)
	viper.SetDefault("CALENDAR_OFFSET_HOURS", defaultCalendarOffset)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("создание директории конфигурации: %w", err)
	}

	statePath := viper.GetString("STATE_PATH")
	if statePath == "" {
		statePath = filepath.Join(configDir, defaultStateFile)
	}

	cfg := &Config{
		Env:                viper.GetString("APP_ENV"),
		APIURL:             strings.TrimRight(viper.GetString("API_URL"), "/"),
		PushURL:            strings.TrimRight(viper.GetString("PUSH_URL"), "/"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
		ConfigDir:          configDir,
		StatePath:          statePath,
		RevalidateInterval: viper.GetInt("REVALIDATE_INTERVAL_MINUTES"),
		RequestTimeout:     viper.GetInt("REQUEST_TIMEOUT_SECONDS"),
		CalendarOffset:     viper.GetInt("CALENDAR_OFFSET_HOURS"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url не может быть пустым")
	}
	if c.PushURL == "" {
		return fmt.Errorf("push_url не может быть пустым")
	}
	if c.RevalidateInterval <= 0 {
		return fmt.Errorf("revalidate_interval_minutes должен быть положительным")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds должен быть положительным")
	}
	return nil
}

// Revalidate возвращает период повторной проверки сессии
func (c *Config) Revalidate() time.Duration {
	return time.Duration(c.RevalidateInterval) * time.Minute
}

// Timeout возвращает таймаут одного HTTP запроса
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Offset возвращает фиксированный сдвиг отображения календаря
func (c *Config) Offset() time.Duration {
	return time.Duration(c.CalendarOffset) * time.Hour
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
