package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Бэкенды хранения сессии
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

const DefaultBaseURL = "http://127.0.0.1:8000/api"

type Config struct {
	API      APIConfig
	Session  SessionConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Log      LogConfig
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type SessionConfig struct {
	Backend string
	File    string
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type PostgresConfig struct {
	DSN string
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"
)

var ErrInvalidConfig = errors.New("invalid config")

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("session.file", defaultSessionFile())
	v.SetDefault("log.level", "error")
	v.SetDefault("log.format", "text")

	_ = v.BindEnv("api.base_url", "API_BASE_URL")
	_ = v.BindEnv("session.backend", "SESSION_BACKEND")
	_ = v.BindEnv("session.file", "SESSION_FILE")
	_ = v.BindEnv("postgres.dsn", "DATABASE_DSN")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")

	// файла конфига может и не быть, тогда хватает дефолтов и env
	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Debug("config file not found, using defaults and env")
	}

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	// инициализация Redis конфигурации из env
	cfg.Redis.Host = os.Getenv(envRedisHost)
	if port := os.Getenv(envRedisPort); port != "" {
		cfg.Redis.Port, err = strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("redis port must be int value: %w", err)
		}
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	cfg.Session.Backend = strings.ToLower(strings.TrimSpace(cfg.Session.Backend))

	log.Debug("config parsed")

	return cfg, nil
}

// Validate проверяет, что выбранному бэкенду хватает настроек
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}

	switch c.Session.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Session.File) == "" {
			return fmt.Errorf("%w: session.file is empty", ErrInvalidConfig)
		}
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Host == "" || c.Redis.Port == 0 {
			return fmt.Errorf("%w: %s and %s are required for redis backend", ErrInvalidConfig, envRedisHost, envRedisPort)
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN is required for postgres backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session backend %q", ErrInvalidConfig, c.Session.Backend)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format must be text or json", ErrInvalidConfig)
	}

	return nil
}

// ConfigureLogger выставляет уровень и формат logrus
func (c *Config) ConfigureLogger() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.Log.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".adalcrm", "session.json")
	}
	return filepath.Join(home, ".adalcrm", "session.json")
}
