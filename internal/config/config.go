// Package config загружает настройки сервера: .env файл, переменные окружения
// с префиксом ISSUEKEEPER_ и флаги командной строки (в порядке возрастания приоритета).
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix - префикс всех переменных окружения
const EnvPrefix = "ISSUEKEEPER_"

// DevJWTSecret используется только в development окружении, если секрет не задан
const DevJWTSecret = "issuekeeper-dev-secret-change-me"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config - настройки сервера
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	Environment     string        `env:"ENV" envDefault:"development"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	OTelEndpoint    string        `env:"OTEL_ENDPOINT"`

	Database   DatabaseConfig `envPrefix:"DATABASE_"`
	JWT        JWTConfig      `envPrefix:"JWT_"`
	BcryptCost int            `env:"BCRYPT_COST" envDefault:"10"`
	RateLimit  RateLimitConfig
	Log        LogConfig  `envPrefix:"LOG_"`
	SMTP       SMTPConfig `envPrefix:"SMTP_"`

	// ShowVersion задается только флагом -version
	ShowVersion bool
}

// DatabaseConfig выбирает драйвер и строку подключения
type DatabaseConfig struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"issuekeeper.db"`
}

// JWTConfig - параметры токенов
type JWTConfig struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"168h"`
}

// RateLimitConfig - общий лимит на все маршруты и более строгий на вход и регистрацию
type RateLimitConfig struct {
	Max        int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	Window     time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	AuthMax    int           `env:"AUTH_RATE_LIMIT_MAX" envDefault:"10"`
	AuthWindow time.Duration `env:"AUTH_RATE_LIMIT_WINDOW" envDefault:"15m"`
}

// LogConfig - уровень и формат логов
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// SMTPConfig - почтовый сервер для welcome писем. Пустой Host отключает отправку.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"IssueKeeper <noreply@issuekeeper.local>"`
}

// Load reads the optional dotenv file, then the environment, then args.
// A missing dotenv file is not an error.
func Load(dotenvPath string, args []string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	return parse(args, env.Options{Prefix: EnvPrefix})
}

func parse(args []string, opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// значения из окружения становятся значениями флагов по умолчанию
	flags := flag.NewFlagSet("issuekeeper-server", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flags.StringVar(&cfg.Database.Driver, "db-driver", cfg.Database.Driver, "database driver: sqlite or postgres")
	flags.StringVar(&cfg.Database.DSN, "db-dsn", cfg.Database.DSN, "database DSN")
	flags.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn, error")
	flags.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format: text or json")
	flags.BoolVar(&cfg.ShowVersion, "version", false, "show version information")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.JWT.Secret == "" && cfg.Environment == EnvDevelopment {
		cfg.JWT.Secret = DevJWTSecret
	}

	return &cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, fmt.Errorf("%sJWT_SECRET is required outside %s", EnvPrefix, EnvDevelopment))
	}
	if c.Environment != EnvDevelopment && c.JWT.Secret == DevJWTSecret {
		errs = append(errs, fmt.Errorf("development JWT secret must not be used in %s", c.Environment))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt ttl must be positive"))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.AuthMax <= 0 {
		errs = append(errs, errors.New("rate limit max must be positive"))
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.AuthWindow <= 0 {
		errs = append(errs, errors.New("rate limit window must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// NewLogger создает slog.Logger согласно LogConfig
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
