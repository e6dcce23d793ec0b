package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	CORS     CORSConfig
	Ingest   IngestConfig
	Commands CommandConfig
	Log      LogConfig

	// EnvFileLoaded reports whether a .env file was found
	EnvFileLoaded bool
}

type AppConfig struct {
	Env  string
	Port string
}

type DBConfig struct {
	Driver      string // "postgres" | "sqlite"
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	URLOverride string
	SQLitePath  string
}

// DSN returns the PostgreSQL connection string
func (d DBConfig) DSN() string {
	if d.URLOverride != "" {
		return d.URLOverride
	}
	return "host=" + d.Host +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" port=" + d.Port +
		" sslmode=" + d.SSLMode
}

// URL returns the PostgreSQL connection URL (for golang-migrate)
func (d DBConfig) URL() string {
	if d.URLOverride != "" {
		return d.URLOverride
	}
	return "postgres://" + d.User + ":" + d.Password +
		"@" + d.Host + ":" + d.Port +
		"/" + d.Name + "?sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis server is configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// HasCredentials reports whether the transport can authenticate. Without
// credentials alert emails are logged but not sent.
func (s SMTPConfig) HasCredentials() bool {
	return s.Username != "" && s.Password != ""
}

type CORSConfig struct {
	Origins []string
}

type IngestConfig struct {
	NotifyTimeout time.Duration
	StoreTimeout  time.Duration
	BuzzerDevice  string
	DisplayZone   *time.Location
}

type CommandConfig struct {
	TTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from .env file and environment variables
func Load() *Config {
	// Load .env file (ignore error if not exists - e.g. in Docker)
	envLoaded := godotenv.Load() == nil

	smtpUser := getEnv("SMTP_USERNAME", os.Getenv("GMAIL_USER"))

	return &Config{
		EnvFileLoaded: envLoaded,
		App: AppConfig{
			Env:  getEnv("APP_ENV", "development"),
			Port: getEnv("APP_PORT", "5000"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "signal"),
			Password:    getEnv("DB_PASSWORD", "signal"),
			Name:        getEnv("DB_NAME", "signal"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			URLOverride: getEnv("DATABASE_URL", ""),
			SQLitePath:  getEnv("DB_SQLITE_PATH", "./data/signal.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: smtpUser,
			Password: getEnv("SMTP_PASSWORD", os.Getenv("GMAIL_PASS")),
			From:     getEnv("SMTP_FROM", smtpUser),
			FromName: getEnv("SMTP_FROM_NAME", "Door Alert"),
		},
		CORS: CORSConfig{
			Origins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:5173"), ","),
		},
		Ingest: IngestConfig{
			NotifyTimeout: getEnvDuration("NOTIFY_TIMEOUT", 4*time.Second),
			StoreTimeout:  getEnvDuration("STORE_TIMEOUT", 5*time.Second),
			BuzzerDevice:  getEnv("ALERT_BUZZER_DEVICE", ""),
			DisplayZone:   getEnvLocation("DISPLAY_TZ", time.Local),
		},
		Commands: CommandConfig{
			TTL: getEnvDuration("COMMAND_TTL", 0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.DB.Driver)
	}
	if c.Ingest.NotifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be positive")
	}
	if c.Ingest.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(getEnv(key, "")))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getEnvLocation(key string, fallback *time.Location) *time.Location {
	name := getEnv(key, "")
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
