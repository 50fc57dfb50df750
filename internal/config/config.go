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

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server" yaml:"server"`
	Logs         LogsConfig         `toml:"logs" yaml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics" yaml:"metrics"`
	Database     DatabaseConfig     `toml:"database" yaml:"database"`
	Business     BusinessConfig     `toml:"business" yaml:"business"`
	Auth         AuthConfig         `toml:"auth" yaml:"auth"`
	Redis        RedisConfig        `toml:"redis" yaml:"redis"`
	Kafka        KafkaConfig        `toml:"kafka" yaml:"kafka"`
	Mail         MailConfig         `toml:"mail" yaml:"mail"`
	Tracing      TracingConfig      `toml:"tracing" yaml:"tracing"`
	Notification NotificationConfig `toml:"notification" yaml:"notification"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int      `toml:"http_port" yaml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins" yaml:"allowed_origins"`
	FrontendURL     string   `toml:"frontend_url" yaml:"frontend_url"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" yaml:"enabled"`
	Path        string `toml:"path" yaml:"path"`
	ServiceName string `toml:"service_name" yaml:"service_name"`
}

// DatabaseConfig настройки подключения к postgres
type DatabaseConfig struct {
	Host            string `toml:"host" yaml:"host"`
	Port            int    `toml:"port" yaml:"port"`
	User            string `toml:"user" yaml:"user"`
	Password        string `toml:"password" yaml:"password"`
	DBName          string `toml:"dbname" yaml:"dbname"`
	SSLMode         string `toml:"sslmode" yaml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// BusinessConfig параметры бизнеса (часовой пояс, шаг слотов)
type BusinessConfig struct {
	Timezone           string `toml:"timezone" yaml:"timezone"`
	DefaultStepMinutes int    `toml:"default_step_minutes" yaml:"default_step_minutes"`
}

// Location возвращает часовой пояс бизнеса
func (c BusinessConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// AuthConfig настройки JWT и cookie
type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret" yaml:"jwt_secret"`
	TokenTTLHours int    `toml:"token_ttl_hours" yaml:"token_ttl_hours"`
	CookieName    string `toml:"cookie_name" yaml:"cookie_name"`
	CookieSecure  bool   `toml:"cookie_secure" yaml:"cookie_secure"`
	BcryptCost    int    `toml:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// RedisConfig настройки redis (кэш доступности и rate limit)
type RedisConfig struct {
	Enabled                bool   `toml:"enabled" yaml:"enabled"`
	Addr                   string `toml:"addr" yaml:"addr"`
	Password               string `toml:"password" yaml:"password"`
	DB                     int    `toml:"db" yaml:"db"`
	AvailabilityTTLSeconds int    `toml:"availability_ttl_seconds" yaml:"availability_ttl_seconds"`
	RateLimit              int    `toml:"rate_limit" yaml:"rate_limit"`
	RateWindowSeconds      int    `toml:"rate_window_seconds" yaml:"rate_window_seconds"`
}

// KafkaConfig настройки публикации событий бронирований
type KafkaConfig struct {
	Enabled            bool     `toml:"enabled" yaml:"enabled"`
	Brokers            []string `toml:"brokers" yaml:"brokers"`
	BookingEventsTopic string   `toml:"booking_events_topic" yaml:"booking_events_topic"`
}

// MailConfig настройки SMTP
type MailConfig struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Host     string `toml:"host" yaml:"host"`
	Port     int    `toml:"port" yaml:"port"`
	Username string `toml:"username" yaml:"username"`
	Password string `toml:"password" yaml:"password"`
	From     string `toml:"from" yaml:"from"`
}

// TracingConfig настройки OpenTelemetry
type TracingConfig struct {
	Enabled      bool    `toml:"enabled" yaml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint" yaml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio" yaml:"sample_ratio"`
}

// NotificationConfig настройки отправки уведомлений
type NotificationConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Load читает конфигурацию из файла (TOML, либо YAML по расширению),
// применяет значения по умолчанию и переопределения из окружения
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "rc_booking_service"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Business.Timezone == "" {
		c.Business.Timezone = "Europe/Paris"
	}
	if c.Business.DefaultStepMinutes == 0 {
		c.Business.DefaultStepMinutes = 30
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24 * 7
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "access_token"
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Redis.AvailabilityTTLSeconds == 0 {
		c.Redis.AvailabilityTTLSeconds = 60
	}
	if c.Redis.RateLimit == 0 {
		c.Redis.RateLimit = 30
	}
	if c.Redis.RateWindowSeconds == 0 {
		c.Redis.RateWindowSeconds = 60
	}
	if c.Kafka.BookingEventsTopic == "" {
		c.Kafka.BookingEventsTopic = "booking-events"
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 587
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}
	if c.Notification.TimeoutSeconds == 0 {
		c.Notification.TimeoutSeconds = 10
	}
}

// applyEnv секреты и порт можно переопределить переменными окружения
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Mail.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		c.Server.FrontendURL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		}
	}
}

// Validate проверяет, что конфигурация пригодна для запуска
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if _, err := c.Business.Location(); err != nil {
		return fmt.Errorf("%w: business.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Business.DefaultStepMinutes <= 0 {
		return fmt.Errorf("%w: business.default_step_minutes must be positive", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	if c.Database.MaxOpenConns <= 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("%w: database pool sizes must be positive", ErrInvalidConfig)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
	}
	return nil
}

// CORSOrigins список разрешенных origin с учетом FrontendURL
func (c *Config) CORSOrigins() []string {
	origins := append([]string{}, c.Server.AllowedOrigins...)
	if c.Server.FrontendURL != "" {
		origins = append(origins, c.Server.FrontendURL)
	}
	return origins
}
