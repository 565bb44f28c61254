package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Config конфигурация сервиса (config.toml + переменные окружения)
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Feed         FeedConfig         `toml:"feed"`
	Availability AvailabilityConfig `toml:"availability"`
	Policy       PolicyConfig       `toml:"policy"`
	Jobs         JobsConfig         `toml:"jobs"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	// StreamHeartbeat интервал комментариев-пингов в SSE потоке, секунды
	StreamHeartbeat int `toml:"stream_heartbeat"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// FeedConfig настройки ленты изменений и мультиплексора
type FeedConfig struct {
	// Channel префикс канала LISTEN, полный канал: <prefix>_<spotID>
	Channel             string `toml:"channel"`
	DebounceMs          int    `toml:"debounce_ms"`
	RetryIntervalSec    int    `toml:"retry_interval"`
	MinReconnectSec     int    `toml:"min_reconnect"`
	MaxReconnectSec     int    `toml:"max_reconnect"`
	ListenerPingSeconds int    `toml:"listener_ping"`
}

func (c FeedConfig) Debounce() time.Duration      { return time.Duration(c.DebounceMs) * time.Millisecond }
func (c FeedConfig) RetryInterval() time.Duration { return time.Duration(c.RetryIntervalSec) * time.Second }
func (c FeedConfig) MinReconnect() time.Duration  { return time.Duration(c.MinReconnectSec) * time.Second }
func (c FeedConfig) MaxReconnect() time.Duration  { return time.Duration(c.MaxReconnectSec) * time.Second }
func (c FeedConfig) ListenerPing() time.Duration  { return time.Duration(c.ListenerPingSeconds) * time.Second }

// AvailabilityConfig настройки калькулятора доступности
type AvailabilityConfig struct {
	RollingHorizonMin int `toml:"rolling_horizon_minutes"`
	CheckpointCount   int `toml:"checkpoint_count"`
	QueryTimeoutMs    int `toml:"query_timeout_ms"`
}

func (c AvailabilityConfig) RollingHorizon() time.Duration {
	return time.Duration(c.RollingHorizonMin) * time.Minute
}

func (c AvailabilityConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutMs) * time.Millisecond
}

// PolicyConfig константы политики бронирования
type PolicyConfig struct {
	CutoffHour          int     `toml:"cutoff_hour"`
	MinRemainingMinutes int     `toml:"min_remaining_minutes"`
	FullPriceMinutes    int     `toml:"full_price_minutes"`
	ProrateFloor        float64 `toml:"prorate_floor"`
	Timezone            string  `toml:"timezone"`
}

// Location часовой пояс политики
func (c PolicyConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// JobsConfig настройки фоновых задач (cron выражения)
type JobsConfig struct {
	RollingRefresh string `toml:"rolling_refresh"`
}

// Load загружает конфигурацию
// Порядок: .env (если есть) → config.toml → переменные окружения DB_*, HTTP_PORT, LOG_LEVEL
func Load(path string) (*Config, error) {
	// .env опционален
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    0,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
			AllowedOrigins:  []string{"*"},
			StreamHeartbeat: int(domain.DefaultStreamHeartbeat / time.Second),
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "parking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "smc-parkingservice",
		},
		Feed: FeedConfig{
			Channel:             "spot_bookings",
			DebounceMs:          int(domain.DefaultFeedDebounce / time.Millisecond),
			RetryIntervalSec:    int(domain.DefaultFeedRetry / time.Second),
			MinReconnectSec:     int(domain.DefaultListenerMinRetry / time.Second),
			MaxReconnectSec:     int(domain.DefaultListenerMaxRetry / time.Second),
			ListenerPingSeconds: 90,
		},
		Availability: AvailabilityConfig{
			RollingHorizonMin: int(domain.DefaultRollingHorizon / time.Minute),
			CheckpointCount:   domain.DefaultCheckpointCount,
			QueryTimeoutMs:    int(domain.DefaultQueryTimeout / time.Millisecond),
		},
		Policy: PolicyConfig{
			CutoffHour:          domain.DefaultSameDayCutoffHour,
			MinRemainingMinutes: int(domain.DefaultMinRemaining / time.Minute),
			FullPriceMinutes:    int(domain.DefaultFullPriceRemaining / time.Minute),
			ProrateFloor:        domain.DefaultProrateFloor,
			Timezone:            domain.DefaultPolicyTimezone,
		},
		Jobs: JobsConfig{
			RollingRefresh: domain.DefaultRollingRefresh,
		},
	}
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Database.Host == "":
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	case c.Database.DBName == "":
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	case c.Feed.Channel == "":
		return fmt.Errorf("%w: feed.channel is required", ErrInvalidConfig)
	case c.Availability.RollingHorizonMin <= 0 || c.Availability.RollingHorizonMin > int(domain.MaxRollingHorizon/time.Minute):
		return fmt.Errorf("%w: availability.rolling_horizon_minutes must be in [1, %d]",
			ErrInvalidConfig, int(domain.MaxRollingHorizon/time.Minute))
	case c.Availability.CheckpointCount < domain.MinCheckpointCount || c.Availability.CheckpointCount > domain.MaxCheckpointCount:
		return fmt.Errorf("%w: availability.checkpoint_count must be in [%d, %d]",
			ErrInvalidConfig, domain.MinCheckpointCount, domain.MaxCheckpointCount)
	case c.Policy.CutoffHour < 0 || c.Policy.CutoffHour > 24:
		return fmt.Errorf("%w: policy.cutoff_hour=%d", ErrInvalidConfig, c.Policy.CutoffHour)
	case c.Policy.FullPriceMinutes <= c.Policy.MinRemainingMinutes:
		return fmt.Errorf("%w: policy.full_price_minutes must exceed min_remaining_minutes", ErrInvalidConfig)
	case c.Policy.ProrateFloor < 0 || c.Policy.ProrateFloor > 1:
		return fmt.Errorf("%w: policy.prorate_floor must be in [0, 1]", ErrInvalidConfig)
	}

	if _, err := c.Policy.Location(); err != nil {
		return fmt.Errorf("%w: policy.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("DB_HOST"); ok {
		c.Database.Host = v
	}
	if v, ok := os.LookupEnv("DB_USER"); ok {
		c.Database.User = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("DB_NAME"); ok {
		c.Database.DBName = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Logs.Level = v
	}

	port, err := getEnvAsInt("DB_PORT", c.Database.Port)
	if err != nil {
		return err
	}
	c.Database.Port = port

	httpPort, err := getEnvAsInt("HTTP_PORT", c.Server.HTTPPort)
	if err != nil {
		return err
	}
	c.Server.HTTPPort = httpPort

	return nil
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: env %s value %q is not a valid integer", ErrInvalidConfig, key, v)
	}
	return n, nil
}
