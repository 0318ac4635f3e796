package utils

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Remote   RemoteConfig
	Sync     SyncConfig
	Broker   BrokerConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

// StorageConfig selects the persistence driver: postgres, redis or memory.
// ClientID scopes the persisted snapshots to one running client.
type StorageConfig struct {
	Driver   string
	ClientID string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type RemoteConfig struct {
	BaseURL        string
	Timeout        time.Duration
	HealthInterval time.Duration
}

type SyncConfig struct {
	Interval        time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxAttempts     int
}

type BrokerConfig struct {
	URL   string
	Queue string
}

type BookingConfig struct {
	ErrorWindow time.Duration
}

func LoadConfig() (*Config, error) {
	return LoadConfigFile(".env")
}

// LoadConfigFile reads an env-style file when it exists; environment
// variables always take precedence.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "ticketbook")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("STORAGE_DRIVER", "postgres")
	v.SetDefault("STORAGE_CLIENT_ID", defaultClientID())
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "ticketbook")
	v.SetDefault("REMOTE_API_URL", "http://localhost:3001/api")
	v.SetDefault("REMOTE_TIMEOUT", "5s")
	v.SetDefault("REMOTE_HEALTH_INTERVAL", "30s")
	v.SetDefault("SYNC_INTERVAL", "15s")
	v.SetDefault("SYNC_INITIAL_INTERVAL", "1s")
	v.SetDefault("SYNC_MAX_INTERVAL", "1m")
	v.SetDefault("SYNC_MULTIPLIER", 2.0)
	v.SetDefault("SYNC_MAX_ATTEMPTS", 10)
	v.SetDefault("BROKER_QUEUE", "booking.confirmed")
	v.SetDefault("BOOKING_ERROR_WINDOW", "5s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Storage: StorageConfig{
			Driver:   v.GetString("STORAGE_DRIVER"),
			ClientID: v.GetString("STORAGE_CLIENT_ID"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Prefix:   v.GetString("REDIS_PREFIX"),
		},
		Remote: RemoteConfig{
			BaseURL:        v.GetString("REMOTE_API_URL"),
			Timeout:        v.GetDuration("REMOTE_TIMEOUT"),
			HealthInterval: v.GetDuration("REMOTE_HEALTH_INTERVAL"),
		},
		Sync: SyncConfig{
			Interval:        v.GetDuration("SYNC_INTERVAL"),
			InitialInterval: v.GetDuration("SYNC_INITIAL_INTERVAL"),
			MaxInterval:     v.GetDuration("SYNC_MAX_INTERVAL"),
			Multiplier:      v.GetFloat64("SYNC_MULTIPLIER"),
			MaxAttempts:     v.GetInt("SYNC_MAX_ATTEMPTS"),
		},
		Broker: BrokerConfig{
			URL:   v.GetString("BROKER_URL"),
			Queue: v.GetString("BROKER_QUEUE"),
		},
		Booking: BookingConfig{
			ErrorWindow: v.GetDuration("BOOKING_ERROR_WINDOW"),
		},
	}

	return config, nil
}

func defaultClientID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "default"
	}
	return host
}
