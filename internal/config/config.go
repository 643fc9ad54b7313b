package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Log         LogConfig
	Correlation CorrelationConfig
	Schedule    ScheduleConfig
	Worker      WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ScheduleCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type CorrelationConfig struct {
	Algorithm   string
	Parallelism int
}

type ScheduleConfig struct {
	MinConfidence float64
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
	PendingMinIdle    time.Duration
}

// Load читает .env (если есть) и переменные окружения.
// Путь к файлу можно переопределить через CONFIG_FILE.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ScheduleCacheTTL: time.Duration(v.GetInt("SCHEDULE_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Correlation: CorrelationConfig{
			Algorithm:   v.GetString("CORRELATION_ALGORITHM"),
			Parallelism: v.GetInt("CORRELATION_PARALLELISM"),
		},
		Schedule: ScheduleConfig{
			MinConfidence: v.GetFloat64("SCHEDULE_MIN_CONFIDENCE"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
			PendingMinIdle:    time.Duration(v.GetInt("WORKER_PENDING_MIN_IDLE")) * time.Millisecond,
		},
	}

	if cfg.Correlation.Parallelism <= 0 {
		cfg.Correlation.Parallelism = runtime.NumCPU()
	}
	if cfg.Schedule.MinConfidence < 0 || cfg.Schedule.MinConfidence > 1 {
		return nil, fmt.Errorf("SCHEDULE_MIN_CONFIDENCE must be in [0, 1], got %v", cfg.Schedule.MinConfidence)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SCHEDULE_CACHE_TTL", 86400)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORRELATION_ALGORITHM", "kdtree")
	v.SetDefault("CORRELATION_PARALLELISM", 0)
	v.SetDefault("SCHEDULE_MIN_CONFIDENCE", 0.75)
	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("WORKER_CONSUMER_GROUP", "zone-correlation-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("WORKER_PENDING_MIN_IDLE", 60000)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
