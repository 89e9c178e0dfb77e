package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	Redis       RedisConfig
	LLM         LLMConfig
	JWT         JWTConfig
	Logger      LoggerConfig
	Leaderboard LeaderboardConfig
	RateLimit   RateLimitConfig
	Session     SessionConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LLMConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration // per-request bound on the completion call; zero disables it
	Temperature float64
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
	File  string // optional rotating log file
}

type LeaderboardConfig struct {
	Backend string // "redis" or "sql"
	Limit   int
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

type SessionConfig struct {
	TTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "60s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 1521)
	v.SetDefault("db.name", "FREEPDB1")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.model", "gpt-3.5-turbo-0613")
	v.SetDefault("llm.timeout", "90s")
	v.SetDefault("llm.temperature", 0.7)

	v.SetDefault("jwt.ttl", "72h")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("leaderboard.backend", "redis")
	v.SetDefault("leaderboard.limit", 20)

	v.SetDefault("ratelimit.per_minute", 10)
	v.SetDefault("ratelimit.burst", 3)

	v.SetDefault("session.ttl", "24h")
}

// LoadConfig reads config.yaml when present and lets environment variables
// override any key, e.g. LLM_API_KEY for llm.api_key.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		DB: DBConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),

			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			APIKey:      v.GetString("llm.api_key"),
			Model:       v.GetString("llm.model"),
			BaseURL:     v.GetString("llm.base_url"),
			Timeout:     v.GetDuration("llm.timeout"),
			Temperature: v.GetFloat64("llm.temperature"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
			File:  v.GetString("logger.file"),
		},
		Leaderboard: LeaderboardConfig{
			Backend: v.GetString("leaderboard.backend"),
			Limit:   v.GetInt("leaderboard.limit"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: v.GetInt("ratelimit.per_minute"),
			Burst:     v.GetInt("ratelimit.burst"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("session.ttl"),
		},
	}
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	switch c.Leaderboard.Backend {
	case "redis", "sql":
	default:
		return fmt.Errorf("leaderboard.backend must be redis or sql, got %q", c.Leaderboard.Backend)
	}
	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("ratelimit values must not be negative")
	}
	return nil
}

// GetDSN builds a go-ora connection URL.
func (c *Config) GetDSN() string {
	return go_ora.BuildUrl(c.DB.Host, c.DB.Port, c.DB.DBName, c.DB.User, c.DB.Password, nil)
}
