package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Leave    LeaveConfig
}

type AppConfig struct {
	Env                string
	Port               string
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Broker             string
	GroupID            string
	OutboxPollInterval time.Duration
}

type JWTConfig struct {
	Secret string
}

type LeaveConfig struct {
	AcademicYearStartMonth int
	LowBalanceThreshold    int
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "campus")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)

	v.SetDefault("REDIS_ADDR", "localhost:6379")

	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("KAFKA_GROUP_ID", "go-campus")
	v.SetDefault("OUTBOX_POLL_INTERVAL", 3*time.Second)

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("ACADEMIC_YEAR_START_MONTH", 7)
	v.SetDefault("LOW_BALANCE_THRESHOLD", 2)
}

// FromViper builds and validates a Config from an already populated viper
// instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:                v.GetString("APP_ENV"),
			Port:               v.GetString("PORT"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			MaxRetries: v.GetInt("DB_MAX_RETRIES"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
		},
		Kafka: KafkaConfig{
			Broker:             v.GetString("KAFKA_BROKER"),
			GroupID:            v.GetString("KAFKA_GROUP_ID"),
			OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Leave: LeaveConfig{
			AcademicYearStartMonth: v.GetInt("ACADEMIC_YEAR_START_MONTH"),
			LowBalanceThreshold:    v.GetInt("LOW_BALANCE_THRESHOLD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Port == "" {
		return errors.New("config: PORT is required")
	}
	if c.Leave.AcademicYearStartMonth < 1 || c.Leave.AcademicYearStartMonth > 12 {
		return fmt.Errorf("config: ACADEMIC_YEAR_START_MONTH must be 1..12, got %d", c.Leave.AcademicYearStartMonth)
	}
	if c.Leave.LowBalanceThreshold < 0 {
		return errors.New("config: LOW_BALANCE_THRESHOLD must not be negative")
	}
	if c.Database.MaxRetries < 1 {
		c.Database.MaxRetries = 1
	}
	if c.App.IsProduction() && c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET is required in production")
	}
	return nil
}

// RequireKafka is used by the worker and consumer binaries, which cannot
// run without a broker.
func (c *Config) RequireKafka() error {
	if c.Kafka.Broker == "" {
		return errors.New("config: KAFKA_BROKER is required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
