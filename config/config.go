package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Scheduling SchedulingConfig
}

type AppConfig struct {
	Port              string
	Env               string
	LogLevel          string
	CORSAllowedOrigin string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	SlotLockTTL time.Duration
}

type KafkaConfig struct {
	Brokers          []string
	AppointmentTopic string
}

// SchedulingConfig holds the clinic rules applied when booking appointments.
type SchedulingConfig struct {
	Timezone    string
	LeadTime    time.Duration
	OpeningHour int
	ClosingHour int
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadConfig reads the dotenv file at path (a missing file is not an error)
// and overlays environment variables on top of it.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ".env"
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("KAFKA_APPOINTMENT_TOPIC", "appointments")
	v.SetDefault("CLINIC_TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("CLINIC_OPENING_HOUR", 7)
	v.SetDefault("CLINIC_CLOSING_HOUR", 19)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:              v.GetString("APP_PORT"),
			Env:               v.GetString("APP_ENV"),
			LogLevel:          v.GetString("LOG_LEVEL"),
			CORSAllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Redis: RedisConfig{
			Host:        v.GetString("REDIS_HOST"),
			Port:        v.GetString("REDIS_PORT"),
			Password:    v.GetString("REDIS_PASSWORD"),
			DB:          v.GetInt("REDIS_DB"),
			SlotLockTTL: parseDuration(v.GetString("SLOT_LOCK_TTL"), 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:          splitList(v.GetString("KAFKA_BROKERS")),
			AppointmentTopic: v.GetString("KAFKA_APPOINTMENT_TOPIC"),
		},
		Scheduling: SchedulingConfig{
			Timezone:    v.GetString("CLINIC_TIMEZONE"),
			LeadTime:    parseDuration(v.GetString("SCHEDULING_LEAD_TIME"), 30*time.Minute),
			OpeningHour: v.GetInt("CLINIC_OPENING_HOUR"),
			ClosingHour: v.GetInt("CLINIC_CLOSING_HOUR"),
		},
	}

	return config, nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
