package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Operator OperatorConfig
	Schedule ScheduleConfig
}

type AppConfig struct {
	Port               string
	Env                string
	LogLevel           string
	CORSOrigin         string
	LoginRatePerMinute int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// OperatorConfig seeds the shared login account on first start.
type OperatorConfig struct {
	Username string
	Password string
}

type ScheduleConfig struct {
	DayStart    string // HH:MM
	DayEnd      string // HH:MM
	SlotMinutes int
	LockTTL     time.Duration
}

func LoadConfig() (*Config, error) {
	return loadConfig(".env")
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 12 * time.Hour
	}

	lockTTL, err := time.ParseDuration(v.GetString("SCHEDULE_LOCK_TTL"))
	if err != nil {
		lockTTL = 10 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:               v.GetString("APP_PORT"),
			Env:                v.GetString("APP_ENV"),
			LogLevel:           v.GetString("LOG_LEVEL"),
			CORSOrigin:         v.GetString("APP_CORS_ORIGIN"),
			LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			TimeZone: v.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Operator: OperatorConfig{
			Username: v.GetString("OPERATOR_USERNAME"),
			Password: v.GetString("OPERATOR_PASSWORD"),
		},
		Schedule: ScheduleConfig{
			DayStart:    v.GetString("SCHEDULE_DAY_START"),
			DayEnd:      v.GetString("SCHEDULE_DAY_END"),
			SlotMinutes: v.GetInt("SCHEDULE_SLOT_MINUTES"),
			LockTTL:     lockTTL,
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_CORS_ORIGIN", "*")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_ACCESS_EXPIRY", "12h")
	v.SetDefault("SCHEDULE_DAY_START", "08:00")
	v.SetDefault("SCHEDULE_DAY_END", "20:00")
	v.SetDefault("SCHEDULE_SLOT_MINUTES", 40)
	v.SetDefault("SCHEDULE_LOCK_TTL", "10s")
}

func (c *Config) IsDev() bool {
	return c.App.Env == "development"
}
