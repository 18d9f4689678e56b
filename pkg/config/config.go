package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Trace    TraceConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	AppEnv       string
	AppName      string
	Port         string
	RateLimitMax int
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type PostgresConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// AdminConfig is the account seeded on first start.
type AdminConfig struct {
	Email    string
	FullName string
	Password string
}

// TraceConfig tunes the traceability analysis.
type TraceConfig struct {
	NearExpiryWindow time.Duration
	RecallValidity   time.Duration
}

// DSN builds the postgres connection string, preferring DATABASE_URL.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode, p.TimeZone,
	)
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("APP_NAME", "Bakery Trace v1.0")
	v.SetDefault("PORT", "3000")
	v.SetDefault("RATE_LIMIT_MAX", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "bakery")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("JWT_SECRET", "your-super-secret-key-change-in-production")
	v.SetDefault("JWT_TTL_HOURS", 24)

	v.SetDefault("ADMIN_EMAIL", "admin@bakery.local")
	v.SetDefault("ADMIN_NAME", "QA Administrator")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("TRACE_NEAR_EXPIRY_DAYS", 30)
	v.SetDefault("RECALL_VALIDITY_HOURS", 24)
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// FromViper maps a viper instance onto Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:       v.GetString("APP_ENV"),
			AppName:      v.GetString("APP_NAME"),
			Port:         v.GetString("PORT"),
			RateLimitMax: v.GetInt("RATE_LIMIT_MAX"),
		},
		Logger: LoggerConfig{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
		Postgres: PostgresConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			TimeZone:        v.GetString("DB_TIMEZONE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute,
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		},
		Trace: TraceConfig{
			NearExpiryWindow: time.Duration(v.GetInt("TRACE_NEAR_EXPIRY_DAYS")) * 24 * time.Hour,
			RecallValidity:   time.Duration(v.GetInt("RECALL_VALIDITY_HOURS")) * time.Hour,
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			FullName: v.GetString("ADMIN_NAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}
}
