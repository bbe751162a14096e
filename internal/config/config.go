package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"social-app-go/pkg/logger"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`

	DB        DBConfig
	Auth      AuthConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Images    ImageConfig
	Cache     CacheConfig
	PostsPage int `env:"POSTS_PAGE_SIZE" envDefault:"10"`
}

type DBConfig struct {
	DSN             string        `env:"DB_DSN"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name            string        `env:"DB_NAME" envDefault:"social_app"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone        string        `env:"DB_TIMEZONE" envDefault:"UTC"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type AuthConfig struct {
	Secret            string        `env:"AUTH_SECRET"`
	TokenTTL          time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"168h"`
	SkipAuth          bool          `env:"AUTH_SKIP" envDefault:"false"`
	MockUserID        string        `env:"AUTH_MOCK_USER_ID" envDefault:"00000000-0000-0000-0000-000000000001"`
	MockUsername      string        `env:"AUTH_MOCK_USERNAME" envDefault:"dev"`
	PasswordMinLength int           `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`
}

type HTTPConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"2"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

type StorageConfig struct {
	Driver    string `env:"STORAGE_DRIVER" envDefault:"disk"`
	MediaRoot string `env:"MEDIA_ROOT" envDefault:"media"`
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION"`
	Bucket    string `env:"S3_BUCKET"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	UseSSL    bool   `env:"S3_USE_SSL" envDefault:"false"`
}

type ImageConfig struct {
	MaxBytes int64 `env:"IMAGE_MAX_BYTES" envDefault:"5242880"`
	MaxDim   int   `env:"IMAGE_MAX_DIM" envDefault:"2048"`
}

type CacheConfig struct {
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	GroupTTL      time.Duration `env:"GROUP_CACHE_TTL" envDefault:"1m"`
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Auth.Secret == "" {
		if cfg.Env != "development" {
			return Config{}, fmt.Errorf("AUTH_SECRET is required outside development")
		}
		log.Warn("config: AUTH_SECRET not set, using development secret")
		cfg.Auth.Secret = "development-secret"
	}
	if cfg.PostsPage <= 0 {
		cfg.PostsPage = 10
	}

	return cfg, nil
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
