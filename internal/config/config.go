package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hel-repo/hel/pkg/logger"
)

// Config holds application configuration. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Activation ActivationConfig
	Lists      ListsConfig
	Search     SearchConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MongoDBConfig.URI may be empty, in which case an in-memory store is used.
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type AuthConfig struct {
	Secret     string
	CookieName string
	SessionTTL time.Duration
}

type ActivationConfig struct {
	Length int
	Time   time.Duration
}

type ListsConfig struct {
	Packages int
	Users    int
}

type SearchConfig struct {
	// StoreSide pushes natively expressible search params into the store query.
	StoreSide bool
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "6543")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("MONGODB_DATABASE", "hel")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AUTH_COOKIE_NAME", "auth_tkt")
	v.SetDefault("AUTH_SESSION_TTL", 10080)
	v.SetDefault("ACTIVATION_LENGTH", 64)
	v.SetDefault("ACTIVATION_TIME", 86400)
	v.SetDefault("LIST_LENGTH_PACKAGES", 20)
	v.SetDefault("LIST_LENGTH_USERS", 20)
	v.SetDefault("SEARCH_STORE_SIDE", true)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			Secret:     os.Getenv("AUTH_SECRET"),
			CookieName: v.GetString("AUTH_COOKIE_NAME"),
			SessionTTL: time.Duration(v.GetInt("AUTH_SESSION_TTL")) * time.Minute,
		},
		Activation: ActivationConfig{
			Length: v.GetInt("ACTIVATION_LENGTH"),
			Time:   time.Duration(v.GetInt("ACTIVATION_TIME")) * time.Second,
		},
		Lists: ListsConfig{
			Packages: v.GetInt("LIST_LENGTH_PACKAGES"),
			Users:    v.GetInt("LIST_LENGTH_USERS"),
		},
		Search: SearchConfig{
			StoreSide: v.GetBool("SEARCH_STORE_SIDE"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	// Basic validation
	if cfg.Auth.Secret == "" {
		logger.Warnf("AUTH_SECRET is not set; set a secure value in production")
	}
	if cfg.Lists.Packages <= 0 {
		cfg.Lists.Packages = 20
	}
	if cfg.Lists.Users <= 0 {
		cfg.Lists.Users = 20
	}

	return cfg, nil
}
