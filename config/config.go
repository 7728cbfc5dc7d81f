package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TokenCacheTTL time.Duration

	AllowAdminSignup bool
	CORSOrigins      []string

	LogLevel  string
	LogFormat string
	GinMode   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "stockdb")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TOKEN_CACHE_TTL", "30s")
	v.SetDefault("ALLOW_ADMIN_SIGNUP", false)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("GIN_MODE", "release")
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:             v.GetString("PORT"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBUser:           v.GetString("DB_USER"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		DBMaxOpenConns:   v.GetInt("DB_MAX_OPEN_CONNS"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		TokenCacheTTL:    v.GetDuration("TOKEN_CACHE_TTL"),
		AllowAdminSignup: v.GetBool("ALLOW_ADMIN_SIGNUP"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		GinMode:          v.GetString("GIN_MODE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns)
	}
	if c.TokenCacheTTL < 0 {
		return fmt.Errorf("TOKEN_CACHE_TTL must not be negative, got %s", c.TokenCacheTTL)
	}
	// Redis keeps keys without an expiry forever.
	if c.RedisAddr != "" && c.TokenCacheTTL == 0 {
		return fmt.Errorf("TOKEN_CACHE_TTL must be positive when REDIS_ADDR is set")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ORIGINS entry %q must start with http:// or https://", origin)
		}
	}
	return nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
	)
}

// NewLogger builds the application logger.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if c.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

// OpenDatabase connects to PostgreSQL and bounds the connection pool.
func (c *Config) OpenDatabase(log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		Logger:                 logger.Default.LogMode(gormLogLevel(log.GetLevel())),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database %s:%s/%s: %w", c.DBHost, c.DBPort, c.DBName, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(c.DBMaxOpenConns)
	return db, nil
}

// OpenRedis returns nil when no Redis address is configured.
func (c *Config) OpenRedis(ctx context.Context) (*redis.Client, error) {
	if c.RedisAddr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", c.RedisAddr, err)
	}
	return rdb, nil
}

// RedactedDSN is safe to log.
func (c *Config) RedactedDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.User(c.DBUser),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + c.DBName,
	}
	return u.String()
}

func gormLogLevel(level logrus.Level) logger.LogLevel {
	switch {
	case level >= logrus.DebugLevel:
		return logger.Info
	case level >= logrus.WarnLevel:
		return logger.Warn
	case level >= logrus.ErrorLevel:
		return logger.Error
	default:
		return logger.Silent
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
