package config

import (
	"fmt"
	"os"
	"strconv"
)

// PaymentConfig carries the provider credentials. It is passed to the
// components that need it at construction time; there is no process-wide
// provider state.
type PaymentConfig struct {
	APIKey        string
	WebhookSecret string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Config struct {
	Port        int
	DatabaseURL string
	Payment     PaymentConfig
	Redis       RedisConfig
	Minio       MinioConfig
}

// Load reads configuration from the environment. DATABASE_URL and
// PAYMENT_WEBHOOK_SECRET are required; everything else has development
// defaults.
func Load() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	webhookSecret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
	if webhookSecret == "" {
		return nil, fmt.Errorf("PAYMENT_WEBHOOK_SECRET environment variable is required")
	}

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		port = p
	}

	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	cfg := &Config{
		Port:        port,
		DatabaseURL: databaseURL,
		Payment: PaymentConfig{
			APIKey:        os.Getenv("PAYMENT_API_KEY"),
			WebhookSecret: webhookSecret,
		},
		Redis: RedisConfig{
			Addr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Minio: MinioConfig{
			Endpoint:  envOrDefault("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: envOrDefault("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: envOrDefault("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    envOrDefault("MINIO_BUCKET", "bookmart-books"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
