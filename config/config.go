package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"dropin-checkout-api/database"
)

type Config struct {
	Database database.DatabaseConfig
	Server   ServerConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	URL               string
	WorkerConcurrency int
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type SessionConfig struct {
	Secret string
	Domain string
	MaxAge int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	workerConcurrency := 2
	if raw := os.Getenv("WORKER_CONCURRENCY"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			workerConcurrency = n
		} else {
			log.Printf("Warning: invalid WORKER_CONCURRENCY %q, using default %d", raw, workerConcurrency)
		}
	}

	cfg := &Config{
		Database: database.DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Server: ServerConfig{
			Port: os.Getenv("SERVER_PORT"),
		},
		Redis: RedisConfig{
			URL:               os.Getenv("REDIS_URL"),
			WorkerConcurrency: workerConcurrency,
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			Issuer:    os.Getenv("JWT_ISSUER"),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			Domain: os.Getenv("SESSION_DOMAIN"),
			MaxAge: 3600,
		},
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = "redis://localhost:6379/0"
		log.Printf("Warning: REDIS_URL not set, using default: %s", cfg.Redis.URL)
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "dropin-checkout-api"
	}
	if raw := os.Getenv("SESSION_MAX_AGE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.Session.MaxAge = n
		}
	}

	return cfg
}
