package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	AppPort     string
	DBDSN       string

	MigrationsPath string

	// Telegram-рассылка платёжных сводок. Пустой токен выключает рассылку.
	TelegramToken  string
	BillingChatID  int64
	NotifyInterval time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:    getEnv("ENV", "development"),
		AppPort:        getEnv("APP_PORT", "8080"),
		DBDSN:          os.Getenv("DB_DSN"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	if raw := os.Getenv("BILLING_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("BILLING_CHAT_ID must be an integer: %w", err)
		}
		cfg.BillingChatID = chatID
	}

	interval := getEnv("NOTIFY_INTERVAL", "1h")
	parsed, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("NOTIFY_INTERVAL is not a duration: %w", err)
	}
	cfg.NotifyInterval = parsed

	return cfg, nil
}

// NotifierEnabled рассылка включена только при полном комплекте настроек
func (c *Config) NotifierEnabled() bool {
	return c.TelegramToken != "" && c.BillingChatID != 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
