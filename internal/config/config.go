package config

import (
	"log"
	"os"
)

type Config struct {
	DBPath        string
	Port          string
	BotToken      string
	OxaPayKey     string
	OxaPayBaseURL string
	APIKey        string
	WebhookSecret string
	RedisAddr     string
}

func Load() *Config {
	cfg := &Config{
		DBPath:        getEnv("DB_PATH", "db.sqlite"),
		Port:          getEnv("PORT", "8080"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		OxaPayKey:     os.Getenv("OXAPAY_API_KEY"),
		OxaPayBaseURL: getEnv("OXAPAY_BASE_URL", "https://api.oxapay.com/v1/payment/static-address"),
		APIKey:        os.Getenv("API_KEY"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
	}

	if cfg.BotToken == "" || cfg.OxaPayKey == "" || cfg.APIKey == "" {
		log.Fatal("Missing critical environment variables")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
