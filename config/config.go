package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DatabaseURL         string
	RedisHost           string
	RedisPort           string
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	PrintifyAPIKey      string
	PrintifyShopID      string
	SendGridAPIKey      string
	ContactEmail        string
	StorageBaseURL      string
	StorageSecret       string
}

func Load() Config {
	// Best effort: a missing .env just means everything comes from the environment.
	_ = godotenv.Load()

	return Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisHost:           getEnv("REDIS_HOST", "localhost"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PrintifyAPIKey:      os.Getenv("PRINTIFY_API_KEY"),
		PrintifyShopID:      os.Getenv("PRINTIFY_SHOP_ID"),
		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		ContactEmail:        os.Getenv("CONTACT_EMAIL"),
		StorageBaseURL:      getEnv("STORAGE_BASE_URL", "http://localhost:8080/storage"),
		StorageSecret:       os.Getenv("STORAGE_SIGNING_SECRET"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
