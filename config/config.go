package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port        string
	Environment string

	MongoURL string
	MongoDB  string

	JWTSecret  string
	AdminEmail string

	StripeSecretKey      string
	StripeWebhookSecret  string
	StripeMonthlyPriceID string
	StripeAnnualPriceID  string

	ClientURL          string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	AllowedOrigins     []string

	SMTPServer  string
	SMTPPort    string
	SenderEmail string
	SenderPass  string
	SenderName  string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("APP_ENV", "development"),

		MongoURL: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "wanderwhiskers"),

		JWTSecret:  os.Getenv("SECRET_TOKEN"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeMonthlyPriceID: os.Getenv("STRIPE_MONTHLY_SUBSCRIPTION"),
		StripeAnnualPriceID:  os.Getenv("STRIPE_ANNUAL_SUBSCRIPTION"),

		ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
		CheckoutSuccessURL: getEnv("CLIENT_URL_SUCCESS", "http://localhost:5173/checkout/success"),
		CheckoutCancelURL:  getEnv("CLIENT_URL_CANCEL", "http://localhost:5173/checkout/cancel"),

		SMTPServer:  getEnv("SMTP_SERVER", "smtp-relay.brevo.com"),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SenderEmail: os.Getenv("SMTP_EMAIL"),
		SenderPass:  os.Getenv("SMTP_PASSWORD"),
		SenderName:  getEnv("SMTP_SENDER_NAME", "Wander Whiskers"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowedOrigins = []string{cfg.ClientURL}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SECRET_TOKEN environment variable not set")
	}
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("missing required Stripe environment variables")
	}
	if cfg.StripeMonthlyPriceID == "" || cfg.StripeAnnualPriceID == "" {
		return nil, fmt.Errorf("missing Stripe subscription price IDs")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
