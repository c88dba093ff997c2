package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr  string
	DBDSN string

	// Mercado Pago adapter
	MPAccessToken   string
	MPWebhookSecret string
	MPBaseURL       string

	// Upper bound for provider create/refresh calls.
	ProviderTimeout time.Duration
}

// Load reads .env when present (prod uses real env vars) and materializes
// the config. Only DB_DSN is mandatory.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:            getenv("ADDR", ":8080"),
		DBDSN:           os.Getenv("DB_DSN"),
		MPAccessToken:   os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		MPWebhookSecret: os.Getenv("MERCADOPAGO_WEBHOOK_SECRET"),
		MPBaseURL:       getenv("MERCADOPAGO_BASE_URL", "https://api.mercadopago.com"),
		ProviderTimeout: 25 * time.Second,
	}

	if v := os.Getenv("PROVIDER_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("invalid PROVIDER_TIMEOUT_SECONDS %q", v)
		}
		cfg.ProviderTimeout = time.Duration(secs) * time.Second
	}

	if cfg.DBDSN == "" {
		return Config{}, fmt.Errorf("DB_DSN environment variable is required")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
