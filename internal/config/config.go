package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Source store (catalog of record)
	SourceShopDomain  string
	SourceAccessToken string
	SourceAPIVersion  string

	// Destination store (downstream storefront)
	DestShopDomain  string
	DestAccessToken string
	DestAPIVersion  string

	// Webhook secrets, one per originating store
	SourceWebhookSecret string
	DestWebhookSecret   string

	// Sync behaviour
	DestLocationName    string
	MirrorCustomerEmail string
	MirrorOrderTag      string
	PageSize            int

	// Database (audit records only)
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := &Config{
		SourceShopDomain:    getEnv("SOURCE_SHOP_DOMAIN", ""),
		SourceAccessToken:   getEnv("SOURCE_ACCESS_TOKEN", ""),
		SourceAPIVersion:    getEnv("SOURCE_API_VERSION", "2023-10"),
		DestShopDomain:      getEnv("DEST_SHOP_DOMAIN", ""),
		DestAccessToken:     getEnv("DEST_ACCESS_TOKEN", ""),
		DestAPIVersion:      getEnv("DEST_API_VERSION", "2023-10"),
		SourceWebhookSecret: getEnv("SOURCE_WEBHOOK_SECRET", ""),
		DestWebhookSecret:   getEnv("DEST_WEBHOOK_SECRET", ""),
		DestLocationName:    getEnv("DEST_LOCATION_NAME", ""),
		MirrorCustomerEmail: getEnv("MIRROR_CUSTOMER_EMAIL", ""),
		MirrorOrderTag:      getEnv("MIRROR_ORDER_TAG", "storesync-mirror"),
		PageSize:            getEnvAsInt("SYNC_PAGE_SIZE", 50),
		DatabaseURL:         getEnv("DATABASE_URL", "sqlite://storesync.db"),
		KafkaBrokers:        getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:             getEnv("API_PORT", "8080"),
		APIHost:             getEnv("API_HOST", "0.0.0.0"),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations that no retry can fix.
func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"SOURCE_SHOP_DOMAIN", c.SourceShopDomain},
		{"SOURCE_ACCESS_TOKEN", c.SourceAccessToken},
		{"DEST_SHOP_DOMAIN", c.DestShopDomain},
		{"DEST_ACCESS_TOKEN", c.DestAccessToken},
		{"DEST_LOCATION_NAME", c.DestLocationName},
		{"MIRROR_CUSTOMER_EMAIL", c.MirrorCustomerEmail},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required environment variable %s", r.name)
		}
	}
	if c.PageSize < 1 || c.PageSize > 250 {
		return fmt.Errorf("SYNC_PAGE_SIZE must be between 1 and 250, got %d", c.PageSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
