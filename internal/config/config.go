package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ecomshop/internal/models"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	JWTSecret string

	BraintreeEnv        string
	BraintreeMerchantID string
	BraintreePublicKey  string
	BraintreePrivateKey string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		Port:     EnvDefault("PORT", "8080"),
		Env:      EnvDefault("ENV", "development"),
		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		BraintreeEnv:        EnvDefault("BRAINTREE_ENV", "sandbox"),
		BraintreeMerchantID: os.Getenv("BRAINTREE_MERCHANT_ID"),
		BraintreePublicKey:  os.Getenv("BRAINTREE_PUBLIC_KEY"),
		BraintreePrivateKey: os.Getenv("BRAINTREE_PRIVATE_KEY"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate fails at startup instead of letting token or gateway calls
// fail later at call time.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"DATABASE_URL", c.DatabaseURL},
		{"JWT_SECRET", c.JWTSecret},
		{"BRAINTREE_MERCHANT_ID", c.BraintreeMerchantID},
		{"BRAINTREE_PUBLIC_KEY", c.BraintreePublicKey},
		{"BRAINTREE_PRIVATE_KEY", c.BraintreePrivateKey},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func InitDB(c *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
