package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/maestrodigital/maestro_shop/internal/models"
)

type Config struct {
	APP_PORT           string
	DB_HOST            string
	DB_PORT            string
	DB_USER            string
	DB_PASSWORD        string
	DB_NAME            string
	SQLITE_PATH        string
	ES_URL             string
	ES_USER            string
	ES_PASSWORD        string
	JWT_SECRET         string
	REFRESH_SECRET     string
	KAFKA_ADDRESS      string
	ADMIN_CODE         string
	GEMINI_API_KEY     string
	GEMINI_URL         string
	LOG_LEVEL          string
	PAYMENT_DELAY_MS   int
	WATERMARK_DELAY_MS int
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		APP_PORT:           getenvDefault("APP_PORT", "8080"),
		DB_HOST:            os.Getenv("DB_HOST"),
		DB_PORT:            os.Getenv("DB_PORT"),
		DB_USER:            os.Getenv("DB_USER"),
		DB_PASSWORD:        os.Getenv("DB_PASSWORD"),
		DB_NAME:            os.Getenv("DB_NAME"),
		SQLITE_PATH:        getenvDefault("SQLITE_PATH", "maestro.db"),
		ES_URL:             os.Getenv("ES_URL"),
		ES_USER:            os.Getenv("ES_USER"),
		ES_PASSWORD:        os.Getenv("ES_PASSWORD"),
		JWT_SECRET:         os.Getenv("JWT_SECRET"),
		REFRESH_SECRET:     os.Getenv("REFRESH_SECRET"),
		KAFKA_ADDRESS:      os.Getenv("KAFKA_ADDRESS"),
		ADMIN_CODE:         getenvDefault("ADMIN_CODE", "102030"),
		GEMINI_API_KEY:     os.Getenv("GEMINI_API_KEY"),
		GEMINI_URL:         os.Getenv("GEMINI_URL"),
		LOG_LEVEL:          getenvDefault("LOG_LEVEL", "info"),
		PAYMENT_DELAY_MS:   getenvInt("PAYMENT_DELAY_MS", 2500),
		WATERMARK_DELAY_MS: getenvInt("WATERMARK_DELAY_MS", 2000),
	}

	return config, nil
}

func (c *Config) PaymentDelay() time.Duration {
	return time.Duration(c.PAYMENT_DELAY_MS) * time.Millisecond
}

func (c *Config) WatermarkDelay() time.Duration {
	return time.Duration(c.WATERMARK_DELAY_MS) * time.Millisecond
}

// InitDB opens postgres when DB_HOST is configured and falls back to the
// embedded sqlite file otherwise, so the shop runs standalone by default.
func InitDB() (*gorm.DB, error) {
	configuration, _ := LoadConfig()

	var (
		db  *gorm.DB
		err error
	)
	if configuration.DB_HOST != "" {
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			configuration.DB_USER, configuration.DB_PASSWORD,
			configuration.DB_HOST, configuration.DB_PORT, configuration.DB_NAME,
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(configuration.SQLITE_PATH), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Account{},
		&models.RefreshToken{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
