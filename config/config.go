package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL string
	MongoURL    string
	DBType      string
	Port        string

	// DueDateDays is how many days into the following month a bill stays
	// payable before it counts as overdue.
	DueDateDays int

	// PaymentWindowDays restricts how late a payment may be dated after the
	// billing period ends. 0 disables the restriction.
	PaymentWindowDays int

	PDFSavePath string
	UploadR2    bool
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		PostgresURL:       os.Getenv("POSTGRES_URL"),
		MongoURL:          os.Getenv("MONGO_URL"),
		DBType:            os.Getenv("DB_TYPE"),
		Port:              os.Getenv("PORT"),
		DueDateDays:       envInt("DUE_DATE_DAYS", 10),
		PaymentWindowDays: envInt("PAYMENT_WINDOW_DAYS", 0),
		PDFSavePath:       os.Getenv("PDF_SAVE_PATH"),
		UploadR2:          os.Getenv("R2_UPLOAD") == "true",
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
