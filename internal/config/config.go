package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	AccessTokenSecret string
	StripeSecretKey   string
	KafkaAddress      string
	EventsTopic       string
	ESURL             string
	ESUser            string
	ESPassword        string
	LogLevel          string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		Port:              getenv("PORT", "5000"),
		MongoURI:          os.Getenv("MONGO_URI"),
		DBName:            os.Getenv("DB_NAME"),
		AccessTokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
		StripeSecretKey:   os.Getenv("STRIPE_SECRET_KEY"),
		KafkaAddress:      os.Getenv("KAFKA_ADDRESS"),
		EventsTopic:       getenv("EVENTS_TOPIC", "marketplace_events"),
		ESURL:             os.Getenv("ES_URL"),
		ESUser:            os.Getenv("ES_USER"),
		ESPassword:        os.Getenv("ES_PASSWORD"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
	}

	for name, v := range map[string]string{
		"MONGO_URI":           cfg.MongoURI,
		"DB_NAME":             cfg.DBName,
		"ACCESS_TOKEN_SECRET": cfg.AccessTokenSecret,
		"STRIPE_SECRET_KEY":   cfg.StripeSecretKey,
	} {
		if v == "" {
			return nil, fmt.Errorf("missing required env %s", name)
		}
	}

	return cfg, nil
}
