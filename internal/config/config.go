// Package config loads runtime settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every setting the process reads at startup.
type Config struct {
	Port         string
	StaticDir    string
	AMQPURL      string
	AMQPExchange string
	OTLPEndpoint string
	Environment  string
	Debug        bool
}

// Load reads .env if present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded settings from .env")
	}

	return Config{
		Port:         getEnv("PORT", "3000"),
		StaticDir:    getEnv("STATIC_DIR", "public"),
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "relay.audit"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Environment:  getEnv("ENVIRONMENT", "development"),
		Debug:        getEnvBool("DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("invalid bool for %s: %q, using %v", key, val, fallback)
		return fallback
	}
	return parsed
}
