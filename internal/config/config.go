package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         string
	AllowOrigins string

	// "file" (default) or "postgres"
	StoreBackend string
	DataFile     string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	TZDefault      string
	GatewayDelayMS int

	DemoUsername string
	DemoPassword string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:           getenv("PORT", "8080"),
		AllowOrigins:   getenv("ALLOW_ORIGINS", "*"),
		StoreBackend:   getenv("STORE_BACKEND", "file"),
		DataFile:       getenv("DATA_FILE", "ledger_state.json"),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         getenv("DB_USER", "postgres"),
		DBPassword:     getenv("DB_PASSWORD", ""),
		DBName:         getenv("DB_NAME", "cardpay"),
		DBSSLMode:      getenv("DB_SSLMODE", "disable"),
		TZDefault:      getenv("TZ_DEFAULT", "Asia/Kolkata"),
		GatewayDelayMS: atoi("GATEWAY_DELAY_MS", 2000),
		DemoUsername:   getenv("DEMO_USERNAME", "demo"),
		DemoPassword:   getenv("DEMO_PASSWORD", "demo123"),
	}
}
