package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv pulls variables from a local .env file when one exists.
// A missing file is normal in deployed environments.
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file loaded:", err)
	}
}

func GetEnv(key string, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	return value
}
