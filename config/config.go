// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	PostgresURL    string
	JWTKey         string
	AdminCodeHash  string
	AllowedOrigins []string
	GinMode        string
}

// Load reads the environment, terminating the process when a required key is
// missing. POSTGRES_URL is optional: without it the server runs purely
// in-memory and the history surface is disabled.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		Port:        getDefault("PORT", "3000"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		GinMode:     getDefault("GIN_MODE", "debug"),
	}

	jwtKey, exists := os.LookupEnv("JWT_KEY")
	if !exists {
		log.Fatal("Missing jwt signing key")
	}
	cfg.JWTKey = jwtKey

	adminHash, exists := os.LookupEnv("ADMIN_CODE_HASH")
	if !exists {
		log.Fatal("Missing admin code hash")
	}
	cfg.AdminCodeHash = adminHash

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	return cfg
}

func getDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
