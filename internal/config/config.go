// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs at boot. MongoURI, DBName and
// TokenSecret have no defaults: the server refuses to start without them.
type Config struct {
	MongoURI    string
	DBName      string
	TokenSecret string
	Port        string
}

// Load reads the configuration from the environment, after merging in a .env
// file if one is present next to the binary.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore error if no .env

	cfg := Config{
		MongoURI:    os.Getenv("DB_URI"),
		DBName:      os.Getenv("DB_NAME"),
		TokenSecret: os.Getenv("JWT_SECRET"),
		Port:        getEnv("PORT", "5000"),
	}

	for _, req := range []struct{ key, val string }{
		{"DB_URI", cfg.MongoURI},
		{"DB_NAME", cfg.DBName},
		{"JWT_SECRET", cfg.TokenSecret},
	} {
		if req.val == "" {
			return Config{}, fmt.Errorf("missing required environment variable %s", req.key)
		}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
