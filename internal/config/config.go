package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AllowedOrigins  []string
	WaitingQuestion string // placeholder title sent to joiners of rooms with no active question
	PublicDir       string
}

func Load() *Config {
	// .env is optional outside local dev
	_ = godotenv.Load()

	return &Config{
		AllowedOrigins:  splitCSV(getEnv("ALLOWED_ORIGINS", "*")),
		WaitingQuestion: getEnv("WAITING_QUESTION", "wait for host start"),
		PublicDir:       getEnv("PUBLIC_DIR", "web/public"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
