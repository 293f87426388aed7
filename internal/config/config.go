package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	FirebaseProjectID   string
	FirebaseCredentials string
	AIEndpoint          string
	AIAPIKey            string
	AIModel             string
	AppEnv              string
	ExpirySweepSchedule string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	projectID, exists := os.LookupEnv("FIREBASE_PROJECT_ID")
	if !exists || projectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		FirebaseProjectID:   projectID,
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		AIEndpoint:          getEnv("AI_ENDPOINT", ""),
		AIAPIKey:            getEnv("AI_API_KEY", ""),
		AIModel:             getEnv("AI_MODEL", "gemini-1.5-flash"),
		AppEnv:              normalizeEnv(getEnv("APP_ENV", "production")),
		ExpirySweepSchedule: getEnv("EXPIRY_SWEEP_SCHEDULE", "0 3 * * *"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
