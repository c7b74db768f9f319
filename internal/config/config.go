// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	Environment  string
	JWTSecretKey string

	// Document store holding users, chats and registered databases.
	MongoURI    string
	MongoDBName string

	// Externally-hosted inference services, reached over plain HTTP.
	TitleServiceURL         string
	NLToSQLServiceURL       string
	TranscriptionServiceURL string
	InferenceTimeoutSeconds int
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "3001"),
		Environment:             env,
		JWTSecretKey:            getEnv("JWT_SECRET_KEY", ""),
		MongoURI:                getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBName:             getEnv("MONGODB_DATABASE", "voxai"),
		TitleServiceURL:         getEnv("TITLE_SERVICE_URL", "http://127.0.0.1:5002"),
		NLToSQLServiceURL:       getEnv("NL_TO_SQL_SERVICE_URL", "http://127.0.0.1:5003"),
		TranscriptionServiceURL: getEnv("TRANSCRIPTION_SERVICE_URL", "http://127.0.0.1:5001"),
		InferenceTimeoutSeconds: getEnvAsInt("INFERENCE_TIMEOUT_SECONDS", 60),
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGODB_URI")
		}
		if cfg.TitleServiceURL == "" {
			missing = append(missing, "TITLE_SERVICE_URL")
		}
		if cfg.NLToSQLServiceURL == "" {
			missing = append(missing, "NL_TO_SQL_SERVICE_URL")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
