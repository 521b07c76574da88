package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	JWTSecret         string
	TokenTTL          time.Duration
	AdminTokenTTL     time.Duration
	AdminEmail        string
	AdminPasswordHash string
	AudioStorageDir   string
	ServerPort        string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	tokenTTL := getEnvInt("TOKEN_TTL_MINUTES", 30)
	adminTTL := getEnvInt("ADMIN_TOKEN_TTL_MINUTES", 60)

	return &Config{
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "ielts_practice"),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		TokenTTL:          time.Duration(tokenTTL) * time.Minute,
		AdminTokenTTL:     time.Duration(adminTTL) * time.Minute,
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AudioStorageDir:   getEnv("AUDIO_STORAGE_DIR", "storage/audio"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
