package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/yukikurage/bugtracker-api/internal/constants"
)

type Config struct {
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBDSN             string
	RedisHost         string
	RedisPort         string
	SessionSecret     string
	JWTSecret         string
	JWTExpireHours    int
	InvitationTTLDays int
	GinMode           string
	LogLevel          string
	OpenAIAPIKey      string
}

func Load() *Config {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	return &Config{
		// DB identity fields carry no defaults: absent configuration must
		// be observable so the API can degrade instead of dialing a
		// made-up DSN.
		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBHost:            getEnv("DB_HOST", ""),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", ""),
		DBDSN:             getEnv("DB_DSN", ""),
		RedisHost:         getEnv("REDIS_HOST", ""),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		SessionSecret:     getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		JWTSecret:         getEnv("JWT_SECRET", "default-jwt-secret-change-me"),
		JWTExpireHours:    getEnvInt("JWT_EXPIRE_HOURS", 24),
		InvitationTTLDays: getEnvInt("INVITATION_TTL_DAYS", constants.DefaultInvitationTTLDays),
		GinMode:           getEnv("GIN_MODE", "debug"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
	}
}

// DatabaseConfigured reports whether enough configuration is present to open
// a database connection. When false, API routes degrade to a uniform 500
// instead of the process crashing at startup.
func (c *Config) DatabaseConfigured() bool {
	if c.DBDSN != "" {
		return true
	}
	return c.DBHost != "" && c.DBName != "" && c.DBUser != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
