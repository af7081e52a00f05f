package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBDriver           string
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             string
	DBSSLMode          string
	DBLogLevel         string
	DBMaxRetries       int
	DBRetryDelay       time.Duration
	Port               string
	AppEnv             string
	AppAuthKey         string
	AppEncKey          string
	CSRFEnabled        bool
	PersistenceTimeout time.Duration
	ReadRetryBackoff   time.Duration
	SeedProducts       int
}

// LoadEnv reads .env (when present) and the process environment.
func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBUser:             getEnv("DB_USER", "root"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             getEnv("DB_NAME", "storefront"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		DBLogLevel:         getEnv("DB_LOG_LEVEL", "warn"),
		DBMaxRetries:       getEnvInt("DB_MAX_RETRIES", 10),
		DBRetryDelay:       getEnvDuration("DB_RETRY_DELAY", 5*time.Second),
		Port:               getEnv("APP_PORT", ":8080"),
		AppEnv:             getEnv("APP_ENV", "development"),
		AppAuthKey:         os.Getenv("APP_AUTH_KEY"),
		AppEncKey:          os.Getenv("APP_ENC_KEY"),
		CSRFEnabled:        getEnvBool("CSRF_ENABLED", false),
		PersistenceTimeout: getEnvDuration("PERSISTENCE_TIMEOUT", 3*time.Second),
		ReadRetryBackoff:   getEnvDuration("READ_RETRY_BACKOFF", 100*time.Millisecond),
		SeedProducts:       getEnvInt("SEED_PRODUCTS", 20),
	}

}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
