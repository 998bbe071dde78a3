package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	DBDriver    string
	DatabaseDSN string
	AutoMigrate bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	LoginMaxAttempts int
	LoginLockout     time.Duration
	ProfileCacheTTL  time.Duration

	LogEnv      string
	LogLevel    string
	CORSOrigins []string
	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseDSN:      getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"),
		AutoMigrate:      getEnvBool("AUTO_MIGRATE", true),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		JWTTTL:           getEnvDuration("JWT_TTL", time.Hour),
		BcryptCost:       getEnvInt("BCRYPT_COST", 10),
		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginLockout:     getEnvDuration("LOGIN_LOCKOUT", 15*time.Minute),
		ProfileCacheTTL:  getEnvDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		LogEnv:           getEnv("LOG_ENV", "dev"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      getEnvList("CORS_ORIGINS", []string{"*"}),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
