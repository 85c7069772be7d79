package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port string
}

// APIConfig describes how the storefront reaches the remote product/cart API.
type APIConfig struct {
	BaseURL        string
	Timeout        time.Duration
	CircuitBreaker bool
}

// StateConfig selects the durable store for the cached cart and theme preference.
type StateConfig struct {
	Backend       string // "sqlite" atau "redis"
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type StorefrontConfig struct {
	AppEnv   string
	LogLevel string

	Server ServerConfig
	API    APIConfig
	State  StateConfig

	SyncSchedule          string
	ImageFetchConcurrency int
	CORSAllowedOrigins    []string
}

// LoadDotEnv membaca file .env jika ada. File ini opsional.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func LoadServerConfig(defaultPort string) ServerConfig {
	port := defaultPort
	if envPort := os.Getenv("SERVER_PORT"); envPort != "" {
		port = envPort
	}
	return ServerConfig{Port: ":" + port}
}

func LoadStorefrontConfig() StorefrontConfig {
	return StorefrontConfig{
		AppEnv:   GetEnv("APP_ENV", "dev"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),
		Server:   LoadServerConfig("8080"),
		API: APIConfig{
			BaseURL:        strings.TrimRight(GetEnv("STOREFRONT_API_URL", "http://localhost:9090/api"), "/"),
			Timeout:        GetEnvAsDuration("API_TIMEOUT", 10*time.Second),
			CircuitBreaker: GetEnvAsBool("API_CIRCUIT_BREAKER", false),
		},
		State: StateConfig{
			Backend:       strings.ToLower(GetEnv("STATE_BACKEND", "sqlite")),
			DBPath:        GetEnv("STATE_DB_PATH", "storefront_state.db"),
			RedisAddr:     GetEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: GetEnv("REDIS_PASSWORD", ""),
			RedisDB:       GetEnvAsInt("REDIS_DB", 0),
		},
		SyncSchedule:          GetEnv("SYNC_SCHEDULE", "@every 5m"),
		ImageFetchConcurrency: GetEnvAsInt("IMAGE_FETCH_CONCURRENCY", 8),
		CORSAllowedOrigins:    splitList(GetEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// Helper untuk mendapatkan Environment Variable jika ada, atau default
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	strValue := GetEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsBool(key string, fallback bool) bool {
	strValue := GetEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := GetEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
