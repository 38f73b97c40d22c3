package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerHost      string
	DatabaseDSN     string
	JWTSecret       string
	StorageRoot     string
	CatalogCacheTTL time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CORSOrigins     []string
	MaxUploadBytes  int64
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxLife   time.Duration
	Seed            bool

	GoogleDriveCredentialsPath string
	GoogleDriveCredentialsJSON string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// .env is optional in containers
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG] could not read .env: %v", err)
	}

	cfg := &Config{
		ServerHost:      getEnv("SERVER_HOST", ":8080"),
		DatabaseDSN:     getEnv("DB_DSN", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		StorageRoot:     getEnv("STORAGE_ROOT", "storage/public"),
		CatalogCacheTTL: getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getInt("REDIS_DB", 0),
		CORSOrigins:     getList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		MaxUploadBytes:  int64(getInt("MAX_UPLOAD_MB", 32)) << 20,
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLife:   getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		Seed:            getEnv("SEED", "false") == "true",

		GoogleDriveCredentialsPath: getEnv("GOOGLE_DRIVE_CREDENTIALS_PATH", ""),
		GoogleDriveCredentialsJSON: getEnv("GOOGLE_DRIVE_CREDENTIALS_JSON", ""),
	}

	if cfg.DatabaseDSN == "" {
		log.Fatal("DB_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
