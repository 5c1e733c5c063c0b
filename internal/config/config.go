package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds API server configuration
type ServerConfig struct {
	Port              string
	JWTSecret         string
	TokenTTL          time.Duration
	TranslateAPI      string
	TranslateTimeout  time.Duration
	EnrichConcurrency int
	CORSOrigins       []string
	StaticDir         string
	Database          DatabaseConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// BotConfig holds Telegram client configuration
type BotConfig struct {
	BotToken       string
	APIURL         string
	LocalDBPath    string
	TargetLang     string
	RequestTimeout time.Duration
	ProbeInterval  time.Duration
}

// LoadServer reads server configuration from environment variables
func LoadServer() (*ServerConfig, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	tokenTTL, err := getDuration("TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	translateTimeout, err := getDuration("TRANSLATE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	concurrency, err := getInt("ENRICH_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	cfg := &ServerConfig{
		Port:              getEnv("PORT", "4000"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          tokenTTL,
		TranslateAPI:      getEnv("TRANSLATE_API", "https://libretranslate.de/translate"),
		TranslateTimeout:  translateTimeout,
		EnrichConcurrency: concurrency,
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		StaticDir:         os.Getenv("STATIC_DIR"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "wordflip"),
			User:     getEnv("DB_USER", "wordflip"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.EnrichConcurrency < 1 {
		return nil, fmt.Errorf("ENRICH_CONCURRENCY must be positive")
	}

	return cfg, nil
}

// LoadBot reads Telegram client configuration from environment variables
func LoadBot() (*BotConfig, error) {
	_ = godotenv.Load()

	timeout, err := getDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	probe, err := getDuration("PROBE_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	cfg := &BotConfig{
		BotToken:       os.Getenv("BOT_TOKEN"),
		APIURL:         strings.TrimRight(getEnv("API_URL", "http://localhost:4000/api"), "/"),
		LocalDBPath:    getEnv("LOCAL_DB_PATH", "./data/local.db"),
		TargetLang:     getEnv("TARGET_LANG", "ko"),
		RequestTimeout: timeout,
		ProbeInterval:  probe,
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *ServerConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
