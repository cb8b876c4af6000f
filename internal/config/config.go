package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds everything read from the environment at startup.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string

	RedisAddr     string
	StatsCacheTTL time.Duration

	MonthlyBudget decimal.Decimal

	R2Endpoint      string
	R2AccessKey     string
	R2SecretKey     string
	R2Bucket        string
	R2PublicBaseURL string
	ArchiveInterval time.Duration
}

var required = []string{
	"JWT_SECRET",
	"DATABASE_URL",
}

// Load reads .env outside production and validates required keys.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	for _, k := range required {
		if strings.TrimSpace(os.Getenv(k)) == "" {
			return nil, fmt.Errorf("missing env var: %s", k)
		}
	}

	budget, err := decimal.NewFromString(String("MONTHLY_BUDGET", "1500"))
	if err != nil {
		return nil, fmt.Errorf("MONTHLY_BUDGET: %w", err)
	}

	return &Config{
		AppEnv:      String("APP_ENV", "development"),
		Port:        String("PORT", "8000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: List("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		RedisAddr:     String("REDIS_ADDR", ""),
		StatsCacheTTL: time.Duration(Int("STATS_CACHE_TTL_SECONDS", 30)) * time.Second,

		MonthlyBudget: budget,

		R2Endpoint:      String("R2_ENDPOINT", ""),
		R2AccessKey:     String("R2_ACCESS_KEY", ""),
		R2SecretKey:     String("R2_SECRET_KEY", ""),
		R2Bucket:        String("R2_BUCKET_NAME", ""),
		R2PublicBaseURL: String("R2_PUBLIC_BASE_URL", ""),
		ArchiveInterval: time.Duration(Int("ARCHIVE_INTERVAL_MINUTES", 60)) * time.Minute,
	}, nil
}

// ArchiveEnabled reports whether every R2 setting is present.
func (c *Config) ArchiveEnabled() bool {
	return c.R2Endpoint != "" &&
		c.R2AccessKey != "" &&
		c.R2SecretKey != "" &&
		c.R2Bucket != ""
}

func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func Int(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// List splits a comma-separated variable.
func List(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
