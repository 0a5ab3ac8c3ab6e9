package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Razorpay
	RazorpayKeyID     string
	RazorpayKeySecret string

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Admin API
	AdminJWTSecret string

	// Database
	DatabaseURL string

	// Workflow
	OTPLength    int
	OTPValidity  time.Duration
	SignedURLTTL time.Duration

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	cfg := &Config{
		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "print-jobs"),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		OTPLength:    getEnvInt("OTP_LENGTH", 6),
		OTPValidity:  time.Duration(getEnvInt("OTP_VALIDITY_MINUTES", 10)) * time.Minute,
		SignedURLTTL: time.Duration(getEnvInt("SIGNED_URL_TTL_SECONDS", 600)) * time.Second,

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate fails closed: a missing gateway secret must stop the process at
// startup, never surface as a request-time surprise.
func (c *Config) Validate() error {
	if c.RazorpayKeyID == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID is required")
	}
	if c.RazorpayKeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_SECRET is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.AdminJWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.OTPLength < 4 {
		return fmt.Errorf("OTP_LENGTH must be at least 4")
	}
	if c.OTPValidity <= 0 {
		return fmt.Errorf("OTP_VALIDITY_MINUTES must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
