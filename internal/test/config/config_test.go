package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"print-kiosk-backend/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp_test_secret")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
	t.Setenv("ADMIN_JWT_SECRET", "admin-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/printkiosk")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.OTPLength)
	assert.Equal(t, 10*time.Minute, cfg.OTPValidity)
	assert.Equal(t, 600*time.Second, cfg.SignedURLTTL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "print-jobs", cfg.SupabaseStorageBucket)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OTP_LENGTH", "8")
	t.Setenv("OTP_VALIDITY_MINUTES", "5")
	t.Setenv("SIGNED_URL_TTL_SECONDS", "120")
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.OTPLength)
	assert.Equal(t, 5*time.Minute, cfg.OTPValidity)
	assert.Equal(t, 2*time.Minute, cfg.SignedURLTTL)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadFailsWithoutGatewaySecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RAZORPAY_KEY_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAZORPAY_KEY_SECRET")
}

func TestLoadFailsWithoutDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadRejectsShortOTPLength(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OTP_LENGTH", "3")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTP_LENGTH")
}
