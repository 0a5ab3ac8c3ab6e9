package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"print-kiosk-backend/internal/models"
)

func TestPrintOptionsNormalizeDefaults(t *testing.T) {
	opts := models.PrintOptions{}.Normalize()

	assert.Equal(t, 1, opts.Copies)
	assert.Equal(t, models.ColorModeColor, opts.ColorMode)
	assert.Equal(t, models.DuplexSingle, opts.Duplex)
	assert.Equal(t, models.PageRangeAll, opts.PageRange)
}

func TestPrintOptionsNormalizeKeepsExplicitValues(t *testing.T) {
	opts := models.PrintOptions{
		Copies:    3,
		ColorMode: models.ColorModeMonochrome,
		Duplex:    models.DuplexDouble,
		PageRange: "1-4",
	}.Normalize()

	assert.Equal(t, 3, opts.Copies)
	assert.Equal(t, models.ColorModeMonochrome, opts.ColorMode)
	assert.Equal(t, models.DuplexDouble, opts.Duplex)
	assert.Equal(t, "1-4", opts.PageRange)
}

func TestPrintOptionsNormalizeRejectsUnknownValues(t *testing.T) {
	opts := models.PrintOptions{ColorMode: "rainbow", Duplex: "triple"}.Normalize()

	assert.Equal(t, models.ColorModeColor, opts.ColorMode)
	assert.Equal(t, models.DuplexSingle, opts.Duplex)
}

func TestOTPExpired(t *testing.T) {
	now := time.Now()
	otp := models.OTP{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, otp.Expired(now))
	assert.True(t, otp.Expired(now.Add(time.Minute)))
	assert.True(t, otp.Expired(now.Add(2*time.Minute)))
}

func TestPrintDetailsFromJob(t *testing.T) {
	job := &models.Job{
		Files: []models.JobFile{
			{OriginalName: "a.pdf", PageCount: 2, Copies: 1, ColorMode: "color", Duplex: "single", PageRange: "all"},
			{OriginalName: "b.pdf", PageCount: 4, Copies: 2, ColorMode: "monochrome", Duplex: "double", PageRange: "1-3"},
		},
	}

	details := models.PrintDetailsFromJob(job)
	assert.Len(t, details, 2)
	assert.Equal(t, "b.pdf", details[1].FileName)
	assert.Equal(t, 2, details[1].Copies)
}
