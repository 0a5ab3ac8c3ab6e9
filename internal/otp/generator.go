package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// digits is the code alphabet. Numeric only: kiosks have a numeric keypad.
const digits = "0123456789"

// Generator produces fixed-length random one-time codes.
type Generator struct {
	length int
}

func NewGenerator(length int) *Generator {
	if length < 4 {
		length = 6
	}
	return &Generator{length: length}
}

// Generate returns a fresh random code. Codes are not checked for global
// uniqueness; redemption disambiguates by (code, kiosk) and the short
// validity window keeps collision probability negligible.
func (g *Generator) Generate() (string, error) {
	code := make([]byte, g.length)
	max := big.NewInt(int64(len(digits)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		code[i] = digits[n.Int64()]
	}
	return string(code), nil
}

// Length reports the configured code length.
func (g *Generator) Length() int {
	return g.length
}
