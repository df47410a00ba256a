package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// tokenBytes gives 256 bits of entropy per recovery token.
const tokenBytes = 32

// SecretGeneratorImpl implements domain.SecretGenerator with crypto/rand.
type SecretGeneratorImpl struct{}

// NewSecretGenerator creates a new secret generator
func NewSecretGenerator() domain.SecretGenerator {
	return &SecretGeneratorImpl{}
}

// Token implements domain.SecretGenerator
func (g *SecretGeneratorImpl) Token() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Code implements domain.SecretGenerator
func (g *SecretGeneratorImpl) Code(digits int) (string, error) {
	out := make([]byte, digits)
	for i := 0; i < digits; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		out[i] = byte('0' + num.Int64())
	}
	return string(out), nil
}
