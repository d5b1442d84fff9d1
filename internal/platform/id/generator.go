package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator mints the public identifiers handed out for rounds, fixtures
// and result events.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces 32-character hex identifiers.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
