package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Verifier chequea la firma ed25519 que Discord manda en cada request al webhook.
// Va sobre el body crudo: nunca parsear antes de verificar.
type Verifier struct {
	key ed25519.PublicKey
}

// NewVerifier recibe la public key de la app en hex (Developer Portal).
func NewVerifier(publicKeyHex string) (*Verifier, error) {
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key: want %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &Verifier{key: ed25519.PublicKey(raw)}, nil
}

// Verify nunca falla con error: hex roto, largo incorrecto o firma inválida => false.
func (v *Verifier) Verify(signatureHex, timestamp string, body []byte) bool {
	if signatureHex == "" || timestamp == "" {
		return false
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)
	return ed25519.Verify(v.key, msg, sig)
}
