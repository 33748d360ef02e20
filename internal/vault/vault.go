// Package vault encrypts OAuth tokens at rest with AES-256-GCM. The cipher
// key is derived from a single static key in configuration, so a key
// rotation invalidates every stored credential and forces re-consent.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32 // AES-256

// hkdf info string, provides domain separation from any other use of the key
const derivationInfo = "outreachpilot-credential-vault-v1"

var (
	ErrInvalidKey = errors.New("vault key must be 32 hex-encoded bytes")

	// ErrDecrypt is returned for any undecryptable ciphertext. Callers treat
	// it as "key rotated or data corrupted": the credential cannot be
	// recovered and the owning record must be purged.
	ErrDecrypt = errors.New("decryption failed")
)

type Vault struct {
	aead cipher.AEAD
}

// New builds a vault from the hex-encoded key in configuration.
func New(hexKey string) (*Vault, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != keySize {
		return nil, ErrInvalidKey
	}

	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, raw, nil, []byte(derivationInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive vault key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt returns base64(nonce + sealed plaintext).
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Every failure mode maps to ErrDecrypt so callers
// can distinguish an unrecoverable credential from transient faults.
func (v *Vault) Decrypt(ciphertext string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Join(ErrDecrypt, err)
	}

	nonceSize := v.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", ErrDecrypt
	}

	nonce, data := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, data, nil)
	if err != nil {
		return "", errors.Join(ErrDecrypt, err)
	}

	return string(plaintext), nil
}
