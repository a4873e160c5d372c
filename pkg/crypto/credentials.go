// Package crypto provides encryption for stored connection credentials.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is returned when the encryption key is empty.
	ErrInvalidKey = errors.New("invalid encryption key: must not be empty")
	// ErrDecryptionFailed is returned when decryption fails due to invalid
	// ciphertext or wrong key.
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or wrong key")
)

// CredentialVault provides AES-256-GCM authenticated encryption for
// connection strings and other sensitive values. The engine decrypts on
// demand and never persists plaintext.
type CredentialVault struct {
	gcm cipher.AEAD
}

// NewCredentialVault creates a vault from a key string. The key can be:
//   - a base64-encoded 32-byte key (openssl rand -base64 32)
//   - any passphrase (hashed to 32 bytes with SHA-256)
func NewCredentialVault(keyInput string) (*CredentialVault, error) {
	if keyInput == "" {
		return nil, ErrInvalidKey
	}

	var key []byte
	decoded, err := base64.StdEncoding.DecodeString(keyInput)
	if err == nil && len(decoded) == 32 {
		key = decoded
	} else {
		hash := sha256.Sum256([]byte(keyInput))
		key = hash[:]
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &CredentialVault{gcm: gcm}, nil
}

// Encrypt encrypts plaintext and returns base64(nonce || ciphertext || tag).
// Empty strings are returned as-is.
func (v *CredentialVault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, v.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := v.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts base64(nonce || ciphertext || tag) and returns plaintext.
// Empty strings are returned as-is.
func (v *CredentialVault) Decrypt(encrypted string) (string, error) {
	if encrypted == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode failed", ErrDecryptionFailed)
	}

	nonceSize := v.gcm.NonceSize()
	if len(data) < nonceSize+v.gcm.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := v.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrDecryptionFailed)
	}

	return string(plaintext), nil
}
