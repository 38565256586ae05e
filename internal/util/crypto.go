package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize         = 16
	pbkdf2Iterations = 100_000
	keySize          = 32
)

// ----------------- AES-256-GCM encryption (used by backups) -----------------

// deriveKey stretches the configured secret into a 32-byte key.
func deriveKey(secret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(secret), salt, pbkdf2Iterations, keySize, sha256.New)
}

// EncryptAES encrypts plaintext with AES-256-GCM under a key derived from
// secret. Output layout: salt | nonce | ciphertext.
func EncryptAES(secret string, plaintext []byte) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("encryption secret is empty")
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}

	aesgcm, err := newGCM(deriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aesgcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, nil), nil
}

// DecryptAES reverses EncryptAES.
func DecryptAES(secret string, data []byte) ([]byte, error) {
	if len(data) < saltSize {
		return nil, fmt.Errorf("cipher too short")
	}
	salt, rest := data[:saltSize], data[saltSize:]

	aesgcm, err := newGCM(deriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	ns := aesgcm.NonceSize()
	if len(rest) < ns {
		return nil, fmt.Errorf("cipher too short")
	}
	nonce, ciphertext := rest[:ns], rest[ns:]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return aesgcm, nil
}
