package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

var errKeySize = errors.New("encryption key must be 32 bytes for AES-256")

// Encrypt seals text with AES-256-GCM and returns URL-safe base64 of
// [nonce(12) || ciphertext || tag(16)].
func Encrypt(encryptionKey []byte, text string) (string, error) {
	gcm, err := newGCM(encryptionKey)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(text), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func Decrypt(encryptionKey []byte, encoded string) (string, error) {
	gcm, err := newGCM(encryptionKey)
	if err != nil {
		return "", err
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", errors.New("malformed ciphertext (too short for nonce)")
	}

	plaintext, err := gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptOptional encrypts s when it is non-empty and leaves nil/empty values alone.
func EncryptOptional(key []byte, s *string) (*string, error) {
	if s == nil || *s == "" {
		return s, nil
	}
	enc, err := Encrypt(key, *s)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}

// DecryptOptional is the inverse of EncryptOptional. Values that fail to
// decrypt are returned unchanged so legacy plaintext rows stay readable.
func DecryptOptional(key []byte, s *string) *string {
	if s == nil || *s == "" {
		return s
	}
	dec, err := Decrypt(key, *s)
	if err != nil {
		Logger.WithError(err).Warn("Failed to decrypt field, returning stored value")
		return s
	}
	return &dec
}

// Mask keeps the last four characters of a sensitive value.
func Mask(s *string) *string {
	if s == nil || *s == "" {
		return s
	}
	r := []rune(*s)
	if len(r) <= 4 {
		return StrPtr("****")
	}
	return StrPtr("****" + string(r[len(r)-4:]))
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, errKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
