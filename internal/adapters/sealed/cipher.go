package sealed

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// KeySize is the AES-256 key length.
const KeySize = 32

// Versioned prefix to allow future key or algorithm rotations.
const cipherPrefixV1 = "v1:"

// ErrUnknownVersion is returned for sealed values with an unrecognised prefix.
var ErrUnknownVersion = errors.New("unknown ciphertext version")

// Cipher seals values with AES-256-GCM. The record key is bound as
// additional data, so a sealed value only opens under the key it was
// written to.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a Cipher. Key must be 32 bytes (AES-256).
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aes-gcm key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// ParseKey accepts a standard base64 encoding of 32 bytes or 32 raw bytes.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil && len(decoded) == KeySize {
		return decoded, nil
	}
	if len(raw) == KeySize {
		return []byte(raw), nil
	}
	return nil, fmt.Errorf("encryption key must be %d bytes or their base64 encoding", KeySize)
}

// Seal encrypts plaintext with a random nonce and returns a versioned base64 string.
func (c *Cipher) Seal(recordKey string, plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	// nonce||ciphertext
	buf := c.aead.Seal(nonce, nonce, plaintext, []byte(recordKey))
	return cipherPrefixV1 + base64.StdEncoding.EncodeToString(buf), nil
}

// Open decrypts a value produced by Seal for the same record key.
func (c *Cipher) Open(recordKey, sealed string) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrUnknownVersion
	}
	data, err := base64.StdEncoding.DecodeString(sealed[len(cipherPrefixV1):])
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	pt, err := c.aead.Open(nil, data[:nonceSize], data[nonceSize:], []byte(recordKey))
	if err != nil {
		return nil, fmt.Errorf("open ciphertext: %w", err)
	}
	return pt, nil
}

// IsSealed reports whether value carries a known ciphertext prefix.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, cipherPrefixV1)
}
