package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const encryptionSalt = "cloudvault-blob-encryption"

// deriveKey stretches the configured secret into a 32-byte AES key.
func deriveKey(secret string) ([]byte, error) {
	hkdfReader := hkdf.New(
		sha256.New,
		[]byte(secret),
		[]byte(encryptionSalt),
		[]byte("blob-key"),
	)
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdfReader, key); err != nil {
		return nil, fmt.Errorf("failed deriving encryption key: %w", err)
	}
	return key, nil
}

// newEncryptWriter prepends a random IV to dst and returns a writer that
// encrypts everything written to it with AES-CTR. CTR keeps the content
// streamable in both directions without buffering whole files in memory.
func newEncryptWriter(key []byte, dst io.Writer) (io.Writer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}
	if _, err := dst.Write(iv); err != nil {
		return nil, err
	}

	return &cipher.StreamWriter{S: cipher.NewCTR(block, iv), W: dst}, nil
}

// newDecryptReader consumes the IV prefix from src and returns a reader that
// decrypts the remainder.
func newDecryptReader(key []byte, src io.Reader) (io.Reader, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(src, iv); err != nil {
		return nil, fmt.Errorf("failed reading blob IV: %w", err)
	}

	return &cipher.StreamReader{S: cipher.NewCTR(block, iv), R: src}, nil
}
