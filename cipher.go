package filelock

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherEngine provides AEAD encryption/decryption
type CipherEngine interface {
	// Encrypt encrypts plaintext with the given nonce
	Encrypt(nonce, plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext with the given nonce
	Decrypt(nonce, ciphertext []byte) ([]byte, error)

	// NonceSize returns the size of nonces in bytes
	NonceSize() int

	// Overhead returns the authentication tag size
	Overhead() int
}

// aeadEngine adapts a cipher.AEAD to CipherEngine
type aeadEngine struct {
	aead cipher.AEAD
}

func (e *aeadEngine) Encrypt(nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != e.NonceSize() {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", e.NonceSize(), len(nonce))
	}
	return e.aead.Seal(nil, nonce, plaintext, nil), nil
}

func (e *aeadEngine) Decrypt(nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != e.NonceSize() {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", e.NonceSize(), len(nonce))
	}
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func (e *aeadEngine) NonceSize() int { return e.aead.NonceSize() }

func (e *aeadEngine) Overhead() int { return e.aead.Overhead() }

// AESGCMEngine implements CipherEngine using AES-256-GCM
type AESGCMEngine struct {
	aeadEngine
}

// NewAESGCMEngine creates a new AES-256-GCM cipher engine
func NewAESGCMEngine(key []byte) (*AESGCMEngine, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("AES-256 requires a 32-byte key, got %d bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMEngine{aeadEngine{aead: aead}}, nil
}

// ChaCha20Poly1305Engine implements CipherEngine using ChaCha20-Poly1305
type ChaCha20Poly1305Engine struct {
	aeadEngine
}

// NewChaCha20Poly1305Engine creates a new ChaCha20-Poly1305 cipher engine
func NewChaCha20Poly1305Engine(key []byte) (*ChaCha20Poly1305Engine, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("ChaCha20-Poly1305 requires a %d-byte key, got %d bytes",
			chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Engine{aeadEngine{aead: aead}}, nil
}

// NewCipherEngine creates a new cipher engine based on the cipher suite
func NewCipherEngine(suite CipherSuite, key []byte) (CipherEngine, error) {
	switch suite {
	case CipherAES256GCM, CipherAuto:
		return NewAESGCMEngine(key)
	case CipherChaCha20Poly1305:
		return NewChaCha20Poly1305Engine(key)
	default:
		return nil, ErrUnsupportedCipher
	}
}

// nonceSize is shared by both suites.
const nonceSize = 12

// GenerateNonce generates a random nonce for the given cipher
func GenerateNonce(suite CipherSuite) ([]byte, error) {
	switch suite {
	case CipherAES256GCM, CipherChaCha20Poly1305, CipherAuto:
	default:
		return nil, ErrUnsupportedCipher
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// envelopeOverhead is the suite byte, the nonce and the 16-byte tag.
const envelopeOverhead = 1 + nonceSize + 16

// Seal encrypts plaintext under key and returns a self-describing envelope:
//
//	[suite:1][nonce:12][ciphertext||tag]
//
// A fresh nonce is drawn for every call.
func Seal(suite CipherSuite, key Key, plaintext []byte) ([]byte, error) {
	if suite == CipherAuto {
		suite = CipherAES256GCM
	}
	engine, err := NewCipherEngine(suite, key[:])
	if err != nil {
		return nil, err
	}
	nonce, err := GenerateNonce(suite)
	if err != nil {
		return nil, err
	}
	ct, err := engine.Encrypt(nonce, plaintext)
	if err != nil {
		return nil, NewEncryptionError("seal", "", err)
	}

	out := make([]byte, 0, 1+len(nonce)+len(ct))
	out = append(out, byte(suite))
	out = append(out, nonce...)
	out = append(out, ct...)
	return out, nil
}

// Open reverses Seal. Any failure, including a truncated envelope or an
// unknown suite byte, is reported as ErrAuthFailed and no plaintext is
// returned.
func Open(key Key, envelope []byte) ([]byte, error) {
	if len(envelope) < envelopeOverhead {
		return nil, ErrAuthFailed
	}
	suite := CipherSuite(envelope[0])
	if suite != CipherAES256GCM && suite != CipherChaCha20Poly1305 {
		return nil, ErrAuthFailed
	}
	engine, err := NewCipherEngine(suite, key[:])
	if err != nil {
		return nil, ErrAuthFailed
	}
	plaintext, err := engine.Decrypt(envelope[1:1+nonceSize], envelope[1+nonceSize:])
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}
