package filelock

import (
	"crypto/rand"
	"fmt"
)

// KeySize is the length of every symmetric key used by this package.
const KeySize = 32

// Key is a symmetric key for one authenticated-encryption operation.
type Key [KeySize]byte

// GenerateKey returns a key read from the operating system CSPRNG.
func GenerateKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		return Key{}, fmt.Errorf("failed to generate key: %w", err)
	}
	return k, nil
}

// Encode returns the fixed-width binary form of k.
func (k Key) Encode() []byte {
	out := make([]byte, KeySize)
	copy(out, k[:])
	return out
}

// DecodeKey parses the output of Key.Encode.
func DecodeKey(b []byte) (Key, error) {
	if err := ValidateKey(b, KeySize); err != nil {
		return Key{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	var k Key
	copy(k[:], b)
	return k, nil
}

// Wipe zeroes the key in place.
func (k *Key) Wipe() {
	wipe(k[:])
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
