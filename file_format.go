package filelock

import (
	"fmt"
)

// A sealed blob is the on-disk form of both protected files and password
// records:
//
//	[key reference: KeyRefSize bytes][envelope: rest of file]
//
// There is no header or length prefix; the key reference has a fixed width.

// EncodeBlob concatenates the encoded key reference and the ciphertext.
func EncodeBlob(ref KeyRef, ciphertext []byte) []byte {
	out := make([]byte, 0, KeyRefSize+len(ciphertext))
	out = append(out, ref.Encode()...)
	out = append(out, ciphertext...)
	return out
}

// DecodeBlob splits a sealed blob into its key reference and ciphertext.
// The returned ciphertext aliases b.
func DecodeBlob(b []byte) (KeyRef, []byte, error) {
	if len(b) < KeyRefSize {
		return KeyRef{}, nil, NewCorruptionError("", fmt.Sprintf("blob is %d bytes, shorter than the %d-byte key field", len(b), KeyRefSize))
	}
	ref, err := DecodeKeyRef(b[:KeyRefSize])
	if err != nil {
		return KeyRef{}, nil, err
	}
	return ref, b[KeyRefSize:], nil
}

// sealBlob derives a key for purpose under a fresh KeyRef and seals
// plaintext into a complete blob.
func sealBlob(cfg *Config, password []byte, purpose string, plaintext []byte) ([]byte, error) {
	ref, err := NewKeyRef(cfg)
	if err != nil {
		return nil, err
	}
	key, err := ref.Derive(password, purpose)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	ct, err := Seal(cfg.Cipher, key, plaintext)
	if err != nil {
		return nil, err
	}
	return EncodeBlob(ref, ct), nil
}

// openBlob decodes blob and opens it with the key derived from password.
// Errors match ErrMalformedBlob or ErrAuthFailed.
func openBlob(blob, password []byte, purpose string) ([]byte, error) {
	ref, ct, err := DecodeBlob(blob)
	if err != nil {
		return nil, err
	}
	key, err := ref.Derive(password, purpose)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	defer key.Wipe()
	return Open(key, ct)
}
