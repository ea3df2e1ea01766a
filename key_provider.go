package filelock

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of the random salt stored in every KeyRef
	SaltSize = 32

	// KeyRefSize is the fixed encoded width of a KeyRef:
	// 1 byte (kdf) + 4 bytes (p1) + 4 bytes (p2) + 1 byte (p3) + salt
	KeyRefSize = 10 + SaltSize
)

// Purposes bind a derived key to the kind of artifact it seals, so a
// protected file can never be accepted as a password record.
const (
	purposeFile  = "filelock file v1"
	purposeVault = "filelock vault v1"
)

// KeyRef records how to re-derive a key from a password: the KDF, its cost
// parameters and the salt. It is stored in place of the key itself.
type KeyRef struct {
	KDF      KDF
	Argon2id Argon2idParams // set when KDF is KDFArgon2id
	PBKDF2   PBKDF2Params   // set when KDF is KDFPBKDF2
	Salt     [SaltSize]byte
}

// NewKeyRef creates a KeyRef with a fresh random salt and the cost
// parameters from cfg.
func NewKeyRef(cfg *Config) (KeyRef, error) {
	ref := KeyRef{KDF: cfg.KDF}
	switch cfg.KDF {
	case KDFArgon2id:
		ref.Argon2id = cfg.Argon2id
	case KDFPBKDF2:
		ref.PBKDF2 = cfg.PBKDF2
	default:
		return KeyRef{}, NewValidationError("kdf", cfg.KDF, "unsupported key derivation function")
	}
	if _, err := rand.Read(ref.Salt[:]); err != nil {
		return KeyRef{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	return ref, nil
}

// Encode returns the KeyRefSize-byte little-endian form of r.
func (r KeyRef) Encode() []byte {
	out := make([]byte, KeyRefSize)
	out[0] = byte(r.KDF)
	switch r.KDF {
	case KDFArgon2id:
		binary.LittleEndian.PutUint32(out[1:5], r.Argon2id.Memory)
		binary.LittleEndian.PutUint32(out[5:9], r.Argon2id.Iterations)
		out[9] = r.Argon2id.Parallelism
	case KDFPBKDF2:
		binary.LittleEndian.PutUint32(out[1:5], uint32(r.PBKDF2.Iterations))
		binary.LittleEndian.PutUint32(out[5:9], uint32(r.PBKDF2.HashFunc))
	}
	copy(out[10:], r.Salt[:])
	return out
}

// DecodeKeyRef parses the output of KeyRef.Encode. Parameters outside the
// accepted bounds are rejected so a crafted file cannot demand unbounded
// memory or time.
func DecodeKeyRef(b []byte) (KeyRef, error) {
	if len(b) != KeyRefSize {
		return KeyRef{}, NewCorruptionError("", fmt.Sprintf("key reference must be %d bytes, got %d", KeyRefSize, len(b)))
	}

	var r KeyRef
	r.KDF = KDF(b[0])
	p1 := binary.LittleEndian.Uint32(b[1:5])
	p2 := binary.LittleEndian.Uint32(b[5:9])
	p3 := b[9]

	switch r.KDF {
	case KDFArgon2id:
		r.Argon2id = Argon2idParams{Memory: p1, Iterations: p2, Parallelism: p3}
		if err := r.Argon2id.Validate(); err != nil {
			return KeyRef{}, &CorruptionError{Message: err.Error(), Err: ErrMalformedBlob}
		}
	case KDFPBKDF2:
		if p2 > uint32(SHA512) || p3 != 0 {
			return KeyRef{}, NewCorruptionError("", "invalid pbkdf2 parameters")
		}
		r.PBKDF2 = PBKDF2Params{Iterations: int(p1), HashFunc: HashFunc(p2)}
		if err := r.PBKDF2.Validate(); err != nil {
			return KeyRef{}, &CorruptionError{Message: err.Error(), Err: ErrMalformedBlob}
		}
	default:
		return KeyRef{}, NewCorruptionError("", fmt.Sprintf("unknown key derivation function %d", b[0]))
	}

	copy(r.Salt[:], b[10:])
	return r, nil
}

// Derive turns password into the key for the given purpose. The stretched
// password is expanded with HKDF-SHA256 so each purpose gets its own key.
func (r KeyRef) Derive(password []byte, purpose string) (Key, error) {
	if len(password) == 0 {
		return Key{}, errors.New("password cannot be empty")
	}

	var master []byte
	switch r.KDF {
	case KDFArgon2id:
		master = argon2.IDKey(
			password,
			r.Salt[:],
			r.Argon2id.Iterations,
			r.Argon2id.Memory,
			r.Argon2id.Parallelism,
			KeySize,
		)
	case KDFPBKDF2:
		var hashFunc func() hash.Hash
		switch r.PBKDF2.HashFunc {
		case SHA256:
			hashFunc = sha256.New
		case SHA512:
			hashFunc = sha512.New
		default:
			return Key{}, fmt.Errorf("unsupported hash function: %v", r.PBKDF2.HashFunc)
		}
		master = pbkdf2.Key(password, r.Salt[:], r.PBKDF2.Iterations, KeySize, hashFunc)
	default:
		return Key{}, fmt.Errorf("unsupported key derivation function: %v", r.KDF)
	}
	defer wipe(master)

	var k Key
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(purpose)), k[:]); err != nil {
		return Key{}, fmt.Errorf("failed to expand key: %w", err)
	}
	return k, nil
}
