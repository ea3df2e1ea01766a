package filelock

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// CipherSuite represents the encryption algorithm to use
type CipherSuite uint8

const (
	// CipherAuto automatically selects the best cipher based on hardware capabilities
	CipherAuto CipherSuite = iota
	// CipherAES256GCM uses AES-256 with Galois/Counter Mode
	CipherAES256GCM
	// CipherChaCha20Poly1305 uses ChaCha20 stream cipher with Poly1305 MAC
	CipherChaCha20Poly1305
)

// String returns the string representation of the cipher suite
func (c CipherSuite) String() string {
	switch c {
	case CipherAuto:
		return "auto"
	case CipherAES256GCM:
		return "aes-256-gcm"
	case CipherChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return "unknown"
	}
}

// ParseCipherSuite converts a name produced by String back into a CipherSuite.
func ParseCipherSuite(name string) (CipherSuite, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return CipherAuto, nil
	case "aes-256-gcm", "aes256gcm", "aes":
		return CipherAES256GCM, nil
	case "chacha20-poly1305", "chacha20poly1305", "chacha":
		return CipherChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCipher, name)
	}
}

// KDF identifies the password-based key derivation function
type KDF uint8

const (
	// KDFArgon2id derives keys with Argon2id (recommended)
	KDFArgon2id KDF = iota + 1
	// KDFPBKDF2 derives keys with PBKDF2
	KDFPBKDF2
)

func (k KDF) String() string {
	switch k {
	case KDFArgon2id:
		return "argon2id"
	case KDFPBKDF2:
		return "pbkdf2"
	default:
		return "unknown"
	}
}

// ParseKDF converts a name produced by String back into a KDF.
func ParseKDF(name string) (KDF, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "argon2id", "argon2":
		return KDFArgon2id, nil
	case "pbkdf2":
		return KDFPBKDF2, nil
	default:
		return 0, fmt.Errorf("unsupported key derivation function %q", name)
	}
}

// HashFunc represents hash function types for PBKDF2
type HashFunc uint8

const (
	// SHA256 hash function
	SHA256 HashFunc = iota
	// SHA512 hash function
	SHA512
)

// PBKDF2Params contains parameters for PBKDF2 key derivation
type PBKDF2Params struct {
	Iterations int      // Number of iterations (minimum 100,000)
	HashFunc   HashFunc // Hash function to use
}

// Argon2idParams contains parameters for Argon2id key derivation
type Argon2idParams struct {
	Memory      uint32 // Memory in KiB (e.g., 64*1024 for 64MB)
	Iterations  uint32 // Number of iterations (time parameter)
	Parallelism uint8  // Degree of parallelism
}

// Bounds enforced on key derivation parameters, both when configuring a
// Locker and when decoding a key reference read from disk.
const (
	minArgon2Memory     = 8 * 1024
	maxArgon2Memory     = 4 * 1024 * 1024
	maxArgon2Iterations = 100
	minPBKDF2Iterations = 100000
	maxPBKDF2Iterations = 10000000
)

// Validate checks Argon2id parameters against sane bounds
func (p Argon2idParams) Validate() error {
	switch {
	case p.Memory < minArgon2Memory:
		return NewValidationError("argon2id.memory", p.Memory, "argon2id memory must be at least 8 MiB")
	case p.Memory > maxArgon2Memory:
		return NewValidationError("argon2id.memory", p.Memory, "argon2id memory must not exceed 4 GiB")
	case p.Iterations < 1:
		return NewValidationError("argon2id.iterations", p.Iterations, "argon2id iterations must be at least 1")
	case p.Iterations > maxArgon2Iterations:
		return NewValidationError("argon2id.iterations", p.Iterations, "argon2id iterations must not exceed 100")
	case p.Parallelism < 1:
		return NewValidationError("argon2id.parallelism", p.Parallelism, "argon2id parallelism must be at least 1")
	}
	return nil
}

// Validate checks PBKDF2 parameters against sane bounds
func (p PBKDF2Params) Validate() error {
	switch {
	case p.Iterations < minPBKDF2Iterations:
		return NewValidationError("pbkdf2.iterations", p.Iterations, "pbkdf2 iterations must be at least 100,000")
	case p.Iterations > maxPBKDF2Iterations:
		return NewValidationError("pbkdf2.iterations", p.Iterations, "pbkdf2 iterations must not exceed 10,000,000")
	case p.HashFunc != SHA256 && p.HashFunc != SHA512:
		return NewValidationError("pbkdf2.hash", p.HashFunc, "pbkdf2 hash function must be SHA256 or SHA512")
	}
	return nil
}

// DefaultVaultFileName is the per-directory password record.
const DefaultVaultFileName = "password.txt.encrypted"

// Config contains configuration for a Locker
type Config struct {
	// Cipher suite used to seal new artifacts. Opening reads the suite
	// recorded in the artifact, so changing it never breaks old files.
	Cipher CipherSuite

	// KDF selects the password-based key derivation function
	KDF KDF

	// Argon2id parameters, used when KDF is KDFArgon2id
	Argon2id Argon2idParams

	// PBKDF2 parameters, used when KDF is KDFPBKDF2
	PBKDF2 PBKDF2Params

	// VaultFileName is the name of the password record inside each directory
	VaultFileName string

	// NoClobber makes Protect and Extract fail instead of replacing an
	// existing destination file
	NoClobber bool

	// ConfirmVaultOverwrite is asked before a directory's password record is
	// replaced by one for a different password. A nil func declines.
	ConfirmVaultOverwrite func(dir string) bool

	// Logger receives operational events. Passwords are never logged.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a Config with Argon2id at 64 MiB, 3 passes, 4 lanes.
func DefaultConfig() *Config {
	return &Config{
		Cipher: CipherAES256GCM,
		KDF:    KDFArgon2id,
		Argon2id: Argon2idParams{
			Memory:      64 * 1024,
			Iterations:  3,
			Parallelism: 4,
		},
		PBKDF2: PBKDF2Params{
			Iterations: 600000,
			HashFunc:   SHA256,
		},
		VaultFileName: DefaultVaultFileName,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.Cipher != CipherAES256GCM && c.Cipher != CipherChaCha20Poly1305 && c.Cipher != CipherAuto {
		return ErrUnsupportedCipher
	}
	switch c.KDF {
	case KDFArgon2id:
		if err := c.Argon2id.Validate(); err != nil {
			return err
		}
	case KDFPBKDF2:
		if err := c.PBKDF2.Validate(); err != nil {
			return err
		}
	default:
		return NewValidationError("kdf", c.KDF, "unsupported key derivation function")
	}
	if c.VaultFileName != "" && strings.ContainsAny(c.VaultFileName, `/\`) {
		return NewValidationError("vault_file", c.VaultFileName, "vault file name must not contain a path separator")
	}
	return nil
}

// resolved returns a copy of c with empty fields filled from DefaultConfig.
func (c *Config) resolved() *Config {
	out := *c
	if out.Cipher == CipherAuto {
		// TODO: prefer ChaCha20-Poly1305 on CPUs without AES instructions.
		out.Cipher = CipherAES256GCM
	}
	if out.VaultFileName == "" {
		out.VaultFileName = DefaultVaultFileName
	}
	if out.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		out.Logger = l
	}
	return &out
}
