package filelock

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Vault manages the per-directory password record. The record is a sealed
// blob whose plaintext is the password itself, keyed by that same password,
// so only the right password can open it. Plaintext never reaches disk.
type Vault struct {
	fs     FileSystem
	config *Config
	log    logrus.FieldLogger
}

// NewVault creates a Vault over fsys.
func NewVault(fsys FileSystem, config *Config) (*Vault, error) {
	if fsys == nil {
		return nil, ErrNilFileSystem
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg := config.resolved()
	return &Vault{fs: fsys, config: cfg, log: cfg.Logger}, nil
}

// Path returns the location of the record for dir.
func (v *Vault) Path(dir string) string {
	return filepath.Join(dir, v.config.VaultFileName)
}

// Exists reports whether dir has a password record.
func (v *Vault) Exists(dir string) (bool, error) {
	ok, err := exists(v.fs, v.Path(dir))
	if err != nil {
		return false, NewIOError("stat", v.Path(dir), err)
	}
	return ok, nil
}

// Store seals password and atomically replaces the record for dir.
func (v *Vault) Store(dir, password string) error {
	blob, err := sealBlob(v.config, []byte(password), purposeVault, []byte(password))
	if err != nil {
		return err
	}
	if err := writeFileAtomic(v.fs, v.Path(dir), blob, 0o600); err != nil {
		return err
	}
	v.log.WithField("dir", dir).Debug("stored password record")
	return nil
}

// Verify reports whether candidate is the password recorded for dir.
// A missing record matches ErrRecordNotFound; an unreadable one matches
// ErrMalformedBlob.
func (v *Vault) Verify(dir, candidate string) (bool, error) {
	path := v.Path(dir)
	blob, err := readFile(v.fs, path)
	if err != nil {
		if errors.Is(err, ErrSourceNotFound) {
			return false, &IOError{Operation: "read", Path: path, Message: "no password record", Err: ErrRecordNotFound}
		}
		return false, err
	}
	return verifyBlob(path, blob, candidate)
}

func verifyBlob(path string, blob []byte, candidate string) (bool, error) {
	ref, ct, err := DecodeBlob(blob)
	if err != nil {
		return false, &CorruptionError{Path: path, Message: err.Error(), Err: ErrMalformedBlob}
	}
	if candidate == "" {
		return false, nil
	}

	key, err := ref.Derive([]byte(candidate), purposeVault)
	if err != nil {
		return false, err
	}
	defer key.Wipe()

	stored, err := Open(key, ct)
	if err != nil {
		// A key derived from the wrong password cannot authenticate the record.
		return false, nil
	}
	defer wipe(stored)
	return subtle.ConstantTimeCompare(stored, []byte(candidate)) == 1, nil
}

// ensure makes the record for dir hold password. An existing record for the
// same password is left untouched; a record for another password (or a
// damaged one) is replaced only when the configured confirmation agrees.
// The returned func undoes the change and is never nil.
func (v *Vault) ensure(dir, password string) (rollback func(), err error) {
	noop := func() {}
	path := v.Path(dir)
	log := v.log.WithField("dir", dir)

	prev, err := readFile(v.fs, path)
	switch {
	case err == nil:
		ok, verr := verifyBlob(path, prev, password)
		if verr == nil && ok {
			return noop, nil
		}
		if v.config.ConfirmVaultOverwrite == nil || !v.config.ConfirmVaultOverwrite(dir) {
			return noop, &AuthenticationError{Path: path, Message: "password record belongs to a different password", Err: ErrVaultConflict}
		}
		log.Warn("replacing password record; files protected under the previous password can no longer be extracted")
	case errors.Is(err, ErrSourceNotFound):
		prev = nil
	default:
		return noop, err
	}

	if err := v.Store(dir, password); err != nil {
		return noop, err
	}

	return func() {
		var rerr error
		if prev == nil {
			rerr = v.fs.Remove(path)
		} else {
			rerr = writeFileAtomic(v.fs, path, prev, 0o600)
		}
		if rerr != nil {
			log.WithError(rerr).Error("failed to roll back password record")
		}
	}, nil
}
