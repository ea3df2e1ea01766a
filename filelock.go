package filelock

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Locker protects files under a password and extracts them again. It keeps
// no state between operations apart from per-directory locks.
type Locker struct {
	fs     FileSystem
	config *Config
	vault  *Vault
	log    logrus.FieldLogger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Locker operating on fsys
func New(fsys FileSystem, config *Config) (*Locker, error) {
	if fsys == nil {
		return nil, ErrNilFileSystem
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg := config.resolved()

	return &Locker{
		fs:     fsys,
		config: cfg,
		vault:  &Vault{fs: fsys, config: cfg, log: cfg.Logger},
		log:    cfg.Logger,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// Vault returns the password vault used by l.
func (l *Locker) Vault() *Vault {
	return l.vault
}

// lockDir serializes operations touching the vault of dir.
func (l *Locker) lockDir(dir string) func() {
	l.mu.Lock()
	m, ok := l.locks[dir]
	if !ok {
		m = new(sync.Mutex)
		l.locks[dir] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Protect seals the file at path under password, writes it next to the
// source as ProtectedPath(path) and makes sure the directory's password
// record holds password. The source file is left in place.
//
// The record is written before the protected file. If writing the
// protected file fails the record is restored to its previous state.
func (l *Locker) Protect(path, password string) (string, error) {
	if err := CheckPasswordStrength(password); err != nil {
		return "", err
	}
	if err := ValidateFilePath(path); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}

	src := filepath.Clean(path)
	dst := ProtectedPath(src)
	dir := filepath.Dir(src)
	log := l.log.WithFields(logrus.Fields{"path": src, "dest": dst})

	data, err := readFile(l.fs, src)
	if err != nil {
		return "", err
	}
	defer wipe(data)

	unlock := l.lockDir(dir)
	defer unlock()

	if err := l.checkClobber(dst); err != nil {
		return "", err
	}

	blob, err := sealBlob(l.config, []byte(password), purposeFile, data)
	if err != nil {
		return "", NewEncryptionError("seal", src, err)
	}

	rollback, err := l.vault.ensure(dir, password)
	if err != nil {
		return "", err
	}

	if err := writeFileAtomic(l.fs, dst, blob, 0o600); err != nil {
		rollback()
		return "", err
	}

	log.WithField("bytes", len(data)).Info("protected file")
	return dst, nil
}

// Extract verifies password against the directory's record, opens the
// protected file at path and writes the plaintext to ExtractedPath(path).
// The protected file is left in place. Nothing is written unless every
// check passes.
func (l *Locker) Extract(path, password string) (string, error) {
	if err := ValidateFilePath(path); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}

	src := filepath.Clean(path)
	dst, err := ExtractedPath(src)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(src)
	log := l.log.WithFields(logrus.Fields{"path": src, "dest": dst})

	unlock := l.lockDir(dir)
	defer unlock()

	ok, err := l.vault.Verify(dir, password)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Warn("rejected extraction: incorrect password")
		return "", &AuthenticationError{Path: src, Message: "password does not match the record", Err: ErrIncorrectPassword}
	}

	blob, err := readFile(l.fs, src)
	if err != nil {
		return "", err
	}

	plaintext, err := openBlob(blob, []byte(password), purposeFile)
	if err != nil {
		if errors.Is(err, ErrMalformedBlob) {
			return "", &CorruptionError{Path: src, Message: err.Error(), Err: ErrMalformedBlob}
		}
		log.Warn("rejected extraction: authentication failed")
		return "", NewAuthenticationError(src, err)
	}
	defer wipe(plaintext)

	if err := l.checkClobber(dst); err != nil {
		return "", err
	}
	if err := writeFileAtomic(l.fs, dst, plaintext, 0o600); err != nil {
		return "", err
	}

	log.WithField("bytes", len(plaintext)).Info("extracted file")
	return dst, nil
}

func (l *Locker) checkClobber(dst string) error {
	if !l.config.NoClobber {
		return nil
	}
	ok, err := exists(l.fs, dst)
	if err != nil {
		return NewIOError("stat", dst, fmt.Errorf("%w: %w", ErrDestinationWrite, err))
	}
	if ok {
		return &IOError{Operation: "write", Path: dst, Message: "destination already exists", Err: ErrDestinationWrite}
	}
	return nil
}
