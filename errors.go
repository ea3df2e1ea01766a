package filelock

import (
	"errors"
	"fmt"
)

// Error types represent different categories of errors

// ValidationError represents a configuration or parameter validation error
type ValidationError struct {
	Field   string // The field or parameter that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// EncryptionError represents a sealing or opening failure
type EncryptionError struct {
	Operation string // "seal" or "open"
	Path      string // File path, if applicable
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *EncryptionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error: %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Operation, e.Message)
}

func (e *EncryptionError) Unwrap() error {
	return e.Err
}

// IOError represents a file system I/O error
type IOError struct {
	Operation string // "read", "write", "stat", "remove", etc.
	Path      string // File path
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("io error: %s %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("io error: %s: %s", e.Operation, e.Message)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// CorruptionError represents a structurally invalid blob
type CorruptionError struct {
	Path    string // File path
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *CorruptionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("corruption error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("corruption error: %s", e.Message)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// AuthenticationError represents a failed password or integrity check
type AuthenticationError struct {
	Path    string // File path
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *AuthenticationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("authentication error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("authentication error: %s", e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Sentinel errors. Every error returned by Protect and Extract matches
// exactly one of the first eleven with errors.Is.
var (
	ErrWeakPassword      = errors.New("password must contain a combination of letters, numbers, and symbols")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrSourceNotFound    = errors.New("source file not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrMalformedBlob     = errors.New("malformed sealed blob")
	ErrAuthFailed        = errors.New("authentication failed - data may be corrupted or tampered")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrRecordNotFound    = errors.New("password record not found")
	ErrDestinationWrite  = errors.New("cannot write destination file")
	ErrVaultConflict     = errors.New("directory is already guarded by a different password")
	ErrNotProtected      = errors.New("file name does not carry the protection marker")
	ErrInvalidKey        = errors.New("invalid encryption key")
	ErrUnsupportedCipher = errors.New("unsupported cipher suite")
	ErrNilConfig         = errors.New("config cannot be nil")
	ErrNilFileSystem     = errors.New("filesystem cannot be nil")
)

// Helper functions for creating structured errors

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewEncryptionError creates a new encryption error
func NewEncryptionError(operation, path string, err error) error {
	return &EncryptionError{
		Operation: operation,
		Path:      path,
		Message:   err.Error(),
		Err:       err,
	}
}

// NewIOError creates a new I/O error
func NewIOError(operation, path string, err error) error {
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   err.Error(),
		Err:       err,
	}
}

// NewCorruptionError creates a new corruption error wrapping ErrMalformedBlob
func NewCorruptionError(path string, message string) error {
	return &CorruptionError{
		Path:    path,
		Message: message,
		Err:     ErrMalformedBlob,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(path string, err error) error {
	return &AuthenticationError{
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}

// Error checking helpers

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsEncryptionError checks if an error is an encryption error
func IsEncryptionError(err error) bool {
	var ee *EncryptionError
	return errors.As(err, &ee)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// IsCorruptionError checks if an error is a corruption error
func IsCorruptionError(err error) bool {
	var ce *CorruptionError
	return errors.As(err, &ce)
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// Kind classifies an error for presentation by a front end.
type Kind int

const (
	KindUnknown Kind = iota
	KindWeakPassword
	KindPasswordMismatch
	KindSourceNotFound
	KindAccessDenied
	KindMalformedBlob
	KindAuthenticationFailed
	KindIncorrectPassword
	KindRecordNotFound
	KindDestinationWriteError
	KindVaultConflict
	KindNotProtected
)

var kindSentinels = []struct {
	kind Kind
	err  error
}{
	{KindWeakPassword, ErrWeakPassword},
	{KindPasswordMismatch, ErrPasswordMismatch},
	{KindSourceNotFound, ErrSourceNotFound},
	{KindAccessDenied, ErrAccessDenied},
	{KindMalformedBlob, ErrMalformedBlob},
	{KindAuthenticationFailed, ErrAuthFailed},
	{KindIncorrectPassword, ErrIncorrectPassword},
	{KindRecordNotFound, ErrRecordNotFound},
	{KindDestinationWriteError, ErrDestinationWrite},
	{KindVaultConflict, ErrVaultConflict},
	{KindNotProtected, ErrNotProtected},
}

// KindOf reports the Kind of err, or KindUnknown for nil and foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindWeakPassword:
		return "WeakPassword"
	case KindPasswordMismatch:
		return "PasswordMismatch"
	case KindSourceNotFound:
		return "SourceNotFound"
	case KindAccessDenied:
		return "AccessDenied"
	case KindMalformedBlob:
		return "MalformedBlob"
	case KindAuthenticationFailed:
		return "AuthenticationFailed"
	case KindIncorrectPassword:
		return "IncorrectPassword"
	case KindRecordNotFound:
		return "RecordNotFound"
	case KindDestinationWriteError:
		return "DestinationWriteError"
	case KindVaultConflict:
		return "VaultConflict"
	case KindNotProtected:
		return "NotProtected"
	default:
		return "Unknown"
	}
}

// Message returns a sentence suitable for showing to the person at the keyboard.
func (k Kind) Message() string {
	switch k {
	case KindWeakPassword:
		return "Password must contain a combination of letters, numbers, and symbols (@$!%*#?&)."
	case KindPasswordMismatch:
		return "Passwords do not match."
	case KindSourceNotFound:
		return "The selected file does not exist."
	case KindAccessDenied:
		return "Permission denied while reading the file."
	case KindMalformedBlob:
		return "The file is not a protected file or is damaged."
	case KindAuthenticationFailed:
		return "The protected file has been altered and cannot be extracted."
	case KindIncorrectPassword:
		return "The provided password is incorrect."
	case KindRecordNotFound:
		return "No password file was found next to the protected file."
	case KindDestinationWriteError:
		return "The output file could not be written."
	case KindVaultConflict:
		return "This folder is already protected with a different password."
	case KindNotProtected:
		return "Please select a protected file."
	default:
		return "The operation failed."
	}
}
