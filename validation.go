package filelock

import (
	"crypto/subtle"
	"fmt"
	"strings"
)

// PasswordSymbols is the set of symbols a password may (and must) draw from.
const PasswordSymbols = "@$!%*#?&"

// ValidatePasswordStrength reports whether password satisfies the strength
// rules. Front ends call it before enabling their submit action.
func ValidatePasswordStrength(password string) bool {
	return CheckPasswordStrength(password) == nil
}

// CheckPasswordStrength is ValidatePasswordStrength with a reason. The
// password must contain at least one ASCII letter, one digit and one symbol
// from PasswordSymbols, and nothing else.
func CheckPasswordStrength(password string) error {
	if password == "" {
		return weakPassword("password cannot be empty")
	}

	var letter, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		default:
			return weakPassword(fmt.Sprintf("character %q is not allowed", r))
		}
	}

	switch {
	case !letter:
		return weakPassword("password must contain a letter")
	case !digit:
		return weakPassword("password must contain a digit")
	case !symbol:
		return weakPassword("password must contain one of " + PasswordSymbols)
	}
	return nil
}

func weakPassword(msg string) error {
	return &ValidationError{Field: "password", Message: msg, Err: ErrWeakPassword}
}

// ConfirmPassword checks that the confirmation typed by the user matches.
func ConfirmPassword(password, confirm string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(confirm)) != 1 {
		return &ValidationError{Field: "confirm_password", Message: "passwords do not match", Err: ErrPasswordMismatch}
	}
	return nil
}

// ValidateKey checks if a key has the correct size
func ValidateKey(key []byte, expectedSize int) error {
	if key == nil {
		return &ValidationError{
			Field:   "key",
			Message: "key cannot be nil",
		}
	}

	if len(key) != expectedSize {
		return &ValidationError{
			Field:   "key",
			Value:   len(key),
			Message: fmt.Sprintf("invalid key size: got %d bytes, expected %d bytes", len(key), expectedSize),
		}
	}

	return nil
}

// ValidateFilePath checks if a file path is valid (not empty)
func ValidateFilePath(path string) error {
	if path == "" {
		return &ValidationError{
			Field:   "path",
			Message: "file path cannot be empty",
		}
	}
	return nil
}
