// Package filelock protects individual files with a password.
//
// # Overview
//
// A Locker works on any FileSystem (the subset of absfs.FileSystem it
// needs). Protect writes an encrypted copy of a file next to it and records
// the password for that directory; Extract checks the password against the
// record and writes the plaintext back out.
//
//	locker, err := filelock.New(filelock.OSFileSystem{}, filelock.DefaultConfig())
//	if err != nil {
//	    panic(err)
//	}
//
//	protected, err := locker.Protect("/d/report.txt", "Abc123!")
//	// protected == "/d/reportProtected.txt", and /d/password.txt.encrypted exists
//
//	extracted, err := locker.Extract(protected, "Abc123!")
//	// extracted == "/d/report.txt"
//
// # Passwords
//
// ValidatePasswordStrength accepts passwords made only of ASCII letters,
// digits and the symbols @$!%*#?&, with at least one of each class.
// ConfirmPassword compares a password with its confirmation.
//
// # Keys
//
// Keys are never stored. Each artifact carries a KeyRef (KDF, cost
// parameters and a random salt) and the key is derived from the password
// with Argon2id (default) or PBKDF2, then expanded with HKDF-SHA256 under a
// purpose label so file keys and record keys are always distinct.
//
// # File Format
//
// Protected files and password records share one layout:
//   - Key reference (42 bytes): KDF id, three cost parameters, 32-byte salt
//   - Cipher suite (1 byte): AES-256-GCM or ChaCha20-Poly1305
//   - Nonce (12 bytes)
//   - Ciphertext (variable) followed by the 16-byte authentication tag
//
// # Password Records
//
// Each directory has one record, password.txt.encrypted, holding the
// password sealed under itself. Verification opens it with a key derived
// from the candidate and compares in constant time. Protect reuses a record
// that already holds the same password and refuses to replace one for a
// different password unless Config.ConfirmVaultOverwrite agrees, because
// replacing it locks out files protected under the old password.
//
// # Errors
//
// Every failure matches one sentinel with errors.Is (ErrWeakPassword,
// ErrSourceNotFound, ErrIncorrectPassword, ...). KindOf maps an error to a
// Kind whose Message is suitable for display.
//
// # Concurrency
//
// Operations on the same directory are serialized inside a Locker, and all
// writes replace their target atomically, so a record or protected file is
// never observed half-written.
package filelock
