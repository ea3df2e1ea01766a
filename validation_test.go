package filelock

import (
	"errors"
	"testing"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abc123!", true},
		{"a1@", true},
		{"ZZZ999&&&", true},
		{"p4ss$word", true},
		{"", false},
		{"abcdef", false},    // no digit, no symbol
		{"123456", false},    // no letter, no symbol
		{"!!!!", false},      // no letter, no digit
		{"abc123", false},    // no symbol
		{"abc!!!", false},    // no digit
		{"123!!!", false},    // no letter
		{"Abc 123!", false},  // space is not allowed
		{"Abc123^", false},   // ^ is not in the symbol set
		{"Abc123!^", false},  // one disallowed character is enough
		{"Äbc123!", false},   // non-ASCII letter
		{"Abc١٢٣!", false},   // non-ASCII digits
		{"Abc123!\n", false}, // trailing newline
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			if got := ValidatePasswordStrength(tt.password); got != tt.want {
				t.Errorf("ValidatePasswordStrength(%q) = %v, want %v", tt.password, got, tt.want)
			}

			err := CheckPasswordStrength(tt.password)
			if tt.want && err != nil {
				t.Errorf("CheckPasswordStrength(%q) = %v, want nil", tt.password, err)
			}
			if !tt.want && !errors.Is(err, ErrWeakPassword) {
				t.Errorf("CheckPasswordStrength(%q) = %v, want ErrWeakPassword", tt.password, err)
			}
		})
	}
}

func TestConfirmPassword(t *testing.T) {
	if err := ConfirmPassword("Abc123!", "Abc123!"); err != nil {
		t.Errorf("ConfirmPassword() with matching passwords = %v", err)
	}

	for _, confirm := range []string{"", "Abc123", "abc123!", "Abc123!!"} {
		err := ConfirmPassword("Abc123!", confirm)
		if !errors.Is(err, ErrPasswordMismatch) {
			t.Errorf("ConfirmPassword(%q) = %v, want ErrPasswordMismatch", confirm, err)
		}
		if KindOf(err) != KindPasswordMismatch {
			t.Errorf("KindOf() = %v, want PasswordMismatch", KindOf(err))
		}
	}
}

// TestConfig_Validate tests the Config validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  func() *Config
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  func() *Config { return nil },
			wantErr: true,
		},
		{
			name:    "default config",
			config:  DefaultConfig,
			wantErr: false,
		},
		{
			name: "unsupported cipher",
			config: func() *Config {
				c := testConfig()
				c.Cipher = CipherSuite(99)
				return c
			},
			wantErr: true,
		},
		{
			name: "auto cipher",
			config: func() *Config {
				c := testConfig()
				c.Cipher = CipherAuto
				return c
			},
			wantErr: false,
		},
		{
			name: "missing kdf",
			config: func() *Config {
				c := testConfig()
				c.KDF = 0
				return c
			},
			wantErr: true,
		},
		{
			name: "pbkdf2 with defaults",
			config: func() *Config {
				c := testConfig()
				c.KDF = KDFPBKDF2
				return c
			},
			wantErr: false,
		},
		{
			name: "pbkdf2 with weak iterations",
			config: func() *Config {
				c := testConfig()
				c.KDF = KDFPBKDF2
				c.PBKDF2.Iterations = 1000
				return c
			},
			wantErr: true,
		},
		{
			name: "vault file with separator",
			config: func() *Config {
				c := testConfig()
				c.VaultFileName = "../password.txt.encrypted"
				return c
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config().Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Config.Validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Config.Validate() unexpected error = %v", err)
			}
		})
	}
}

// TestArgon2idParams_Validate tests Argon2id parameter validation
func TestArgon2idParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		params Argon2idParams
		errMsg string
	}{
		{"memory too low", Argon2idParams{Memory: 4 * 1024, Iterations: 1, Parallelism: 2}, "argon2id memory must be at least 8 MiB"},
		{"memory too high", Argon2idParams{Memory: 5 * 1024 * 1024, Iterations: 1, Parallelism: 2}, "argon2id memory must not exceed 4 GiB"},
		{"iterations too low", Argon2idParams{Memory: 64 * 1024, Iterations: 0, Parallelism: 2}, "argon2id iterations must be at least 1"},
		{"iterations too high", Argon2idParams{Memory: 64 * 1024, Iterations: 200, Parallelism: 2}, "argon2id iterations must not exceed 100"},
		{"parallelism too low", Argon2idParams{Memory: 64 * 1024, Iterations: 1, Parallelism: 0}, "argon2id parallelism must be at least 1"},
		{"valid params", Argon2idParams{Memory: 64 * 1024, Iterations: 3, Parallelism: 4}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("Argon2idParams.Validate() unexpected error = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Argon2idParams.Validate() error = %v, want *ValidationError", err)
			}
			if ve.Message != tt.errMsg {
				t.Errorf("Argon2idParams.Validate() message = %q, want %q", ve.Message, tt.errMsg)
			}
		})
	}
}

// TestPBKDF2Params_Validate tests PBKDF2 parameter validation
func TestPBKDF2Params_Validate(t *testing.T) {
	tests := []struct {
		name   string
		params PBKDF2Params
		errMsg string
	}{
		{"iterations too low", PBKDF2Params{Iterations: 50000, HashFunc: SHA256}, "pbkdf2 iterations must be at least 100,000"},
		{"iterations too high", PBKDF2Params{Iterations: 20000000, HashFunc: SHA256}, "pbkdf2 iterations must not exceed 10,000,000"},
		{"invalid hash function", PBKDF2Params{Iterations: 100000, HashFunc: HashFunc(99)}, "pbkdf2 hash function must be SHA256 or SHA512"},
		{"valid SHA256 params", PBKDF2Params{Iterations: 200000, HashFunc: SHA256}, ""},
		{"valid SHA512 params", PBKDF2Params{Iterations: 100000, HashFunc: SHA512}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("PBKDF2Params.Validate() unexpected error = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("PBKDF2Params.Validate() error = %v, want *ValidationError", err)
			}
			if ve.Message != tt.errMsg {
				t.Errorf("PBKDF2Params.Validate() message = %q, want %q", ve.Message, tt.errMsg)
			}
		})
	}
}

func TestParseCipherSuite(t *testing.T) {
	for _, suite := range []CipherSuite{CipherAuto, CipherAES256GCM, CipherChaCha20Poly1305} {
		got, err := ParseCipherSuite(suite.String())
		if err != nil || got != suite {
			t.Errorf("ParseCipherSuite(%q) = %v, %v; want %v", suite.String(), got, err, suite)
		}
	}
	if _, err := ParseCipherSuite("rot13"); !errors.Is(err, ErrUnsupportedCipher) {
		t.Errorf("ParseCipherSuite(rot13) error = %v, want ErrUnsupportedCipher", err)
	}
}

func TestParseKDF(t *testing.T) {
	for _, kdf := range []KDF{KDFArgon2id, KDFPBKDF2} {
		got, err := ParseKDF(kdf.String())
		if err != nil || got != kdf {
			t.Errorf("ParseKDF(%q) = %v, %v; want %v", kdf.String(), got, err, kdf)
		}
	}
	if _, err := ParseKDF("scrypt"); err == nil {
		t.Error("ParseKDF(scrypt) succeeded")
	}
}

func TestValidateFilePath(t *testing.T) {
	if err := ValidateFilePath(""); !IsValidationError(err) {
		t.Errorf("ValidateFilePath(\"\") = %v, want ValidationError", err)
	}
	if err := ValidateFilePath("/d/report.txt"); err != nil {
		t.Errorf("ValidateFilePath() = %v, want nil", err)
	}
}
