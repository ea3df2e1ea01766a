package filelock

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestVault(t *testing.T) (*Vault, string) {
	t.Helper()
	v, err := NewVault(OSFileSystem{}, testConfig())
	if err != nil {
		t.Fatalf("NewVault() failed: %v", err)
	}
	return v, t.TempDir()
}

func TestVault_StoreVerify(t *testing.T) {
	v, dir := newTestVault(t)

	if err := v.Store(dir, "Abc123!"); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	if got := v.Path(dir); got != filepath.Join(dir, DefaultVaultFileName) {
		t.Errorf("Path() = %q", got)
	}
	ok, err := v.Exists(dir)
	if err != nil || !ok {
		t.Fatalf("Exists() = %v, %v; want true, nil", ok, err)
	}

	ok, err = v.Verify(dir, "Abc123!")
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if !ok {
		t.Error("Verify() rejected the stored password")
	}

	for _, wrong := range []string{"", "Abc123", "abc123!", "Abc123!!", "Xyz789#"} {
		ok, err := v.Verify(dir, wrong)
		if err != nil {
			t.Errorf("Verify(%q) failed: %v", wrong, err)
		}
		if ok {
			t.Errorf("Verify(%q) accepted a wrong password", wrong)
		}
	}
}

func TestVault_NoPlaintextOnDisk(t *testing.T) {
	v, dir := newTestVault(t)

	if err := v.Store(dir, "Abc123!"); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	names := listDir(t, dir)
	if len(names) != 1 || names[0] != DefaultVaultFileName {
		t.Errorf("directory contains %v, want only %s", names, DefaultVaultFileName)
	}

	blob := readTestFile(t, v.Path(dir))
	if bytes.Contains(blob, []byte("Abc123!")) {
		t.Error("record contains the plaintext password")
	}
	info, err := os.Stat(v.Path(dir))
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("record mode = %o, want 600", perm)
	}
}

func TestVault_StoreOverwrites(t *testing.T) {
	v, dir := newTestVault(t)

	if err := v.Store(dir, "Abc123!"); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	if err := v.Store(dir, "Xyz789#"); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	if ok, _ := v.Verify(dir, "Abc123!"); ok {
		t.Error("old password still verifies after overwrite")
	}
	if ok, _ := v.Verify(dir, "Xyz789#"); !ok {
		t.Error("new password does not verify")
	}
}

func TestVault_RecordNotFound(t *testing.T) {
	v, dir := newTestVault(t)

	ok, err := v.Verify(dir, "Abc123!")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Verify() error = %v, want ErrRecordNotFound", err)
	}
	if ok {
		t.Error("Verify() = true without a record")
	}

	exists, err := v.Exists(dir)
	if err != nil || exists {
		t.Errorf("Exists() = %v, %v; want false, nil", exists, err)
	}
}

func TestVault_Malformed(t *testing.T) {
	v, dir := newTestVault(t)
	writeTestFile(t, v.Path(dir), []byte("gAAAAAB-not-a-record"))

	_, err := v.Verify(dir, "Abc123!")
	if !errors.Is(err, ErrMalformedBlob) {
		t.Errorf("Verify() error = %v, want ErrMalformedBlob", err)
	}
}

func TestVault_FileBlobIsNotARecord(t *testing.T) {
	v, dir := newTestVault(t)

	// A protected file sealed with the same password must not pass as a record.
	blob, err := sealBlob(testConfig(), []byte("Abc123!"), purposeFile, []byte("Abc123!"))
	if err != nil {
		t.Fatalf("sealBlob() failed: %v", err)
	}
	writeTestFile(t, v.Path(dir), blob)

	ok, err := v.Verify(dir, "Abc123!")
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if ok {
		t.Error("Verify() accepted a file blob as a password record")
	}
}

func TestVault_CustomFileName(t *testing.T) {
	cfg := testConfig()
	cfg.VaultFileName = ".filelock"
	v, err := NewVault(OSFileSystem{}, cfg)
	if err != nil {
		t.Fatalf("NewVault() failed: %v", err)
	}
	dir := t.TempDir()

	if err := v.Store(dir, "Abc123!"); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	if !fileExists(filepath.Join(dir, ".filelock")) {
		t.Error("record not written under the configured name")
	}
}

func TestNewVault_Invalid(t *testing.T) {
	if _, err := NewVault(nil, testConfig()); !errors.Is(err, ErrNilFileSystem) {
		t.Errorf("NewVault(nil) error = %v, want ErrNilFileSystem", err)
	}
	if _, err := NewVault(OSFileSystem{}, nil); !errors.Is(err, ErrNilConfig) {
		t.Errorf("NewVault(nil config) error = %v, want ErrNilConfig", err)
	}
}
