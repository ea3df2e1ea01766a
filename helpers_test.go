package filelock

import (
	"os"
	"path/filepath"
	"testing"
)

// testConfig returns a config with the cheapest Argon2id parameters Validate
// accepts, to keep the suite fast.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Argon2id = Argon2idParams{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
	}
	return cfg
}

func newTestLocker(t *testing.T, cfg *Config) (*Locker, string) {
	t.Helper()

	if cfg == nil {
		cfg = testConfig()
	}
	l, err := New(OSFileSystem{}, cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return l, t.TempDir()
}

func writeTestFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readTestFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

// listDir returns the sorted base names in dir.
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func fileExists(path string) bool {
	_, err := os.Stat(filepath.Clean(path))
	return err == nil
}
