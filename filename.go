package filelock

import (
	"path/filepath"
	"strings"
)

// ProtectedMarker is inserted between a file's stem and its extension to
// name the protected copy.
const ProtectedMarker = "Protected"

// ProtectedPath returns the path of the protected copy of path:
// "dir/report.txt" becomes "dir/reportProtected.txt". It depends only on
// the path, never on file content.
func ProtectedPath(path string) string {
	dir, base := filepath.Split(path)
	stem, ext := splitExt(base)
	return dir + stem + ProtectedMarker + ext
}

// ExtractedPath inverts ProtectedPath by removing the last marker from the
// stem. Names without a marker match ErrNotProtected.
func ExtractedPath(path string) (string, error) {
	dir, base := filepath.Split(path)
	stem, ext := splitExt(base)

	i := strings.LastIndex(stem, ProtectedMarker)
	if i < 0 {
		return "", &ValidationError{
			Field:   "path",
			Value:   path,
			Message: "name does not contain " + ProtectedMarker,
			Err:     ErrNotProtected,
		}
	}
	stem = stem[:i] + stem[i+len(ProtectedMarker):]
	if stem+ext == "" {
		return "", &ValidationError{
			Field:   "path",
			Value:   path,
			Message: "extracted name would be empty",
			Err:     ErrNotProtected,
		}
	}
	return dir + stem + ext, nil
}

// splitExt splits base into stem and extension. Leading dots belong to the
// stem, so ".bashrc" has no extension.
func splitExt(base string) (stem, ext string) {
	ext = filepath.Ext(base)
	stem = base[:len(base)-len(ext)]
	if strings.Trim(stem, ".") == "" {
		return base, ""
	}
	return stem, ext
}
