package ioutils

import (
	"os"
	"path/filepath"
)

// EnsureDir creates a directory and all missing parents with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to a file with mode 0644, truncating any
// existing content. The parent directory must already exist.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// FileSize returns the size of a regular file in bytes, or an error if
// the path does not exist or is a directory.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, &os.PathError{Op: "size", Path: path, Err: os.ErrInvalid}
	}
	return info.Size(), nil
}

// ImageExtension guesses a file extension from a remote image URL.
// Unknown or missing extensions fall back to ".jpg" since Bandcamp
// serves covers as JPEG by default.
func ImageExtension(url string) string {
	switch ext := filepath.Ext(url); ext {
	case ".jpg", ".jpeg", ".png", ".gif":
		return ext
	default:
		return ".jpg"
	}
}
