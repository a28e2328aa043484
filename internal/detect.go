package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// DefaultStorePath returns the standard location of the Messages store for
// the current OS. On anything other than macOS there is no standard
// location and the caller must supply a path explicitly.
func DefaultStorePath() (string, error) {
	if runtime.GOOS != "darwin" {
		return "", fmt.Errorf("no default store location on %s; pass --db", runtime.GOOS)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "Library/Messages/chat.db"), nil
}

// StoreExists checks whether a store file is present at path.
func StoreExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CopyStoreToTemp copies the store, along with any WAL and shared-memory
// sidecars, into a fresh temporary directory and returns the copied store
// path. Messages keeps the live store locked while the app runs; working
// off a copy avoids both the lock and any chance of touching the original.
func CopyStoreToTemp(path string) (string, error) {
	tmpDir := filepath.Join(os.TempDir(), "imessage-session-"+uuid.New().String())
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	dst := filepath.Join(tmpDir, filepath.Base(path))
	if err := copyFile(path, dst); err != nil {
		return "", fmt.Errorf("failed to copy store: %w", err)
	}

	// Sidecars are optional; a missing one just means the store was
	// checkpointed cleanly.
	for _, suffix := range []string{"-wal", "-shm"} {
		src := path + suffix
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, dst+suffix); err != nil {
			return "", fmt.Errorf("failed to copy %s sidecar: %w", suffix, err)
		}
	}

	LogDebug("Copied store %s to %s", path, dst)
	return dst, nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Close()
}
