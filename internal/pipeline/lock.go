package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/michael-freling/claude-code-quality-gate/internal/command"
)

const lockFilePrefix = "claude-quality-gate-"

// lockPathFor derives the lock file of filePath inside lockDir.
func lockPathFor(lockDir, filePath string) (string, error) {
	if lockDir == "" {
		lockDir = os.TempDir()
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", filePath, err)
	}
	sum := sha256.Sum256([]byte(absPath))
	return filepath.Join(lockDir, lockFilePrefix+hex.EncodeToString(sum[:8])+".lock"), nil
}

// lockTarget takes an exclusive lock tied to filePath so that two hook
// processes never run the mutating phases on the same file concurrently.
// It waits for the lock without a deadline.
func lockTarget(lockDir, filePath string) (*flock.Flock, error) {
	lockPath, err := lockPathFor(lockDir, filePath)
	if err != nil {
		return nil, err
	}

	for {
		fileLock := flock.New(lockPath)
		if err := fileLock.Lock(); err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", lockPath, err)
		}
		// A lock on a file the previous holder already removed guards nothing.
		if command.FileExists(lockPath) {
			return fileLock, nil
		}
		_ = fileLock.Unlock()
	}
}

// releaseTarget removes the lock file while still holding the lock, then unlocks.
func releaseTarget(fileLock *flock.Flock) error {
	removeErr := os.Remove(fileLock.Path())
	if err := fileLock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", fileLock.Path(), err)
	}
	if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock %s: %w", fileLock.Path(), removeErr)
	}
	return nil
}
