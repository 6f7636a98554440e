package safefileio

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// OpenFile opens filePath with O_NOFOLLOW added to flag and verifies that the
// result is a regular file. A symlink at the final component yields
// ErrIsSymlink; an existing file opened with O_EXCL yields ErrFileExists.
func OpenFile(filePath string, flag int, perm os.FileMode) (*os.File, error) {
	if filePath == "" {
		return nil, ErrInvalidFilePath
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}

	// #nosec G304 - absPath is cleaned and O_NOFOLLOW rejects symlinks
	file, err := os.OpenFile(absPath, flag|syscall.O_NOFOLLOW, perm)
	if err != nil {
		switch {
		case os.IsExist(err):
			return nil, ErrFileExists
		case isNoFollowError(err):
			return nil, ErrIsSymlink
		default:
			return nil, err
		}
	}

	// Check through the descriptor, not the path, so a swap after open is harmless.
	if err := validateFile(file, absPath); err != nil {
		_ = file.Close()
		return nil, err
	}
	return file, nil
}

// CreateFile creates or truncates filePath for writing.
func CreateFile(filePath string, perm os.FileMode) (*os.File, error) {
	return OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
}

// CreateNewFile creates filePath for writing and fails if it already exists.
func CreateNewFile(filePath string, perm os.FileMode) (*os.File, error) {
	return OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
}

func validateFile(file *os.File, filePath string) error {
	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, filePath)
	}
	return nil
}
