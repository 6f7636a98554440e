// Package safefileio provides file creation helpers that refuse to follow
// symbolic links at the final path component.
package safefileio

import "errors"

var (
	// ErrInvalidFilePath indicates that the specified file path is invalid.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrIsSymlink indicates that the specified path is a symbolic link, which is not allowed.
	ErrIsSymlink = errors.New("path is a symbolic link")

	// ErrFileExists indicates that the file already exists.
	ErrFileExists = errors.New("file exists")

	// ErrNotRegularFile indicates that the path names a device, pipe, directory or other non-regular file.
	ErrNotRegularFile = errors.New("not a regular file")
)
