//go:build !netbsd

package safefileio

import (
	"errors"
	"os"
	"syscall"
)

// isNoFollowError reports whether err came from O_NOFOLLOW hitting a symlink.
// Linux reports ELOOP; FreeBSD and friends report EMLINK.
func isNoFollowError(err error) bool {
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		return false
	}
	return errors.Is(pathErr.Err, syscall.ELOOP) || errors.Is(pathErr.Err, syscall.EMLINK)
}
