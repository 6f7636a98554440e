//go:build netbsd

package safefileio

import (
	"errors"
	"os"
	"syscall"
)

// isNoFollowError reports whether err came from O_NOFOLLOW hitting a symlink;
// NetBSD uses EFTYPE for that case.
func isNoFollowError(err error) bool {
	var e *os.PathError
	if !errors.As(err, &e) {
		return false
	}
	return errors.Is(e.Err, syscall.EFTYPE)
}
