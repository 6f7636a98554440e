// Package inputs resolves the command-line inputs of a generate run into the
// ordered list of files to digest.
package inputs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/isseis/go-lzjd/internal/common"
)

// ErrNoInputs indicates that no input paths were given.
var ErrNoInputs = errors.New("no input files specified")

// Expand returns the files named by paths. Without recursion the paths are
// returned as given. With recursion every path is walked in lexical order and
// each regular file found is returned; a symlink is included when it resolves
// to a regular file. Inputs keep their relative order.
func Expand(paths []string, recursive bool) ([]string, error) {
	if len(paths) == 0 {
		return nil, &common.Error{Kind: common.ErrUsage, Op: "resolve inputs", Err: ErrNoInputs}
	}
	if !recursive {
		return append([]string(nil), paths...), nil
	}

	var files []string
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return common.NewIOError("walk", path, err)
			}
			ok, err := isFile(path, d)
			if err != nil {
				return common.NewIOError("stat", path, err)
			}
			if ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isFile(path string, d fs.DirEntry) (bool, error) {
	switch {
	case d.Type().IsRegular():
		return true, nil
	case d.Type()&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// dangling link
				return false, nil
			}
			return false, fmt.Errorf("resolve symlink: %w", err)
		}
		return info.Mode().IsRegular(), nil
	default:
		return false, nil
	}
}
