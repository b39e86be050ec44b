// Package fsops implements the file system primitives used by recipes.
// Removal and folder creation are idempotent; copies fail when the
// source is missing.
package fsops

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rotisserie/eris"
)

const dirPerm = 0o755

// RemoveFile deletes path. It reports false when there was nothing to delete
func RemoveFile(path string) (bool, error) {
	_, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, eris.Wrapf(err, "failed to check %s", path)
	}

	err = os.Remove(path)
	if err != nil {
		return false, eris.Wrapf(err, "failed to delete file %s", path)
	}

	return true, nil
}

// RemoveDir deletes the tree rooted at path. It reports false when there
// was nothing to delete
func RemoveDir(path string) (bool, error) {
	_, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, eris.Wrapf(err, "failed to check %s", path)
	}

	err = os.RemoveAll(path)
	if err != nil {
		return false, eris.Wrapf(err, "failed to delete folder %s", path)
	}

	return true, nil
}

// MakeDir creates path (but not its parents). It reports false when the
// folder already existed
func MakeDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return false, eris.Errorf("%s exists and is not a folder", path)
		}

		return false, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return false, eris.Wrapf(err, "failed to check %s", path)
	}

	err = os.Mkdir(path, dirPerm)
	if err != nil {
		return false, eris.Wrapf(err, "failed to create folder %s", path)
	}

	return true, nil
}

// CopyFile copies src over dst keeping the permission bits of src
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "failed to open %s", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return eris.Wrapf(err, "failed to stat %s", src)
	}

	if info.IsDir() {
		return eris.Errorf("%s is a folder", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return eris.Wrapf(err, "failed to create %s", dst)
	}

	_, err = io.Copy(out, in)
	if err != nil {
		out.Close()
		return eris.Wrapf(err, "failed to copy %s to %s", src, dst)
	}

	err = out.Close()
	if err != nil {
		return eris.Wrapf(err, "failed to write %s", dst)
	}

	// OpenFile only applies the mode to files it creates
	err = os.Chmod(dst, info.Mode().Perm())
	if err != nil {
		return eris.Wrapf(err, "failed to set the mode of %s", dst)
	}

	return nil
}

// CopyDir copies the tree rooted at src into dst. dst is created if needed
func CopyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return eris.Wrapf(err, "failed to read folder %s", src)
	}

	if !info.IsDir() {
		return eris.Errorf("%s is not a folder", src)
	}

	err = os.MkdirAll(dst, info.Mode().Perm())
	if err != nil {
		return eris.Wrapf(err, "failed to create folder %s", dst)
	}

	matches, err := doublestar.Glob(os.DirFS(src), "**/*")
	if err != nil {
		return eris.Wrapf(err, "failed to list %s", src)
	}

	// matches are not guaranteed to list parents before their children
	for _, match := range matches {
		from := filepath.Join(src, filepath.FromSlash(match))
		to := filepath.Join(dst, filepath.FromSlash(match))
		entry, err := os.Stat(from)
		if err != nil {
			return eris.Wrapf(err, "failed to stat %s", from)
		}

		if entry.IsDir() {
			err = os.MkdirAll(to, entry.Mode().Perm())
			if err != nil {
				return eris.Wrapf(err, "failed to create folder %s", to)
			}
			continue
		}

		err = os.MkdirAll(filepath.Dir(to), dirPerm)
		if err != nil {
			return eris.Wrapf(err, "failed to create folder %s", filepath.Dir(to))
		}

		err = CopyFile(from, to)
		if err != nil {
			return err
		}
	}

	return nil
}
