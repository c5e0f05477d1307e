package pathlib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/veldtlabs/sbomstage/common"
)

func Exists(pathname string) bool {
	_, err := os.Stat(pathname)
	return err == nil
}

func IsFile(pathname string) bool {
	stat, err := os.Stat(pathname)
	return err == nil && stat.Mode().IsRegular()
}

func IsDir(pathname string) bool {
	stat, err := os.Stat(pathname)
	return err == nil && stat.IsDir()
}

func Abs(path string) (string, error) {
	fullpath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(fullpath), nil
}

func Size(pathname string) (int64, bool) {
	stat, err := os.Stat(pathname)
	if err != nil {
		return 0, false
	}
	return stat.Size(), true
}

func Create(filename string) (*os.File, error) {
	err := EnsureDirectory(filepath.Dir(filename))
	if err != nil {
		return nil, err
	}
	return os.Create(filename)
}

func EnsureDirectory(directory string) error {
	if IsDir(directory) {
		return nil
	}
	err := os.MkdirAll(directory, 0o750)
	if err != nil {
		return err
	}
	common.Trace("created directory %q", directory)
	return nil
}

func TempDir() string {
	base := os.TempDir()
	_, err := EnsureSpace(base, 1)
	if err != nil {
		common.Uncritical("tempdir", err)
	}
	return base
}

func WriteFile(filename string, blob []byte, mode os.FileMode) error {
	err := EnsureDirectory(filepath.Dir(filename))
	if err != nil {
		return err
	}
	return os.WriteFile(filename, blob, mode)
}

// EnsureSpace verifies that the filesystem holding given directory has
// at least `megs` megabytes free, returning the free byte count.
func EnsureSpace(directory string, megs uint64) (uint64, error) {
	free, err := FreeSpace(directory)
	if err != nil {
		return 0, err
	}
	needed := megs * 1024 * 1024
	if free < needed {
		return free, fmt.Errorf("Only %d bytes free at %q, need at least %d.", free, directory, needed)
	}
	return free, nil
}
