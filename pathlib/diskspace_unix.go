//go:build !windows

package pathlib

import "golang.org/x/sys/unix"

func FreeSpace(directory string) (uint64, error) {
	var stats unix.Statfs_t
	err := unix.Statfs(directory, &stats)
	if err != nil {
		return 0, err
	}
	return stats.Bavail * uint64(stats.Bsize), nil
}
