//go:build windows

package pathlib

import "golang.org/x/sys/windows"

func FreeSpace(directory string) (uint64, error) {
	var available, total, free uint64
	err := windows.GetDiskFreeSpaceEx(windows.StringToUTF16Ptr(directory), &available, &total, &free)
	if err != nil {
		return 0, err
	}
	return available, nil
}
