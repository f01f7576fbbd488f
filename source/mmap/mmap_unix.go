//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/meigma/upkg/internal/sizing"
)

func mapFile(f *os.File, size int64) ([]byte, bool, error) {
	if size == 0 {
		return nil, false, nil
	}
	n, err := sizing.ToInt(size, ErrTooLarge)
	if err != nil {
		return nil, false, err
	}
	data, err := unix.Mmap(int(f.Fd()), 0, n, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func unmap(data []byte) error {
	return unix.Munmap(data)
}
