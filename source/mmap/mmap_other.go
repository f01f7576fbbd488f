//go:build !unix

package mmap

import (
	"io"
	"os"

	"github.com/meigma/upkg/internal/sizing"
)

func mapFile(f *os.File, size int64) ([]byte, bool, error) {
	n, err := sizing.ToInt(size, ErrTooLarge)
	if err != nil {
		return nil, false, err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, false, err
	}
	return data, false, nil
}

func unmap([]byte) error {
	return nil
}
