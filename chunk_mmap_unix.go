//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapChunks maps anonymous private memory for each chunk, keeping large
// arenas off the Go heap entirely.
type MmapChunks struct{}

func (MmapChunks) Alloc(size int) ([]byte, error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return buf, nil
}

func (MmapChunks) Free(buf []byte) error {
	if err := unix.Munmap(buf); err != nil {
		return fmt.Errorf("munmap %d bytes: %w", len(buf), err)
	}
	return nil
}
