//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package arena

// MmapChunks falls back to heap chunks where anonymous mappings are not
// available.
type MmapChunks struct{}

func (MmapChunks) Alloc(size int) ([]byte, error) {
	return HeapChunks{}.Alloc(size)
}

func (MmapChunks) Free(buf []byte) error {
	return HeapChunks{}.Free(buf)
}
