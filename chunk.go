package arena

// ChunkSource supplies the raw memory an arena carves allocations from.
// Alloc must return exactly size bytes; Free receives the same slice back.
//
// Memory from a ChunkSource is not scanned by the garbage collector for
// pointers. Values placed in an arena must not hold the only reference to
// Go heap memory.
type ChunkSource interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte) error
}

// HeapChunks allocates chunks with make. It is the default source.
type HeapChunks struct{}

func (HeapChunks) Alloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func (HeapChunks) Free([]byte) error {
	return nil
}
