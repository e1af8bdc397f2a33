package arena

import (
	"log/slog"
	"sync/atomic"
	"unsafe"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// DefaultAlign is the alignment used by AllocBytes: two pointer words.
const DefaultAlign = int(2 * unsafe.Sizeof(uintptr(0)))

// chunk represents a single memory chunk within an arena.
type chunk struct {
	buf  []byte // backing memory
	used int    // bump cursor within buf
}

// provenance hands out arena tokens. It is shared by every arena so that a
// token captured from one arena never matches another.
var provenance atomic.Uint64

func nextToken() uint64 {
	return provenance.Add(1)
}

// Arena is a chunked bump allocator. It is single-owner: one goroutine at a
// time, no internal locking. Use a Pool to hand arenas out to workers.
type Arena struct {
	chunks    []chunk
	chunkSize int
	current   int // index of the chunk being bumped into

	// token changes on every mutation of the bump cursor. A container whose
	// recorded token still equals it owns the most recent allocation.
	token uint64

	source ChunkSource
	log    *slog.Logger
	trace  Trace
	stats  counters
}

type counters struct {
	inUse       int
	peak        int
	allocations uint64
	tailGrowths uint64
	relocations uint64
	chunkReuses uint64
}

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithLogger routes chunk lifecycle debug logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.log = l
		}
	}
}

// WithChunkSource makes the arena obtain its chunks from src.
func WithChunkSource(src ChunkSource) Option {
	return func(a *Arena) {
		if src != nil {
			a.source = src
		}
	}
}

// NewArena creates a new Arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int, opts ...Option) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{
		chunkSize: chunkSize,
		source:    HeapChunks{},
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.grow(chunkSize)
	a.token = nextToken()
	return a
}

// Allocate returns a zeroed block of size bytes whose address is a multiple
// of align. The block stays valid until Clear or Destroy.
// Returns nil if size <= 0. align must be a power of two.
func (a *Arena) Allocate(size, align int) []byte {
	a.panicIfDestroyed()
	if align <= 0 || align&(align-1) != 0 {
		Die("arena: alignment %d is not a power of two", align)
	}
	if size <= 0 {
		return nil
	}

	// Fast path: the block fits behind the cursor of the current chunk.
	c := &a.chunks[a.current]
	off := alignOffset(c.buf, c.used, align)
	if off+size > len(c.buf) {
		c = a.advance(size, align)
		off = alignOffset(c.buf, 0, align)
	}

	end := off + size
	a.stats.inUse += end - c.used
	c.used = end
	a.token = nextToken()
	a.stats.allocations++
	a.notePeak()

	b := c.buf[off:end:end]
	clear(b)
	return b
}

// AllocBytes returns n zeroed bytes aligned to DefaultAlign.
// Returns nil if n <= 0.
func (a *Arena) AllocBytes(n int) []byte {
	return a.Allocate(n, DefaultAlign)
}

// advance moves the cursor to the next chunk able to hold size bytes at
// align. Chunks retained by Clear are scanned first; chunks that are too
// small are skipped until the next Clear.
func (a *Arena) advance(size, align int) *chunk {
	for a.current+1 < len(a.chunks) {
		a.current++
		c := &a.chunks[a.current]
		if alignOffset(c.buf, 0, align)+size <= len(c.buf) {
			a.stats.chunkReuses++
			a.log.Debug("arena: reusing chunk", "index", a.current, "capacity", len(c.buf))
			return c
		}
	}
	a.grow(max(size+align-1, a.chunkSize))
	return &a.chunks[a.current]
}

// grow appends a new chunk of size bytes and makes it current.
func (a *Arena) grow(size int) {
	buf, err := a.source.Alloc(size)
	if err != nil {
		Die("arena: chunk allocation of %d bytes failed: %v", size, err)
	}
	a.chunks = append(a.chunks, chunk{buf: buf})
	a.current = len(a.chunks) - 1
	a.log.Debug("arena: new chunk", "index", a.current, "capacity", size)
}

// extend advances the cursor by n bytes in place. It succeeds only when
// token still identifies the most recent allocation and the current chunk
// has room, so the caller's block simply becomes n bytes longer.
func (a *Arena) extend(token uint64, n int) bool {
	if token == 0 || token != a.token {
		return false
	}
	c := &a.chunks[a.current]
	if c.used+n > len(c.buf) {
		return false
	}
	clear(c.buf[c.used : c.used+n])
	c.used += n
	a.stats.inUse += n
	a.stats.tailGrowths++
	a.token = nextToken()
	a.notePeak()
	return true
}

// retract gives the last n bytes of the most recent allocation back.
func (a *Arena) retract(token uint64, n int) bool {
	if token == 0 || token != a.token {
		return false
	}
	c := &a.chunks[a.current]
	if n > c.used {
		return false
	}
	c.used -= n
	a.stats.inUse -= n
	a.token = nextToken()
	return true
}

// Clear rewinds the cursor to the root chunk but keeps every chunk for reuse.
// All memory previously handed out becomes invalid.
func (a *Arena) Clear() {
	a.panicIfDestroyed()
	for i := range a.chunks {
		a.chunks[i].used = 0
	}
	a.current = 0
	a.stats.inUse = 0
	a.token = nextToken()
}

// Destroy returns every chunk to its source and makes the arena unusable.
// Any subsequent operation is fatal. Destroy is idempotent.
func (a *Arena) Destroy() {
	for _, c := range a.chunks {
		if err := a.source.Free(c.buf); err != nil {
			Die("arena: releasing chunk failed: %v", err)
		}
	}
	a.chunks = nil
	a.current = 0
	a.token = 0
	a.stats.inUse = 0
}

// Trace returns the diagnostic frame stack owned by this arena.
func (a *Arena) Trace() *Trace {
	return &a.trace
}

func (a *Arena) notePeak() {
	if a.stats.inUse > a.stats.peak {
		a.stats.peak = a.stats.inUse
	}
}

// panicIfDestroyed is fatal if the arena has been destroyed.
func (a *Arena) panicIfDestroyed() {
	if a.chunks == nil {
		Die("arena: use after Destroy()")
	}
}

// alignOffset returns the smallest offset >= off within buf whose absolute
// address is a multiple of align.
func alignOffset(buf []byte, off, align int) int {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	mask := uintptr(align - 1)
	addr := (base + uintptr(off) + mask) &^ mask
	return int(addr - base)
}
