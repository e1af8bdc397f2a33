package arena_test

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/arena/v2"
)

func assertFatal(t *testing.T, name, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		fe, ok := recover().(*arena.FatalError)
		if assert.Truef(t, ok, "%s: expected fatal error", name) {
			assert.Containsf(t, fe.Msg, want, "%s", name)
		}
	}()
	fn()
}

// TestEdgeCases covers edge cases reachable through the public API
func TestEdgeCases(t *testing.T) {
	t.Run("LargeAllocations", func(t *testing.T) {
		a := arena.NewArena(1024)
		defer a.Destroy()

		// Larger than chunk size
		large := a.AllocBytes(2048)
		assert.Len(t, large, 2048)

		veryLarge := a.AllocBytes(1024 * 1024) // 1MB
		assert.Len(t, veryLarge, 1024*1024)
		assert.Equal(t, 3, a.NumChunks())
	})

	t.Run("AlignmentEdgeCases", func(t *testing.T) {
		a := arena.NewArena(1024)
		defer a.Destroy()

		type AlignTest1 struct{ a int8 }
		type AlignTest2 struct{ a int64 }
		type AlignTest3 struct {
			a int8
			b int64
		}

		p1 := arena.Alloc[AlignTest1](a)
		p2 := arena.Alloc[AlignTest2](a)
		p3 := arena.Alloc[AlignTest3](a)

		assert.Zero(t, uintptr(unsafe.Pointer(p1))%unsafe.Alignof(*p1))
		assert.Zero(t, uintptr(unsafe.Pointer(p2))%unsafe.Alignof(*p2))
		assert.Zero(t, uintptr(unsafe.Pointer(p3))%unsafe.Alignof(*p3))
	})

	t.Run("UseAfterDestroy", func(t *testing.T) {
		a := arena.NewArena(1024)
		a.Destroy()

		const want = "use after Destroy()"
		assertFatal(t, "AllocBytes", want, func() { a.AllocBytes(100) })
		assertFatal(t, "Clear", want, func() { a.Clear() })
		assertFatal(t, "Alloc", want, func() { arena.Alloc[int](a) })
		assertFatal(t, "AllocSlice", want, func() { arena.AllocSlice[int](a, 10) })
		assertFatal(t, "Vec.Push", want, func() {
			var v arena.Vec[int]
			v.Push(a, 1)
		})
		assertFatal(t, "S", want, func() { arena.S(a, "x") })
		assertFatal(t, "AtString", want, func() {
			var m arena.StrMap
			arena.AtString(a, &m, "k")
		})
	})

	t.Run("MultipleDestroys", func(t *testing.T) {
		a := arena.NewArena(1024)
		a.Destroy()
		assert.NotPanics(t, func() {
			a.Destroy()
			a.Destroy()
		})
	})

	t.Run("EmptySliceAllocations", func(t *testing.T) {
		a := arena.NewArena(1024)
		defer a.Destroy()

		assert.Nil(t, arena.AllocSlice[int](a, 0))
		assert.Nil(t, arena.AllocSlice[int](a, -1))
		assert.Nil(t, a.AllocBytes(0))
		assert.Zero(t, a.SizeInUse())
	})
}

// TestMemoryCorruption checks that interleaved objects and sequences never
// overlap.
func TestMemoryCorruption(t *testing.T) {
	a := arena.NewArena(1024)
	defer a.Destroy()

	var words arena.Vec[uint32]
	var text arena.Str
	ptrs := make([]*[64]byte, 100)
	for i := range ptrs {
		ptrs[i] = arena.Alloc[[64]byte](a)
		for j := range ptrs[i] {
			ptrs[i][j] = byte(i)
		}
		words.Push(a, uint32(i)*7)
		text.Push(a, byte('a'+i%26))
	}

	for i, ptr := range ptrs {
		for j, b := range ptr {
			require.Equalf(t, byte(i), b, "ptr[%d][%d]", i, j)
		}
	}
	for i, w := range words.All() {
		require.Equal(t, uint32(i)*7, *w)
	}
	for i := range text.Len() {
		require.Equal(t, byte('a'+i%26), *text.At(i))
	}
	assert.Equal(t, byte(0), text.CString()[text.Len()])
}

// TestBoundaryConditions tests chunk boundary handling
func TestBoundaryConditions(t *testing.T) {
	t.Run("ExactChunkSizeAllocation", func(t *testing.T) {
		chunkSize := 1024
		a := arena.NewArena(chunkSize)
		defer a.Destroy()

		buf := a.AllocBytes(chunkSize)
		assert.Len(t, buf, chunkSize)
		assert.Equal(t, 1, a.NumChunks())

		// This should trigger a new chunk
		buf2 := a.AllocBytes(1)
		assert.Len(t, buf2, 1)
		assert.Equal(t, 2, a.NumChunks())
	})

	t.Run("AlignmentBoundaries", func(t *testing.T) {
		a := arena.NewArena(1024)
		defer a.Destroy()

		for _, size := range []int{1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 17} {
			buf := a.AllocBytes(size)
			require.Len(t, buf, size)
			addr := uintptr(unsafe.Pointer(&buf[0]))
			assert.Zerof(t, addr%uintptr(arena.DefaultAlign), "size %d at %x", size, addr)
		}
	})

	t.Run("SequenceOutgrowsChunk", func(t *testing.T) {
		a := arena.NewArena(256)
		defer a.Destroy()

		var s arena.Str
		for i := range 1000 {
			s.Push(a, byte('0'+i%10))
		}
		require.Equal(t, 1000, s.Len())
		for i := range 1000 {
			require.Equal(t, byte('0'+i%10), *s.At(i))
		}
		assert.Equal(t, byte(0), s.CString()[1000])
		assert.Greater(t, a.NumChunks(), 1)
		assert.NotZero(t, a.Metrics().Relocations)
	})
}

// TestClearBehavior thoroughly tests Clear functionality
func TestClearBehavior(t *testing.T) {
	a := arena.NewArena(1024)
	defer a.Destroy()

	// Allocate across multiple chunks
	for range 5 {
		a.AllocBytes(512)
	}

	initialChunks := a.NumChunks()
	initialCapacity := a.Capacity()
	require.Greater(t, initialChunks, 1)

	a.Clear()

	assert.Zero(t, a.SizeInUse())
	assert.Equal(t, initialChunks, a.NumChunks())
	assert.Equal(t, initialCapacity, a.Capacity())
	assert.Zero(t, a.Utilization())

	// The same allocation pattern fits in the retained chunks
	for range 5 {
		assert.Len(t, a.AllocBytes(512), 512)
	}
	assert.Equal(t, initialChunks, a.NumChunks())
}

// TestMemoryLeaks checks that destroyed arenas are collectable
func TestMemoryLeaks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping memory leak test in short mode")
	}

	var m1, m2 runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m1)

	for range 1000 {
		a := arena.NewArena(1024)
		var v arena.Vec[int64]
		for j := range 100 {
			v.Push(a, int64(j))
		}
		a.Destroy()
	}

	runtime.GC()
	runtime.ReadMemStats(&m2)

	assert.LessOrEqualf(t, m2.Alloc, m1.Alloc*2, "potential memory leak: before=%d, after=%d", m1.Alloc, m2.Alloc)
}

// TestConcurrencyStress runs many workers through one Pool
func TestConcurrencyStress(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	p := arena.NewPool(4 * 1024)
	defer p.Destroy()

	const (
		numWorkers      = 20
		numOpsPerWorker = 200
	)

	var wg sync.WaitGroup
	errs := make(chan error, numWorkers)

	for w := range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range numOpsPerWorker {
				a := p.Get()
				var m arena.StrMap
				for k := range 10 {
					key := fmt.Sprintf("w%d-k%d", w, k)
					*arena.AtString(a, &m, key) = arena.F(a, "%d", j*k)
				}
				v := arena.FindString(&m, fmt.Sprintf("w%d-k%d", w, 3))
				if v == nil || v.String() != fmt.Sprint(j*3) {
					errs <- fmt.Errorf("worker %d op %d: lost value", w, j)
					p.Put(a)
					return
				}
				p.Put(a)
				if j%50 == 0 {
					runtime.Gosched()
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("Test timed out - possible deadlock")
	}
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.LessOrEqual(t, p.Idle(), numWorkers)
}
