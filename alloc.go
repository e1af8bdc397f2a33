package arena

import (
	"math"
	"unsafe"
)

// Alloc returns a pointer to a zeroed T stored inside the arena, aligned for T.
// The pointer is valid until the arena is cleared or destroyed.
func Alloc[T any](a *Arena) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T)
	}
	b := a.Allocate(size, int(unsafe.Alignof(zero)))
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// AllocSlice allocates a zeroed slice of n elements of type T inside the arena.
// Returns nil if n <= 0.
func AllocSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return make([]T, n)
	}
	if n > math.MaxInt/elemSize {
		Die("arena: slice of %d elements of %d bytes overflows", n, elemSize)
	}
	b := a.Allocate(elemSize*n, int(unsafe.Alignof(zero)))
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}
