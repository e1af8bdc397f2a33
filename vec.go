package arena

import (
	"iter"
	"math"
	"unsafe"
)

// Vec is a growable sequence whose storage lives in an arena. The zero
// value is an empty sequence with no storage.
//
// Growth first tries to extend the storage in place: when the sequence's
// block is still the arena's most recent allocation and the current chunk
// has room, the arena cursor simply advances. Otherwise the sequence
// relocates to a block of max(2*cap, need) elements.
//
// Sequences of one-byte elements always keep a zero element right after the
// last one, so their bytes can be handed to C-style consumers directly.
//
// Pointers returned by Push, Insert and At are invalidated by any operation
// that grows the sequence.
type Vec[T any] struct {
	data  []T    // len is the size, cap includes the terminator slot
	token uint64 // arena token observed after the last placement
}

func elemLayout[T any]() (size, align int) {
	var zero T
	return int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero))
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int {
	return len(v.data)
}

// Cap returns the number of elements the sequence can hold before growing.
func (v *Vec[T]) Cap() int {
	c := cap(v.data)
	if size, _ := elemLayout[T](); size == 1 && c > 0 {
		c--
	}
	return c
}

// Slice returns the elements as a slice aliasing the arena storage.
func (v *Vec[T]) Slice() []T {
	return v.data
}

// Reserve ensures capacity for at least n elements and returns the
// elements.
func (v *Vec[T]) Reserve(a *Arena, n int) []T {
	size, align := elemLayout[T]()
	if size == 1 {
		n++
	}
	if n > cap(v.data) {
		v.grow(a, n, size, align)
	}
	v.terminate()
	return v.data
}

func (v *Vec[T]) grow(a *Arena, need, size, align int) {
	old := cap(v.data)
	ncap := max(old*2, need)
	if size == 0 {
		grown := make([]T, len(v.data), ncap)
		v.data = grown
		return
	}
	if ncap > math.MaxInt/size {
		Die("vec: capacity of %d elements overflows", ncap)
	}
	if old > 0 && a.extend(v.token, (ncap-old)*size) {
		v.data = unsafe.Slice(unsafe.SliceData(v.data), ncap)[:len(v.data)]
		v.token = a.token
		return
	}
	block := a.Allocate(ncap*size, align)
	grown := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(block))), ncap)
	n := copy(grown, v.data)
	v.data = grown[:n]
	v.token = a.token
	if old > 0 {
		a.stats.relocations++
	}
}

// terminate keeps the zero element after the last one for one-byte types.
func (v *Vec[T]) terminate() {
	var zero T
	n := len(v.data)
	if unsafe.Sizeof(zero) != 1 || n == cap(v.data) {
		return
	}
	v.data[:n+1][n] = zero
}

// Push appends x and returns a pointer to the stored element.
func (v *Vec[T]) Push(a *Arena, x T) *T {
	n := len(v.data)
	if n >= v.Cap() {
		v.Reserve(a, n+1)
	}
	v.data = v.data[:n+1]
	v.data[n] = x
	v.terminate()
	return &v.data[n]
}

// Pop removes and returns the last element. Popping an empty sequence is
// fatal.
func (v *Vec[T]) Pop() T {
	n := len(v.data)
	if n == 0 {
		Die("vec: pop from empty sequence")
	}
	x := v.data[n-1]
	var zero T
	v.data[n-1] = zero
	v.data = v.data[:n-1]
	v.terminate()
	return x
}

// At returns a pointer to element i. An index outside [0, Len) is fatal.
func (v *Vec[T]) At(i int) *T {
	if i < 0 || i >= len(v.data) {
		Die("vec: index %d out of range [0:%d]", i, len(v.data))
	}
	return &v.data[i]
}

// Insert places x at index i, shifting later elements right, and returns a
// pointer to it. i may equal Len.
func (v *Vec[T]) Insert(a *Arena, i int, x T) *T {
	n := len(v.data)
	if i < 0 || i > n {
		Die("vec: insert index %d out of range [0:%d]", i, n)
	}
	if n >= v.Cap() {
		v.Reserve(a, n+1)
	}
	v.data = v.data[:n+1]
	copy(v.data[i+1:], v.data[i:n])
	v.data[i] = x
	v.terminate()
	return &v.data[i]
}

// Erase removes element i, shifting later elements left.
func (v *Vec[T]) Erase(i int) {
	n := len(v.data)
	if i < 0 || i >= n {
		Die("vec: erase index %d out of range [0:%d]", i, n)
	}
	copy(v.data[i:], v.data[i+1:])
	var zero T
	v.data[n-1] = zero
	v.data = v.data[:n-1]
	v.terminate()
}

// Append copies xs to the end of the sequence.
func (v *Vec[T]) Append(a *Arena, xs ...T) {
	if len(xs) == 0 {
		return
	}
	n := len(v.data)
	if n+len(xs) > v.Cap() {
		v.Reserve(a, n+len(xs))
	}
	v.data = v.data[:n+len(xs)]
	copy(v.data[n:], xs)
	v.terminate()
}

// Resize sets the length to n. New elements are zero.
func (v *Vec[T]) Resize(a *Arena, n int) {
	if n < 0 {
		Die("vec: negative size %d", n)
	}
	if n > v.Cap() {
		v.Reserve(a, n)
	}
	old := len(v.data)
	v.data = v.data[:n]
	if n > old {
		clear(v.data[old:])
	}
	v.terminate()
}

// Shrink hands unused capacity back to the arena. It only succeeds when the
// sequence is still the arena's most recent allocation, and reports whether
// capacity was released.
func (v *Vec[T]) Shrink(a *Arena) bool {
	size, _ := elemLayout[T]()
	keep := len(v.data)
	if size == 1 {
		keep++
	}
	spare := cap(v.data) - keep
	if spare <= 0 || size == 0 {
		return false
	}
	if !a.retract(v.token, spare*size) {
		return false
	}
	v.data = v.data[:len(v.data):keep]
	v.token = a.token
	return true
}

// Clear sets the length to zero and keeps the storage.
func (v *Vec[T]) Clear() {
	v.data = v.data[:0]
	v.terminate()
}

// All yields the index and a pointer to every element, front to back.
func (v *Vec[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range v.data {
			if !yield(i, &v.data[i]) {
				return
			}
		}
	}
}

// Backward yields the index and a pointer to every element, back to front.
func (v *Vec[T]) Backward() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := len(v.data) - 1; i >= 0; i-- {
			if !yield(i, &v.data[i]) {
				return
			}
		}
	}
}
