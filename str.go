package arena

import (
	"bytes"
	"fmt"
	"strings"
	"unsafe"
)

// NPos is returned by the search methods of Str when nothing matches.
const NPos = -1

// Str is a byte string stored in an arena. Like every one-byte Vec it keeps
// a zero byte after its content once storage exists, so CString never
// copies.
type Str struct {
	Vec[byte]
}

// S copies s into a.
func S(a *Arena, s string) Str {
	var out Str
	out.Reserve(a, len(s))
	out.data = out.data[:len(s)]
	copy(out.data, s)
	out.terminate()
	return out
}

// Copy copies b into a.
func Copy(a *Arena, b []byte) Str {
	var out Str
	out.Reserve(a, len(b))
	out.data = out.data[:len(b)]
	copy(out.data, b)
	out.terminate()
	return out
}

// F formats according to format into a new Str.
func F(a *Arena, format string, args ...any) Str {
	var out Str
	out.AppendF(a, format, args...)
	return out
}

// AppendString appends each part in order.
func (s *Str) AppendString(a *Arena, parts ...string) *Str {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if total == 0 {
		return s
	}
	n := len(s.data)
	if n+total > s.Cap() {
		s.Reserve(a, n+total)
	}
	s.data = s.data[:n+total]
	for _, p := range parts {
		n += copy(s.data[n:], p)
	}
	s.terminate()
	return s
}

// AppendF appends formatted text.
func (s *Str) AppendF(a *Arena, format string, args ...any) *Str {
	s.Append(a, fmt.Appendf(nil, format, args...)...)
	return s
}

// String returns a Go copy of the content.
func (s Str) String() string {
	return string(s.data)
}

// Bytes returns the content, aliasing arena storage.
func (s Str) Bytes() []byte {
	return s.data
}

// CString returns the content followed by its zero terminator.
func (s Str) CString() []byte {
	if cap(s.data) == 0 {
		return []byte{0}
	}
	return s.data[:len(s.data)+1]
}

// view returns the content as a string without copying. The result must not
// outlive the storage.
func (s Str) view() string {
	return unsafe.String(unsafe.SliceData(s.data), len(s.data))
}

func (s Str) compareString(t string) int {
	return strings.Compare(s.view(), t)
}

// Compare returns -1, 0 or +1 as s sorts before, equal to or after t.
func (s Str) Compare(t Str) int {
	return bytes.Compare(s.data, t.data)
}

// Equals reports whether the content equals t.
func (s Str) Equals(t string) bool {
	return s.view() == t
}

// Find returns the index of the first occurrence of what at or after
// offset, or NPos.
func (s Str) Find(what string, offset int) int {
	if offset < 0 || offset > len(s.data) {
		return NPos
	}
	i := strings.Index(s.view()[offset:], what)
	if i < 0 {
		return NPos
	}
	return offset + i
}

// RevFind returns the index of the last occurrence of what, or NPos.
func (s Str) RevFind(what string) int {
	return strings.LastIndex(s.view(), what)
}

func (s Str) Contains(what string) bool {
	return strings.Contains(s.view(), what)
}

func (s Str) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.view(), prefix)
}

func (s Str) HasSuffix(suffix string) bool {
	return strings.HasSuffix(s.view(), suffix)
}

// Sub copies the bytes in [from, to) into a new Str. to is clamped to the
// length; from past the end or to before from is fatal.
func (s Str) Sub(a *Arena, from, to int) Str {
	n := len(s.data)
	if from < 0 || from > n {
		Die("str: substring start %d out of range [0:%d]", from, n)
	}
	to = min(to, n)
	if to < from {
		Die("str: substring end %d before start %d", to, from)
	}
	return Copy(a, s.data[from:to])
}

// Split returns the pieces of s between occurrences of delim, including
// empty ones. An empty delimiter yields s as the only piece.
func (s Str) Split(a *Arena, delim string) Vec[Str] {
	var out Vec[Str]
	if delim == "" {
		out.Push(a, Copy(a, s.data))
		return out
	}
	rest := s.view()
	for {
		i := strings.Index(rest, delim)
		if i < 0 {
			break
		}
		out.Push(a, S(a, rest[:i]))
		rest = rest[i+len(delim):]
	}
	out.Push(a, S(a, rest))
	return out
}
