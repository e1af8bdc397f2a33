package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitStrings(v Vec[Str]) []string {
	out := []string{}
	for _, s := range v.All() {
		out = append(out, s.String())
	}
	return out
}

func TestStrConstructors(t *testing.T) {
	a := NewArena(1024)

	s := S(a, "hello")
	assert.Equal(t, "hello", s.String())
	assert.Equal(t, []byte("hello\x00"), s.CString())

	c := Copy(a, []byte{'x', 'y'})
	assert.Equal(t, "xy", c.String())

	f := F(a, "%s=%d", "n", 42)
	assert.Equal(t, "n=42", f.String())
	assert.Equal(t, byte(0), f.CString()[f.Len()])

	empty := S(a, "")
	assert.Equal(t, []byte{0}, empty.CString())
	var zero Str
	assert.Equal(t, []byte{0}, zero.CString())
	assert.Equal(t, "", zero.String())
}

func TestStrAppend(t *testing.T) {
	a := NewArena(1024)
	var s Str
	s.AppendString(a, "a", "", "bc").AppendF(a, "-%03d", 7)
	s.Push(a, '!')
	assert.Equal(t, "abc-007!", s.String())
	requireTerminated(t, &s.Vec)

	// An unrelated allocation forces relocation; content and terminator survive.
	a.AllocBytes(16)
	s.AppendString(a, " more text that needs room")
	assert.Equal(t, "abc-007! more text that needs room", s.String())
	requireTerminated(t, &s.Vec)
}

func TestStrSearch(t *testing.T) {
	a := NewArena(1024)
	s := S(a, "one two one")

	assert.Equal(t, 0, s.Find("one", 0))
	assert.Equal(t, 8, s.Find("one", 1))
	assert.Equal(t, NPos, s.Find("three", 0))
	assert.Equal(t, NPos, s.Find("one", 100))
	assert.Equal(t, 8, s.RevFind("one"))
	assert.Equal(t, NPos, s.RevFind("zzz"))
	assert.True(t, s.Contains("two"))
	assert.False(t, s.Contains("four"))
	assert.True(t, s.HasPrefix("one "))
	assert.True(t, s.HasSuffix(" one"))
	assert.False(t, s.HasSuffix("two"))
	assert.True(t, s.Equals("one two one"))
}

func TestStrSub(t *testing.T) {
	a := NewArena(1024)
	s := S(a, "abcdef")

	assert.Equal(t, "bcd", s.Sub(a, 1, 4).String())
	assert.Equal(t, "def", s.Sub(a, 3, 100).String())
	assert.Equal(t, "", s.Sub(a, 6, 6).String())
	requireFatal(t, "substring start 7", func() { s.Sub(a, 7, 8) })
	requireFatal(t, "before start", func() { s.Sub(a, 4, 2) })
}

func TestStrSplit(t *testing.T) {
	a := NewArena(1024)

	tests := []struct {
		in, delim string
		want      []string
	}{
		{"a,b,c", ",", []string{"a", "b", "c"}},
		{",a,,b,", ",", []string{"", "a", "", "b", ""}},
		{"a::b", "::", []string{"a", "b"}},
		{"abc", ";", []string{"abc"}},
		{"", ",", []string{""}},
		{"abc", "", []string{"abc"}},
	}
	for _, tt := range tests {
		got := splitStrings(S(a, tt.in).Split(a, tt.delim))
		assert.Equalf(t, tt.want, got, "Split(%q, %q)", tt.in, tt.delim)
	}
}

func TestStrCompare(t *testing.T) {
	a := NewArena(1024)
	assert.Equal(t, -1, S(a, "a").Compare(S(a, "b")))
	assert.Equal(t, 0, S(a, "b").Compare(S(a, "b")))
	assert.Equal(t, 1, S(a, "ba").Compare(S(a, "b")))
}

func TestStrPromotedVecOps(t *testing.T) {
	a := NewArena(1024)
	s := S(a, "hello")
	s.Erase(0)
	s.Insert(a, 0, 'j')
	require.Equal(t, "jello", s.String())
	assert.Equal(t, byte('o'), s.Pop())
	assert.Equal(t, "jell", s.String())
	requireTerminated(t, &s.Vec)
}
