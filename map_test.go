package arena

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys[K, V any, O Order[K]](m *Map[K, V, O]) []K {
	var out []K
	for k := range m.All() {
		out = append(out, k)
	}
	return out
}

func strKeys(m *StrMap) []string {
	var out []string
	for k := range m.All() {
		out = append(out, k.String())
	}
	return out
}

func TestStrMapInsertEraseAppend(t *testing.T) {
	a := NewArena(1024)
	var m StrMap

	for _, k := range []string{"Kek", "1", "2", "3"} {
		m.At(a, S(a, k)).AppendString(a, "Lol")
	}
	assert.Equal(t, []string{"1", "2", "3", "Kek"}, strKeys(&m))

	assert.True(t, m.Erase(S(a, "2")))
	assert.False(t, m.Erase(S(a, "2")))
	assert.Equal(t, []string{"1", "3", "Kek"}, strKeys(&m))

	m.At(a, S(a, "Kek")).AppendString(a, "Kek")
	assert.Equal(t, "LolKek", m.Find(S(a, "Kek")).String())
	for _, k := range []string{"1", "3"} {
		assert.Equal(t, "Lol", m.Find(S(a, k)).String())
	}
	assert.Nil(t, m.Find(S(a, "2")))
}

func TestMapRoundTrip(t *testing.T) {
	a := NewArena(4096)
	var m Map[int, int, Ordered[int]]

	*m.At(a, 5) = 50
	assert.Equal(t, 50, *m.Find(5))
	assert.Same(t, m.At(a, 5), m.Find(5))
	assert.Equal(t, 1, m.Len())

	assert.True(t, m.Erase(5))
	assert.Nil(t, m.Find(5))
	assert.Zero(t, m.Len())
}

// The pairs stay sorted and unique after every At and Erase.
func TestMapOrderingInvariant(t *testing.T) {
	a := NewArena(4096)
	var m Map[int32, int, Ordered[int32]]
	ref := map[int32]int{}
	r := rand.New(rand.NewPCG(1, 2))

	for i := range 2000 {
		k := int32(r.IntN(200))
		if r.IntN(3) == 0 {
			_, had := ref[k]
			assert.Equal(t, had, m.Erase(k))
			delete(ref, k)
		} else {
			*m.At(a, k) = i
			ref[k] = i
		}
		ks := keys(&m)
		require.True(t, slices.IsSorted(ks))
		require.Equal(t, len(ks), len(slices.Compact(slices.Clone(ks))), "duplicate key")
		require.Len(t, ks, len(ref))
	}
	for k, v := range ref {
		require.Equal(t, v, *m.Find(k))
	}
}

func TestMapAtDoesNotDuplicate(t *testing.T) {
	a := NewArena(1024)
	var m Map[rune, int, Ordered[rune]]
	*m.At(a, 'b')++
	*m.At(a, 'a')++
	*m.At(a, 'b')++
	assert.Equal(t, []rune{'a', 'b'}, keys(&m))
	assert.Equal(t, 2, *m.Find('b'))
	assert.Equal(t, []Pair[rune, int]{{'a', 1}, {'b', 2}}, m.Pairs())
}

func TestMapClear(t *testing.T) {
	a := NewArena(1024)
	var m Map[int, int, Ordered[int]]
	for i := range 10 {
		*m.At(a, i) = i
	}
	m.Clear()
	assert.Zero(t, m.Len())
	assert.Nil(t, m.Find(3))
	*m.At(a, 3) = 1
	assert.Equal(t, 1, m.Len())
}

func TestStrKeyHelpers(t *testing.T) {
	a := NewArena(1024)
	var m Map[Str, int64, StrOrder]

	*AtString(a, &m, "beta") = 2
	*AtString(a, &m, "alpha") = 1
	*AtString(a, &m, "gamma") = 3
	before := a.SizeInUse()
	*AtString(a, &m, "beta") += 10
	assert.Equal(t, before, a.SizeInUse(), "existing key must not be copied")

	assert.Equal(t, int64(12), *FindString(&m, "beta"))
	assert.Nil(t, FindString(&m, "delta"))
	assert.True(t, EraseString(&m, "alpha"))
	assert.False(t, EraseString(&m, "alpha"))

	var got []string
	for _, p := range m.Pairs() {
		got = append(got, p.Key.String())
	}
	assert.Equal(t, []string{"beta", "gamma"}, got)
}

func TestStrOrderIsBytewise(t *testing.T) {
	a := NewArena(1024)
	var o StrOrder
	assert.True(t, o.Less(S(a, "Kek"), S(a, "a")))
	assert.True(t, o.Less(S(a, "ab"), S(a, "abc")))
	assert.True(t, o.Less(S(a, ""), S(a, "a")))
	assert.True(t, o.Equal(S(a, "x"), S(a, "x")))
}

func BenchmarkMapAt(b *testing.B) {
	a := NewArena(1 << 20)
	for i := 0; i < b.N; i++ {
		var m Map[int, int, Ordered[int]]
		for j := range 256 {
			*m.At(a, (j*7919)%256) = j
		}
		a.Clear()
	}
}
