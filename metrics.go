package arena

// SizeInUse returns the total number of bytes currently allocated in the arena.
// This includes internal fragmentation due to alignment.
func (a *Arena) SizeInUse() int {
	return a.stats.inUse
}

// NumChunks returns the number of chunks currently allocated by the arena.
func (a *Arena) NumChunks() int {
	return len(a.chunks)
}

// Capacity returns the total capacity (in bytes) of all chunks in the arena.
func (a *Arena) Capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += len(c.buf)
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	return utilization(a.SizeInUse(), a.Capacity())
}

// ChunkSize returns the default chunk size used by this arena.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() Metrics {
	return Metrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		ChunkSize:   a.ChunkSize(),
		Utilization: a.Utilization(),
		Peak:        a.stats.peak,
		Allocations: a.stats.allocations,
		TailGrowths: a.stats.tailGrowths,
		Relocations: a.stats.relocations,
		ChunkReuses: a.stats.chunkReuses,
	}
}

// Metrics contains statistical information about an arena.
type Metrics struct {
	SizeInUse   int     `json:"size_in_use" msgpack:"size_in_use"`   // Bytes currently allocated
	Capacity    int     `json:"capacity" msgpack:"capacity"`         // Total capacity in bytes
	NumChunks   int     `json:"num_chunks" msgpack:"num_chunks"`     // Number of chunks
	ChunkSize   int     `json:"chunk_size" msgpack:"chunk_size"`     // Default chunk size
	Utilization float64 `json:"utilization" msgpack:"utilization"`   // Ratio of used to total capacity (0.0-1.0)
	Peak        int     `json:"peak" msgpack:"peak"`                 // Highest SizeInUse observed
	Allocations uint64  `json:"allocations" msgpack:"allocations"`   // Calls to Allocate that returned memory
	TailGrowths uint64  `json:"tail_growths" msgpack:"tail_growths"` // Sequences grown in place
	Relocations uint64  `json:"relocations" msgpack:"relocations"`   // Sequences moved to a new block
	ChunkReuses uint64  `json:"chunk_reuses" msgpack:"chunk_reuses"` // Chunks picked up again after Clear
}

// Merge sums two snapshots. ChunkSize keeps the larger value and
// Utilization is recomputed from the summed sizes.
func (m Metrics) Merge(o Metrics) Metrics {
	out := Metrics{
		SizeInUse:   m.SizeInUse + o.SizeInUse,
		Capacity:    m.Capacity + o.Capacity,
		NumChunks:   m.NumChunks + o.NumChunks,
		ChunkSize:   max(m.ChunkSize, o.ChunkSize),
		Peak:        m.Peak + o.Peak,
		Allocations: m.Allocations + o.Allocations,
		TailGrowths: m.TailGrowths + o.TailGrowths,
		Relocations: m.Relocations + o.Relocations,
		ChunkReuses: m.ChunkReuses + o.ChunkReuses,
	}
	out.Utilization = utilization(out.SizeInUse, out.Capacity)
	return out
}

func utilization(inUse, capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	return float64(inUse) / float64(capacity)
}
