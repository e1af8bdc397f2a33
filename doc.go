// Package arena implements a chunked region allocator (memory arena) for Go
// together with growable containers whose storage lives in the arena.
//
// # Overview
//
// An arena hands out memory by bumping a cursor through large chunks and
// reclaims everything at once. This is particularly useful for:
//
//   - Short-lived tools that build many small strings and tables
//   - Request-scoped allocations with batch cleanup
//   - Reducing garbage collection pressure
//
// # Basic Usage
//
//	a := arena.NewArena(0) // Use default chunk size
//	defer a.Destroy()      // Clean up when done
//
//	// Raw and typed allocations, always zeroed
//	buf := a.AllocBytes(1024)
//	ptr := arena.Alloc[MyStruct](a)
//
//	// Containers take the arena on every growing operation
//	var nums arena.Vec[int64]
//	nums.Push(a, 42)
//
//	var m arena.StrMap
//	m.At(a, arena.S(a, "key")).AppendString(a, "value")
//
//	// Rewind for reuse, keeping every chunk
//	a.Clear()
//
// # Tail Growth
//
// Every mutation of the bump cursor produces a fresh provenance token. A Vec
// remembers the token observed when it last placed its storage. If the token
// still matches when the Vec grows, its storage is the arena's most recent
// allocation and the Vec extends in place by advancing the cursor, without
// copying. Otherwise it relocates to a block of double the capacity.
//
// # Strings
//
// Str is a Vec[byte]. Like every one-byte Vec it keeps a zero byte after
// the content, so CString never copies.
//
// # Concurrency
//
// An Arena is single-owner and does no locking. Pool hands whole arenas to
// concurrent workers.
//
// # Fatal Errors
//
// Misuse (index out of range, use after Destroy, invalid CLI descriptor
// tables) panics with *FatalError. Commands defer Exit in main to print the
// message and traceback and exit with status 1. Trace frames label the
// scopes an error unwound through:
//
//	defer a.Trace().Frame("load %s", path)()
//
// # Important Notes
//
//   - Allocated memory is only valid until Clear or Destroy
//   - Arena memory is not scanned for pointers: values stored in it must not
//     hold the only reference to Go heap memory
//   - Pointers returned by container operations are invalidated by growth
//
// # Metrics and Monitoring
//
//	m := a.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//	fmt.Printf("Grown in place: %d, relocated: %d\n", m.TailGrowths, m.Relocations)
package arena
