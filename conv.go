package arena

import (
	"strconv"

	"fortio.org/safecast"
)

// ToI64 parses a base-10 integer. Trailing garbage or overflow is fatal.
func ToI64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		Die("Could not convert to int64: %q", s)
	}
	return v
}

// ToI32 parses a base-10 integer that must fit in an int32.
func ToI32(s string) int32 {
	v, err := safecast.Conv[int32](ToI64(s))
	if err != nil {
		Die("Could not convert to int32: %q: %v", s, err)
	}
	return v
}

// ToU64 parses a base-10 unsigned integer.
func ToU64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		Die("Could not convert to uint64: %q", s)
	}
	return v
}

// ToU32 parses a base-10 unsigned integer that must fit in a uint32.
func ToU32(s string) uint32 {
	v, err := safecast.Conv[uint32](ToU64(s))
	if err != nil {
		Die("Could not convert to uint32: %q: %v", s, err)
	}
	return v
}

// ToFloat parses a float64.
func ToFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		Die("Could not convert to float: %q", s)
	}
	return v
}
