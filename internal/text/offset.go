// Package text provides buffer offsets, ranges, and the mutation
// notification contract shared by the buffer and the layout engine.
//
// An Offset counts code units from the start of a buffer. In lineflow a
// code unit is one rune of buffer content.
package text

import (
	"fmt"
	"math"
)

// Offset is a zero-based position in a buffer's code-unit sequence.
type Offset int

// OffsetDelta is the signed distance between two offsets.
// It is a distinct type so that positions and lengths are not mixed up.
type OffsetDelta int

const (
	// MaxOffset is the "unbounded" sentinel. A dirty watermark equal to
	// MaxOffset means nothing is dirty.
	MaxOffset Offset = math.MaxInt

	// InvalidOffset is returned by hit-testing helpers that do not apply.
	InvalidOffset Offset = -1
)

// IsValid reports whether o is a usable buffer position.
func (o Offset) IsValid() bool {
	return o >= 0 && o != MaxOffset
}

// Add returns o moved by d.
func (o Offset) Add(d OffsetDelta) Offset {
	return o + Offset(d)
}

// Sub returns the distance from other to o.
func (o Offset) Sub(other Offset) OffsetDelta {
	return OffsetDelta(o - other)
}

// Next returns the offset one code unit after o.
func (o Offset) Next() Offset { return o + 1 }

// Prev returns the offset one code unit before o.
func (o Offset) Prev() Offset { return o - 1 }

// String implements fmt.Stringer.
func (o Offset) String() string {
	switch o {
	case MaxOffset:
		return "Offset(max)"
	case InvalidOffset:
		return "Offset(invalid)"
	}
	return fmt.Sprintf("Offset(%d)", int(o))
}

// MinOffset returns the smaller of a and b.
func MinOffset(a, b Offset) Offset {
	if a < b {
		return a
	}
	return b
}

// MaxOf returns the larger of a and b.
func MaxOf(a, b Offset) Offset {
	if a > b {
		return a
	}
	return b
}

// Clamp limits o to [lo, hi].
func Clamp(o, lo, hi Offset) Offset {
	if o < lo {
		return lo
	}
	if o > hi {
		return hi
	}
	return o
}
