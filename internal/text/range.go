package text

import "fmt"

// Range is a half-open span of offsets [Start, End).
type Range struct {
	Start Offset
	End   Offset
}

// NewRange creates a Range, swapping the ends if needed.
func NewRange(start, end Offset) Range {
	if start > end {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// RangeOf returns the range [start, start+length).
func RangeOf(start Offset, length OffsetDelta) Range {
	return Range{Start: start, End: start.Add(length)}
}

// Len returns the number of code units covered by the range.
func (r Range) Len() OffsetDelta {
	return r.End.Sub(r.Start)
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Contains reports whether offset lies in [Start, End).
func (r Range) Contains(offset Offset) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports whether r and other share at least one offset.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// String returns a human-readable representation.
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", int(r.Start), int(r.End))
}

// MutationObserver receives buffer change notifications.
//
// Insert and delete ranges are [start, start+length). The insert range
// is expressed in post-edit coordinates; the delete range starts at the
// deletion point and its length is the number of removed code units.
type MutationObserver interface {
	DidInsertBefore(r Range)
	DidDeleteAt(r Range)
	DidChangeStyle(r Range)
}
