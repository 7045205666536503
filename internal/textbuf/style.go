package textbuf

import (
	"sort"

	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

// StyleRun is a styled span. Runs are sorted and never overlap.
type StyleRun struct {
	text.Range
	Style style.Style
}

// StyleAt returns the style at offset: the run's style merged over the
// default style.
func (b *Buffer) StyleAt(offset text.Offset) style.Style {
	b.lock.AssertHeld()
	if i := findRun(b.runs, offset); i >= 0 {
		return b.def.Merge(b.runs[i].Style)
	}
	return b.def
}

// StyleRuns returns the ranges that carry an explicit style.
func (b *Buffer) StyleRuns() []text.Range {
	out := make([]text.Range, len(b.runs))
	for i, run := range b.runs {
		out[i] = run.Range
	}
	return out
}

func findRun(runs []StyleRun, offset text.Offset) int {
	i := sort.Search(len(runs), func(i int) bool { return runs[i].End > offset })
	if i < len(runs) && runs[i].Start <= offset {
		return i
	}
	return -1
}

// setRun inserts run, trimming or splitting the runs it covers.
func setRun(runs []StyleRun, run StyleRun) []StyleRun {
	out := make([]StyleRun, 0, len(runs)+2)
	inserted := false
	for _, old := range runs {
		if old.End <= run.Start {
			out = append(out, old)
			continue
		}
		if old.Start >= run.End {
			if !inserted {
				out = append(out, run)
				inserted = true
			}
			out = append(out, old)
			continue
		}
		if old.Start < run.Start {
			out = append(out, StyleRun{Range: text.Range{Start: old.Start, End: run.Start}, Style: old.Style})
		}
		if !inserted {
			out = append(out, run)
			inserted = true
		}
		if old.End > run.End {
			out = append(out, StyleRun{Range: text.Range{Start: run.End, End: old.End}, Style: old.Style})
		}
	}
	if !inserted {
		out = append(out, run)
	}
	return out
}

// changedSpan returns the smallest range outside of which old and runs
// style every offset the same way. It reports false when they are equal.
func changedSpan(old, runs []StyleRun) (text.Range, bool) {
	i := 0
	for i < len(old) && i < len(runs) && old[i] == runs[i] {
		i++
	}
	if i == len(old) && i == len(runs) {
		return text.Range{}, false
	}
	oj, nj := len(old), len(runs)
	for oj > i && nj > i && old[oj-1] == runs[nj-1] {
		oj--
		nj--
	}
	span := text.Range{Start: text.MaxOffset}
	for _, run := range append(old[i:oj:oj], runs[i:nj]...) {
		span.Start = text.MinOffset(span.Start, run.Start)
		span.End = text.MaxOf(span.End, run.End)
	}
	return span, true
}

// shiftRunsForInsert moves runs after the insertion. A run strictly
// containing the insertion point grows to cover the new text.
func shiftRunsForInsert(runs []StyleRun, r text.Range) []StyleRun {
	n := r.Len()
	for i := range runs {
		switch {
		case runs[i].Start >= r.Start:
			runs[i].Start = runs[i].Start.Add(n)
			runs[i].End = runs[i].End.Add(n)
		case runs[i].End > r.Start:
			runs[i].End = runs[i].End.Add(n)
		}
	}
	return runs
}

// shiftRunsForDelete clips runs to the surviving content.
func shiftRunsForDelete(runs []StyleRun, r text.Range) []StyleRun {
	n := r.Len()
	adjust := func(o text.Offset) text.Offset {
		switch {
		case o <= r.Start:
			return o
		case o >= r.End:
			return o.Add(-n)
		default:
			return r.Start
		}
	}
	out := runs[:0]
	for _, run := range runs {
		run.Start = adjust(run.Start)
		run.End = adjust(run.End)
		if !run.IsEmpty() {
			out = append(out, run)
		}
	}
	return out
}
