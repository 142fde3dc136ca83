package msa

import (
	"fmt"

	"github.com/lukeulrich/alignshop/grammar"
)

// Rect is a 1-based inclusive rectangular region of an Msa: columns
// [Left, Right] across rows [Top, Bottom].
type Rect struct {
	Left, Top, Right, Bottom int
}

// InsertGapColumns inserts n identical gap columns at 1-based position
// (1..Length()+1) across every row.
func (m *Msa) InsertGapColumns(position, n int, gapChar byte) error {
	if n <= 0 {
		return fmt.Errorf("msa: insert gap column count %d must be positive", n)
	}
	length := m.Length()
	if position < 1 || position > length+1 {
		return fmt.Errorf("msa: gap column position %d out of range [1, %d]", position, length+1)
	}
	m.addObserverEmit(Event{Kind: AboutToInsertGapColumns, Column: position, Count: n})
	for _, row := range m.rows {
		if err := row.InsertGaps(position, n, gapChar); err != nil {
			return err
		}
	}
	m.length = length + n
	m.addObserverEmit(Event{Kind: GapColumnsInserted, Column: position, Count: n})
	return nil
}

// RemoveGapColumns removes every column in which every row holds a gap
// character, batching physically contiguous all-gap runs into one event
// each, processed from the last run to the first so earlier removals never
// invalidate later column indices. It returns the total number of columns
// removed.
//
// The distilled spec's event table lists this event's payload as a bare
// count; Column is carried here too (the run's first column, pre-removal)
// so an observer such as chardist can locate exactly what was removed
// without having to re-derive it from its own state.
func (m *Msa) RemoveGapColumns() int {
	length := m.Length()
	if length == 0 || len(m.rows) == 0 {
		return 0
	}
	allGap := make([]bool, length+1)
	for col := 1; col <= length; col++ {
		gap := true
		for _, row := range m.rows {
			if !grammar.IsGap(row.Gapped().ByteAt(col)) {
				gap = false
				break
			}
		}
		allGap[col] = gap
	}

	type run struct{ first, last int }
	var runs []run
	col := 1
	for col <= length {
		if !allGap[col] {
			col++
			continue
		}
		start := col
		for col <= length && allGap[col] {
			col++
		}
		runs = append(runs, run{start, col - 1})
	}

	total := 0
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		n := r.last - r.first + 1
		m.addObserverEmit(Event{Kind: AboutToRemoveGapColumns, Column: r.first, Count: n})
		for _, row := range m.rows {
			_ = row.RemoveGaps(r.first, n)
		}
		m.length -= n
		total += n
		m.addObserverEmit(Event{Kind: GapColumnsRemoved, Column: r.first, Count: n})
	}
	return total
}

// SlideRegion slides columns [left, right] across rows [top, bottom] by
// delta, clamped to the minimum per-row slidable distance so the rectangle
// moves as a single block. It returns the signed actual distance moved.
func (m *Msa) SlideRegion(left, top, right, bottom, delta int) (int, error) {
	ti, err := m.resolveRow(top)
	if err != nil {
		return 0, err
	}
	bi, err := m.resolveRow(bottom)
	if err != nil {
		return 0, err
	}
	if bi < ti {
		return 0, fmt.Errorf("msa: slide region rows [%d, %d] are inverted", top, bottom)
	}
	if delta == 0 {
		return 0, nil
	}

	if delta < 0 {
		d := -delta
		for i := ti; i <= bi; i++ {
			if lim := m.rows[i].Gapped().LeftSlidablePositions(left, right); lim < d {
				d = lim
			}
		}
		delta = -d
	} else {
		d := delta
		for i := ti; i <= bi; i++ {
			if lim := m.rows[i].Gapped().RightSlidablePositions(left, right); lim < d {
				d = lim
			}
		}
		delta = d
	}
	if delta == 0 {
		return 0, nil
	}

	finalLeft, finalRight := left+delta, right+delta
	m.addObserverEmit(Event{Kind: AboutToSlideRegion, Left: left, Top: top, Right: right, Bottom: bottom, Delta: delta})
	for i := ti; i <= bi; i++ {
		m.rows[i].Slide(left, right, delta)
	}
	m.addObserverEmit(Event{
		Kind: RegionSlid, Left: left, Top: top, Right: right, Bottom: bottom,
		Delta: delta, FinalLeft: finalLeft, FinalRight: finalRight,
	})
	return delta, nil
}

// CollapseLeft applies Subseq.CollapseLeft over rect's column range to
// every row in [rect.Top, rect.Bottom], emitting one SubseqInternallyChanged
// per row actually changed, followed by a single CollapsedLeft event whose
// AffectedColumn is the leftmost column touched across all rows (0 if
// nothing changed).
func (m *Msa) CollapseLeft(rect Rect) error {
	return m.collapseDirection(rect, AboutToCollapseLeft, CollapsedLeft, true)
}

// CollapseRight is the mirror image of CollapseLeft, packing against
// rect.Right.
func (m *Msa) CollapseRight(rect Rect) error {
	return m.collapseDirection(rect, AboutToCollapseRight, CollapsedRight, false)
}

func (m *Msa) collapseDirection(rect Rect, aboutToKind, kind EventKind, left bool) error {
	ti, err := m.resolveRow(rect.Top)
	if err != nil {
		return err
	}
	bi, err := m.resolveRow(rect.Bottom)
	if err != nil {
		return err
	}
	if bi < ti {
		return fmt.Errorf("msa: collapse rows [%d, %d] are inverted", rect.Top, rect.Bottom)
	}

	m.addObserverEmit(Event{Kind: aboutToKind, Left: rect.Left, Top: rect.Top, Right: rect.Right, Bottom: rect.Bottom})
	affected := 0
	for i := ti; i <= bi; i++ {
		before := m.rows[i].Gapped()
		var rng [2]int
		var changed bool
		if left {
			rng, changed = m.rows[i].CollapseLeft(rect.Left, rect.Right)
		} else {
			rng, changed = m.rows[i].CollapseRight(rect.Left, rect.Right)
		}
		if !changed {
			continue
		}
		oldSlice, _ := before.Mid(rng[0], rng[1])
		newSlice, _ := m.rows[i].Gapped().Mid(rng[0], rng[1])
		m.addObserverEmit(Event{
			Kind: SubseqInternallyChanged, Row: i + 1, Column: rng[0],
			NewSlice: newSlice.Bytes(), OldSlice: oldSlice.Bytes(),
		})
		if affected == 0 || rng[0] < affected {
			affected = rng[0]
		}
	}
	m.addObserverEmit(Event{Kind: kind, Left: rect.Left, Top: rect.Top, Right: rect.Right, Bottom: rect.Bottom, AffectedColumn: affected})
	return nil
}
