// Package chardist implements LiveCharCountDistribution, a column-wise
// character frequency histogram kept reactively in sync with an *msa.Msa via
// the msa.Observer interface, grounded on
// original_source/defunct/tests/TestLiveMsaCharCountDistribution/TestLiveMsaCharCountDistribution.cpp
// for the event-reaction table.
package chardist

import (
	"github.com/lukeulrich/alignshop/grammar"
	"github.com/lukeulrich/alignshop/msa"
)

// EventKind tags the variant of an Event emitted by a Dist.
type EventKind int

const (
	ColumnsInserted EventKind = iota
	ColumnsRemoved
	DataChanged
)

// Event reports a column range of a Dist that changed shape (Columns*) or
// content (DataChanged).
type Event struct {
	Kind     EventKind
	FirstCol int
	LastCol  int
}

// Observer reacts to Dist change events.
type Observer interface {
	HandleDistEvent(Event)
}

// Dist maintains dist[col][ch] = count of ch at column col across every row
// of the attached Msa, ignoring gap characters. Divisor() is always the
// Msa's current row count.
type Dist struct {
	m    *msa.Msa
	dist []map[byte]int

	observers []Observer

	pendingWasEmpty  bool
	pendingRemoved   []removedRow
	pendingOldLength int
}

type removedRow struct {
	bytes []byte
}

// New attaches a Dist to m, performs a full initial scan (or leaves it empty
// if m currently has no rows), and registers the Dist as an msa.Observer so
// it stays in sync with every subsequent mutation.
func New(m *msa.Msa) *Dist {
	d := &Dist{m: m}
	d.rescanAll()
	m.AddObserver(d)
	return d
}

// AddObserver registers o to receive every subsequent Dist event.
func (d *Dist) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// RemoveObserver deregisters o. A no-op if o was never registered.
func (d *Dist) RemoveObserver(o Observer) {
	for i, existing := range d.observers {
		if existing == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

func (d *Dist) emit(e Event) {
	for _, o := range d.observers {
		o.HandleDistEvent(e)
	}
}

// Length returns the number of columns currently tracked.
func (d *Dist) Length() int { return len(d.dist) }

// Divisor returns the Msa's current row count.
func (d *Dist) Divisor() int { return d.m.RowCount() }

// At returns the character-count mapping for the 1-based column.
func (d *Dist) At(col int) map[byte]int { return d.dist[col-1] }

func (d *Dist) rescanAll() {
	length := d.m.Length()
	if d.m.RowCount() == 0 || length == 0 {
		d.dist = nil
		return
	}
	d.dist = make([]map[byte]int, length)
	for col := 1; col <= length; col++ {
		d.dist[col-1] = d.rescanColumn(col)
	}
}

func (d *Dist) rescanColumn(col int) map[byte]int {
	counts := make(map[byte]int)
	for i := 1; i <= d.m.RowCount(); i++ {
		row, err := d.m.Row(i)
		if err != nil {
			continue
		}
		b := row.Gapped().ByteAt(col)
		if grammar.IsGap(b) {
			continue
		}
		counts[b]++
	}
	return counts
}

func (d *Dist) rescanRange(first, last int) {
	for col := first; col <= last; col++ {
		d.dist[col-1] = d.rescanColumn(col)
	}
}

// HandleMsaEvent implements msa.Observer.
func (d *Dist) HandleMsaEvent(e msa.Event) {
	switch e.Kind {
	case msa.AboutToInsertSubseqs:
		d.pendingWasEmpty = d.m.RowCount() == 0
	case msa.SubseqsInserted:
		d.reactInserted(e)

	case msa.AboutToRemoveSubseqs:
		d.snapshotRemoved(e.FirstRow, e.LastRow)
	case msa.SubseqsRemoved:
		d.reactRemoved()

	case msa.GapColumnsInserted:
		d.reactGapColumnsInserted(e)
	case msa.GapColumnsRemoved:
		d.reactGapColumnsRemoved(e)

	case msa.SubseqInternallyChanged:
		d.reactInternallyChanged(e)

	case msa.RegionSlid:
		d.reactRegionSlid(e)

	case msa.SubseqStartChanged, msa.SubseqStopChanged:
		d.reactFullRescan()

	case msa.ExtendOrTrimFinished:
		if e.FirstCol != 0 {
			d.rescanRange(e.FirstCol, e.LastCol)
			d.emit(Event{Kind: DataChanged, FirstCol: e.FirstCol, LastCol: e.LastCol})
		}

	case msa.AboutToReset:
		d.pendingOldLength = d.m.Length()
	case msa.MsaReset:
		d.reactReset()

		// subseqs_swapped, subseqs_moved, subseqs_sorted: row reordering never
		// changes the multiset of characters occupying any column, so no
		// reaction is needed.
	}
}

func (d *Dist) reactInserted(e msa.Event) {
	length := d.m.Length()
	if d.pendingWasEmpty {
		d.rescanAll()
		if length > 0 {
			d.emit(Event{Kind: ColumnsInserted, FirstCol: 1, LastCol: length})
		}
		return
	}
	for i := e.FirstRow; i <= e.LastRow; i++ {
		row, err := d.m.Row(i)
		if err != nil {
			continue
		}
		g := row.Gapped()
		for col := 1; col <= length; col++ {
			b := g.ByteAt(col)
			if grammar.IsGap(b) {
				continue
			}
			d.dist[col-1][b]++
		}
	}
	d.emit(Event{Kind: DataChanged, FirstCol: 1, LastCol: length})
}

func (d *Dist) snapshotRemoved(first, last int) {
	d.pendingRemoved = d.pendingRemoved[:0]
	for i := first; i <= last; i++ {
		row, err := d.m.Row(i)
		if err != nil {
			continue
		}
		d.pendingRemoved = append(d.pendingRemoved, removedRow{bytes: row.Gapped().Bytes()})
	}
}

func (d *Dist) reactRemoved() {
	length := len(d.dist)
	for _, r := range d.pendingRemoved {
		for col := 1; col <= length && col <= len(r.bytes); col++ {
			b := r.bytes[col-1]
			if grammar.IsGap(b) {
				continue
			}
			d.dist[col-1][b]--
		}
	}
	d.pendingRemoved = nil

	if d.m.RowCount() == 0 {
		oldLength := length
		d.dist = nil
		if oldLength > 0 {
			d.emit(Event{Kind: ColumnsRemoved, FirstCol: 1, LastCol: oldLength})
		}
		return
	}
	d.emit(Event{Kind: DataChanged, FirstCol: 1, LastCol: length})
}

func (d *Dist) reactGapColumnsInserted(e msa.Event) {
	idx := e.Column - 1
	empty := make([]map[byte]int, e.Count)
	for i := range empty {
		empty[i] = make(map[byte]int)
	}
	out := make([]map[byte]int, 0, len(d.dist)+e.Count)
	out = append(out, d.dist[:idx]...)
	out = append(out, empty...)
	out = append(out, d.dist[idx:]...)
	d.dist = out
	d.emit(Event{Kind: ColumnsInserted, FirstCol: e.Column, LastCol: e.Column + e.Count - 1})
}

func (d *Dist) reactGapColumnsRemoved(e msa.Event) {
	first := e.Column
	last := e.Column + e.Count - 1
	d.dist = append(d.dist[:first-1], d.dist[last:]...)
	d.emit(Event{Kind: ColumnsRemoved, FirstCol: first, LastCol: last})
}

func (d *Dist) reactInternallyChanged(e msa.Event) {
	for i := range e.NewSlice {
		col := e.Column + i
		if col-1 >= len(d.dist) {
			continue
		}
		if i < len(e.OldSlice) && !grammar.IsGap(e.OldSlice[i]) {
			d.dist[col-1][e.OldSlice[i]]--
		}
		if !grammar.IsGap(e.NewSlice[i]) {
			d.dist[col-1][e.NewSlice[i]]++
		}
	}
	if len(e.NewSlice) > 0 {
		d.emit(Event{Kind: DataChanged, FirstCol: e.Column, LastCol: e.Column + len(e.NewSlice) - 1})
	}
}

func (d *Dist) reactRegionSlid(e msa.Event) {
	first, last := e.Left, e.Right
	if e.FinalLeft < first {
		first = e.FinalLeft
	}
	if e.FinalRight > last {
		last = e.FinalRight
	}
	d.rescanRange(first, last)
	d.emit(Event{Kind: DataChanged, FirstCol: first, LastCol: last})
}

func (d *Dist) reactFullRescan() {
	length := d.m.Length()
	if length == 0 {
		return
	}
	if len(d.dist) != length {
		d.rescanAll()
	} else {
		d.rescanRange(1, length)
	}
	d.emit(Event{Kind: DataChanged, FirstCol: 1, LastCol: length})
}

func (d *Dist) reactReset() {
	oldLength := d.pendingOldLength
	d.dist = nil
	if oldLength > 0 {
		d.emit(Event{Kind: ColumnsRemoved, FirstCol: 1, LastCol: oldLength})
	}
}
