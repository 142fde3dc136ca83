package msa

import "fmt"

// SetSubseqStart moves row's start boundary to newStart. If the new
// boundary would push the row's gapped view past the Msa's current length,
// gap columns are inserted at the corresponding end for every other row
// first, preserving the equal-length invariant.
func (m *Msa) SetSubseqStart(row, newStart int) error {
	idx, err := m.resolveRow(row)
	if err != nil {
		return err
	}
	s := m.rows[idx]
	oldValue := s.Start()

	switch {
	case newStart < oldValue:
		// Extending left can grow the row's gapped length beyond the
		// Msa's current length if the head-gap budget is insufficient;
		// pre-insert gap columns at position 1 for every other row so
		// the invariant holds once the mutation below runs.
		needed := oldValue - newStart
		if extra := needed - s.HeadGaps(); extra > 0 {
			if err := m.insertGapColumnsExcept(1, extra, '-', idx); err != nil {
				return err
			}
		}
	case newStart > s.Stop():
		// Subseq.SetStart routes this case through extendStopTo, which
		// grows the row's tail the same way SetSubseqStop's natural
		// direction does; pre-insert at the right edge for every other
		// row if the tail-gap budget can't absorb it.
		needed := newStart - s.Stop()
		if extra := needed - s.TailGaps(); extra > 0 {
			if err := m.insertGapColumnsExcept(m.Length()+1, extra, '-', idx); err != nil {
				return err
			}
		}
	}

	m.addObserverEmit(Event{Kind: AboutToChangeSubseqStart, Row: idx + 1, NewValue: newStart, OldValue: oldValue})
	if !s.SetStart(newStart) {
		return fmt.Errorf("msa: set_subseq_start(%d, %d) out of parent bounds", row, newStart)
	}
	m.length = s.Gapped().Length()
	m.addObserverEmit(Event{Kind: SubseqStartChanged, Row: idx + 1, NewValue: newStart, OldValue: oldValue})
	return nil
}

// SetSubseqStop is the mirror image of SetSubseqStart.
func (m *Msa) SetSubseqStop(row, newStop int) error {
	idx, err := m.resolveRow(row)
	if err != nil {
		return err
	}
	s := m.rows[idx]
	oldValue := s.Stop()

	switch {
	case newStop > oldValue:
		needed := newStop - oldValue
		if extra := needed - s.TailGaps(); extra > 0 {
			if err := m.insertGapColumnsExcept(m.Length()+1, extra, '-', idx); err != nil {
				return err
			}
		}
	case newStop < s.Start():
		// Subseq.SetStop routes this case through extendStartTo, which
		// grows the row's head the same way SetSubseqStart's natural
		// direction does; pre-insert at the left edge for every other
		// row if the head-gap budget can't absorb it.
		needed := s.Start() - newStop
		if extra := needed - s.HeadGaps(); extra > 0 {
			if err := m.insertGapColumnsExcept(1, extra, '-', idx); err != nil {
				return err
			}
		}
	}

	m.addObserverEmit(Event{Kind: AboutToChangeSubseqStop, Row: idx + 1, NewValue: newStop, OldValue: oldValue})
	if !s.SetStop(newStop) {
		return fmt.Errorf("msa: set_subseq_stop(%d, %d) out of parent bounds", row, newStop)
	}
	m.length = s.Gapped().Length()
	m.addObserverEmit(Event{Kind: SubseqStopChanged, Row: idx + 1, NewValue: newStop, OldValue: oldValue})
	return nil
}

// insertGapColumnsExcept inserts n gap columns at position into every row
// except skip, used to grow the Msa around a single row that is about to
// extend past the current length.
func (m *Msa) insertGapColumnsExcept(position, n int, gapChar byte, skip int) error {
	if n <= 0 {
		return nil
	}
	m.addObserverEmit(Event{Kind: AboutToInsertGapColumns, Column: position, Count: n})
	for i, row := range m.rows {
		if i == skip {
			continue
		}
		if err := row.InsertGaps(position, n, gapChar); err != nil {
			return err
		}
	}
	m.length += n
	m.addObserverEmit(Event{Kind: GapColumnsInserted, Column: position, Count: n})
	return nil
}

// ExtendSubseqsLeft extends each row in [top, bottom] whose leading-gap
// region covers column, replacing as many leading gaps as possible (bounded
// by available parent sequence) with parent residues.
func (m *Msa) ExtendSubseqsLeft(top, bottom, column int) error {
	ti, bi, err := m.resolveRowSpan(top, bottom)
	if err != nil {
		return err
	}
	first, last := 0, 0
	for i := ti; i <= bi; i++ {
		row := m.rows[i]
		headGaps := row.HeadGaps()
		if column > headGaps || row.Start() <= 1 {
			continue
		}
		budget := headGaps - column + 1
		available := row.Start() - 1
		ext := budget
		if available < ext {
			ext = available
		}
		if ext <= 0 {
			continue
		}
		newStart := row.Start() - ext
		fromCol := headGaps - ext + 1
		if !row.SetStart(newStart) {
			continue
		}
		slice, _ := row.Gapped().Mid(fromCol, headGaps)
		m.addObserverEmit(Event{Kind: SubseqExtended, Row: i + 1, Column: fromCol, Slice: slice.Bytes()})
		if first == 0 || fromCol < first {
			first = fromCol
		}
		if headGaps > last {
			last = headGaps
		}
	}
	if first != 0 {
		m.addObserverEmit(Event{Kind: ExtendOrTrimFinished, FirstCol: first, LastCol: last})
	}
	return nil
}

// ExtendSubseqsRight is the mirror image of ExtendSubseqsLeft.
func (m *Msa) ExtendSubseqsRight(top, bottom, column int) error {
	ti, bi, err := m.resolveRowSpan(top, bottom)
	if err != nil {
		return err
	}
	length := m.Length()
	first, last := 0, 0
	for i := ti; i <= bi; i++ {
		row := m.rows[i]
		tailGaps := row.TailGaps()
		tailStart := length - tailGaps + 1
		if column < tailStart {
			continue
		}
		parentLen := row.Parent().Length()
		if row.Stop() >= parentLen {
			continue
		}
		budget := column - tailStart + 1
		available := parentLen - row.Stop()
		ext := budget
		if available < ext {
			ext = available
		}
		if ext <= 0 {
			continue
		}
		newStop := row.Stop() + ext
		toCol := tailStart + ext - 1
		if !row.SetStop(newStop) {
			continue
		}
		slice, _ := row.Gapped().Mid(tailStart, toCol)
		m.addObserverEmit(Event{Kind: SubseqExtended, Row: i + 1, Column: tailStart, Slice: slice.Bytes()})
		if first == 0 || tailStart < first {
			first = tailStart
		}
		if toCol > last {
			last = toCol
		}
	}
	if first != 0 {
		m.addObserverEmit(Event{Kind: ExtendOrTrimFinished, FirstCol: first, LastCol: last})
	}
	return nil
}

// TrimSubseqsLeft replaces each row's non-gap characters at columns
// < column with gaps, stopping at the row's last non-gap character so a
// row is never emptied entirely.
func (m *Msa) TrimSubseqsLeft(top, bottom, column int) error {
	ti, bi, err := m.resolveRowSpan(top, bottom)
	if err != nil {
		return err
	}
	first, last := 0, 0
	for i := ti; i <= bi; i++ {
		row := m.rows[i]
		headGaps := row.HeadGaps()
		limit := column - 1
		lastResidueCol := m.Length() - row.TailGaps()
		if limit >= lastResidueCol {
			limit = lastResidueCol - 1
		}
		if limit < headGaps+1 {
			continue
		}
		n := row.Gapped().NonGapsBetween(headGaps+1, limit)
		if n <= 0 {
			continue
		}
		newStart := row.Start() + n
		if !row.SetStart(newStart) {
			continue
		}
		m.addObserverEmit(Event{Kind: SubseqTrimmed, Row: i + 1, Column: headGaps + 1, Slice: nil})
		if first == 0 || headGaps+1 < first {
			first = headGaps + 1
		}
		if limit > last {
			last = limit
		}
	}
	if first != 0 {
		m.addObserverEmit(Event{Kind: ExtendOrTrimFinished, FirstCol: first, LastCol: last})
	}
	return nil
}

// TrimSubseqsRight is the mirror image of TrimSubseqsLeft.
func (m *Msa) TrimSubseqsRight(top, bottom, column int) error {
	ti, bi, err := m.resolveRowSpan(top, bottom)
	if err != nil {
		return err
	}
	first, last := 0, 0
	for i := ti; i <= bi; i++ {
		row := m.rows[i]
		tailGaps := row.TailGaps()
		firstResidueCol := row.HeadGaps() + 1
		limit := column + 1
		if limit <= firstResidueCol {
			limit = firstResidueCol + 1
		}
		tailStart := m.Length() - tailGaps + 1
		if limit > tailStart {
			continue
		}
		n := row.Gapped().NonGapsBetween(limit, tailStart-1)
		if n <= 0 {
			continue
		}
		newStop := row.Stop() - n
		if !row.SetStop(newStop) {
			continue
		}
		m.addObserverEmit(Event{Kind: SubseqTrimmed, Row: i + 1, Column: limit, Slice: nil})
		if first == 0 || limit < first {
			first = limit
		}
		if tailStart-1 > last {
			last = tailStart - 1
		}
	}
	if first != 0 {
		m.addObserverEmit(Event{Kind: ExtendOrTrimFinished, FirstCol: first, LastCol: last})
	}
	return nil
}

// LevelSubseqsLeft moves each row's left non-gap boundary to exactly
// column, extending or trimming as needed.
func (m *Msa) LevelSubseqsLeft(top, bottom, column int) error {
	ti, bi, err := m.resolveRowSpan(top, bottom)
	if err != nil {
		return err
	}
	for i := ti; i <= bi; i++ {
		row := m.rows[i]
		headGaps := row.HeadGaps()
		switch {
		case column < headGaps+1:
			if err := m.ExtendSubseqsLeft(i+1, i+1, column); err != nil {
				return err
			}
		case column > headGaps+1:
			if err := m.TrimSubseqsLeft(i+1, i+1, column); err != nil {
				return err
			}
		}
	}
	return nil
}

// LevelSubseqsRight is the mirror image of LevelSubseqsLeft.
func (m *Msa) LevelSubseqsRight(top, bottom, column int) error {
	ti, bi, err := m.resolveRowSpan(top, bottom)
	if err != nil {
		return err
	}
	for i := ti; i <= bi; i++ {
		row := m.rows[i]
		tailStart := m.Length() - row.TailGaps() + 1
		lastResidueCol := tailStart - 1
		switch {
		case column > lastResidueCol:
			if err := m.ExtendSubseqsRight(i+1, i+1, column); err != nil {
				return err
			}
		case column < lastResidueCol:
			if err := m.TrimSubseqsRight(i+1, i+1, column); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Msa) resolveRowSpan(top, bottom int) (int, int, error) {
	ti, err := m.resolveRow(top)
	if err != nil {
		return 0, 0, err
	}
	bi, err := m.resolveRow(bottom)
	if err != nil {
		return 0, 0, err
	}
	if bi < ti {
		return 0, 0, fmt.Errorf("msa: row span [%d, %d] is inverted", top, bottom)
	}
	return ti, bi, nil
}
