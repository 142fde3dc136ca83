// Package msa implements Msa, the row container that enforces alignment
// invariants (shared grammar, equal gapped length across rows) and emits a
// structured about-to/completed event pair for every mutation, grounded on
// original_source/defunct/tests/TestMsa/TestMsa.cpp and the teacher's
// AlignChannel streaming idiom (align/align.go) generalized to a typed
// event stream.
package msa

import (
	"fmt"
	"sort"

	"github.com/lukeulrich/alignshop/grammar"
	"github.com/lukeulrich/alignshop/subseq"
)

// Msa is an ordered collection of Subseq rows that all share one Grammar
// and one gapped length. The zero Msa is not usable; use New.
type Msa struct {
	id          string
	grammar     grammar.Grammar
	name        string
	description string

	rows   []*subseq.Subseq
	length int

	observers []Observer
}

// New returns an empty Msa identified by id, not yet bound to any grammar
// (the grammar and length are fixed by whichever row is appended first).
func New(id string) *Msa {
	return &Msa{id: id, grammar: grammar.Unknown}
}

func (m *Msa) Id() string                 { return m.id }
func (m *Msa) Grammar() grammar.Grammar   { return m.grammar }
func (m *Msa) Name() string               { return m.name }
func (m *Msa) SetName(name string)        { m.name = name }
func (m *Msa) Description() string        { return m.description }
func (m *Msa) SetDescription(desc string) { m.description = desc }

// RowCount returns the number of rows.
func (m *Msa) RowCount() int { return len(m.rows) }

// Length returns the shared gapped length of every row, or the length
// retained from the last non-empty state if the Msa currently has no rows.
func (m *Msa) Length() int {
	if len(m.rows) == 0 {
		return m.length
	}
	return m.rows[0].Gapped().Length()
}

// resolveRow turns a 1-based (or negative, counting from the tail: -1 is
// the last row) index into a 0-based slice index, per the teacher's
// bounds-checking idiom in align.go's Sample/SubAlign (explicit guard
// clauses, no silent clamping).
func (m *Msa) resolveRow(i int) (int, error) {
	n := len(m.rows)
	orig := i
	if i < 0 {
		i = n + i + 1
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("msa: row index %d out of range [1, %d] (or [-%d, -1])", orig, n, n)
	}
	return i - 1, nil
}

// Row returns the row at 1-based (or negative tail-relative) index i.
func (m *Msa) Row(i int) (*subseq.Subseq, error) {
	idx, err := m.resolveRow(i)
	if err != nil {
		return nil, err
	}
	return m.rows[idx], nil
}

func (m *Msa) checkRowCompatible(s *subseq.Subseq) error {
	if s.Gapped().Length() == 0 {
		return fmt.Errorf("msa: row has zero length")
	}
	if len(m.rows) == 0 {
		return nil
	}
	if m.grammar != grammar.Unknown && s.Grammar() != m.grammar {
		return fmt.Errorf("msa: row grammar %s does not match msa grammar %s", s.Grammar(), m.grammar)
	}
	if m.grammar == grammar.Unknown && s.Grammar() != grammar.Unknown {
		return fmt.Errorf("msa: an Unknown-grammar msa only accepts Unknown-grammar rows")
	}
	if s.Gapped().Length() != m.Length() {
		return fmt.Errorf("msa: row length %d does not match msa length %d", s.Gapped().Length(), m.Length())
	}
	return nil
}

func (m *Msa) adoptFirstRow(s *subseq.Subseq) {
	if len(m.rows) == 0 {
		m.grammar = s.Grammar()
		m.length = s.Gapped().Length()
	}
}

// Append adds s as the last row.
func (m *Msa) Append(s *subseq.Subseq) error {
	if err := m.checkRowCompatible(s); err != nil {
		return err
	}
	pos := len(m.rows) + 1
	m.addObserverEmit(Event{Kind: AboutToInsertSubseqs, FirstRow: pos, LastRow: pos})
	m.adoptFirstRow(s)
	m.rows = append(m.rows, s)
	m.addObserverEmit(Event{Kind: SubseqsInserted, FirstRow: pos, LastRow: pos})
	return nil
}

// Prepend adds s as the first row.
func (m *Msa) Prepend(s *subseq.Subseq) error {
	if err := m.checkRowCompatible(s); err != nil {
		return err
	}
	m.addObserverEmit(Event{Kind: AboutToInsertSubseqs, FirstRow: 1, LastRow: 1})
	m.adoptFirstRow(s)
	m.rows = append([]*subseq.Subseq{s}, m.rows...)
	m.addObserverEmit(Event{Kind: SubseqsInserted, FirstRow: 1, LastRow: 1})
	return nil
}

// InsertAt inserts s at 1-based position (1..RowCount()+1), shifting rows
// at and after position down by one.
func (m *Msa) InsertAt(position int, s *subseq.Subseq) error {
	if position < 1 || position > len(m.rows)+1 {
		return fmt.Errorf("msa: insert position %d out of range [1, %d]", position, len(m.rows)+1)
	}
	if err := m.checkRowCompatible(s); err != nil {
		return err
	}
	m.addObserverEmit(Event{Kind: AboutToInsertSubseqs, FirstRow: position, LastRow: position})
	m.adoptFirstRow(s)
	idx := position - 1
	m.rows = append(m.rows, nil)
	copy(m.rows[idx+1:], m.rows[idx:])
	m.rows[idx] = s
	m.addObserverEmit(Event{Kind: SubseqsInserted, FirstRow: position, LastRow: position})
	return nil
}

func (m *Msa) removeRange(first, last int) {
	m.addObserverEmit(Event{Kind: AboutToRemoveSubseqs, FirstRow: first, LastRow: last})
	m.rows = append(m.rows[:first-1], m.rows[last:]...)
	m.addObserverEmit(Event{Kind: SubseqsRemoved, FirstRow: first, LastRow: last})
}

// RemoveFirst removes the first row. A no-op (false) if the Msa is empty.
func (m *Msa) RemoveFirst() bool {
	if len(m.rows) == 0 {
		return false
	}
	m.removeRange(1, 1)
	return true
}

// RemoveLast removes the last row. A no-op (false) if the Msa is empty.
func (m *Msa) RemoveLast() bool {
	n := len(m.rows)
	if n == 0 {
		return false
	}
	m.removeRange(n, n)
	return true
}

// RemoveAt removes the row at 1-based (or negative tail-relative) index i.
func (m *Msa) RemoveAt(i int) error {
	idx, err := m.resolveRow(i)
	if err != nil {
		return err
	}
	m.removeRange(idx+1, idx+1)
	return nil
}

// Clear removes every row and resets the Msa to its unbound grammar state.
func (m *Msa) Clear() {
	m.addObserverEmit(Event{Kind: AboutToReset})
	m.rows = nil
	m.length = 0
	m.grammar = grammar.Unknown
	m.addObserverEmit(Event{Kind: MsaReset})
}

// Swap exchanges rows i and j (1-based, or negative tail-relative).
func (m *Msa) Swap(i, j int) error {
	a, err := m.resolveRow(i)
	if err != nil {
		return err
	}
	b, err := m.resolveRow(j)
	if err != nil {
		return err
	}
	m.addObserverEmit(Event{Kind: AboutToSwapSubseqs, RowA: a + 1, RowB: b + 1})
	m.rows[a], m.rows[b] = m.rows[b], m.rows[a]
	m.addObserverEmit(Event{Kind: SubseqsSwapped, RowA: a + 1, RowB: b + 1})
	return nil
}

// MoveRow moves the single row at from to position to (both 1-based).
func (m *Msa) MoveRow(from, to int) error {
	return m.MoveRowRange(from, from, to)
}

// MoveRowRange moves the contiguous rows [from, to] so that the block's
// first row lands at dest.
func (m *Msa) MoveRowRange(from, to, dest int) error {
	fi, err := m.resolveRow(from)
	if err != nil {
		return err
	}
	ti, err := m.resolveRow(to)
	if err != nil {
		return err
	}
	if ti < fi {
		return fmt.Errorf("msa: move range [%d, %d] is inverted", from, to)
	}
	di, err := m.resolveRow(dest)
	if err != nil {
		return err
	}

	block := make([]*subseq.Subseq, ti-fi+1)
	copy(block, m.rows[fi:ti+1])

	m.addObserverEmit(Event{Kind: AboutToMoveSubseqs, FirstRow: fi + 1, LastRow: ti + 1, DestRow: di + 1})

	remaining := append(append([]*subseq.Subseq{}, m.rows[:fi]...), m.rows[ti+1:]...)
	insertAt := di
	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(remaining) {
		insertAt = len(remaining)
	}
	out := make([]*subseq.Subseq, 0, len(m.rows))
	out = append(out, remaining[:insertAt]...)
	out = append(out, block...)
	out = append(out, remaining[insertAt:]...)
	m.rows = out

	m.addObserverEmit(Event{Kind: SubseqsMoved, FirstRow: fi + 1, LastRow: ti + 1, DestRow: di + 1})
	return nil
}

// MoveRowRelative moves row i by delta positions (positive moves toward
// the tail).
func (m *Msa) MoveRowRelative(i, delta int) error {
	idx, err := m.resolveRow(i)
	if err != nil {
		return err
	}
	dest := clampInt(idx+1+delta, 1, len(m.rows))
	return m.MoveRow(idx+1, dest)
}

// MoveRowRangeRelative moves the block [from, to] by delta positions.
func (m *Msa) MoveRowRangeRelative(from, to, delta int) error {
	fi, err := m.resolveRow(from)
	if err != nil {
		return err
	}
	ti, err := m.resolveRow(to)
	if err != nil {
		return err
	}
	blockLen := ti - fi + 1
	dest := clampInt(fi+1+delta, 1, len(m.rows)-blockLen+1)
	return m.MoveRowRange(fi+1, ti+1, dest)
}

// Sort reorders rows according to less, emitting a single event pair.
func (m *Msa) Sort(less func(a, b *subseq.Subseq) bool) {
	m.addObserverEmit(Event{Kind: AboutToSortSubseqs})
	sort.SliceStable(m.rows, func(i, j int) bool { return less(m.rows[i], m.rows[j]) })
	m.addObserverEmit(Event{Kind: SubseqsSorted})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
