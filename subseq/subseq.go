// Package subseq implements Subseq, a gapped window whose non-gap content
// always equals a contiguous slice of a canonical ungapped parent sequence,
// grounded on original_source/defunct/Subseq.{h,cpp}.
package subseq

import (
	"bytes"
	"fmt"

	"github.com/lukeulrich/alignshop/biostring"
	"github.com/lukeulrich/alignshop/contentstore"
	"github.com/lukeulrich/alignshop/grammar"
)

// Subseq ties a gapped BioString view to a canonical ungapped parent held in
// a contentstore.Store, plus a 1-based, inclusive [start, stop] window into
// that parent.
type Subseq struct {
	store  *contentstore.Store
	parent contentstore.Handle

	gapped biostring.BioString
	start  int
	stop   int

	Label    string
	Modified bool
}

// Attach registers parent in store and returns a Subseq covering the whole
// parent (start=1, stop=parent.Length()), with gapped initialized to the
// parent's full ungapped content.
func Attach(store *contentstore.Store, parent biostring.BioString, label string) (*Subseq, error) {
	if parent.Length() == 0 {
		return nil, fmt.Errorf("subseq: cannot attach to an empty parent")
	}
	handle := store.Put(parent)
	return &Subseq{
		store:  store,
		parent: handle,
		gapped: parent,
		start:  1,
		stop:   parent.Length(),
		Label:  label,
	}, nil
}

func (s *Subseq) parentSeq() biostring.BioString {
	p, err := s.store.Get(s.parent)
	if err != nil {
		panic(err) // invariant: a live Subseq always has a live parent handle
	}
	return p
}

// Parent returns the canonical ungapped parent BioString.
func (s *Subseq) Parent() biostring.BioString { return s.parentSeq() }

// Gapped returns the current gapped view.
func (s *Subseq) Gapped() biostring.BioString { return s.gapped }

// Start returns the 1-based start position within the parent.
func (s *Subseq) Start() int { return s.start }

// Stop returns the 1-based stop position within the parent.
func (s *Subseq) Stop() int { return s.stop }

// UngappedLength returns stop - start + 1.
func (s *Subseq) UngappedLength() int { return s.stop - s.start + 1 }

// HeadGaps returns the number of leading gaps in the gapped view.
func (s *Subseq) HeadGaps() int { return s.gapped.HeadGaps() }

// TailGaps returns the number of trailing gaps in the gapped view.
func (s *Subseq) TailGaps() int { return s.gapped.TailGaps() }

// SetGapped replaces the gapped view, succeeding iff bs.Ungapped() occurs as
// a contiguous substring of the parent; start/stop snap to that occurrence.
func (s *Subseq) SetGapped(bs biostring.BioString) error {
	ungapped := bs.Ungapped()
	parent := s.parentSeq()
	idx := bytes.Index([]byte(parent.String()), []byte(ungapped.String()))
	if idx < 0 {
		return fmt.Errorf("subseq: gapped content does not occur in parent")
	}
	s.gapped = bs
	s.start = idx + 1
	s.stop = idx + ungapped.Length()
	s.Modified = true
	return nil
}

// InsertGaps inserts n copies of gapChar at the 1-based position within the
// gapped view. start/stop are unaffected.
func (s *Subseq) InsertGaps(position, n int, gapChar byte) error {
	bs, err := s.gapped.InsertGaps(position, n, gapChar)
	if err != nil {
		return err
	}
	s.gapped = bs
	s.Modified = true
	return nil
}

// RemoveGaps removes the n gap characters starting at the 1-based position
// within the gapped view. start/stop are unaffected.
func (s *Subseq) RemoveGaps(position, n int) error {
	bs, err := s.gapped.RemoveGapsAt(position, n)
	if err != nil {
		return err
	}
	s.gapped = bs
	s.Modified = true
	return nil
}

// Slide slides the gapped view's [a, b] range; start/stop are unaffected
// because non-gap residues are preserved.
func (s *Subseq) Slide(a, b, delta int) int {
	bs, actual := s.gapped.Slide(a, b, delta)
	s.gapped = bs
	if actual != 0 {
		s.Modified = true
	}
	return actual
}

// CollapseLeft collapses the gapped view's [a, b] range leftward.
func (s *Subseq) CollapseLeft(a, b int) ([2]int, bool) {
	bs, rng, changed := s.gapped.CollapseLeft(a, b)
	if changed {
		s.gapped = bs
		s.Modified = true
	}
	return rng, changed
}

// CollapseRight collapses the gapped view's [a, b] range rightward.
func (s *Subseq) CollapseRight(a, b int) ([2]int, bool) {
	bs, rng, changed := s.gapped.CollapseRight(a, b)
	if changed {
		s.gapped = bs
		s.Modified = true
	}
	return rng, changed
}

// SetStart moves the window's start boundary to newStart, trimming or
// extending the gapped view as needed. It returns false (without mutation)
// if newStart falls outside the parent's bounds.
func (s *Subseq) SetStart(newStart int) bool {
	parent := s.parentSeq()
	if newStart < 1 || newStart > parent.Length() {
		return false
	}

	switch {
	case newStart < s.start:
		if !s.extendStartTo(newStart) {
			return false
		}
	case newStart > s.start && newStart <= s.stop:
		if !s.trimStartTo(newStart) {
			return false
		}
	case newStart > s.stop:
		if !s.extendStopTo(newStart) {
			return false
		}
		s.stop = newStart
		if !s.trimStartTo(newStart) {
			return false
		}
	}
	s.start = newStart
	s.Modified = true
	return true
}

// SetStop is the mirror image of SetStart.
func (s *Subseq) SetStop(newStop int) bool {
	parent := s.parentSeq()
	if newStop < 1 || newStop > parent.Length() {
		return false
	}

	switch {
	case newStop > s.stop:
		if !s.extendStopTo(newStop) {
			return false
		}
	case newStop < s.stop && newStop >= s.start:
		if !s.trimStopTo(newStop) {
			return false
		}
	case newStop < s.start:
		if !s.extendStartTo(newStop) {
			return false
		}
		s.start = newStop
		if !s.trimStopTo(newStop) {
			return false
		}
	}
	s.stop = newStop
	s.Modified = true
	return true
}

// extendStartTo moves start leftward to newStart (newStart < s.start),
// replacing leading gaps with the newly covered parent residues and, once
// the head-gap budget is exhausted, prepending whatever does not fit.
func (s *Subseq) extendStartTo(newStart int) bool {
	parent := s.parentSeq()
	needed := s.start - newStart
	extension, err := parent.Mid(newStart, s.start-1)
	if err != nil {
		return false
	}
	headGaps := s.gapped.HeadGaps()
	if needed <= headGaps {
		replaced, err := s.gapped.Replace(headGaps-needed+1, needed, extension)
		if err != nil {
			return false
		}
		s.gapped = replaced
		return true
	}
	stripped, err := s.gapped.Remove(1, headGaps)
	if err != nil {
		return false
	}
	s.gapped = extension.Append(stripped)
	return true
}

// trimStartTo replaces the leftmost (target - s.start) non-gap characters
// of the current window with gaps, leaving target as the new leftmost
// residue without changing the gapped view's length. s.start must still
// hold its pre-call value.
func (s *Subseq) trimStartTo(target int) bool {
	n := target - s.start
	if n <= 0 {
		return true
	}
	raw := s.gapped.Bytes()
	for i := s.gapped.HeadGaps(); i < len(raw) && n > 0; i++ {
		if !grammar.IsGap(raw[i]) {
			raw[i] = '-'
			n--
		}
	}
	trimmed, err := biostring.New(raw, s.gapped.Grammar())
	if err != nil {
		return false
	}
	s.gapped = trimmed
	return true
}

// extendStopTo moves stop rightward to newStop (newStop > s.stop),
// replacing trailing gaps with the newly covered parent residues and, once
// the tail-gap budget is exhausted, appending whatever does not fit.
func (s *Subseq) extendStopTo(newStop int) bool {
	parent := s.parentSeq()
	needed := newStop - s.stop
	extension, err := parent.Mid(s.stop+1, newStop)
	if err != nil {
		return false
	}
	tailGaps := s.gapped.TailGaps()
	if needed <= tailGaps {
		replaced, err := s.gapped.Replace(s.gapped.Length()-tailGaps+1, needed, extension)
		if err != nil {
			return false
		}
		s.gapped = replaced
		return true
	}
	stripped, err := s.gapped.Remove(s.gapped.Length()-tailGaps+1, tailGaps)
	if err != nil {
		return false
	}
	s.gapped = stripped.Append(extension)
	return true
}

// trimStopTo replaces the rightmost (s.stop - target) non-gap characters of
// the current window with gaps, leaving target as the new rightmost
// residue without changing the gapped view's length. s.stop must still
// hold its pre-call value.
func (s *Subseq) trimStopTo(target int) bool {
	n := s.stop - target
	if n <= 0 {
		return true
	}
	raw := s.gapped.Bytes()
	for i := len(raw) - 1 - s.gapped.TailGaps(); i >= 0 && n > 0; i-- {
		if !grammar.IsGap(raw[i]) {
			raw[i] = '-'
			n--
		}
	}
	trimmed, err := biostring.New(raw, s.gapped.Grammar())
	if err != nil {
		return false
	}
	s.gapped = trimmed
	return true
}

// MoveStart clamps start+delta to [1, parent.Length()] and applies SetStart,
// returning the actual distance moved.
func (s *Subseq) MoveStart(delta int) int {
	parent := s.parentSeq()
	newStart := s.start + delta
	if newStart < 1 {
		newStart = 1
	}
	if newStart > parent.Length() {
		newStart = parent.Length()
	}
	old := s.start
	if !s.SetStart(newStart) {
		return 0
	}
	return s.start - old
}

// MoveStop clamps stop+delta to [1, parent.Length()] and applies SetStop,
// returning the actual distance moved.
func (s *Subseq) MoveStop(delta int) int {
	parent := s.parentSeq()
	newStop := s.stop + delta
	if newStop < 1 {
		newStop = 1
	}
	if newStop > parent.Length() {
		newStop = parent.Length()
	}
	old := s.stop
	if !s.SetStop(newStop) {
		return 0
	}
	return s.stop - old
}

func bytesOf(c byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return b
}

// Grammar returns the gapped view's grammar tag.
func (s *Subseq) Grammar() grammar.Grammar { return s.gapped.Grammar() }
