package subseq

import (
	"testing"

	"github.com/lukeulrich/alignshop/biostring"
	"github.com/lukeulrich/alignshop/contentstore"
	"github.com/lukeulrich/alignshop/grammar"
)

func mustAttach(t *testing.T, parent string) *Subseq {
	t.Helper()
	store := contentstore.New()
	bs := biostring.MustNew(parent, grammar.Amino)
	s, err := Attach(store, bs, "test")
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return s
}

func TestAttachCoversWholeParent(t *testing.T) {
	s := mustAttach(t, "ABCDEF")
	if s.Start() != 1 || s.Stop() != 6 {
		t.Fatalf("got start=%d stop=%d, want 1,6", s.Start(), s.Stop())
	}
	if s.Gapped().String() != "ABCDEF" {
		t.Fatalf("got gapped=%q", s.Gapped().String())
	}
}

func TestAttachRejectsEmptyParent(t *testing.T) {
	store := contentstore.New()
	_, err := Attach(store, biostring.BioString{}, "empty")
	if err == nil {
		t.Fatal("expected error attaching an empty parent")
	}
}

func TestSetStartShrinkWithinHeadGaps(t *testing.T) {
	s := mustAttach(t, "ABCDEFGH")
	if !s.SetStart(3) {
		t.Fatal("SetStart(3) returned false")
	}
	if s.Start() != 3 || s.Stop() != 8 {
		t.Fatalf("got start=%d stop=%d, want 3,8", s.Start(), s.Stop())
	}
	if s.Gapped().String() != "--CDEFGH" {
		t.Fatalf("got gapped=%q", s.Gapped().String())
	}
}

func TestSetStartExtendLeftWithinHeadGapBudget(t *testing.T) {
	s := mustAttach(t, "ABCDEFGH")
	if !s.SetStart(3) {
		t.Fatal("SetStart(3) returned false")
	}
	if !s.SetStart(1) {
		t.Fatal("SetStart(1) returned false")
	}
	if s.Start() != 1 || s.Stop() != 8 {
		t.Fatalf("got start=%d stop=%d, want 1,8", s.Start(), s.Stop())
	}
	if s.Gapped().String() != "ABCDEFGH" {
		t.Fatalf("got gapped=%q", s.Gapped().String())
	}
}

func TestSetStartExtendLeftBeyondHeadGaps(t *testing.T) {
	store := contentstore.New()
	bs := biostring.MustNew("ABCDEFGH", grammar.Amino)
	s, err := Attach(store, bs, "test")
	if err != nil {
		t.Fatal(err)
	}
	gapped, err := biostring.New([]byte("-CDEFGH"), grammar.Amino)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetGapped(gapped); err != nil {
		t.Fatalf("SetGapped: %v", err)
	}
	if s.Start() != 3 {
		t.Fatalf("got start=%d, want 3 after SetGapped", s.Start())
	}

	if !s.SetStart(1) {
		t.Fatal("SetStart(1) returned false")
	}
	if s.Start() != 1 || s.Stop() != 8 {
		t.Fatalf("got start=%d stop=%d, want 1,8", s.Start(), s.Stop())
	}
	if s.Gapped().String() != "ABCDEFGH" {
		t.Fatalf("got gapped=%q, want no leftover leading gap", s.Gapped().String())
	}
}

func TestSetStartBeyondStopCollapsesToSingleResidue(t *testing.T) {
	s := mustAttach(t, "ABCDEFGH")
	if !s.SetStop(3) {
		t.Fatal("SetStop(3) returned false")
	}
	if !s.SetStart(6) {
		t.Fatal("SetStart(6) returned false")
	}
	if s.Start() != 6 || s.Stop() != 6 {
		t.Fatalf("got start=%d stop=%d, want 6,6", s.Start(), s.Stop())
	}
	if s.Gapped().ByteAt(6) != 'F' {
		t.Fatalf("residue at position 6 = %q, want F", s.Gapped().ByteAt(6))
	}
	if s.Gapped().Ungapped().String() != "F" {
		t.Fatalf("ungapped=%q, want F", s.Gapped().Ungapped().String())
	}
}

func TestSetStopBeforeStartCollapsesToSingleResidue(t *testing.T) {
	s := mustAttach(t, "ABCDEFGH")
	if !s.SetStart(6) {
		t.Fatal("SetStart(6) returned false")
	}
	if !s.SetStop(3) {
		t.Fatal("SetStop(3) returned false")
	}
	if s.Start() != 3 || s.Stop() != 3 {
		t.Fatalf("got start=%d stop=%d, want 3,3", s.Start(), s.Stop())
	}
	if s.Gapped().Ungapped().String() != "C" {
		t.Fatalf("ungapped=%q, want C", s.Gapped().Ungapped().String())
	}
}

func TestMoveStartClampsToParentBounds(t *testing.T) {
	s := mustAttach(t, "ABCDEFGH")
	actual := s.MoveStart(-5)
	if actual != 0 {
		t.Fatalf("got actual move %d, want 0 (already at start=1)", actual)
	}
	if s.Start() != 1 {
		t.Fatalf("start=%d, want 1", s.Start())
	}
}

func TestSlideAndCollapseDelegateWithoutMovingBoundaries(t *testing.T) {
	store := contentstore.New()
	bs := biostring.MustNew("ABCDE", grammar.Amino)
	s, err := Attach(store, bs, "test")
	if err != nil {
		t.Fatal(err)
	}
	gapped, err := biostring.New([]byte("--ABCDE--"), grammar.Amino)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetGapped(gapped); err != nil {
		t.Fatalf("SetGapped: %v", err)
	}
	start, stop := s.Start(), s.Stop()

	actual := s.Slide(3, 7, 1)
	if actual != 1 {
		t.Fatalf("Slide returned %d, want 1", actual)
	}
	if s.Start() != start || s.Stop() != stop {
		t.Fatalf("start/stop changed after Slide: got %d,%d want %d,%d", s.Start(), s.Stop(), start, stop)
	}

	rng, changed := s.CollapseLeft(1, 9)
	if !changed {
		t.Fatal("expected CollapseLeft to report a change")
	}
	_ = rng
	if s.Start() != start || s.Stop() != stop {
		t.Fatalf("start/stop changed after CollapseLeft: got %d,%d want %d,%d", s.Start(), s.Stop(), start, stop)
	}
}
