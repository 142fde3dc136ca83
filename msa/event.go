package msa

// EventKind tags the variant of an Event. Every mutation emits a pair: the
// AboutTo* kind immediately before the mutation is applied (so observers can
// snapshot prior state) and the matching completed kind immediately after,
// mirroring the teacher's AlignChannel "stream a value, then report what
// happened" idiom generalized from one value to a typed event stream.
// Exceptions: SubseqInternallyChanged, SubseqExtended, SubseqTrimmed and
// ExtendOrTrimFinished are emitted without a preceding AboutTo* event;
// AboutToChangeSubseqInternally, AboutToExtendSubseq, AboutToTrimSubseq and
// AboutToFinishExtendOrTrim are defined but never emitted.
type EventKind int

const (
	AboutToInsertSubseqs EventKind = iota
	SubseqsInserted
	AboutToRemoveSubseqs
	SubseqsRemoved
	AboutToSwapSubseqs
	SubseqsSwapped
	AboutToMoveSubseqs
	SubseqsMoved
	AboutToSortSubseqs
	SubseqsSorted
	AboutToInsertGapColumns
	GapColumnsInserted
	AboutToRemoveGapColumns
	GapColumnsRemoved
	AboutToChangeSubseqInternally
	SubseqInternallyChanged
	AboutToSlideRegion
	RegionSlid
	AboutToCollapseLeft
	CollapsedLeft
	AboutToCollapseRight
	CollapsedRight
	AboutToChangeSubseqStart
	SubseqStartChanged
	AboutToChangeSubseqStop
	SubseqStopChanged
	AboutToExtendSubseq
	SubseqExtended
	AboutToTrimSubseq
	SubseqTrimmed
	AboutToFinishExtendOrTrim
	ExtendOrTrimFinished
	AboutToReset
	MsaReset
)

// Event is a single flat tagged struct carrying whichever fields its Kind
// uses; unused fields are left zero. This mirrors the payload table of the
// change-event protocol directly rather than one Go type per event kind, so
// a single Observer method can switch on Kind.
type Event struct {
	Kind EventKind

	FirstRow int
	LastRow  int
	RowA     int
	RowB     int
	DestRow  int

	Column int
	Count  int

	Row      int
	NewSlice []byte
	OldSlice []byte

	Left, Top, Right, Bottom int
	Delta                    int
	FinalLeft, FinalRight    int

	AffectedColumn int

	NewValue int
	OldValue int

	Slice []byte

	FirstCol int
	LastCol  int
}

// Observer reacts to Msa change events. LiveCharCountDistribution is the
// primary implementation.
type Observer interface {
	HandleMsaEvent(Event)
}

func (m *Msa) addObserverEmit(e Event) {
	for _, o := range m.observers {
		o.HandleMsaEvent(e)
	}
}

// AddObserver registers o to receive every subsequent event pair.
func (m *Msa) AddObserver(o Observer) {
	m.observers = append(m.observers, o)
}

// RemoveObserver deregisters o. A no-op if o was never registered.
func (m *Msa) RemoveObserver(o Observer) {
	for i, existing := range m.observers {
		if existing == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}
