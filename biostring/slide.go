package biostring

import "github.com/lukeulrich/alignshop/grammar"

// LeftSlidablePositions returns how far the 1-based inclusive range
// [a, b] may slide left before it runs out of adjacent gap room.
func (bs BioString) LeftSlidablePositions(a, b int) int {
	if bs.NonGapsBetween(a, b) > 0 {
		return bs.GapsLeftOf(a)
	}
	return a - 1
}

// RightSlidablePositions returns how far the 1-based inclusive range
// [a, b] may slide right before it runs out of adjacent gap room.
func (bs BioString) RightSlidablePositions(a, b int) int {
	if bs.NonGapsBetween(a, b) > 0 {
		return bs.GapsRightOf(b)
	}
	return bs.Length() - b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Slide moves the 1-based inclusive range [a, b] horizontally: delta < 0
// slides left, delta > 0 slides right. The actual distance moved is
// min(|delta|, slidable-on-that-side). The displaced characters (including
// gap-character identity, '-' vs '.') take the range's former place, so
// round-tripping (slide one way, then the opposite way by the same actual
// distance) is bitwise identity. It returns the mutated BioString and the
// signed actual distance moved.
func (bs BioString) Slide(a, b, delta int) (BioString, int) {
	if delta == 0 {
		return bs, 0
	}
	if delta < 0 {
		d := -delta
		if max := bs.LeftSlidablePositions(a, b); d > max {
			d = max
		}
		if d == 0 {
			return bs, 0
		}
		raw := bs.clone()
		moving := make([]byte, b-a+1)
		copy(moving, raw[a-1:b])
		displaced := make([]byte, d)
		copy(displaced, raw[a-1-d:a-1])
		copy(raw[a-1-d:a-1-d+len(moving)], moving)
		copy(raw[a-1-d+len(moving):b], displaced)
		return withBytes(bs, raw), -d
	}
	d := delta
	if max := bs.RightSlidablePositions(a, b); d > max {
		d = max
	}
	if d == 0 {
		return bs, 0
	}
	raw := bs.clone()
	moving := make([]byte, b-a+1)
	copy(moving, raw[a-1:b])
	displaced := make([]byte, d)
	copy(displaced, raw[b:b+d])
	copy(raw[a-1:a-1+d], displaced)
	copy(raw[a-1+d:b+d], moving)
	return withBytes(bs, raw), d
}

// CollapseLeft packs every non-gap character within the 1-based inclusive
// range [a, b] leftward against a, filling vacated positions with '-'. It
// returns the mutated BioString, the smallest affected [first, last]
// subrange of positions whose byte actually changed, and whether anything
// changed.
func (bs BioString) CollapseLeft(a, b int) (BioString, [2]int, bool) {
	raw := bs.clone()
	write := a - 1 // 0-based cursor
	changed := false
	first, last := 0, 0
	for read := a - 1; read < b; read++ {
		if grammar.IsGap(raw[read]) {
			continue
		}
		if write != read {
			if !changed {
				first = write + 1
				changed = true
			}
			last = read + 1
			raw[write], raw[read] = raw[read], '-'
		}
		write++
	}
	if !changed {
		return bs, [2]int{}, false
	}
	return withBytes(bs, raw), [2]int{first, last}, true
}

// CollapseRight is the mirror image of CollapseLeft, packing against b.
func (bs BioString) CollapseRight(a, b int) (BioString, [2]int, bool) {
	raw := bs.clone()
	write := b - 1 // 0-based cursor
	changed := false
	first, last := 0, 0
	for read := b - 1; read >= a-1; read-- {
		if grammar.IsGap(raw[read]) {
			continue
		}
		if write != read {
			if !changed {
				last = write + 1
				changed = true
			}
			first = read + 1
			raw[write], raw[read] = raw[read], '-'
		}
		write--
	}
	if !changed {
		return bs, [2]int{}, false
	}
	return withBytes(bs, raw), [2]int{first, last}, true
}
