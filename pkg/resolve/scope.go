package resolve

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// seenUnion unions seen(b) over every b in blocks. The seen convention
// used throughout this package is reflexive (seen(b) always contains b),
// so callers do not need to additionally union in blocks itself; ConflictScope
// and FinalScope still do so explicitly below so the result stays correct
// even if a caller's AncestorFunc is not reflexive.
func seenUnion(blocks mapset.Set[domain.BlockID], seen domain.AncestorFunc) mapset.Set[domain.BlockID] {
	out := mapset.NewSet[domain.BlockID]()
	for _, b := range blocks.ToSlice() {
		out.Add(b)
		for _, a := range seen(b) {
			out.Add(a)
		}
	}
	return out
}

// ConflictScope computes the unfinalized region reachable from the tips:
// every block reachable from latest that is not reachable from, or part
// of, the finalization fringe.
func ConflictScope(latest, fringe mapset.Set[domain.BlockID], seen domain.AncestorFunc) mapset.Set[domain.BlockID] {
	reachableFromLatest := seenUnion(latest, seen)
	reachableFromFringe := seenUnion(fringe, seen)
	return reachableFromLatest.Difference(reachableFromFringe)
}

// FinalScope computes the "ring" of newly finalized blocks between two
// fringes: blocks reachable from latestFringe but not from lowestFringe,
// plus latestFringe itself.
func FinalScope(latestFringe, lowestFringe mapset.Set[domain.BlockID], seen domain.AncestorFunc) mapset.Set[domain.BlockID] {
	reachableFromLatest := seenUnion(latestFringe, seen)
	reachableFromLowest := seenUnion(lowestFringe, seen)
	return reachableFromLatest.Difference(reachableFromLowest).Union(latestFringe)
}

// LowestFringe picks, among fringes, the one whose minimal block by
// (height, id) is globally minimum. A single fringe is returned as-is.
// Calling with no fringes is a programmer error and returns
// ErrEmptyFringeSet rather than panicking.
func LowestFringe(fringes []mapset.Set[domain.BlockID], height func(domain.BlockID) int64) (mapset.Set[domain.BlockID], error) {
	if len(fringes) == 0 {
		return nil, ErrEmptyFringeSet
	}
	if len(fringes) == 1 {
		return fringes[0], nil
	}

	var lowest mapset.Set[domain.BlockID]
	var lowestMin domain.BlockRef
	found := false

	for _, fringe := range fringes {
		min, ok := minBlockRef(fringe, height)
		if !ok {
			continue
		}
		if !found || min.Less(lowestMin) {
			lowestMin = min
			lowest = fringe
			found = true
		}
	}

	if !found {
		return nil, ErrEmptyFringeSet
	}
	return lowest, nil
}

// minBlockRef returns the (height, id)-minimal block of a fringe.
func minBlockRef(fringe mapset.Set[domain.BlockID], height func(domain.BlockID) int64) (domain.BlockRef, bool) {
	var min domain.BlockRef
	found := false
	for _, id := range fringe.ToSlice() {
		ref := domain.BlockRef{ID: id, Height: height(id)}
		if !found || ref.Less(min) {
			min = ref
			found = true
		}
	}
	return min, found
}
