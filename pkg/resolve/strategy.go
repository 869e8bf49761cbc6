package resolve

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// ExactEnumerationLimit is the conflict-set size, in keys, above which
// Strategy switches from ExactEnumerator to BranchAndBoundEnumerator.
const ExactEnumerationLimit = 20

// RejectionStrategy computes rejection options over a full conflicts map.
// Enumerating every option this way is exponential in the worst case; both
// implementations must return a conflict-free-complement rejection for
// every branch they complete, but only ExactEnumerator is guaranteed to
// return every such option.
type RejectionStrategy interface {
	Enumerate(fullConflicts RelationMap) []mapset.Set[domain.DeployID]
}

// ExactEnumerator runs the full breadth-first search over rejection
// options without pruning.
type ExactEnumerator struct{}

// Enumerate implements RejectionStrategy.
func (ExactEnumerator) Enumerate(fullConflicts RelationMap) []mapset.Set[domain.DeployID] {
	return ComputeRejectionOptions(fullConflicts)
}

// BranchAndBoundEnumerator runs the same state-space search as
// ExactEnumerator but discards a branch as soon as the cost of its
// rejected-so-far set exceeds the cheapest complete option found so far.
// The caller still picks the minimum over whatever this returns; pruning
// only trades the search's exhaustiveness for speed above
// ExactEnumerationLimit keys, where full enumeration stops being
// practical.
type BranchAndBoundEnumerator struct {
	Cost domain.CostFunc
}

// Enumerate implements RejectionStrategy.
func (e BranchAndBoundEnumerator) Enumerate(fullConflicts RelationMap) []mapset.Set[domain.DeployID] {
	keys := mapset.NewSet[domain.DeployID]()
	for k := range fullConflicts {
		keys.Add(k)
	}
	if keys.Cardinality() == 0 {
		return nil
	}

	frontier := make([]enumState, 0, keys.Cardinality())
	for _, d := range keys.ToSlice() {
		frontier = append(frontier, enumState{
			candidate: d,
			rejected:  mapset.NewSet[domain.DeployID](),
			accepted:  mapset.NewSet(d),
		})
	}

	completed := make(map[string]mapset.Set[domain.DeployID])
	bestCost, haveBest := uint64(0), false

	rejectedCost := func(r mapset.Set[domain.DeployID]) uint64 {
		var sum uint64
		for _, d := range r.ToSlice() {
			sum += e.Cost(d)
		}
		return sum
	}

	for len(frontier) > 0 {
		next := make([]enumState, 0)
		for _, s := range frontier {
			rejected := s.rejected.Union(fullConflicts.Get(s.candidate))
			accepted := s.accepted.Clone()
			accepted.Add(s.candidate)

			cost := rejectedCost(rejected)
			if haveBest && cost > bestCost {
				continue
			}

			remaining := keys.Difference(rejected).Difference(accepted)

			if remaining.Cardinality() == 0 {
				if !haveBest || cost < bestCost {
					bestCost, haveBest = cost, true
				}
				key := dedupeKey(rejected)
				if _, ok := completed[key]; !ok {
					completed[key] = rejected
				}
				continue
			}

			for _, c := range remaining.ToSlice() {
				next = append(next, enumState{candidate: c, rejected: rejected, accepted: accepted})
			}
		}
		frontier = next
	}

	options := make([]mapset.Set[domain.DeployID], 0, len(completed))
	for _, o := range completed {
		options = append(options, o)
	}
	return options
}

// Strategy picks ExactEnumerator for conflict sets at or below
// ExactEnumerationLimit and BranchAndBoundEnumerator above it.
func Strategy(conflictSetSize int, cost domain.CostFunc) RejectionStrategy {
	if conflictSetSize <= ExactEnumerationLimit {
		return ExactEnumerator{}
	}
	return BranchAndBoundEnumerator{Cost: cost}
}
