package resolve

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// enumState is a node in the breadth-first search ComputeRejectionOptions
// runs: candidate is the deploy about to be folded in, accepted/rejected
// are the sets accumulated by the path that reached this state.
type enumState struct {
	candidate domain.DeployID
	rejected  mapset.Set[domain.DeployID]
	accepted  mapset.Set[domain.DeployID]
}

// ComputeRejectionOptions enumerates every rejection option over
// fullConflicts. Each option is the complement of a maximal independent
// set of the conflict graph restricted to fullConflicts' keys, reached by
// a breadth-first search over (candidate, rejected_so_far, accepted_so_far)
// states: folding a candidate's conflicts into rejected and the candidate
// itself into accepted, then branching one child per remaining candidate
// not yet accepted or rejected. A state with no remaining candidates emits
// its rejected set as a completed option. Exponential worst case — see
// strategy.go for the size at which BranchAndBoundEnumerator should be
// used instead.
//
// Returns nil if fullConflicts has no keys ("nothing to reject").
func ComputeRejectionOptions(fullConflicts RelationMap) []mapset.Set[domain.DeployID] {
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

	for len(frontier) > 0 {
		next := make([]enumState, 0)
		for _, s := range frontier {
			rejected := s.rejected.Union(fullConflicts.Get(s.candidate))
			accepted := s.accepted.Clone()
			accepted.Add(s.candidate)

			remaining := keys.Difference(rejected).Difference(accepted)

			if remaining.Cardinality() == 0 {
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

// dedupeKey gives an order-independent identity for a rejection set so
// the breadth-first search can deduplicate options reached via different
// paths.
func dedupeKey(s mapset.Set[domain.DeployID]) string {
	sorted := domain.SortDeployIDs(s.ToSlice())
	ids := make([]string, len(sorted))
	for i, d := range sorted {
		ids[i] = string(d)
	}
	return strings.Join(ids, "\x00")
}
