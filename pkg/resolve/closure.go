package resolve

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// WithDependencies computes the transitive closure of seed under the
// directed map depMap: the seed set unioned with every node reachable by
// repeatedly following depMap edges, until the frontier is empty. The
// seed itself is always included.
//
// depMap is read as "keys on the right depend on values on the left": if
// d ∈ depMap[a], then d depends on a, so a node already in the result can
// never be removed by a later layer — the frontier only ever grows the
// result, which bounds the loop by the number of distinct deploys
// touched regardless of whether depMap happens to contain a cycle.
// ErrCyclicDependency is still surfaced as a distinct failure by a
// separate DFS pass over the closure once computed.
func WithDependencies(seed mapset.Set[domain.DeployID], depMap RelationMap) (mapset.Set[domain.DeployID], error) {
	result := seed.Clone()
	frontier := seed.Clone()

	for frontier.Cardinality() > 0 {
		next := mapset.NewSet[domain.DeployID]()
		for _, f := range frontier.ToSlice() {
			for _, d := range depMap.Get(f).ToSlice() {
				if !result.Contains(d) {
					next.Add(d)
				}
			}
		}
		if next.Cardinality() == 0 {
			break
		}
		result = result.Union(next)
		frontier = next
	}

	if hasCycle(result, depMap) {
		return nil, ErrCyclicDependency
	}
	return result, nil
}

// cycleState tracks DFS progress for hasCycle, mirroring the visited/
// recursion-stack pair a plain graph cycle detector uses, folded into one
// three-state map.
type cycleState int

const (
	cycleUnvisited cycleState = iota
	cycleVisiting
	cycleDone
)

// hasCycle reports whether depMap, restricted to nodes, contains a cycle.
func hasCycle(nodes mapset.Set[domain.DeployID], depMap RelationMap) bool {
	state := make(map[domain.DeployID]cycleState, nodes.Cardinality())

	var visit func(domain.DeployID) bool
	visit = func(n domain.DeployID) bool {
		switch state[n] {
		case cycleVisiting:
			return true
		case cycleDone:
			return false
		}
		state[n] = cycleVisiting
		for _, next := range depMap.Get(n).ToSlice() {
			if visit(next) {
				return true
			}
		}
		state[n] = cycleDone
		return false
	}

	for _, n := range nodes.ToSlice() {
		if state[n] == cycleUnvisited {
			if visit(n) {
				return true
			}
		}
	}
	return false
}
