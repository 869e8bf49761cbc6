package resolve

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// ComputeOptimalRejection chooses, among options, the one minimizing, in
// lexicographic order, (Σcost, cardinality, sorted elements). The
// sorted-elements tie-break exists solely for determinism when two
// options tie on cost and size. Empty input yields the empty set.
func ComputeOptimalRejection(options []mapset.Set[domain.DeployID], cost domain.CostFunc) mapset.Set[domain.DeployID] {
	if len(options) == 0 {
		return mapset.NewSet[domain.DeployID]()
	}

	best := options[0]
	bestKey := optionKey(best, cost)

	for _, o := range options[1:] {
		key := optionKey(o, cost)
		if key.less(bestKey) {
			best, bestKey = o, key
		}
	}

	return best
}

// rejectionKey is the lexicographic comparison key options are ranked by.
type rejectionKey struct {
	cost   uint64
	size   int
	sorted []domain.DeployID
}

func optionKey(o mapset.Set[domain.DeployID], cost domain.CostFunc) rejectionKey {
	var sum uint64
	for _, d := range o.ToSlice() {
		sum += cost(d)
	}
	return rejectionKey{cost: sum, size: o.Cardinality(), sorted: domain.SortDeployIDs(o.ToSlice())}
}

func (k rejectionKey) less(other rejectionKey) bool {
	if k.cost != other.cost {
		return k.cost < other.cost
	}
	if k.size != other.size {
		return k.size < other.size
	}
	for i := 0; i < k.size; i++ {
		if k.sorted[i] != other.sorted[i] {
			return k.sorted[i].Less(other.sorted[i])
		}
	}
	return false
}
