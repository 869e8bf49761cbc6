package resolve

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// Collaborators bundles the external predicates and indexes ResolveDAG
// needs from the caller, keeping the resolver itself free of any
// knowledge of how blocks, deploys or channels are actually stored. None
// of these methods may observe or mutate state ResolveDAG doesn't pass
// them; the resolver's purity depends on that.
type Collaborators interface {
	// Seen returns the ancestor set of a block, reflexively — Seen(b)
	// always includes b itself (the convention this package fixes, see
	// DESIGN.md).
	Seen(domain.BlockID) []domain.BlockID
	// Height returns a block's height, used for fringe tie-breaking.
	Height(domain.BlockID) int64
	// DeploysIndex returns the deploys a block carries directly.
	DeploysIndex(domain.BlockID) []domain.DeployID
	// Conflicts reports whether a and b cannot both be accepted.
	Conflicts(a, b domain.DeployID) bool
	// Depends reports whether a depends on b (rejecting b forces
	// rejecting a).
	Depends(a, b domain.DeployID) bool
	// Cost returns a deploy's cost.
	Cost(domain.DeployID) uint64
	// MergeableDiffs returns a deploy's channel deltas.
	MergeableDiffs(domain.DeployID) map[domain.ChannelID]int64
}

// Input bundles the per-invocation parameters ResolveDAG is pure over.
type Input struct {
	// Latest is the tip set: blocks the conflict scope is computed
	// forward from.
	Latest mapset.Set[domain.BlockID]
	// Fringe is the current finalization fringe.
	Fringe mapset.Set[domain.BlockID]
	// AcceptedFinally are deploys already finalized as accepted.
	AcceptedFinally mapset.Set[domain.DeployID]
	// RejectedFinally are deploys already finalized as rejected.
	RejectedFinally mapset.Set[domain.DeployID]
	// InitBalances is the channel balance map before this invocation's
	// deploys are folded in.
	InitBalances map[domain.ChannelID]int64
}

// Result is the resolver's output: a partition of the conflict set into
// accepted and rejected. Accepted is drawn from the finality-compatible
// part only; Rejected also holds every deploy finality enforcement forced
// out.
type Result struct {
	Accepted mapset.Set[domain.DeployID]
	Rejected mapset.Set[domain.DeployID]
}

// ResolveDAG computes the conflict scope forward from the tips, restricts
// it to what is still compatible with already-finalized acceptances and
// rejections, enumerates rejection options over the remaining conflicts
// and their dependency closures, folds in the channel-overflow
// rejections, and picks the cheapest option. strategy may be nil, in
// which case Strategy picks ExactEnumerator or BranchAndBoundEnumerator
// by conflict-set size.
func ResolveDAG(in Input, collab Collaborators, strategy RejectionStrategy) (Result, error) {
	conflictScope := ConflictScope(in.Latest, in.Fringe, collab.Seen)

	conflictSet := mapset.NewSet[domain.DeployID]()
	for _, b := range conflictScope.ToSlice() {
		for _, d := range collab.DeploysIndex(b) {
			conflictSet.Add(d)
		}
	}

	depMap := ComputeRelationMap(true, conflictSet, conflictSet, collab.Depends)
	conflictsMap := ComputeRelationMap(false, conflictSet, conflictSet, collab.Conflicts)

	incompatibleWithFinal := mapset.NewSet[domain.DeployID]()
	fromAccepted := ComputeRelationMap(true, conflictSet, in.AcceptedFinally, collab.Conflicts)
	for _, v := range fromAccepted {
		incompatibleWithFinal = incompatibleWithFinal.Union(v)
	}
	fromRejected := ComputeRelationMap(true, conflictSet, in.RejectedFinally, collab.Depends)
	for _, v := range fromRejected {
		incompatibleWithFinal = incompatibleWithFinal.Union(v)
	}

	enforceRejected, err := WithDependencies(incompatibleWithFinal, depMap)
	if err != nil {
		return Result{}, err
	}

	conflictSetCompatible := conflictSet.Difference(enforceRejected)

	fullConflicts := make(RelationMap, len(conflictsMap))
	for k, v := range conflictsMap {
		closure, err := WithDependencies(v, depMap)
		if err != nil {
			return Result{}, err
		}
		fullConflicts[k] = closure
	}

	restricted := make(RelationMap)
	for k, v := range fullConflicts {
		if !conflictSetCompatible.Contains(k) {
			continue
		}
		restrictedValue := v.Intersect(conflictSetCompatible)
		if restrictedValue.Cardinality() > 0 {
			restricted[k] = restrictedValue
		}
	}

	if strategy == nil {
		strategy = Strategy(conflictSetCompatible.Cardinality(), collab.Cost)
	}
	options := strategy.Enumerate(restricted)

	diffs := make(map[domain.DeployID]map[domain.ChannelID]int64, conflictSet.Cardinality())
	for _, d := range conflictSet.ToSlice() {
		diffs[d] = collab.MergeableDiffs(d)
	}

	augmented := AddMergeableOverflowRejections(conflictSetCompatible, options, in.InitBalances, diffs)
	optimal := ComputeOptimalRejection(augmented, collab.Cost)

	return Result{
		Accepted: conflictSetCompatible.Difference(optimal),
		Rejected: optimal.Union(enforceRejected),
	}, nil
}
