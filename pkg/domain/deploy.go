package domain

// Deploy is a single user-submitted unit of state change carried by a
// block. Cost and MergeableDiffs are the only attributes the resolver
// looks at; everything else (signatures, payload, Rholang term) lives with
// the external collaborator that produced the conflicts/depends relations.
type Deploy struct {
	ID             DeployID
	Cost           uint64
	MergeableDiffs map[ChannelID]int64
}

// AbsImpact returns Σ|Δ| over the deploy's mergeable diffs, the ordering
// key the overflow resolver folds deploys by.
func (d Deploy) AbsImpact() int64 {
	var total int64
	for _, delta := range d.MergeableDiffs {
		if delta < 0 {
			total += -delta
		} else {
			total += delta
		}
	}
	return total
}

// Predicate is a binary relation between deploys, e.g. "conflicts with" or
// "depends on". It is supplied by the external collaborator (the Rholang
// VM, in the real system) and treated as opaque by the resolver.
type Predicate func(a, b DeployID) bool

// AncestorFunc returns the "seen set" of a block: every block reachable
// from it through parent edges. This implementation fixes the reflexive
// convention — Seen(b) always includes b itself — and pkg/resolve is
// written against that convention throughout.
type AncestorFunc func(BlockID) []BlockID

// CostFunc returns the cost of a deploy, used by the optimal-rejection
// selector.
type CostFunc func(DeployID) uint64
