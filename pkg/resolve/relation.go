package resolve

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// RelationMap is the key/value shape every binary relation in this package
// is expressed as: a deploy maps to the (possibly empty) set of deploys it
// relates to. A missing key means "no related items" — callers must not
// read an empty-but-present entry as meaningfully different from an absent
// one.
type RelationMap map[domain.DeployID]mapset.Set[domain.DeployID]

// Get returns the related set for k, or an empty set if k has no entry.
func (m RelationMap) Get(k domain.DeployID) mapset.Set[domain.DeployID] {
	if s, ok := m[k]; ok {
		return s
	}
	return mapset.NewSet[domain.DeployID]()
}

// add inserts v into m[k], creating the entry if necessary.
func (m RelationMap) add(k, v domain.DeployID) {
	s, ok := m[k]
	if !ok {
		s = mapset.NewSet[domain.DeployID]()
		m[k] = s
	}
	s.Add(v)
}

// ComputeRelationMap builds a relation index: for every s in source, the
// value is every t in target with pred(t, s) and t != s. In directed
// mode that is the whole contract. In undirected mode the result is
// additionally symmetrized: whenever b ends up in m[a], a is also added
// to m[b], regardless of which direction pred happened to be evaluated
// in. This is what keeps a conflicts relation symmetric even when target
// and source are the same set and pred is only probed target-against-
// source.
//
// Complexity is O(|target|*|source|) predicate evaluations.
func ComputeRelationMap(directed bool, target, source mapset.Set[domain.DeployID], pred domain.Predicate) RelationMap {
	out := make(RelationMap)

	for _, s := range source.ToSlice() {
		for _, t := range target.ToSlice() {
			if t == s {
				continue
			}
			if pred(t, s) {
				out.add(s, t)
				if !directed {
					out.add(t, s)
				}
			}
		}
	}

	return out
}
