package resolve

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// ComputeBranches groups target into dependency branches: it builds the
// directed dependency map over target (root -> direct dependents) and then
// folds it so that a root which itself depends on something else in target
// has its whole dependent set merged into that dependency's bucket, with
// the root's own key dropped. An element that depends on more than one
// independent root can end up listed under more than one surviving bucket
// — that overlap is deliberate here and is only resolved afterward, by
// ComputeGreedyNonIntersectingBranches. Elements that never appear in the
// dependency map at all (no dependents, and nothing they depend on) get
// their own empty singleton bucket.
func ComputeBranches(target mapset.Set[domain.DeployID], depends domain.Predicate) RelationMap {
	ids := target.ToSlice()
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	buckets := ComputeRelationMap(true, target, target, depends)
	for root := range buckets {
		buckets[root] = buckets[root].Clone()
	}

	for {
		folded := false
		for _, root := range ids {
			dependents, ok := buckets[root]
			if !ok {
				continue
			}
			mergeInto, ok := smallestDependency(root, ids, depends)
			if !ok {
				continue
			}
			into, ok := buckets[mergeInto]
			if !ok {
				into = mapset.NewSet[domain.DeployID]()
			}
			buckets[mergeInto] = into.Union(dependents)
			delete(buckets, root)
			folded = true
		}
		if !folded {
			break
		}
	}

	present := mapset.NewSet[domain.DeployID]()
	for root, dependents := range buckets {
		present.Add(root)
		present = present.Union(dependents)
	}
	for _, t := range ids {
		if !present.Contains(t) {
			buckets[t] = mapset.NewSet[domain.DeployID]()
		}
	}

	return buckets
}

// smallestDependency reports the lexicographically smallest element of ids
// that root depends on, if any. It only breaks a tie among root's own
// dependencies for the purpose of folding root's key away; when several
// other elements depend on root, each of their buckets already received
// root directly from the relation map ComputeBranches starts from, so
// nothing about those other relationships is lost here.
func smallestDependency(root domain.DeployID, ids []domain.DeployID, depends domain.Predicate) (domain.DeployID, bool) {
	var best domain.DeployID
	found := false
	for _, r := range ids {
		if r == root {
			continue
		}
		if depends(root, r) {
			if !found || r.Less(best) {
				best = r
				found = true
			}
		}
	}
	return best, found
}

// ComputeGreedyNonIntersectingBranches sorts the branch buckets by
// (-size, root id) and feeds them to PartitionScope, yielding disjoint
// branches in largest-first order. An element ComputeBranches placed under
// more than one root ends up kept in whichever of those branches is
// largest (ties broken toward the smaller root id), and stripped from the
// rest.
func ComputeGreedyNonIntersectingBranches(target mapset.Set[domain.DeployID], depends domain.Predicate) []mapset.Set[domain.DeployID] {
	branches := ComputeBranches(target, depends)

	type bucket struct {
		root domain.DeployID
		set  mapset.Set[domain.DeployID]
	}
	buckets := make([]bucket, 0, len(branches))
	for root, dependents := range branches {
		full := dependents.Clone()
		full.Add(root)
		buckets = append(buckets, bucket{root: root, set: full})
	}

	sort.Slice(buckets, func(i, j int) bool {
		si, sj := buckets[i].set.Cardinality(), buckets[j].set.Cardinality()
		if si != sj {
			return si > sj
		}
		return buckets[i].root.Less(buckets[j].root)
	})

	sets := make([]mapset.Set[domain.DeployID], len(buckets))
	for i, b := range buckets {
		sets[i] = b.set
	}
	return PartitionScope(sets)
}

// PartitionScope walks an ordered list of sets, keeping the first
// (largest, by the caller's ordering) intact and removing its elements
// from every set that follows, yielding pairwise-disjoint branches.
func PartitionScope(ordered []mapset.Set[domain.DeployID]) []mapset.Set[domain.DeployID] {
	out := make([]mapset.Set[domain.DeployID], 0, len(ordered))
	taken := mapset.NewSet[domain.DeployID]()

	for _, s := range ordered {
		remaining := s.Difference(taken)
		if remaining.Cardinality() == 0 {
			continue
		}
		out = append(out, remaining)
		taken = taken.Union(remaining)
	}
	return out
}
