package resolve

import (
	"testing"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// dependsTable returns a domain.Predicate backed by a fixed set of
// (dependent, dependency) pairs: depends(a, b) is true only for pairs
// listed here.
func dependsTable(pairs ...[2]domain.DeployID) domain.Predicate {
	set := make(map[[2]domain.DeployID]bool, len(pairs))
	for _, p := range pairs {
		set[p] = true
	}
	return func(a, b domain.DeployID) bool {
		return set[[2]domain.DeployID{a, b}]
	}
}

func TestComputeBranches_MultipleIndependentParents(t *testing.T) {
	target := deploySet("a", "b", "c")
	depends := dependsTable(
		[2]domain.DeployID{"b", "a"},
		[2]domain.DeployID{"b", "c"},
	)

	branches := ComputeBranches(target, depends)

	assertDeploySetEqual(t, "branches[a]", branches.Get("a"), "b")
	assertDeploySetEqual(t, "branches[c]", branches.Get("c"), "b")
	if _, ok := branches["b"]; ok {
		t.Errorf("branches[b] present, want b folded away (it depends on both a and c)")
	}
}

func TestComputeBranches_Chain(t *testing.T) {
	target := deploySet("d1", "d2", "d3", "d4")
	depends := dependsTable(
		[2]domain.DeployID{"d2", "d1"},
		[2]domain.DeployID{"d3", "d2"},
	)

	branches := ComputeBranches(target, depends)

	assertDeploySetEqual(t, "branches[d1]", branches.Get("d1"), "d2", "d3")
	assertDeploySetEqual(t, "branches[d4]", branches.Get("d4"))
	if _, ok := branches["d2"]; ok {
		t.Errorf("branches[d2] present, want d2 folded into d1's bucket")
	}
	if _, ok := branches["d3"]; ok {
		t.Errorf("branches[d3] present, want d3 folded into d1's bucket")
	}
}

func TestComputeBranches_NoDependencies(t *testing.T) {
	target := deploySet("a", "b", "c")
	depends := dependsTable()

	branches := ComputeBranches(target, depends)

	if len(branches) != 3 {
		t.Fatalf("len(branches) = %d, want 3 singleton buckets", len(branches))
	}
	for _, id := range []domain.DeployID{"a", "b", "c"} {
		assertDeploySetEqual(t, "branches["+string(id)+"]", branches.Get(id))
	}
}

func TestComputeGreedyNonIntersectingBranches_MultipleIndependentParents(t *testing.T) {
	target := deploySet("a", "b", "c")
	depends := dependsTable(
		[2]domain.DeployID{"b", "a"},
		[2]domain.DeployID{"b", "c"},
	)

	got := ComputeGreedyNonIntersectingBranches(target, depends)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2 disjoint branches", len(got))
	}

	assertDeploySetEqual(t, "got[0]", got[0], "a", "b")
	assertDeploySetEqual(t, "got[1]", got[1], "c")
}
