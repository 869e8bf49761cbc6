package export

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
	"github.com/bigsur-network/dagmerge/pkg/resolve"
)

type fakeArtifactCollab struct {
	conflicts map[[2]domain.DeployID]bool
	depends   map[[2]domain.DeployID]bool
}

func (f *fakeArtifactCollab) Seen(domain.BlockID) []domain.BlockID          { return nil }
func (f *fakeArtifactCollab) Height(domain.BlockID) int64                   { return 0 }
func (f *fakeArtifactCollab) DeploysIndex(domain.BlockID) []domain.DeployID { return nil }
func (f *fakeArtifactCollab) Cost(domain.DeployID) uint64                  { return 0 }
func (f *fakeArtifactCollab) MergeableDiffs(domain.DeployID) map[domain.ChannelID]int64 {
	return nil
}

func (f *fakeArtifactCollab) Conflicts(a, b domain.DeployID) bool {
	return f.conflicts[[2]domain.DeployID{a, b}]
}

func (f *fakeArtifactCollab) Depends(a, b domain.DeployID) bool {
	return f.depends[[2]domain.DeployID{a, b}]
}

func TestBuildArtifact_Basic(t *testing.T) {
	collab := &fakeArtifactCollab{
		conflicts: map[[2]domain.DeployID]bool{
			{"a", "b"}: true,
			{"b", "a"}: true,
		},
		depends: map[[2]domain.DeployID]bool{
			{"c", "a"}: true,
		},
	}
	result := resolve.Result{
		Accepted: mapset.NewSet[domain.DeployID]("a", "c"),
		Rejected: mapset.NewSet[domain.DeployID]("b"),
	}
	conflictSet := mapset.NewSet[domain.DeployID]("a", "b", "c")

	art := BuildArtifact(result, conflictSet, collab)

	if len(art.Accepted) != 2 || art.Accepted[0] != "a" || art.Accepted[1] != "c" {
		t.Errorf("Accepted = %v, want sorted [a c]", art.Accepted)
	}
	if len(art.Rejected) != 1 || art.Rejected[0] != "b" {
		t.Errorf("Rejected = %v, want [b]", art.Rejected)
	}
	if len(art.ConflictEdges) != 1 || art.ConflictEdges[0] != (Edge{From: "a", To: "b"}) {
		t.Errorf("ConflictEdges = %v, want one deduplicated a->b edge", art.ConflictEdges)
	}
	if len(art.DependsEdges) != 1 || art.DependsEdges[0] != (Edge{From: "c", To: "a"}) {
		t.Errorf("DependsEdges = %v, want one c->a edge", art.DependsEdges)
	}
}

func TestBuildArtifact_EmptyConflictSet(t *testing.T) {
	collab := &fakeArtifactCollab{}
	result := resolve.Result{
		Accepted: mapset.NewSet[domain.DeployID](),
		Rejected: mapset.NewSet[domain.DeployID](),
	}

	art := BuildArtifact(result, mapset.NewSet[domain.DeployID](), collab)

	if len(art.Accepted) != 0 || len(art.Rejected) != 0 {
		t.Errorf("Artifact = %+v, want empty", art)
	}
	if art.ConflictEdges != nil || art.DependsEdges != nil {
		t.Errorf("Artifact edges = %+v, want nil", art)
	}
}
