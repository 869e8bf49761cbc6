// Package export renders a resolve.Result as JSON or as an SVG picture
// of the conflict graph, colored by accept/reject outcome.
package export

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
	"github.com/bigsur-network/dagmerge/pkg/resolve"
)

// Edge is one relation between two deploys, rendered as a graph edge.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Artifact is the exportable shape of a single resolver invocation: the
// final partition plus enough of the conflict graph to draw it.
type Artifact struct {
	Accepted      []string `json:"accepted"`
	Rejected      []string `json:"rejected"`
	ConflictEdges []Edge   `json:"conflictEdges,omitempty"`
	DependsEdges  []Edge   `json:"dependsEdges,omitempty"`
}

// BuildArtifact assembles an Artifact from a resolver result, the
// conflict set it was computed over, and the collaborators that
// supplied the conflicts/depends predicates. Edges are restricted to
// pairs within conflictSet and deduplicated/sorted for stable output.
func BuildArtifact(result resolve.Result, conflictSet mapset.Set[domain.DeployID], collab resolve.Collaborators) Artifact {
	ids := domain.SortDeployIDs(conflictSet.ToSlice())

	art := Artifact{
		Accepted: toStrings(domain.SortDeployIDs(result.Accepted.ToSlice())),
		Rejected: toStrings(domain.SortDeployIDs(result.Rejected.ToSlice())),
	}

	for i, a := range ids {
		for j := i + 1; j < len(ids); j++ {
			b := ids[j]
			if collab.Conflicts(a, b) {
				art.ConflictEdges = append(art.ConflictEdges, Edge{From: string(a), To: string(b)})
			}
		}
	}

	for _, a := range ids {
		for _, b := range ids {
			if a == b {
				continue
			}
			if collab.Depends(a, b) {
				art.DependsEdges = append(art.DependsEdges, Edge{From: string(a), To: string(b)})
			}
		}
	}

	sort.Slice(art.ConflictEdges, func(i, j int) bool { return edgeLess(art.ConflictEdges[i], art.ConflictEdges[j]) })
	sort.Slice(art.DependsEdges, func(i, j int) bool { return edgeLess(art.DependsEdges[i], art.DependsEdges[j]) })

	return art
}

func edgeLess(a, b Edge) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	return a.To < b.To
}

func toStrings(ids []domain.DeployID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
