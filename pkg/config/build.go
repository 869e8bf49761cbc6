package config

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
	"github.com/bigsur-network/dagmerge/pkg/resolve"
)

// staticCollaborators implements resolve.Collaborators entirely from
// pre-loaded maps, built once from a Scenario at Build time. It never
// looks anything up lazily, matching the resolver's expectation that
// collaborators are value-like and side-effect-free.
type staticCollaborators struct {
	parents   map[domain.BlockID][]domain.BlockID
	heights   map[domain.BlockID]int64
	deploys   map[domain.BlockID][]domain.DeployID
	conflicts map[domain.DeployID]mapset.Set[domain.DeployID]
	depends   map[domain.DeployID]mapset.Set[domain.DeployID]
	costs     map[domain.DeployID]uint64
	diffs     map[domain.DeployID]map[domain.ChannelID]int64
}

// Seen returns the reflexive ancestor set of b: b itself plus every
// block reachable by following Parents edges.
func (c *staticCollaborators) Seen(b domain.BlockID) []domain.BlockID {
	seen := mapset.NewSet(b)
	frontier := []domain.BlockID{b}
	for len(frontier) > 0 {
		var next []domain.BlockID
		for _, cur := range frontier {
			for _, p := range c.parents[cur] {
				if !seen.Contains(p) {
					seen.Add(p)
					next = append(next, p)
				}
			}
		}
		frontier = next
	}
	return seen.ToSlice()
}

func (c *staticCollaborators) Height(b domain.BlockID) int64 { return c.heights[b] }

func (c *staticCollaborators) DeploysIndex(b domain.BlockID) []domain.DeployID {
	return c.deploys[b]
}

func (c *staticCollaborators) Conflicts(a, b domain.DeployID) bool {
	s, ok := c.conflicts[a]
	return ok && s.Contains(b)
}

func (c *staticCollaborators) Depends(a, b domain.DeployID) bool {
	s, ok := c.depends[a]
	return ok && s.Contains(b)
}

func (c *staticCollaborators) Cost(d domain.DeployID) uint64 { return c.costs[d] }

func (c *staticCollaborators) MergeableDiffs(d domain.DeployID) map[domain.ChannelID]int64 {
	return c.diffs[d]
}

// Build converts a validated Scenario into a resolve.Input and a
// resolve.Collaborators implementation ready to pass to resolve.ResolveDAG.
func (sc *Scenario) Build() (resolve.Input, resolve.Collaborators) {
	collab := &staticCollaborators{
		parents:   make(map[domain.BlockID][]domain.BlockID, len(sc.Blocks)),
		heights:   make(map[domain.BlockID]int64, len(sc.Blocks)),
		deploys:   make(map[domain.BlockID][]domain.DeployID, len(sc.Blocks)),
		conflicts: make(map[domain.DeployID]mapset.Set[domain.DeployID], len(sc.Deploys)),
		depends:   make(map[domain.DeployID]mapset.Set[domain.DeployID], len(sc.Deploys)),
		costs:     make(map[domain.DeployID]uint64, len(sc.Deploys)),
		diffs:     make(map[domain.DeployID]map[domain.ChannelID]int64, len(sc.Deploys)),
	}

	for _, b := range sc.Blocks {
		id := domain.BlockID(b.ID)
		collab.heights[id] = b.Height
		for _, p := range b.Parents {
			collab.parents[id] = append(collab.parents[id], domain.BlockID(p))
		}
		for _, d := range b.Deploys {
			collab.deploys[id] = append(collab.deploys[id], domain.DeployID(d))
		}
	}

	conflictSet := func(id domain.DeployID) mapset.Set[domain.DeployID] {
		s, ok := collab.conflicts[id]
		if !ok {
			s = mapset.NewSet[domain.DeployID]()
			collab.conflicts[id] = s
		}
		return s
	}
	dependsSet := func(id domain.DeployID) mapset.Set[domain.DeployID] {
		s, ok := collab.depends[id]
		if !ok {
			s = mapset.NewSet[domain.DeployID]()
			collab.depends[id] = s
		}
		return s
	}

	for _, d := range sc.Deploys {
		id := domain.DeployID(d.ID)
		collab.costs[id] = d.Cost

		if len(d.MergeableDiffs) > 0 {
			diffs := make(map[domain.ChannelID]int64, len(d.MergeableDiffs))
			for ch, delta := range d.MergeableDiffs {
				diffs[domain.ChannelID(ch)] = delta
			}
			collab.diffs[id] = diffs
		}

		for _, c := range d.Conflicts {
			other := domain.DeployID(c)
			conflictSet(id).Add(other)
			conflictSet(other).Add(id)
		}
		for _, dep := range d.Depends {
			dependsSet(id).Add(domain.DeployID(dep))
		}
	}

	toBlockSet := func(ids []string) mapset.Set[domain.BlockID] {
		s := mapset.NewSet[domain.BlockID]()
		for _, id := range ids {
			s.Add(domain.BlockID(id))
		}
		return s
	}
	toDeploySet := func(ids []string) mapset.Set[domain.DeployID] {
		s := mapset.NewSet[domain.DeployID]()
		for _, id := range ids {
			s.Add(domain.DeployID(id))
		}
		return s
	}

	initBalances := make(map[domain.ChannelID]int64, len(sc.Channels))
	for _, ch := range sc.Channels {
		initBalances[domain.ChannelID(ch.ID)] = ch.Balance
	}

	input := resolve.Input{
		Latest:          toBlockSet(sc.Latest),
		Fringe:          toBlockSet(sc.Fringe),
		AcceptedFinally: toDeploySet(sc.AcceptedFinally),
		RejectedFinally: toDeploySet(sc.RejectedFinally),
		InitBalances:    initBalances,
	}

	return input, collab
}
