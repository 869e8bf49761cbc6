package config

import (
	"testing"

	"github.com/bigsur-network/dagmerge/pkg/domain"
	"github.com/bigsur-network/dagmerge/pkg/resolve"
)

func buildScenario(t *testing.T, yaml string) (*Scenario, resolve.Input, resolve.Collaborators) {
	t.Helper()
	sc, err := LoadScenarioFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadScenarioFromBytes() failed: %v", err)
	}
	in, collab := sc.Build()
	return sc, in, collab
}

func TestBuild_BasicWiring(t *testing.T) {
	_, _, collab := buildScenario(t, validScenarioYAML)

	if collab.Height("b2") != 2 {
		t.Errorf("Height(b2) = %d, want 2", collab.Height("b2"))
	}
	if got := collab.DeploysIndex("b1"); len(got) != 1 || got[0] != "d1" {
		t.Errorf("DeploysIndex(b1) = %v, want [d1]", got)
	}
	if !collab.Depends("d2", "d1") {
		t.Error("Depends(d2, d1) = false, want true")
	}
	if collab.Cost("d1") != 10 {
		t.Errorf("Cost(d1) = %d, want 10", collab.Cost("d1"))
	}
}

func TestBuild_InputCarriesTipsAndFringe(t *testing.T) {
	_, in, _ := buildScenario(t, validScenarioYAML)

	if !in.Latest.Contains(domain.BlockID("b2")) {
		t.Errorf("Input.Latest = %v, want to contain b2", in.Latest)
	}
	if !in.Fringe.Contains(domain.BlockID("b1")) {
		t.Errorf("Input.Fringe = %v, want to contain b1", in.Fringe)
	}
	if in.InitBalances[domain.ChannelID("ch1")] != 100 {
		t.Errorf("Input.InitBalances[ch1] = %d, want 100", in.InitBalances[domain.ChannelID("ch1")])
	}
}

func TestBuild_SeenIsReflexiveAndTransitive(t *testing.T) {
	yaml := `
blocks:
  - id: b1
    height: 1
  - id: b2
    height: 2
    parents: [b1]
  - id: b3
    height: 3
    parents: [b2]
latest: [b3]
`
	_, _, collab := buildScenario(t, yaml)

	seen := collab.Seen("b3")
	want := map[domain.BlockID]bool{"b1": true, "b2": true, "b3": true}
	if len(seen) != len(want) {
		t.Fatalf("Seen(b3) = %v, want keys of %v", seen, want)
	}
	for _, id := range seen {
		if !want[id] {
			t.Errorf("Seen(b3) contains unexpected block %q", id)
		}
	}
}

func TestBuild_ConflictsSymmetrized(t *testing.T) {
	yaml := `
blocks:
  - id: b1
    deploys: [d1, d2]
deploys:
  - id: d1
    conflicts: [d2]
  - id: d2
latest: [b1]
`
	_, _, collab := buildScenario(t, yaml)

	if !collab.Conflicts("d1", "d2") {
		t.Error("Conflicts(d1, d2) = false, want true")
	}
	if !collab.Conflicts("d2", "d1") {
		t.Error("Conflicts(d2, d1) = false, want true (should be symmetrized)")
	}
}

func TestBuild_MergeableDiffsAndChannels(t *testing.T) {
	yaml := `
blocks:
  - id: b1
    deploys: [d1]
deploys:
  - id: d1
    mergeableDiffs:
      ch1: -5
channels:
  - id: ch1
    balance: 20
latest: [b1]
`
	sc, _, collab := buildScenario(t, yaml)

	diffs := collab.MergeableDiffs("d1")
	if diffs[domain.ChannelID("ch1")] != -5 {
		t.Errorf("MergeableDiffs(d1)[ch1] = %d, want -5", diffs[domain.ChannelID("ch1")])
	}
	if len(sc.Channels) != 1 || sc.Channels[0].Balance != 20 {
		t.Errorf("Channels = %+v, want balance 20", sc.Channels)
	}
}
