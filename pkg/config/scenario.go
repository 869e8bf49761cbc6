// Package config loads YAML scenario files describing a DAG resolution
// run — the blocks, deploys, relations, and channel balances a caller
// feeds to pkg/resolve — and validates them before they reach the
// resolver.
package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes one DAG resolution run end to end: the block DAG,
// the deploy catalog with its conflict/depends edges and mergeable
// diffs, the channel balances, and which blocks/deploys are the tips,
// fringe, and already-finalized sets.
type Scenario struct {
	// Blocks lists every block in the DAG known to this run.
	Blocks []BlockCfg `yaml:"blocks"`

	// Deploys lists every deploy carried by any block in this run.
	Deploys []DeployCfg `yaml:"deploys"`

	// Channels lists the mergeable channels and their balance before
	// this run's deploys are folded in. A channel absent here is
	// treated as starting at zero.
	Channels []ChannelCfg `yaml:"channels,omitempty"`

	// Latest is the tip set: block ids the conflict scope is computed
	// forward from.
	Latest []string `yaml:"latest"`

	// Fringe is the current finalization fringe block ids.
	Fringe []string `yaml:"fringe"`

	// AcceptedFinally lists deploy ids already finalized as accepted.
	AcceptedFinally []string `yaml:"acceptedFinally,omitempty"`

	// RejectedFinally lists deploy ids already finalized as rejected.
	RejectedFinally []string `yaml:"rejectedFinally,omitempty"`
}

// BlockCfg describes one DAG block.
type BlockCfg struct {
	// ID is the block's identifier. Must be unique within a scenario.
	ID string `yaml:"id"`

	// Height orders blocks within a fringe for tie-breaking.
	Height int64 `yaml:"height"`

	// Parents lists the ids of this block's direct parents.
	Parents []string `yaml:"parents,omitempty"`

	// Deploys lists the ids of deploys this block carries directly.
	Deploys []string `yaml:"deploys,omitempty"`
}

// DeployCfg describes one deploy and its relations to other deploys.
type DeployCfg struct {
	// ID is the deploy's identifier. Must be unique within a scenario.
	ID string `yaml:"id"`

	// Cost is the non-negative cost used by the optimal rejection
	// selector.
	Cost uint64 `yaml:"cost"`

	// Conflicts lists deploy ids this deploy cannot be accepted
	// alongside. The scenario loader symmetrizes this list: if a lists
	// b, b need not separately list a.
	Conflicts []string `yaml:"conflicts,omitempty"`

	// Depends lists deploy ids this deploy depends on: rejecting any
	// of them forces rejecting this deploy too.
	Depends []string `yaml:"depends,omitempty"`

	// MergeableDiffs maps channel id to signed delta.
	MergeableDiffs map[string]int64 `yaml:"mergeableDiffs,omitempty"`
}

// ChannelCfg describes one mergeable channel's starting balance.
type ChannelCfg struct {
	ID      string `yaml:"id"`
	Balance int64  `yaml:"balance"`
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return LoadScenarioFromBytes(data)
}

// LoadScenarioFromBytes parses and validates a YAML scenario from a byte
// slice. Useful for tests and programmatic scenario construction.
func LoadScenarioFromBytes(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &sc, nil
}

// Validate checks structural well-formedness: unique ids, and every
// cross-reference (parent, carried deploy, conflict, depends, tip,
// fringe, finalized set) pointing at something that is actually declared.
// It does not re-check pkg/resolve's own invariants — pkg/validation does
// that against a produced result.
func (sc *Scenario) Validate() error {
	blockIDs := make(map[string]struct{}, len(sc.Blocks))
	for i, b := range sc.Blocks {
		if err := b.validateShape(); err != nil {
			return fmt.Errorf("blocks[%d]: %w", i, err)
		}
		if _, dup := blockIDs[b.ID]; dup {
			return fmt.Errorf("blocks[%d]: duplicate block id %q", i, b.ID)
		}
		blockIDs[b.ID] = struct{}{}
	}

	deployIDs := make(map[string]struct{}, len(sc.Deploys))
	for i, d := range sc.Deploys {
		if d.ID == "" {
			return fmt.Errorf("deploys[%d]: id must not be empty", i)
		}
		if _, dup := deployIDs[d.ID]; dup {
			return fmt.Errorf("deploys[%d]: duplicate deploy id %q", i, d.ID)
		}
		deployIDs[d.ID] = struct{}{}
	}

	for i, b := range sc.Blocks {
		for _, p := range b.Parents {
			if _, ok := blockIDs[p]; !ok {
				return fmt.Errorf("blocks[%d]: unknown parent %q", i, p)
			}
		}
		for _, d := range b.Deploys {
			if _, ok := deployIDs[d]; !ok {
				return fmt.Errorf("blocks[%d]: unknown deploy %q", i, d)
			}
		}
	}

	for i, d := range sc.Deploys {
		for _, c := range d.Conflicts {
			if c == d.ID {
				return fmt.Errorf("deploys[%d]: %q conflicts with itself", i, d.ID)
			}
			if _, ok := deployIDs[c]; !ok {
				return fmt.Errorf("deploys[%d]: unknown conflict target %q", i, c)
			}
		}
		for _, dep := range d.Depends {
			if dep == d.ID {
				return fmt.Errorf("deploys[%d]: %q depends on itself", i, d.ID)
			}
			if _, ok := deployIDs[dep]; !ok {
				return fmt.Errorf("deploys[%d]: unknown depends target %q", i, dep)
			}
		}
	}

	if len(sc.Latest) == 0 {
		return errors.New("latest must not be empty")
	}
	for _, id := range sc.Latest {
		if _, ok := blockIDs[id]; !ok {
			return fmt.Errorf("latest: unknown block %q", id)
		}
	}
	for _, id := range sc.Fringe {
		if _, ok := blockIDs[id]; !ok {
			return fmt.Errorf("fringe: unknown block %q", id)
		}
	}
	for _, id := range sc.AcceptedFinally {
		if _, ok := deployIDs[id]; !ok {
			return fmt.Errorf("acceptedFinally: unknown deploy %q", id)
		}
	}
	for _, id := range sc.RejectedFinally {
		if _, ok := deployIDs[id]; !ok {
			return fmt.Errorf("rejectedFinally: unknown deploy %q", id)
		}
	}

	return nil
}

func (b *BlockCfg) validateShape() error {
	if b.ID == "" {
		return errors.New("id must not be empty")
	}
	return nil
}

// ToYAML serializes the scenario back to YAML bytes.
func (sc *Scenario) ToYAML() ([]byte, error) {
	return yaml.Marshal(sc)
}

// Hash computes a deterministic digest of the scenario's YAML encoding,
// useful for cache keys or for labeling exported artifacts.
func (sc *Scenario) Hash() ([]byte, error) {
	data, err := sc.ToYAML()
	if err != nil {
		return nil, fmt.Errorf("hashing scenario: %w", err)
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}
