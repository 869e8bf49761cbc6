// Package validation independently re-checks the invariants pkg/resolve
// is supposed to uphold, against a produced result. It is a second
// implementation of the checks, not a call back into pkg/resolve's own
// algorithms — the point is to catch a regression in resolve without
// trusting resolve's own bookkeeping.
package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
	"github.com/bigsur-network/dagmerge/pkg/resolve"
)

// CheckResult re-verifies the result of resolve.ResolveDAG over
// conflictSet: that accepted and rejected partition conflictSet, that no
// two accepted deploys conflict, that dependency closure holds, that
// finality compatibility holds against the caller's already-finalized
// state, and that folding the accepted deploys never overflows or
// underflows a channel. collab is the same collaborators implementation
// the run used; the starting channel balances are in.InitBalances.
func CheckResult(result resolve.Result, in resolve.Input, collab resolve.Collaborators, conflictSet mapset.Set[domain.DeployID]) error {
	if err := checkPartition(result, conflictSet); err != nil {
		return fmt.Errorf("partition: %w", err)
	}
	if err := checkConflictFreedom(result, collab); err != nil {
		return fmt.Errorf("conflict-freedom: %w", err)
	}
	if err := checkDependencyClosure(result, collab, conflictSet); err != nil {
		return fmt.Errorf("dependency closure: %w", err)
	}
	if err := checkFinalityCompatibility(result, in, collab, conflictSet); err != nil {
		return fmt.Errorf("finality compatibility: %w", err)
	}
	if err := checkChannelSafety(result, collab, in.InitBalances); err != nil {
		return fmt.Errorf("channel safety: %w", err)
	}
	return nil
}

// checkPartition verifies accepted and rejected are disjoint and their
// union equals conflictSet.
func checkPartition(result resolve.Result, conflictSet mapset.Set[domain.DeployID]) error {
	if result.Accepted.Intersect(result.Rejected).Cardinality() != 0 {
		return errors.New("accepted and rejected overlap")
	}
	union := result.Accepted.Union(result.Rejected)
	if !union.Equal(conflictSet) {
		return fmt.Errorf("accepted ∪ rejected (%d) does not equal conflict_set (%d)", union.Cardinality(), conflictSet.Cardinality())
	}
	return nil
}

// checkConflictFreedom verifies no two accepted deploys conflict.
func checkConflictFreedom(result resolve.Result, collab resolve.Collaborators) error {
	accepted := result.Accepted.ToSlice()
	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			if collab.Conflicts(accepted[i], accepted[j]) {
				return fmt.Errorf("accepted deploys %q and %q conflict", accepted[i], accepted[j])
			}
		}
	}
	return nil
}

// checkDependencyClosure verifies every deploy that depends on a rejected
// deploy is itself rejected.
func checkDependencyClosure(result resolve.Result, collab resolve.Collaborators, conflictSet mapset.Set[domain.DeployID]) error {
	for _, d := range conflictSet.ToSlice() {
		for _, r := range result.Rejected.ToSlice() {
			if d == r {
				continue
			}
			if collab.Depends(d, r) && !result.Rejected.Contains(d) {
				return fmt.Errorf("%q depends on rejected %q but was not rejected", d, r)
			}
		}
	}
	return nil
}

// checkFinalityCompatibility verifies every deploy conflicting with an
// already-finalized acceptance, or depending on an already-finalized
// rejection, ended up rejected.
func checkFinalityCompatibility(result resolve.Result, in resolve.Input, collab resolve.Collaborators, conflictSet mapset.Set[domain.DeployID]) error {
	for _, d := range conflictSet.ToSlice() {
		for _, a := range in.AcceptedFinally.ToSlice() {
			if collab.Conflicts(d, a) && !result.Rejected.Contains(d) {
				return fmt.Errorf("%q conflicts with finally-accepted %q but was not rejected", d, a)
			}
		}
		for _, r := range in.RejectedFinally.ToSlice() {
			if collab.Depends(d, r) && !result.Rejected.Contains(d) {
				return fmt.Errorf("%q depends on finally-rejected %q but was not rejected", d, r)
			}
		}
	}
	return nil
}

// checkChannelSafety folds accepted deploys' diffs onto initBalances in
// the resolver's fold order — ascending Σ|Δ|, deploys without diffs
// first, ties by deploy id — and verifies no channel ever overflows an
// i64 or goes negative.
func checkChannelSafety(result resolve.Result, collab resolve.Collaborators, initBalances map[domain.ChannelID]int64) error {
	balances := make(map[domain.ChannelID]int64, len(initBalances))
	for ch, bal := range initBalances {
		balances[ch] = bal
	}

	impact := func(d domain.DeployID) int64 {
		m := collab.MergeableDiffs(d)
		if len(m) == 0 {
			return math.MinInt64
		}
		return domain.Deploy{ID: d, MergeableDiffs: m}.AbsImpact()
	}
	accepted := domain.SortDeployIDs(result.Accepted.ToSlice())
	sort.SliceStable(accepted, func(i, j int) bool { return impact(accepted[i]) < impact(accepted[j]) })
	for _, d := range accepted {
		for ch, delta := range collab.MergeableDiffs(d) {
			sum := balances[ch] + delta
			if (delta > 0 && sum < balances[ch]) || (delta < 0 && sum > balances[ch]) {
				return fmt.Errorf("folding %q onto channel %q overflows i64", d, ch)
			}
			if sum < 0 {
				return fmt.Errorf("folding %q onto channel %q drives balance negative", d, ch)
			}
			balances[ch] = sum
		}
	}
	return nil
}
