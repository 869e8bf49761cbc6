package resolve

import (
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bigsur-network/dagmerge/pkg/domain"
)

// AddMergeableOverflowRejections augments each rejection option with the
// extra deploys channel arithmetic forces out. When options is empty —
// the enumerator found nothing to enumerate because the conflict graph
// had no keys — the resolver still runs once over the whole conflict set
// with the initial balances, and that single result becomes the sole
// returned option.
func AddMergeableOverflowRejections(
	conflictSet mapset.Set[domain.DeployID],
	options []mapset.Set[domain.DeployID],
	initBalances map[domain.ChannelID]int64,
	diffs map[domain.DeployID]map[domain.ChannelID]int64,
) []mapset.Set[domain.DeployID] {
	if len(options) == 0 {
		sole := overflowReject(conflictSet, mapset.NewSet[domain.DeployID](), initBalances, diffs)
		return []mapset.Set[domain.DeployID]{sole}
	}

	out := make([]mapset.Set[domain.DeployID], len(options))
	for i, r := range options {
		out[i] = overflowReject(conflictSet, r, initBalances, diffs)
	}
	return out
}

// overflowReject folds conflictSet-r onto initBalances in ascending Σ|Δ|
// order (domain.Deploy.AbsImpact), rejecting a deploy outright — and
// leaving the balance untouched — the moment its diffs would overflow an
// i64 or drive a channel negative. The greedy order is part of the
// contract, not a bug: a later deploy never gets to retry with the
// balance the failed one would have produced.
func overflowReject(
	conflictSet, r mapset.Set[domain.DeployID],
	initBalances map[domain.ChannelID]int64,
	diffs map[domain.DeployID]map[domain.ChannelID]int64,
) mapset.Set[domain.DeployID] {
	candidates := conflictSet.Difference(r).ToSlice()

	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := absImpact(candidates[i], diffs), absImpact(candidates[j], diffs)
		if ai != aj {
			return ai < aj
		}
		return candidates[i].Less(candidates[j])
	})

	balances := make(map[domain.ChannelID]int64, len(initBalances))
	for ch, bal := range initBalances {
		balances[ch] = bal
	}

	rejected := r.Clone()

	for _, d := range candidates {
		applied, ok := tryApply(balances, diffs[d])
		if !ok {
			rejected.Add(d)
			continue
		}
		for ch, next := range applied {
			balances[ch] = next
		}
	}

	return rejected
}

// absImpact returns Σ|Δ| over d's mergeable diffs, or math.MinInt64 if d
// has none, so deploys with no mergeable diffs always sort first and get
// applied before anything that could actually touch a balance.
func absImpact(d domain.DeployID, diffs map[domain.DeployID]map[domain.ChannelID]int64) int64 {
	m, ok := diffs[d]
	if !ok || len(m) == 0 {
		return math.MinInt64
	}
	return domain.Deploy{ID: d, MergeableDiffs: m}.AbsImpact()
}

// tryApply computes, for every channel in deltas, balance+delta with
// checked i64 addition. It reports failure (and applies nothing) the
// moment any channel would overflow or go negative; otherwise it returns
// the new balances for the touched channels, for the caller to merge in.
func tryApply(balances map[domain.ChannelID]int64, deltas map[domain.ChannelID]int64) (map[domain.ChannelID]int64, bool) {
	if len(deltas) == 0 {
		return nil, true
	}

	next := make(map[domain.ChannelID]int64, len(deltas))
	for ch, delta := range deltas {
		sum, ok := checkedAddI64(balances[ch], delta)
		if !ok || sum < 0 {
			return nil, false
		}
		next[ch] = sum
	}
	return next, true
}

// checkedAddI64 returns a+b and true, or 0 and false if the addition
// overflows an int64, detected with the sign test for addition overflow
// (result disagrees in sign with the operand it should have tracked).
func checkedAddI64(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
