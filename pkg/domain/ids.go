package domain

import "sort"

// BlockID identifies a block in the consensus DAG. The zero value is never
// a valid block.
type BlockID string

// Less gives blocks a stable total order on identifier alone; callers that
// need the (height, id) order used for fringe tie-breaking should compare
// heights first and fall back to Less only on ties (see BlockRef.Less).
func (b BlockID) Less(other BlockID) bool { return b < other }

// DeployID identifies a user-submitted deploy carried by one or more
// blocks.
type DeployID string

// Less gives deploys the stable total order the resolver relies on for
// deterministic tie-breaking wherever a set of deploys must be walked in a
// fixed sequence.
func (d DeployID) Less(other DeployID) bool { return d < other }

// ChannelID identifies a mergeable channel: a numbered resource shared by
// deploys that fold signed deltas onto a running balance.
type ChannelID string

// BlockRef pairs a block with the height used to order fringes. The
// resolver never looks inside a block beyond its id and height; everything
// else (parents, deploys carried) comes through the Collaborators
// interfaces in resolve.go.
type BlockRef struct {
	ID     BlockID
	Height int64
}

// Less orders BlockRefs by (height, id), the order used throughout this
// package to pick the minimal block of a fringe.
func (r BlockRef) Less(other BlockRef) bool {
	if r.Height != other.Height {
		return r.Height < other.Height
	}
	return r.ID.Less(other.ID)
}

// SortBlockRefs returns refs sorted ascending by (height, id), without
// mutating the input.
func SortBlockRefs(refs []BlockRef) []BlockRef {
	out := make([]BlockRef, len(refs))
	copy(out, refs)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// SortDeployIDs returns ids sorted ascending by the deploy total order.
func SortDeployIDs(ids []DeployID) []DeployID {
	out := make([]DeployID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
