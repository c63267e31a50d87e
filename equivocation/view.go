// Copyright (c) 2018 XDPoSChain
package equivocation

import "context"

// BlockView is the read-only external collaborator this package consumes:
// byte-addressable block retrieval, the latest-message index, and the
// block-buffer dependency DAG. The enclosing node owns the block store,
// the DAG and bond accounting; this package never mutates any of them and
// holds no reference to them beyond a single call.
//
// Every method may suspend the caller on I/O; callers pass a cancellable
// ctx and should expect to be cancelled at any of these boundaries, never
// anywhere else.
type BlockView interface {
	// FetchBlock resolves hash to a Block. A hash the block store has never
	// heard of is a fatal condition for this package: the enclosing pipeline
	// only admits blocks whose justifications already resolved, so callers
	// should wrap a "not found" error into MissingBlockError (the
	// constructors in this package do this for every fetch reachable from
	// ClassifyLocal or CheckNeglect).
	FetchBlock(ctx context.Context, hash Hash) (*Block, error)

	// LatestMessages returns a snapshot of the local per-validator latest
	// message index.
	LatestMessages(ctx context.Context) (map[Validator]Hash, error)

	// IsRequestedAsDependency reports whether some other pending block has
	// already named hash as a dependency it is waiting on.
	IsRequestedAsDependency(ctx context.Context, hash Hash) bool
}
