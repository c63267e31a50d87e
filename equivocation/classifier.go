// Copyright (c) 2018 XDPoSChain
// Local equivocation classifier.
package equivocation

import (
	"context"

	"github.com/ethereum/go-ethereum/log"
)

// ClassifyLocal decides whether a fresh block b constitutes an equivocation
// by its own creator, relative to what the local node already knows. A
// block whose creator-justification matches the locally known latest block
// from the same creator cannot be branching the creator's chain; any
// mismatch -- including a creator justification where the local view has
// none, or vice versa -- means the creator forked, or the local view is
// stale. Admissibility in that case turns entirely on whether the protocol
// already committed to accepting the block via a pending dependency
// request.
//
// ClassifyLocal depends only on b, the latest-message index and the
// dependency DAG; it has no side effects and never mutates a record store.
// Creating the EquivocationRecord for an AdmissibleEquivocation is the
// caller's job (see Pipeline.RecordEquivocation).
func ClassifyLocal(ctx context.Context, view BlockView, b *Block) (Outcome, error) {
	j, hasJ := b.CreatorJustification()

	latest, err := view.LatestMessages(ctx)
	if err != nil {
		return Valid, err
	}
	m, hasM := latest[b.Sender]

	if hasJ == hasM && (!hasJ || j == m) {
		return Valid, nil
	}

	if view.IsRequestedAsDependency(ctx, b.Hash) {
		log.Debug("[equivocation] admissible equivocation", "block", b.Hash.Hex(), "sender", b.Sender.Hex())
		return AdmissibleEquivocation, nil
	}
	log.Warn("[equivocation] ignorable equivocation", "block", b.Hash.Hex(), "sender", b.Sender.Hex())
	return IgnorableEquivocation, nil
}
