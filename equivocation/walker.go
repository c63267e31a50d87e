// Copyright (c) 2018 XDPoSChain
// Justification walker: a dedicated scan over a block's justification cone,
// not a general-purpose graph library. See NeglectDetector.reachable for the
// one traversal this package drives.
package equivocation

import "context"

// VisitFunc is the pluggable predicate WalkJustifications drives. It
// receives the justification entry currently being visited and the already
// resolved block it names. Returning stop=true ends the walk early, which
// the reachability check uses both on finding a known witness and as soon as
// its children set reaches size two.
type VisitFunc func(ctx context.Context, j Justification, jb *Block) (stop bool, err error)

// WalkJustifications traverses root's justifications -- not root itself --
// one hop at a time, in order, fetching each referenced block from view on
// demand and feeding it to visit. It is an explicit iterative fold, not
// recursion, so traversal depth never grows the call stack regardless of how
// deep the underlying DAG is.
//
// Any further traversal beyond this single hop is visit's own concern: see
// NeglectDetector.maybeAddEquivocationChild, which performs exactly one more
// hop for blocks authored by someone other than the equivocator under
// inspection.
//
// Returns a *MissingBlockError if a justification hash cannot be resolved.
func WalkJustifications(ctx context.Context, view BlockView, root *Block, visit VisitFunc) error {
	for _, j := range root.Justifications {
		jb, err := view.FetchBlock(ctx, j.BlockHash)
		if err != nil {
			return wrapMissingBlock(j.BlockHash, err)
		}
		stop, err := visit(ctx, j, jb)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}
