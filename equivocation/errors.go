// Copyright (c) 2018 XDPoSChain
// Equivocation detector error and outcome definitions.
package equivocation

import (
	"fmt"

	"github.com/pkg/errors"
)

// Outcome is the classification result for a fresh block, returned by both
// ClassifyLocal and CheckNeglect (and, combined, by Pipeline.Admit). It is a
// value, not an error: only MissingBlockError,
// MissingEquivocatorJustificationError and MissingBranchAncestorError are
// fatal protocol inconsistencies that halt processing of the block.
type Outcome uint8

const (
	// Valid means the block introduces no equivocation this node can see,
	// and neglects no outstanding one.
	Valid Outcome = iota
	// AdmissibleEquivocation means the block forks its creator's chain, but
	// was already requested as a pending dependency and must be accommodated.
	AdmissibleEquivocation
	// IgnorableEquivocation means the block forks its creator's chain and
	// was not requested; it should be discarded.
	IgnorableEquivocation
	// NeglectedEquivocation means the block's justification cone proves an
	// outstanding equivocation that it failed to slash.
	NeglectedEquivocation
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Valid:
		return "Valid"
	case AdmissibleEquivocation:
		return "AdmissibleEquivocation"
	case IgnorableEquivocation:
		return "IgnorableEquivocation"
	case NeglectedEquivocation:
		return "NeglectedEquivocation"
	default:
		return "unknown"
	}
}

// MissingBlockError reports that a justification hash could not be resolved
// through the BlockView. It is fatal: the enclosing pipeline admits blocks
// only once all of their justifications have already resolved, so this
// indicates corrupt storage or a protocol-level bug in the caller.
type MissingBlockError struct {
	Hash Hash
	Err  error
}

func (e *MissingBlockError) Error() string {
	return fmt.Sprintf("equivocation: missing block %s: %v", e.Hash.Hex(), e.Err)
}

// Unwrap exposes the underlying BlockView failure for errors.Is/As.
func (e *MissingBlockError) Unwrap() error { return e.Err }

// wrapMissingBlock attaches a stack trace to the underlying BlockView
// failure and surfaces it as a fatal MissingBlockError.
func wrapMissingBlock(hash Hash, err error) error {
	return &MissingBlockError{Hash: hash, Err: errors.Wrap(err, "fetch justification block")}
}

// MissingEquivocatorJustificationError reports that a justification block
// of the block under check, authored by someone other than the equivocator,
// carries no
// justification entry for the equivocator and is not itself a recorded
// witness. Every admitted block must either point at the equivocator's
// latest known block or already prove the equivocation; neither holding is
// a fatal protocol inconsistency.
type MissingEquivocatorJustificationError struct {
	BlockHash   Hash
	Equivocator Validator
}

func (e *MissingEquivocatorJustificationError) Error() string {
	return fmt.Sprintf("equivocation: block %s carries no justification for equivocator %s",
		e.BlockHash.Hex(), e.Equivocator.Hex())
}

// MissingBranchAncestorError reports that canonicalizing a candidate block
// down to its branch's base+1 ancestor failed to find that ancestor in the
// local DAG. The base+1 block should already have been admitted by the time
// any later block on the same branch is; its absence is a fatal protocol
// inconsistency.
type MissingBranchAncestorError struct {
	BlockHash Hash
	TargetSeq SeqNum
}

func (e *MissingBranchAncestorError) Error() string {
	return fmt.Sprintf("equivocation: no ancestor of block %s found at sequence %d",
		e.BlockHash.Hex(), e.TargetSeq)
}
