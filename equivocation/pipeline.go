// Copyright (c) 2018 XDPoSChain
// Pipeline wires the classifier, record store and neglect detector together
// the way the enclosing block-validation pipeline is expected to.
package equivocation

import (
	"context"

	"github.com/ethereum/go-ethereum/log"
)

// Pipeline sequences the two questions this package answers for every fresh
// block: local equivocation classification, then neglect detection over the
// current record store. It owns no policy beyond what is explicitly handed
// to the outer pipeline: recording an accepted equivocation. It never
// chooses which equivocation to slash first, builds slashing evidence, or
// decides bond amounts -- those remain the caller's concern.
type Pipeline struct {
	view    BlockView
	store   *RecordStore
	neglect *NeglectDetector
}

// NewPipeline wires a fresh record store and neglect detector over view.
func NewPipeline(view BlockView) *Pipeline {
	store := NewRecordStore()
	return &Pipeline{
		view:    view,
		store:   store,
		neglect: NewNeglectDetector(view, store),
	}
}

// Store exposes the underlying record store, e.g. so the caller can surface
// TrackedRecords()-style statistics or seed it from a persisted snapshot at
// startup -- persistence itself stays the caller's concern.
func (p *Pipeline) Store() *RecordStore { return p.store }

// TrackedRecords returns the number of outstanding equivocation records.
func (p *Pipeline) TrackedRecords() int { return p.store.Len() }

// RecordEquivocation is callable by the outer pipeline once it accepts an
// AdmissibleEquivocation. It creates the outstanding record with no
// witnesses. Calling it twice for the same (equivocator, baseSeqNum) pair is
// a no-op -- a record is never overwritten once created.
func (p *Pipeline) RecordEquivocation(equivocator Validator, baseSeqNum SeqNum) {
	if p.store.Insert(NewEquivocationRecord(equivocator, baseSeqNum)) {
		log.Info("[equivocation] new equivocation recorded",
			"equivocator", equivocator.Hex(), "baseSeqNum", baseSeqNum)
	}
}

// Admit runs local classification and then, unless the block was discarded
// as an IgnorableEquivocation, neglect detection over the current record
// store. A NeglectedEquivocation result always overrides the local
// classification -- a block that neglected an equivocation is invalid
// regardless of what it did to its own creator's chain. Otherwise it returns
// the local classification, which the caller must act on: an
// AdmissibleEquivocation is only reflected in future neglect checks once the
// caller has itself called RecordEquivocation.
func (p *Pipeline) Admit(ctx context.Context, b *Block) (Outcome, error) {
	local, err := ClassifyLocal(ctx, p.view, b)
	if err != nil {
		return Valid, err
	}
	if local == IgnorableEquivocation {
		return local, nil
	}

	neglect, err := p.neglect.CheckNeglect(ctx, b)
	if err != nil {
		return Valid, err
	}
	if neglect == NeglectedEquivocation {
		return NeglectedEquivocation, nil
	}
	return local, nil
}
