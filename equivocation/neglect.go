// Copyright (c) 2018 XDPoSChain
// Neglect detector: the reachability algorithm at the heart of this package.
package equivocation

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
)

// discoveryStatus is the per-record outcome of checking whether a fresh
// block could have proven an outstanding equivocation.
type discoveryStatus uint8

const (
	statusOblivious discoveryStatus = iota
	statusDetected
	statusNeglected
)

// NeglectDetector answers the second question this subsystem exists for:
// given a fresh block, did it gather enough evidence in its justification
// cone to prove some outstanding equivocation, yet fail to act on it?
type NeglectDetector struct {
	view  BlockView
	store *RecordStore
}

// NewNeglectDetector builds a detector over view (the block store / DAG
// collaborator) and store (this package's own equivocation bookkeeping).
func NewNeglectDetector(view BlockView, store *RecordStore) *NeglectDetector {
	return &NeglectDetector{view: view, store: store}
}

// CheckNeglect iterates a snapshot of the record store. For each record it
// computes a discovery status and reacts: Neglected short-circuits the
// entire check with NeglectedEquivocation; Detected atomically extends the
// record's witnesses with b.Hash and continues; Oblivious leaves the record
// untouched and continues. Reaching the end of the snapshot without a
// Neglected status returns Valid.
func (d *NeglectDetector) CheckNeglect(ctx context.Context, b *Block) (Outcome, error) {
	for _, rec := range d.store.Snapshot() {
		status, err := d.discover(ctx, rec, b)
		if err != nil {
			return Valid, err
		}
		switch status {
		case statusNeglected:
			log.Warn("[equivocation] neglected equivocation", "block", b.Hash.Hex(),
				"equivocator", rec.Equivocator.Hex(), "baseSeqNum", rec.BaseSeqNum)
			return NeglectedEquivocation, nil
		case statusDetected:
			d.applyDetected(rec, b.Hash)
		case statusOblivious:
			log.Debug("[equivocation] oblivious", "block", b.Hash.Hex(),
				"equivocator", rec.Equivocator.Hex(), "baseSeqNum", rec.BaseSeqNum)
		}
	}
	return Valid, nil
}

// applyDetected extends rec's witnesses with hash, retrying against
// whichever record is currently live at rec.Key() if a concurrent pass
// already replaced it. This is always safe: witnesses are monotone, so
// folding hash into the fresher record loses no knowledge.
func (d *NeglectDetector) applyDetected(rec *EquivocationRecord, hash Hash) {
	for {
		if rec.Witnesses.Contains(hash) {
			return
		}
		replacement := rec.withWitness(hash)
		if d.store.CompareAndReplace(rec.Key(), rec, replacement) {
			log.Info("[equivocation] detected witness", "equivocator", rec.Equivocator.Hex(),
				"baseSeqNum", rec.BaseSeqNum, "witness", hash.Hex())
			return
		}
		current, ok := d.store.Get(rec.Key())
		if !ok {
			return
		}
		rec = current
	}
}

// discover computes the discovery status of rec against b: the bond check
// first, then reachability when the equivocator is still bonded with
// positive stake.
func (d *NeglectDetector) discover(ctx context.Context, rec *EquivocationRecord, b *Block) (discoveryStatus, error) {
	stake, bonded := b.Bonds[rec.Equivocator]
	if !bonded {
		// A validator can only leave the bond set via a slashing
		// transaction, so a block that drops it has already acknowledged
		// the equivocation.
		return statusDetected, nil
	}
	if stake == 0 {
		// stake == 0 should be impossible under the bonding contract --
		// a validator is either bonded with positive stake or removed
		// entirely -- but the detector stays conservative here rather than
		// treating it as a protocol violation.
		return statusDetected, nil
	}

	provable, err := d.reachable(ctx, rec, b)
	if err != nil {
		return statusOblivious, err
	}
	if provable {
		return statusNeglected, nil
	}
	return statusOblivious, nil
}

// reachable implements the reachability algorithm: walk b's justifications
// looking for either a known witness or two distinct blocks authored by
// rec.Equivocator strictly above rec.BaseSeqNum (the equivocation children).
func (d *NeglectDetector) reachable(ctx context.Context, rec *EquivocationRecord, b *Block) (bool, error) {
	children := mapset.NewSet[Hash]()
	found := false

	err := WalkJustifications(ctx, d.view, b, func(ctx context.Context, j Justification, jb *Block) (bool, error) {
		if rec.Witnesses.Contains(j.BlockHash) {
			found = true
			return true, nil
		}
		if err := d.maybeAddEquivocationChild(ctx, rec, jb, children); err != nil {
			return false, err
		}
		if children.Cardinality() >= 2 {
			found = true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// maybeAddEquivocationChild updates children from a single justification
// block jb. If jb was itself authored by the equivocator, jb is the
// candidate (when it sits above the base). Otherwise jb must carry its own
// justification for the equivocator's latest known block, which becomes the
// candidate instead.
func (d *NeglectDetector) maybeAddEquivocationChild(ctx context.Context, rec *EquivocationRecord, jb *Block, children mapset.Set[Hash]) error {
	if jb.Sender == rec.Equivocator {
		if jb.SeqNum > rec.BaseSeqNum {
			return d.addEquivocationChild(ctx, rec, jb, children)
		}
		return nil
	}

	lh, ok := jb.Justify(rec.Equivocator)
	if !ok {
		return &MissingEquivocatorJustificationError{BlockHash: jb.Hash, Equivocator: rec.Equivocator}
	}
	lb, err := d.view.FetchBlock(ctx, lh)
	if err != nil {
		return wrapMissingBlock(lh, err)
	}
	if lb.SeqNum > rec.BaseSeqNum {
		return d.addEquivocationChild(ctx, rec, lb, children)
	}
	return nil
}

// addEquivocationChild canonicalizes candidate down to the ancestor on its
// own creator-justification chain sitting at sequence rec.BaseSeqNum+1, and
// adds that canonical block to children. Two blocks on the same branch above
// the base always canonicalize to the same ancestor, so children's
// cardinality is an exact count of distinct branches observed so far.
func (d *NeglectDetector) addEquivocationChild(ctx context.Context, rec *EquivocationRecord, candidate *Block, children mapset.Set[Hash]) error {
	target := rec.BaseSeqNum + 1
	cur := candidate
	for cur.SeqNum > target {
		ph, ok := cur.CreatorJustification()
		if !ok {
			return &MissingBranchAncestorError{BlockHash: candidate.Hash, TargetSeq: target}
		}
		parent, err := d.view.FetchBlock(ctx, ph)
		if err != nil {
			return wrapMissingBlock(ph, err)
		}
		cur = parent
	}
	if cur.SeqNum != target {
		return &MissingBranchAncestorError{BlockHash: candidate.Hash, TargetSeq: target}
	}
	children.Add(cur.Hash)
	return nil
}
