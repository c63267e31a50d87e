// Copyright (c) 2018 XDPoSChain
// Package equivocation detects validator chain forks (equivocations) in a
// message-DAG consensus protocol and flags blocks that had enough evidence
// in their justification cone to prove an outstanding one but didn't.
package equivocation

import "github.com/ethereum/go-ethereum/common"

// Validator identifies a block's creator by its fixed-width address. Block
// storage, gossip and bond accounting are all keyed the same way by the
// enclosing node; this package never constructs a Validator itself.
type Validator = common.Address

// Hash identifies a block. Equal to the hash the enclosing block store
// indexes blocks by.
type Hash = common.Hash

// SeqNum is a validator's personal, monotonically increasing sequence
// number. The genesis block sits at sequence 0.
type SeqNum uint64

// Bonds is the validator -> stake map attached to a block, naming the
// bonded validator set as of that block.
type Bonds map[Validator]uint64

// Justification names the latest block a block's creator had seen from one
// validator at creation time. A block carries at most one Justification per
// validator.
type Justification struct {
	Validator Validator
	BlockHash Hash
}

// Block is the read-only view of a DAG block this package consumes. It is
// supplied by the enclosing block-validation pipeline; this package treats
// it as immutable. CachedBlockView keeps fetched blocks in its LRU across
// detection passes; nothing else in the package retains a Block.
type Block struct {
	Hash           Hash
	Sender         Validator
	SeqNum         SeqNum
	Justifications []Justification
	Bonds          Bonds
}

// CreatorJustification returns the hash of the justification entry b's
// creator recorded for itself, and whether one exists. A block with no
// justifications at all (only the genesis block, in practice) returns
// ok=false.
func (b *Block) CreatorJustification() (Hash, bool) {
	return b.Justify(b.Sender)
}

// Justify returns the hash b's creator recorded as validator v's latest
// block at creation time, and whether v appears in b's justifications.
func (b *Block) Justify(v Validator) (Hash, bool) {
	for _, j := range b.Justifications {
		if j.Validator == v {
			return j.BlockHash, true
		}
	}
	return Hash{}, false
}
