// Copyright (c) 2018 XDPoSChain
package equivocation

import mapset "github.com/deckarep/golang-set/v2"

// RecordKey identifies an EquivocationRecord by its (equivocator,
// baseSeqNum) pair. At most one record exists per key.
type RecordKey struct {
	Equivocator Validator
	BaseSeqNum  SeqNum
}

// EquivocationRecord is outstanding knowledge that a validator forked its
// personal chain at BaseSeqNum. Witnesses grows monotonically and the
// record is never deleted once created; this package only ever replaces it
// with a copy carrying a larger witness set (see RecordStore.CompareAndReplace).
type EquivocationRecord struct {
	Equivocator Validator
	BaseSeqNum  SeqNum
	Witnesses   mapset.Set[Hash]
}

// NewEquivocationRecord creates a freshly observed equivocation record with
// no witnesses. Called by the outer validation pipeline the moment it
// escalates an AdmissibleEquivocation -- this package never creates a
// record on its own.
func NewEquivocationRecord(equivocator Validator, baseSeqNum SeqNum) *EquivocationRecord {
	return &EquivocationRecord{
		Equivocator: equivocator,
		BaseSeqNum:  baseSeqNum,
		Witnesses:   mapset.NewSet[Hash](),
	}
}

// Key returns the record's (equivocator, baseSeqNum) identity.
func (r *EquivocationRecord) Key() RecordKey {
	return RecordKey{Equivocator: r.Equivocator, BaseSeqNum: r.BaseSeqNum}
}

// withWitness returns a copy of r with hash folded into its witness set,
// leaving r itself untouched. RecordStore.CompareAndReplace uses this copy
// as the atomic replacement value.
func (r *EquivocationRecord) withWitness(hash Hash) *EquivocationRecord {
	next := r.Witnesses.Clone()
	next.Add(hash)
	return &EquivocationRecord{
		Equivocator: r.Equivocator,
		BaseSeqNum:  r.BaseSeqNum,
		Witnesses:   next,
	}
}
