// Copyright (c) 2018 XDPoSChain
package equivocation

import "sync"

// RecordStore is the in-memory set of outstanding equivocation records.
// Mutating operations (Insert, CompareAndReplace) acquire exclusive access;
// Snapshot returns a stable, independently-iterable copy rather than a live
// internal map, so a concurrent detection pass never observes the store
// mutating underneath it.
type RecordStore struct {
	mu      sync.RWMutex
	records map[RecordKey]*EquivocationRecord
}

// NewRecordStore creates an empty record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[RecordKey]*EquivocationRecord)}
}

// Insert adds rec if no record exists yet for its key, and reports whether
// it did. A record is never deleted or overwritten by Insert -- equivocation
// is permanent knowledge; only CompareAndReplace may ever replace a record,
// and only with a witness superset of the one it replaces.
func (s *RecordStore) Insert(rec *EquivocationRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rec.Key()
	if _, exists := s.records[key]; exists {
		return false
	}
	s.records[key] = rec
	return true
}

// Snapshot returns a stable copy of every record currently in the store.
// Records inserted after Snapshot returns are not reflected in it; they will
// be picked up by the next detection pass.
func (s *RecordStore) Snapshot() []*EquivocationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*EquivocationRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

// Get returns the record currently stored for key, if any.
func (s *RecordStore) Get(key RecordKey) (*EquivocationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	return rec, ok
}

// CompareAndReplace swaps the record at key for replacement, but only if the
// record currently stored there is still identical (by pointer identity) to
// expected. It reports whether the swap happened. A false return means a
// concurrent pass already advanced the record past expected; callers fold
// their new witness into the fresher record instead of overwriting it (see
// NeglectDetector.applyDetected), which is always safe since witnesses are
// monotone in every record that has ever existed at key.
func (s *RecordStore) CompareAndReplace(key RecordKey, expected, replacement *EquivocationRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.records[key]
	if !ok || current != expected {
		return false
	}
	s.records[key] = replacement
	return true
}

// Len returns the number of tracked records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
