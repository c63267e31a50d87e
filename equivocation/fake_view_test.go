// Copyright (c) 2018 XDPoSChain
package equivocation

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// fakeView is an in-memory BlockView implementation: it stands in for the
// block-store/DAG collaborator in every test in this package.
type fakeView struct {
	mu        sync.RWMutex
	blocks    map[Hash]*Block
	latest    map[Validator]Hash
	requested map[Hash]bool
}

func newFakeView() *fakeView {
	return &fakeView{
		blocks:    make(map[Hash]*Block),
		latest:    make(map[Validator]Hash),
		requested: make(map[Hash]bool),
	}
}

func (f *fakeView) addBlock(b *Block) *Block {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks[b.Hash] = b
	return b
}

func (f *fakeView) setLatest(v Validator, h Hash) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest[v] = h
}

func (f *fakeView) requestDependency(h Hash) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested[h] = true
}

func (f *fakeView) FetchBlock(_ context.Context, hash Hash) (*Block, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.blocks[hash]
	if !ok {
		return nil, fmt.Errorf("fake view: no block for %s", hash.Hex())
	}
	return b, nil
}

func (f *fakeView) LatestMessages(_ context.Context) (map[Validator]Hash, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[Validator]Hash, len(f.latest))
	for k, v := range f.latest {
		out[k] = v
	}
	return out, nil
}

func (f *fakeView) IsRequestedAsDependency(_ context.Context, hash Hash) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.requested[hash]
}

// --- fixture helpers ---

func validatorNamed(name string) Validator {
	return common.BytesToAddress([]byte(name))
}

func hashNamed(name string) Hash {
	return common.BytesToHash([]byte(name))
}

func defaultBonds(validators ...Validator) Bonds {
	b := make(Bonds, len(validators))
	for _, v := range validators {
		b[v] = 100
	}
	return b
}
