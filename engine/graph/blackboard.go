// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import "hash/fnv"

// NameID hashes a blackboard name into the stable identifier
// used to key Blackboard entries. It is exported so that
// tests (and callers who want to pre-compute name IDs) can
// detect hash collisions between distinct names, per the
// Design Notes' requirement that the hash function be
// inspectable.
func NameID(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

// Blackboard is an insertion-ordered name-id-to-Handle map
// used to publish the outputs of one pass for consumption by
// later passes without coupling them by position (§4.7).
//
// Its lifetime is one frame: Graph.Reset clears it. Between a
// Reset and the next Compile, external code may read or write
// it freely (§5); it is not safe for concurrent access.
type Blackboard struct {
	order []uint64
	m     map[uint64]Handle
}

// Add publishes handle under nameID. Re-adding an existing
// nameID overwrites the previous handle (used when a pass
// republishes a resource) without disturbing insertion order.
func (b *Blackboard) Add(nameID uint64, handle Handle) {
	if b.m == nil {
		b.m = make(map[uint64]Handle)
	}
	if _, ok := b.m[nameID]; !ok {
		b.order = append(b.order, nameID)
	}
	b.m[nameID] = handle
}

// Get looks up nameID. A name that was never added resolves
// to the invalid Handle; no error is raised, so a consumer
// pass can short-circuit cleanly when an optional input was
// never published this frame.
func (b *Blackboard) Get(nameID uint64) Handle {
	return b.m[nameID]
}

// Names returns the name IDs currently published, in
// insertion order.
func (b *Blackboard) Names() []uint64 {
	return append([]uint64(nil), b.order...)
}

func (b *Blackboard) reset() {
	b.order = b.order[:0]
	clear(b.m)
}
