// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

// ID is the stable integer identifier the graph assigns to a
// logical resource node the first time its name is mentioned
// within a frame.
type ID int

// Handle identifies a logical resource node. The zero Handle
// is invalid (Handle{}.Valid() == false), so a Handle left
// undeclared (e.g., a Blackboard miss) is always safe to pass
// to Builder.Read/Write: they treat it as a no-op.
type Handle struct {
	id ID
	ok bool
}

// Valid reports whether h refers to a declared node.
func (h Handle) Valid() bool { return h.ok }

func newHandle(id ID) Handle { return Handle{id: id, ok: true} }
