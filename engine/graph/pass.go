// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import "github.com/gviegas/rendergraph/driver"

// access records one (handle, sync, access) declaration made
// by a pass against a node, in declaration order. The
// compiler folds these into barriers during Compile's Phase
// B (§4.5).
type access struct {
	handle Handle
	sync   driver.Sync
	acc    driver.Access
	write  bool
}

// AttachmentInfo describes how a pass uses one of its
// attachments during dynamic rendering (§4.4,
// Builder.WriteColor/WriteDepth).
type AttachmentInfo struct {
	Handle Handle
	Load   driver.LoadOp
	Store  driver.StoreOp
	Clear  driver.ClearValue
	Depth  bool // true for the (sole) depth/stencil attachment
}

// Pass is one node of the render graph's DAG: a declared set
// of resource accesses plus an opaque execute closure that
// records commands once the graph has been compiled.
//
// Pass itself is untyped with respect to the per-pass payload
// (§ Design Notes 9): AddPass closes over the concrete payload
// type P so that Pass can be stored in a single uniform slice
// without reflection or an interface{} payload field.
type Pass struct {
	name string

	reads   []access
	writes  []access
	attachs []AttachmentInfo

	width, height int
	hasArea       bool

	execute func(*Registry, driver.CmdBuffer)
}

// AddPass declares a new pass named name. setup runs
// immediately: it receives a pointer to a zero-valued payload
// of type P and a Builder scoped to the new pass, and is
// expected to call the Builder's Read/Write/Create/Import
// methods to declare the pass's resource usage, storing
// whatever execute will need inside *P.
//
// execute runs later, during Graph.Execute, once the graph
// has been compiled and barriers have been issued; it
// receives the same *P (now populated by setup), the
// Registry (to resolve Handles into physical resources) and
// the CmdBuffer to record into.
//
// Declaring two passes with the same name is legal: each call
// to AddPass appends a distinct Pass, even if prior passes
// share a name (passes, unlike resources, are not deduplicated
// by name).
func AddPass[P any](g *Graph, name string, setup func(*P, *Builder), execute func(*P, *Registry, driver.CmdBuffer)) {
	payload := new(P)
	p := &Pass{name: name}
	b := &Builder{g: g, p: p}
	if setup != nil {
		setup(payload, b)
	}
	p.execute = func(r *Registry, cb driver.CmdBuffer) {
		if execute != nil {
			execute(payload, r, cb)
		}
	}
	g.passes = append(g.passes, p)
}
