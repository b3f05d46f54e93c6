// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package graph implements a per-frame render graph: a
// declaratively constructed DAG of GPU passes that owns
// transient textures and buffers, aliases their backing
// memory across non-overlapping lifetimes, computes the
// inter-pass synchronization required for correctness and
// records the resulting command stream.
//
// A typical frame looks like
//
//	g.Reset()
//	graph.AddPass(g, "Forward", setupForward, execForward)
//	graph.AddPass(g, "Outline", setupOutline, execOutline)
//	if err := g.Compile(frameSlot); err != nil {
//		log.Print(err)
//	}
//	g.Execute(cb)
//	doPostCompile(frameSlot, g.DebugImages())
package graph

import (
	"errors"
	"log"

	"github.com/gviegas/rendergraph/driver"
)

const graphPrefix = "graph: "

func newGraphErr(reason string) error { return errors.New(graphPrefix + reason) }

// Debug gates the stricter, diagnostic-build behavior called
// for in the spec: when true, a conflicting declaration (a
// create/import call that disagrees with a name's first
// declaration) panics instead of merely being logged and
// ignored. It defaults to false, matching a release build.
var Debug = false

// Graph is a per-frame render graph.
//
// A Graph is not safe for concurrent use: all of Reset,
// AddPass, Compile and Execute must run on a single
// goroutine, in that order, matching the single-threaded
// cooperative scheduling model the spec requires.
type Graph struct {
	gpu driver.GPU
	slot int

	nodes  []*node
	nameID map[string]ID

	passes []*Pass

	black Blackboard
	pool  Pool
	reg   Registry

	batches []BarrierBatch
	skip    []bool
}

// New creates a new Graph that allocates transient resources
// from gpu. The Graph owns the pool it creates internally;
// the pool's lifetime is that of the Graph (it survives
// across Reset calls, recycling physical resources between
// frames, per §4.3).
func New(gpu driver.GPU) *Graph {
	g := &Graph{
		gpu:    gpu,
		nameID: make(map[string]ID),
	}
	g.reg.g = g
	return g
}

// Reset clears passes, nodes, the name lookup, the
// blackboard and the registry, and marks every pool item
// free (without destroying it). It must be called before
// declaring the passes of a new frame.
func (g *Graph) Reset() {
	for i := range g.nodes {
		g.nodes[i] = nil
	}
	g.nodes = g.nodes[:0]
	clear(g.nameID)
	for i := range g.passes {
		g.passes[i] = nil
	}
	g.passes = g.passes[:0]
	g.black.reset()
	g.reg.reset()
	g.pool.reset()
	g.batches = g.batches[:0]
	g.skip = g.skip[:0]
}

// Blackboard returns the graph's Blackboard. Its contents
// are only meaningful between a Reset call and the next
// Compile call (see §5, Shared-resource policy).
func (g *Graph) Blackboard() *Blackboard { return &g.black }

// Registry returns the graph's Registry. Its entries are
// only meaningful after a successful call to Compile.
func (g *Graph) Registry() *Registry { return &g.reg }

// Free destroys every physical resource held by the graph's
// transient pool. It must be called after the GPU work that
// references those resources has completed, and the Graph
// must not be used afterwards.
func (g *Graph) Free() { g.pool.free() }

// nodeFor returns the node identified by h, or nil if h is
// invalid or out of range.
func (g *Graph) nodeFor(h Handle) *node {
	if !h.Valid() {
		return nil
	}
	i := int(h.id)
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// idOf returns the ID assigned to name within the current
// frame, creating a new one if this is the first mention of
// name. ok reports whether a node already existed for this
// name (so the caller can decide whether to treat the call
// as a fresh declaration or as an idempotent re-declaration).
func (g *Graph) idOf(name string) (id ID, ok bool) {
	if id, ok = g.nameID[name]; ok {
		return
	}
	id = ID(len(g.nodes))
	g.nameID[name] = id
	g.nodes = append(g.nodes, nil)
	return id, false
}

// logConflict reports a conflicting declaration. In a
// diagnostic build (Debug == true) it panics; otherwise it
// logs a warning and the caller keeps the first declaration,
// per §4.4/§7.
func logConflict(reason string) {
	if Debug {
		panic(graphPrefix + reason)
	}
	log.Print(graphPrefix + reason)
}

func logMissing(reason string) {
	log.Print(graphPrefix + "missing resource: " + reason)
}
