// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import "github.com/gviegas/rendergraph/driver"

// Registry maps logical handles to live physical resources.
// It is populated by Graph.Compile (§4.5, Phase A) and handed
// to each pass's execute closure during Graph.Execute.
//
// Out-of-range or invalid handles resolve to the null
// physical value, per §4.2; callers treat a nil return as
// "pass had no such declaration" and skip the dependent work.
type Registry struct {
	g *Graph
}

// Image returns the driver.Image backing h, or nil.
func (r *Registry) Image(h Handle) driver.Image {
	if n := r.g.nodeFor(h); n != nil && !n.failed {
		return n.image
	}
	return nil
}

// ImageView returns the driver.ImageView backing h, or nil.
func (r *Registry) ImageView(h Handle) driver.ImageView {
	if n := r.g.nodeFor(h); n != nil && !n.failed {
		return n.view
	}
	return nil
}

// Buffer returns the driver.Buffer backing h, or nil.
func (r *Registry) Buffer(h Handle) driver.Buffer {
	if n := r.g.nodeFor(h); n != nil && !n.failed {
		return n.buffer
	}
	return nil
}

func (r *Registry) reset() {}
