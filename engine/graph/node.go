// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import "github.com/gviegas/rendergraph/driver"

// kind classifies a logical resource node.
type kind int

const (
	kindTexture kind = iota
	kindBuffer
	kindImported
)

// node is the per-frame record for a single logical
// resource, as described in §3 ("Logical resource node").
type node struct {
	name string
	kind kind

	tex TexDesc
	buf BufDesc

	imgImported bool // kindImported && this is a texture, not a buffer

	// Current producer state, advanced monotonically as the
	// compiler walks the passes that reference this node.
	layout driver.Layout
	stage  driver.Sync
	access driver.Access

	image  driver.Image
	view   driver.ImageView
	buffer driver.Buffer

	// failed is set by Compile's Phase A when the pool could
	// not allocate a physical backing for a transient node.
	// Passes that reference a failed node are skipped by the
	// Executor.
	failed bool
}

func (n *node) isTexture() bool { return n.kind == kindTexture || (n.kind == kindImported && n.imgImported) }
func (n *node) isBuffer() bool  { return n.kind == kindBuffer || (n.kind == kindImported && !n.imgImported) }
