// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import "github.com/gviegas/rendergraph/driver"

// Builder is handed to a pass's setup closure (see AddPass).
// It is scoped to a single pass: every call records a
// declaration against both the Graph's node table and the
// Pass being built.
type Builder struct {
	g *Graph
	p *Pass
}

// Read records a read on handle, with the given pipeline
// stage and access scopes. It returns handle unchanged, so
// calls can be chained inline at the call site.
func (b *Builder) Read(handle Handle, stage driver.Sync, acc driver.Access) Handle {
	if !handle.Valid() {
		return handle
	}
	b.p.reads = append(b.p.reads, access{handle: handle, sync: stage, acc: acc})
	return handle
}

// Write records a non-attachment write on handle (a storage
// buffer or storage image, or an indirect-argument buffer).
func (b *Builder) Write(handle Handle, stage driver.Sync, acc driver.Access) Handle {
	if !handle.Valid() {
		return handle
	}
	b.p.writes = append(b.p.writes, access{handle: handle, sync: stage, acc: acc, write: true})
	return handle
}

// WriteColor declares handle as one of the pass's color
// attachments.
func (b *Builder) WriteColor(handle Handle, info AttachmentInfo) Handle {
	info.Handle = handle
	info.Depth = false
	b.p.attachs = append(b.p.attachs, info)
	b.growArea(handle)
	return handle
}

// WriteDepth declares handle as the pass's (sole)
// depth/stencil attachment.
func (b *Builder) WriteDepth(handle Handle, info AttachmentInfo) Handle {
	info.Handle = handle
	info.Depth = true
	b.p.attachs = append(b.p.attachs, info)
	b.growArea(handle)
	return handle
}

func (b *Builder) growArea(h Handle) {
	if n := b.g.nodeFor(h); n != nil && !b.p.hasArea {
		b.p.width, b.p.height = n.tex.Width, n.tex.Height
		b.p.hasArea = true
	}
}

// CreateTexture declares a transient texture named name.
// First call wins: a later call under the same name within
// the same frame returns the existing handle unchanged,
// ignoring desc, per §4.4's idempotence rule.
func (b *Builder) CreateTexture(name string, desc TexDesc) Handle {
	id, existed := b.g.idOf(name)
	if existed {
		if n := b.g.nodes[id]; n != nil && n.kind != kindTexture {
			logConflict("create_texture: \"" + name + "\" already declared with a different kind")
		}
		return newHandle(id)
	}
	desc = desc.resolve(name)
	b.g.nodes[id] = &node{name: name, kind: kindTexture, tex: desc, layout: driver.LUndefined}
	return newHandle(id)
}

// CreateBuffer declares a transient buffer named name. See
// CreateTexture for the idempotence rule.
func (b *Builder) CreateBuffer(name string, desc BufDesc) Handle {
	id, existed := b.g.idOf(name)
	if existed {
		if n := b.g.nodes[id]; n != nil && n.kind != kindBuffer {
			logConflict("create_buffer: \"" + name + "\" already declared with a different kind")
		}
		return newHandle(id)
	}
	b.g.nodes[id] = &node{name: name, kind: kindBuffer, buf: desc}
	return newHandle(id)
}

// ImportTexture registers an externally-owned image under
// name. The graph never frees an imported resource; it only
// tracks the layout/stage/access it last observed. Importing
// a different view under a previously-used name is a usage
// error, reported via logConflict (§4.4's loud-failure
// requirement for diagnostic builds).
func (b *Builder) ImportTexture(name string, image driver.Image, view driver.ImageView, format driver.PixelFmt, width, height int, initial driver.Layout) Handle {
	id, existed := b.g.idOf(name)
	if existed {
		if n := b.g.nodes[id]; n != nil && (n.kind != kindImported || !n.imgImported || n.view != view) {
			logConflict("import_texture: \"" + name + "\" already imported with a different resource")
		}
		return newHandle(id)
	}
	b.g.nodes[id] = &node{
		name:        name,
		kind:        kindImported,
		imgImported: true,
		tex:         TexDesc{Width: width, Height: height}.WithFormat(format).resolve(name),
		layout:      initial,
		image:       image,
		view:        view,
	}
	return newHandle(id)
}

// ImportBuffer registers an externally-owned buffer under
// name. See ImportTexture for the conflict rule.
func (b *Builder) ImportBuffer(name string, buf driver.Buffer, size int64, usage driver.Usage) Handle {
	id, existed := b.g.idOf(name)
	if existed {
		if n := b.g.nodes[id]; n != nil && (n.kind != kindImported || n.imgImported || n.buffer != buf) {
			logConflict("import_buffer: \"" + name + "\" already imported with a different resource")
		}
		return newHandle(id)
	}
	b.g.nodes[id] = &node{
		name:   name,
		kind:   kindImported,
		buf:    BufDesc{Size: size, Usage: usage},
		buffer: buf,
	}
	return newHandle(id)
}

// GetTextureExtent returns the width and height declared (or
// imported) for handle, for passes that need to compute a
// viewport or scissor. ok is false for an invalid handle or
// one that does not name a texture.
func (b *Builder) GetTextureExtent(handle Handle) (width, height int, ok bool) {
	n := b.g.nodeFor(handle)
	if n == nil || !n.isTexture() {
		return 0, 0, false
	}
	return n.tex.Width, n.tex.Height, true
}
