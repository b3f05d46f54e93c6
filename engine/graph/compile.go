// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import "github.com/gviegas/rendergraph/driver"

// BarrierBatch is the set of barriers a single pass requires
// before it runs, grouped the way the Executor submits them:
// Images are layout transitions (and carry their own memory
// barrier), Buffers are memory-only barriers with no layout
// component. The driver models these as two separate
// submission calls; the Executor issues them back to back to
// approximate a single dependency point.
type BarrierBatch struct {
	Images  []driver.Transition
	Buffers []driver.Barrier
}

func (bb *BarrierBatch) empty() bool { return len(bb.Images) == 0 && len(bb.Buffers) == 0 }

// Compile resolves every node's physical backing (Phase A)
// and synthesizes the per-pass barrier batches (Phase B), per
// §4.5. frameSlot identifies the in-flight frame the pool
// should allocate against, so that transient resources
// allocated for one slot never alias those of another
// (§4.3's cross-frame-slot correctness requirement).
//
// Compile must run after every pass for the frame has been
// added via AddPass, and before Execute.
func (g *Graph) Compile(frameSlot int) error {
	g.slot = frameSlot
	if err := g.resolveResources(); err != nil {
		return err
	}
	g.batches = g.batches[:0]
	g.skip = g.skip[:0]
	for _, p := range g.passes {
		failed := g.passFailed(p)
		g.skip = append(g.skip, failed)
		if failed {
			g.batches = append(g.batches, BarrierBatch{})
			continue
		}
		g.batches = append(g.batches, g.synthesizeBarriers(p))
	}
	return nil
}

// resolveResources implements Phase A: every transient node
// without a physical backing is allocated from the pool;
// imported nodes already carry their backing from Builder's
// Import calls.
func (g *Graph) resolveResources() error {
	for _, n := range g.nodes {
		if n == nil || n.kind == kindImported {
			continue
		}
		switch {
		case n.isTexture():
			key := imgKey{slot: g.slot, format: n.tex.Format, width: n.tex.Width, height: n.tex.Height}
			img, view, err := g.pool.acquireImage(g.gpu, key, n.tex.Usage)
			if err != nil {
				n.failed = true
				logMissing("texture \"" + n.name + "\": " + err.Error())
				continue
			}
			n.image = img
			n.view = view
			n.layout = driver.LUndefined
		case n.isBuffer():
			key := bufKey{slot: g.slot, size: n.buf.Size, usage: n.buf.Usage, domain: n.buf.Domain}
			buf, err := g.pool.acquireBuffer(g.gpu, key)
			if err != nil {
				n.failed = true
				logMissing("buffer \"" + n.name + "\": " + err.Error())
				continue
			}
			n.buffer = buf
		}
	}
	return nil
}

// passFailed reports whether any resource a pass references
// failed to resolve in Phase A; such a pass is skipped
// entirely by Execute, per §4.5's failure semantics.
func (g *Graph) passFailed(p *Pass) bool {
	check := func(h Handle) bool {
		n := g.nodeFor(h)
		return n == nil || n.failed
	}
	for _, a := range p.attachs {
		if check(a.Handle) {
			return true
		}
	}
	for _, a := range p.reads {
		if check(a.handle) {
			return true
		}
	}
	for _, a := range p.writes {
		if check(a.handle) {
			return true
		}
	}
	return false
}

// synthesizeBarriers implements Phase B for a single pass:
// attachments, then reads, then non-attachment writes, each
// group in declaration order.
func (g *Graph) synthesizeBarriers(p *Pass) BarrierBatch {
	var bb BarrierBatch

	for _, a := range p.attachs {
		n := g.nodeFor(a.Handle)
		var dstLayout driver.Layout
		var dstStage driver.Sync
		var dstAccess driver.Access
		if a.Depth {
			dstLayout = driver.LDSTarget
			dstStage = driver.SDSOutput
			dstAccess = driver.ADSWrite
		} else {
			dstLayout = driver.LColorTarget
			dstStage = driver.SColorOutput
			dstAccess = driver.AColorWrite
		}
		srcStage, srcAccess := n.stage, n.access
		if n.layout == driver.LUndefined {
			srcStage, srcAccess = driver.SNone, driver.ANone
		}
		bb.Images = append(bb.Images, driver.Transition{
			Barrier: driver.Barrier{
				SyncBefore:   srcStage,
				SyncAfter:    dstStage,
				AccessBefore: srcAccess,
				AccessAfter:  dstAccess,
			},
			LayoutBefore: n.layout,
			LayoutAfter:  dstLayout,
			IView:        n.view,
		})
		n.layout, n.stage, n.access = dstLayout, dstStage, dstAccess
	}

	for _, a := range p.reads {
		n := g.nodeFor(a.handle)
		if n.isTexture() {
			if n.layout != driver.LShaderRead {
				stage := a.sync
				if stage == driver.SNone {
					stage = driver.SFragmentShading
				}
				bb.Images = append(bb.Images, driver.Transition{
					Barrier: driver.Barrier{
						SyncBefore:   n.stage,
						SyncAfter:    stage,
						AccessBefore: n.access,
						AccessAfter:  driver.AShaderRead,
					},
					LayoutBefore: n.layout,
					LayoutAfter:  driver.LShaderRead,
					IView:        n.view,
				})
				n.layout, n.stage, n.access = driver.LShaderRead, stage, driver.AShaderRead
			}
		} else if n.isBuffer() {
			stage, acc := a.sync, a.acc
			if stage == driver.SNone && acc == driver.ANone {
				stage, acc = deriveBufferSyncAccess(n.buf.Usage)
			}
			if n.stage != stage || n.access != acc {
				bb.Buffers = append(bb.Buffers, driver.Barrier{
					SyncBefore:   n.stage,
					SyncAfter:    stage,
					AccessBefore: n.access,
					AccessAfter:  acc,
				})
				n.stage, n.access = stage, acc
			}
		}
	}

	for _, a := range p.writes {
		n := g.nodeFor(a.handle)
		stage, acc := a.sync, a.acc
		if stage == driver.SNone && acc == driver.ANone {
			if n.isTexture() {
				stage, acc = deriveBufferSyncAccess(n.tex.Usage)
			} else {
				stage, acc = deriveBufferSyncAccess(n.buf.Usage)
			}
		}
		if n.isTexture() {
			changed := n.layout != driver.LCommon || n.stage != stage || n.access != acc
			if changed {
				bb.Images = append(bb.Images, driver.Transition{
					Barrier: driver.Barrier{
						SyncBefore:   n.stage,
						SyncAfter:    stage,
						AccessBefore: n.access,
						AccessAfter:  acc,
					},
					LayoutBefore: n.layout,
					LayoutAfter:  driver.LCommon,
					IView:        n.view,
				})
				n.layout, n.stage, n.access = driver.LCommon, stage, acc
			}
		} else if n.isBuffer() {
			if n.stage != stage || n.access != acc {
				bb.Buffers = append(bb.Buffers, driver.Barrier{
					SyncBefore:   n.stage,
					SyncAfter:    stage,
					AccessBefore: n.access,
					AccessAfter:  acc,
				})
				n.stage, n.access = stage, acc
			}
		}
	}

	return bb
}

// deriveBufferSyncAccess implements §4.5's stage/access
// derivation fallback, used whenever a pass declares a
// read/write without an explicit stage and access.
func deriveBufferSyncAccess(usage driver.Usage) (driver.Sync, driver.Access) {
	switch {
	case usage&(driver.UVertexData|driver.UIndexData) != 0:
		acc := driver.Access(0)
		if usage&driver.UVertexData != 0 {
			acc |= driver.AVertexBufRead
		}
		if usage&driver.UIndexData != 0 {
			acc |= driver.AIndexBufRead
		}
		return driver.SVertexInput, acc
	case usage&(driver.UShaderRead|driver.UShaderWrite|driver.UShaderConst|driver.UShaderSample) != 0:
		acc := driver.Access(0)
		if usage&driver.UShaderRead != 0 || usage&driver.UShaderSample != 0 || usage&driver.UShaderConst != 0 {
			acc |= driver.AShaderRead
		}
		if usage&driver.UShaderWrite != 0 {
			acc |= driver.AShaderWrite
		}
		return driver.SVertexShading | driver.SFragmentShading | driver.SComputeShading, acc
	default:
		return driver.SAll, driver.AAnyRead | driver.AAnyWrite
	}
}
