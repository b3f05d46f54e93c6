// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import "github.com/gviegas/rendergraph/driver"

// Execute streams the compiled graph into cb: for each pass
// in submission order it submits the pass's barrier batch (if
// non-empty), begins a dynamic-rendering region when the pass
// declared attachments, invokes the pass's execute closure,
// then ends the region. Passes that failed resource
// resolution during Compile are skipped with a logged
// warning, per §4.5/§4.6.
//
// Execute must run after a successful Compile call for the
// same set of passes.
func (g *Graph) Execute(cb driver.CmdBuffer) {
	for i, p := range g.passes {
		if g.skip[i] {
			logMissing("pass \"" + p.name + "\" skipped: unresolved resource")
			continue
		}

		bb := g.batches[i]
		if !bb.empty() {
			for _, t := range bb.Images {
				cb.Transition([]driver.Transition{t})
			}
			if len(bb.Buffers) > 0 {
				cb.Barrier(bb.Buffers)
			}
		}

		rendering := len(p.attachs) > 0
		if rendering {
			cb.BeginRendering(g.renderingDesc(p))
		}
		p.execute(&g.reg, cb)
		if rendering {
			cb.EndRendering()
		}
	}
}

func (g *Graph) renderingDesc(p *Pass) *driver.RenderingDesc {
	desc := &driver.RenderingDesc{
		Width:  p.width,
		Height: p.height,
		Layers: 1,
	}
	for _, a := range p.attachs {
		n := g.nodeFor(a.Handle)
		ra := driver.RenderingAttachment{
			View:   n.view,
			Layout: n.layout,
			Load:   a.Load,
			Store:  a.Store,
			Clear:  a.Clear,
		}
		if a.Depth {
			desc.DS = ra
			desc.HasDS = true
		} else {
			desc.Color = append(desc.Color, ra)
		}
	}
	return desc
}

// DebugImages enumerates, for every resource that has a view,
// the information post_compile callbacks need to refresh
// cached descriptor sets that sample graph-owned images
// (§4.6, Post-execute).
func (g *Graph) DebugImages() []DebugImage {
	var out []DebugImage
	for i, n := range g.nodes {
		if n == nil || n.view == nil {
			continue
		}
		out = append(out, DebugImage{
			Handle: newHandle(ID(i)),
			Name:   n.name,
			View:   n.view,
			Format: n.tex.Format,
			Aspect: n.tex.Aspect,
			Usage:  n.tex.Usage,
			Width:  n.tex.Width,
			Height: n.tex.Height,
		})
	}
	return out
}

// DebugImage is one entry of Graph.DebugImages.
type DebugImage struct {
	Handle        Handle
	Name          string
	View          driver.ImageView
	Format        driver.PixelFmt
	Aspect        Aspect
	Usage         driver.Usage
	Width, Height int
}
