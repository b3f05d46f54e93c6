// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import (
	"testing"

	"github.com/gviegas/rendergraph/driver"
)

func newTestGraph() (*Graph, *fakeGPU) {
	gpu := &fakeGPU{}
	return New(gpu), gpu
}

// Scenario 1 — single forward pass.
func TestCompileSingleForwardPass(t *testing.T) {
	g, gpu := newTestGraph()
	g.Reset()

	var bb driver.ImageView
	img, err := gpu.NewImage(driver.BGRA8Unorm, driver.Dim3D{Width: 1920, Height: 1080}, 1, 1, 1, driver.URenderTarget)
	if err != nil {
		t.Fatal(err)
	}
	bb, err = img.NewView(driver.IView2D, 0, 1, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	type payload struct {
		color, depth Handle
	}
	AddPass(g, "Forward", func(p *payload, b *Builder) {
		p.color = b.ImportTexture("Backbuffer", img, bb, driver.BGRA8Unorm, 1920, 1080, driver.LUndefined)
		p.depth = b.CreateTexture("SceneDepth", TexDesc{Width: 1920, Height: 1080}.WithFormat(driver.D32Float))
		b.WriteColor(p.color, AttachmentInfo{Load: driver.LClear, Store: driver.SStore})
		b.WriteDepth(p.depth, AttachmentInfo{Load: driver.LClear, Store: driver.SStore, Clear: driver.ClearValue{Depth: 1}})
	}, func(p *payload, r *Registry, cb driver.CmdBuffer) {})

	if err := g.Compile(0); err != nil {
		t.Fatal(err)
	}
	if len(g.batches) != 1 {
		t.Fatalf("expected one pass batch, got %d", len(g.batches))
	}
	bbatch := g.batches[0]
	if len(bbatch.Images) != 2 {
		t.Fatalf("expected two image barriers, got %d", len(bbatch.Images))
	}
	for _, tr := range bbatch.Images {
		if tr.LayoutBefore != driver.LUndefined {
			t.Fatalf("expected Undefined source layout, got %v", tr.LayoutBefore)
		}
	}
	if bbatch.Images[0].LayoutAfter != driver.LColorTarget {
		t.Fatalf("color attachment target layout: got %v, want LColorTarget", bbatch.Images[0].LayoutAfter)
	}
	if bbatch.Images[1].LayoutAfter != driver.LDSTarget {
		t.Fatalf("depth attachment target layout: got %v, want LDSTarget", bbatch.Images[1].LayoutAfter)
	}

	cb := &fakeCmdBuffer{}
	g.Execute(cb)
	if cb.beginRenderingCalls != 1 {
		t.Fatalf("expected exactly one BeginRendering call, got %d", cb.beginRenderingCalls)
	}
}

// Scenario 2 — picking read-back.
func TestCompilePickingReadback(t *testing.T) {
	g, _ := newTestGraph()
	g.Reset()

	type empty struct{}
	var pickID Handle
	AddPass(g, "Pick", func(p *empty, b *Builder) {
		pickID = b.CreateTexture("PickID", TexDesc{Width: 256, Height: 256}.WithFormat(driver.R32Uint))
		b.WriteColor(pickID, AttachmentInfo{Load: driver.LClear, Store: driver.SStore})
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})

	AddPass(g, "Readback", func(p *empty, b *Builder) {
		b.Read(pickID, driver.SCopy, driver.ACopyRead)
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})

	if err := g.Compile(0); err != nil {
		t.Fatal(err)
	}
	batch := g.batches[1]
	if len(batch.Images) != 1 {
		t.Fatalf("expected one image barrier on the readback pass, got %d", len(batch.Images))
	}
	tr := batch.Images[0]
	if tr.LayoutBefore != driver.LColorTarget {
		t.Fatalf("src layout: got %v, want LColorTarget", tr.LayoutBefore)
	}
	if tr.SyncBefore != driver.SColorOutput || tr.AccessBefore != driver.AColorWrite {
		t.Fatalf("src stage/access: got %v/%v", tr.SyncBefore, tr.AccessBefore)
	}
}

// Scenario 4 — compute cull + indirect draw: two buffer barriers,
// no image barriers.
func TestCompileComputeCullIndirectDraw(t *testing.T) {
	g, _ := newTestGraph()
	g.Reset()

	type empty struct{}
	var indirect, count Handle
	AddPass(g, "Cull", func(p *empty, b *Builder) {
		indirect = b.CreateBuffer("Indirect", BufDesc{Size: 256, Usage: driver.UShaderWrite})
		count = b.CreateBuffer("Count", BufDesc{Size: 4, Usage: driver.UShaderWrite})
		b.Write(indirect, driver.SComputeShading, driver.AShaderWrite)
		b.Write(count, driver.SComputeShading, driver.AShaderWrite)
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})

	AddPass(g, "Draw", func(p *empty, b *Builder) {
		b.Read(indirect, driver.SDraw, driver.AAnyRead)
		b.Read(count, driver.SDraw, driver.AAnyRead)
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})

	if err := g.Compile(0); err != nil {
		t.Fatal(err)
	}
	batch := g.batches[1]
	if len(batch.Images) != 0 {
		t.Fatalf("expected no image barriers, got %d", len(batch.Images))
	}
	if len(batch.Buffers) != 2 {
		t.Fatalf("expected two buffer barriers, got %d", len(batch.Buffers))
	}
}

// Scenario 5 — resource aliasing across frames: a transient
// declared in frame k+1 with an identical descriptor reuses
// the pooled resource from frame k, under a different name.
func TestCompileResourceAliasingAcrossFrames(t *testing.T) {
	g, gpu := newTestGraph()

	type empty struct{}
	desc := TexDesc{Width: 960, Height: 540}.WithFormat(driver.RGBA16Float)

	g.Reset()
	AddPass(g, "BloomH", func(p *empty, b *Builder) {
		b.CreateTexture("BloomH", desc)
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})
	if err := g.Compile(0); err != nil {
		t.Fatal(err)
	}

	g.Reset()
	AddPass(g, "BlurH", func(p *empty, b *Builder) {
		b.CreateTexture("BlurH", desc)
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})
	if err := g.Compile(0); err != nil {
		t.Fatal(err)
	}

	if gpu.nextImg != 1 {
		t.Fatalf("expected the second frame to reuse the pooled image, got %d physical images", gpu.nextImg)
	}
}

// Scenario 6 — idempotent re-create: two passes creating the
// same name share one handle and one physical resource.
func TestCompileIdempotentRecreate(t *testing.T) {
	g, gpu := newTestGraph()
	g.Reset()

	type empty struct{}
	var h1, h2 Handle
	desc := TexDesc{Width: 2048, Height: 2048}.WithFormat(driver.D32Float)
	AddPass(g, "ShadowA", func(p *empty, b *Builder) {
		h1 = b.CreateTexture("ShadowAtlas", desc)
		b.WriteDepth(h1, AttachmentInfo{Load: driver.LClear, Store: driver.SStore})
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})
	AddPass(g, "ShadowB", func(p *empty, b *Builder) {
		h2 = b.CreateTexture("ShadowAtlas", desc)
		b.WriteDepth(h2, AttachmentInfo{Load: driver.LLoad, Store: driver.SStore})
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})

	if h1 != h2 {
		t.Fatalf("two create_texture calls for the same name returned different handles: %v != %v", h1, h2)
	}
	if err := g.Compile(0); err != nil {
		t.Fatal(err)
	}
	if gpu.nextImg != 1 {
		t.Fatalf("expected exactly one physical image, got %d", gpu.nextImg)
	}
}

// Boundary: read-after-read on an image already in
// shader-read layout emits no barrier.
func TestCompileReadAfterReadNoBarrier(t *testing.T) {
	g, _ := newTestGraph()
	g.Reset()

	type empty struct{}
	var tex Handle
	AddPass(g, "Producer", func(p *empty, b *Builder) {
		tex = b.CreateTexture("Tex", TexDesc{Width: 64, Height: 64})
		b.Read(tex, driver.SFragmentShading, driver.AShaderRead)
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})
	AddPass(g, "Consumer", func(p *empty, b *Builder) {
		b.Read(tex, driver.SFragmentShading, driver.AShaderRead)
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})

	if err := g.Compile(0); err != nil {
		t.Fatal(err)
	}
	if len(g.batches[1].Images) != 0 {
		t.Fatalf("expected no barrier on the second read, got %d", len(g.batches[1].Images))
	}
}

func TestCompileMissingResourceSkipsPass(t *testing.T) {
	g, gpu := newTestGraph()
	gpu.failImg = true
	g.Reset()

	type empty struct{}
	ran := false
	AddPass(g, "Broken", func(p *empty, b *Builder) {
		h := b.CreateTexture("WillFail", TexDesc{Width: 16, Height: 16})
		b.WriteColor(h, AttachmentInfo{})
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) { ran = true })

	if err := g.Compile(0); err != nil {
		t.Fatal(err)
	}
	cb := &fakeCmdBuffer{}
	g.Execute(cb)
	if ran {
		t.Fatal("execute closure ran for a pass with an unresolved resource")
	}
}

func TestResetPurity(t *testing.T) {
	g, _ := newTestGraph()
	g.Reset()

	type empty struct{}
	AddPass(g, "P", func(p *empty, b *Builder) {
		h := b.CreateTexture("T", TexDesc{Width: 8, Height: 8})
		b.Write(h, driver.SNone, driver.ANone)
	}, func(p *empty, r *Registry, cb driver.CmdBuffer) {})
	g.Blackboard().Add(NameID("X"), newHandle(0))

	g.Reset()
	if len(g.nodes) != 0 || len(g.passes) != 0 || len(g.Blackboard().Names()) != 0 {
		t.Fatal("reset did not clear nodes, passes and blackboard")
	}
}
