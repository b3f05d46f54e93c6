// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import "github.com/gviegas/rendergraph/driver"

// The types below are a minimal driver.GPU/CmdBuffer/Image/
// Buffer/ImageView test double. engine's own tests exercise
// a real cgo Vulkan backend (driver/vk) through
// engine/internal/ctxt; the graph's compiler and barrier
// synthesis logic are pure enough not to need one, so they
// are tested against this fake instead.

type fakeGPU struct {
	nextImg int
	nextBuf int
	failImg bool
	failBuf bool
}

func (g *fakeGPU) Driver() driver.Driver { return nil }

func (g *fakeGPU) Commit(wk *driver.WorkItem, ch chan<- *driver.WorkItem) error {
	wk.Err = nil
	if ch != nil {
		ch <- wk
	}
	return nil
}

func (g *fakeGPU) NewCmdBuffer() (driver.CmdBuffer, error) { return &fakeCmdBuffer{}, nil }

func (g *fakeGPU) NewRenderPass(att []driver.Attachment, sub []driver.Subpass) (driver.RenderPass, error) {
	return nil, nil
}

func (g *fakeGPU) NewShaderCode(data []byte) (driver.ShaderCode, error) { return nil, nil }

func (g *fakeGPU) NewDescHeap(ds []driver.Descriptor) (driver.DescHeap, error) { return nil, nil }

func (g *fakeGPU) NewDescTable(dh []driver.DescHeap) (driver.DescTable, error) { return nil, nil }

func (g *fakeGPU) NewPipeline(state any) (driver.Pipeline, error) { return nil, nil }

func (g *fakeGPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	if g.failBuf {
		return nil, newGraphErr("fakeGPU: buffer creation disabled")
	}
	g.nextBuf++
	return &fakeBuffer{id: g.nextBuf, size: size, visible: visible}, nil
}

func (g *fakeGPU) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (driver.Image, error) {
	if g.failImg {
		return nil, newGraphErr("fakeGPU: image creation disabled")
	}
	g.nextImg++
	return &fakeImage{id: g.nextImg, pf: pf, size: size}, nil
}

func (g *fakeGPU) NewSampler(spln *driver.Sampling) (driver.Sampler, error) { return nil, nil }

func (g *fakeGPU) Limits() driver.Limits { return driver.Limits{} }

type fakeImage struct {
	id   int
	pf   driver.PixelFmt
	size driver.Dim3D
}

func (i *fakeImage) Destroy() {}

func (i *fakeImage) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	return &fakeImageView{img: i}, nil
}

type fakeImageView struct{ img *fakeImage }

func (v *fakeImageView) Destroy() {}

type fakeBuffer struct {
	id      int
	size    int64
	visible bool
}

func (b *fakeBuffer) Destroy() {}

func (b *fakeBuffer) Visible() bool { return b.visible }

func (b *fakeBuffer) Bytes() []byte { return nil }

func (b *fakeBuffer) Cap() int64 { return b.size }

type fakeCmdBuffer struct {
	recording bool
	rendering bool
	barriers  int
	transitions int
	beginRenderingCalls int
}

func (c *fakeCmdBuffer) Destroy() {}

func (c *fakeCmdBuffer) Begin() error { c.recording = true; return nil }

func (c *fakeCmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuf, clear []driver.ClearValue) {
}

func (c *fakeCmdBuffer) NextSubpass() {}

func (c *fakeCmdBuffer) EndPass() {}

func (c *fakeCmdBuffer) BeginRendering(desc *driver.RenderingDesc) {
	c.rendering = true
	c.beginRenderingCalls++
}

func (c *fakeCmdBuffer) EndRendering() { c.rendering = false }

func (c *fakeCmdBuffer) IsRecording() bool { return c.recording }

func (c *fakeCmdBuffer) BeginWork(wait bool) {}
func (c *fakeCmdBuffer) EndWork()            {}
func (c *fakeCmdBuffer) BeginBlit(wait bool) {}
func (c *fakeCmdBuffer) EndBlit()            {}

func (c *fakeCmdBuffer) SetPipeline(pl driver.Pipeline)                      {}
func (c *fakeCmdBuffer) SetViewport(vp []driver.Viewport)                    {}
func (c *fakeCmdBuffer) SetScissor(sciss []driver.Scissor)                   {}
func (c *fakeCmdBuffer) SetBlendColor(r, g, b, a float32)                    {}
func (c *fakeCmdBuffer) SetStencilRef(value uint32)                         {}
func (c *fakeCmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {}
func (c *fakeCmdBuffer) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {
}
func (c *fakeCmdBuffer) SetDescTableGraph(table driver.DescTable, start int, heapCopy []int) {}
func (c *fakeCmdBuffer) SetDescTableComp(table driver.DescTable, start int, heapCopy []int)  {}

func (c *fakeCmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int)                {}
func (c *fakeCmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {}
func (c *fakeCmdBuffer) Dispatch(grpCountX, grpCountY, grpCountZ int)                     {}

func (c *fakeCmdBuffer) CopyBuffer(param *driver.BufferCopy)   {}
func (c *fakeCmdBuffer) CopyImage(param *driver.ImageCopy)     {}
func (c *fakeCmdBuffer) CopyBufToImg(param *driver.BufImgCopy) {}
func (c *fakeCmdBuffer) CopyImgToBuf(param *driver.BufImgCopy) {}
func (c *fakeCmdBuffer) Fill(buf driver.Buffer, off int64, value byte, size int64) {}

func (c *fakeCmdBuffer) Barrier(b []driver.Barrier)       { c.barriers += len(b) }
func (c *fakeCmdBuffer) Transition(t []driver.Transition) { c.transitions += len(t) }

func (c *fakeCmdBuffer) End() error   { c.recording = false; return nil }
func (c *fakeCmdBuffer) Reset() error { c.recording = false; return nil }
