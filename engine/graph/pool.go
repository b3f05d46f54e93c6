// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import (
	"github.com/gviegas/rendergraph/driver"
	"github.com/gviegas/rendergraph/internal/bitvec"
)

// imgKey is the allocation key for a pooled image. slot is
// the frame-in-flight index the request was made for: §4.3
// requires that an item allocated for slot k only ever
// satisfy a slot-k request, so slot is part of the key rather
// than a side channel.
type imgKey struct {
	slot          int
	format        driver.PixelFmt
	width, height int
}

type bufKey struct {
	slot   int
	size   int64
	usage  driver.Usage
	domain MemoryDomain
}

type imgCell struct {
	key   imgKey
	image driver.Image
	view  driver.ImageView
}

type bufCell struct {
	key    bufKey
	buffer driver.Buffer
}

// Pool is the per-frame transient resource allocator
// described in §4.3. It is owned by the Graph and outlives
// any single frame: Graph.Reset marks every cell free
// without destroying it, so that a frame whose passes
// request the same transient sizes as a previous frame
// reuses the same physical resources instead of allocating
// new ones.
//
// Free/in-use bookkeeping reuses internal/bitvec the same way
// the engine's texture staging allocator does: a cleared bit
// means the cell is free, a set bit means it is currently
// bound to a live node.
type Pool struct {
	images  []imgCell
	imgUsed bitvec.V[uint64]

	buffers []bufCell
	bufUsed bitvec.V[uint64]
}

// acquireImage returns a physical image and view matching
// key, reusing a free cell when one matches exactly (format,
// width, height and slot, per §4.3's allocation policy), or
// creating a new one otherwise.
func (p *Pool) acquireImage(gpu driver.GPU, key imgKey, usage driver.Usage) (driver.Image, driver.ImageView, error) {
	for i := range p.images {
		if p.imgUsed.IsSet(i) {
			continue
		}
		if p.images[i].key == key {
			p.imgUsed.Set(i)
			return p.images[i].image, p.images[i].view, nil
		}
	}

	img, err := gpu.NewImage(key.format, driver.Dim3D{Width: key.width, Height: key.height}, 1, 1, 1, usage)
	if err != nil {
		return nil, nil, err
	}
	view, err := img.NewView(driver.IView2D, 0, 1, 0, 1)
	if err != nil {
		img.Destroy()
		return nil, nil, err
	}

	idx := len(p.images)
	if idx >= p.imgUsed.Len() {
		p.imgUsed.Grow(1)
	}
	p.images = append(p.images, imgCell{key: key, image: img, view: view})
	p.imgUsed.Set(idx)
	return img, view, nil
}

// acquireBuffer is the buffer analog of acquireImage.
func (p *Pool) acquireBuffer(gpu driver.GPU, key bufKey) (driver.Buffer, error) {
	for i := range p.buffers {
		if p.bufUsed.IsSet(i) {
			continue
		}
		if p.buffers[i].key == key {
			p.bufUsed.Set(i)
			return p.buffers[i].buffer, nil
		}
	}

	visible := key.domain != DomainDevice
	buf, err := gpu.NewBuffer(key.size, visible, key.usage)
	if err != nil {
		return nil, err
	}

	idx := len(p.buffers)
	if idx >= p.bufUsed.Len() {
		p.bufUsed.Grow(1)
	}
	p.buffers = append(p.buffers, bufCell{key: key, buffer: buf})
	p.bufUsed.Set(idx)
	return buf, nil
}

// reset marks every cell free. Physical resources are not
// destroyed: they remain available for the next frame that
// requests a matching descriptor.
func (p *Pool) reset() {
	p.imgUsed.Clear()
	p.bufUsed.Clear()
}

// free destroys every physical resource the pool has ever
// created. The Pool must not be used afterwards.
func (p *Pool) free() {
	for _, c := range p.images {
		c.view.Destroy()
		c.image.Destroy()
	}
	p.images = nil
	for _, c := range p.buffers {
		c.buffer.Destroy()
	}
	p.buffers = nil
}
