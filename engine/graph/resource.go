// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package graph

import (
	"strings"

	"github.com/gviegas/rendergraph/driver"
)

// Aspect is a mask of image subresource aspects.
type Aspect int

// Aspects.
const (
	AspectColor Aspect = 1 << iota
	AspectDepth
	AspectStencil
)

// MemoryDomain classifies where a buffer's backing memory
// lives and how the CPU may reach it.
type MemoryDomain int

// Memory domains.
const (
	// Device-only memory; not CPU-accessible.
	DomainDevice MemoryDomain = iota
	// Host-visible memory intended for CPU writes that the
	// GPU subsequently reads (e.g., per-frame uniforms).
	DomainUpload
	// Host-visible memory intended for GPU writes that the
	// CPU subsequently reads (e.g., a picking readback).
	DomainReadback
)

// TexDesc describes a logical texture resource.
//
// Width and Height are required. Format, Usage and Aspect
// may be left at their zero value, in which case the
// compiler derives them: a name containing "Depth" implies a
// depth-stencil attachment with depth (and, if the resolved
// format carries a stencil channel, stencil) aspect; any
// other name implies a color attachment with color aspect.
// A non-zero Format always takes precedence over the name
// heuristic for aspect derivation, per §4.1.
type TexDesc struct {
	Width, Height int
	Format        driver.PixelFmt
	hasFormat     bool
	Usage         driver.Usage
	Aspect        Aspect
}

// WithFormat returns a copy of d with Format set explicitly,
// so that the zero value of driver.PixelFmt (RGBA8Unorm) can
// still be told apart from "format left to the compiler".
func (d TexDesc) WithFormat(f driver.PixelFmt) TexDesc {
	d.Format = f
	d.hasFormat = true
	return d
}

// dfltDepthFormat is the format assumed for a transient
// texture whose name implies a depth aspect but that leaves
// Format unset, standing in for "the device's supported
// depth format" per §8's boundary behavior.
const dfltDepthFormat = driver.D32Float

// resolve fills in Format/Usage/Aspect left at their zero
// value, using the name heuristic and format-implied aspect
// rules from §4.1. It must only be called once, at node
// creation (idempotence means later calls with the same name
// must not re-resolve).
func (d TexDesc) resolve(name string) TexDesc {
	isDepthName := strings.Contains(name, "Depth")
	explicit := d.hasFormat || d.Format != driver.RGBA8Unorm

	if !explicit {
		if isDepthName {
			d.Format = dfltDepthFormat
		} else {
			d.Format = driver.RGBA8Unorm
		}
	}

	depth := d.Format.IsDepth() || (isDepthName && !explicit)
	if d.Aspect == 0 {
		switch {
		case depth && d.Format.IsStencil():
			d.Aspect = AspectDepth | AspectStencil
		case depth:
			d.Aspect = AspectDepth
		default:
			d.Aspect = AspectColor
		}
	}

	if d.Usage == 0 {
		d.Usage = driver.UShaderSample | driver.URenderTarget
	}

	return d
}

// BufDesc describes a logical buffer resource.
type BufDesc struct {
	Size   int64
	Usage  driver.Usage
	Domain MemoryDomain
}
