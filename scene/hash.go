// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/gviegas/scenegraph/linear"
)

// hasher feeds a canonical binary form of a graph into
// an xxhash digest.
type hasher struct {
	d   *xxhash.Digest
	buf []byte
}

func (h *hasher) flush() {
	h.d.Write(h.buf)
	h.buf = h.buf[:0]
}

func (h *hasher) u64(x uint64) {
	h.buf = binary.LittleEndian.AppendUint64(h.buf, x)
	if len(h.buf) >= 4096 {
		h.flush()
	}
}

func (h *hasher) f64(x float64) { h.u64(math.Float64bits(x)) }

func (h *hasher) f32(x float32) { h.u64(uint64(math.Float32bits(x))) }

func (h *hasher) vec(v linear.Vector3) {
	h.f64(v.X)
	h.f64(v.Y)
	h.f64(v.Z)
}

func (h *hasher) boolean(b bool) {
	if b {
		h.u64(1)
	} else {
		h.u64(0)
	}
}

func (h *hasher) str(s string) {
	h.u64(uint64(len(s)))
	h.buf = append(h.buf, s...)
	if len(h.buf) >= 4096 {
		h.flush()
	}
}

func (h *hasher) aabb(b *Aabb) {
	if b == nil {
		h.u64(0)
		return
	}
	h.u64(1)
	h.vec(b.Min)
	h.vec(b.Max)
}

func (h *hasher) color(c [4]float32) {
	for _, x := range c {
		h.f32(x)
	}
}

// Hash returns a digest of g's contents.
// Equal graphs hash equally: tables and properties are
// visited in key order. Timestamps are included.
func (g *Graph) Hash() uint64 {
	h := hasher{d: xxhash.New(), buf: make([]byte, 0, 4096+64)}

	h.u64(uint64(g.SchemaVersion))
	h.str(g.Metadata.Name)
	h.u64(uint64(g.Metadata.Unit))
	h.u64(uint64(g.Metadata.UpAxis))
	h.u64(uint64(g.Metadata.CreatedAt.UnixNano()))
	h.u64(uint64(g.Metadata.UpdatedAt.UnixNano()))

	h.u64(uint64(len(g.Entities)))
	for _, e := range g.Entities {
		h.u64(uint64(e.ID))
		h.str(e.Name)
		for k := 0; k < MaxComponentKind; k++ {
			h.u64(uint64(e.Components.Get(ComponentKind(k))))
		}
	}

	c := &g.Components
	h.u64(uint64(c.Transforms.Len()))
	for id, t := range c.Transforms.All() {
		h.u64(uint64(id))
		h.vec(t.Position)
		h.vec(t.Rotation)
		h.vec(t.Scale)
	}
	h.u64(uint64(c.Geometries.Len()))
	for id, x := range c.Geometries.All() {
		h.u64(uint64(id))
		h.u64(uint64(x.Mesh))
		h.u64(uint64(x.Topology))
		h.aabb(x.LocalBounds)
	}
	h.u64(uint64(c.Materials.Len()))
	for id, x := range c.Materials.All() {
		h.u64(uint64(id))
		h.color(x.BaseColor)
		h.f32(x.Metallic)
		h.f32(x.Roughness)
		h.f32(x.Opacity)
		h.u64(uint64(x.Asset))
	}
	h.u64(uint64(c.Layers.Len()))
	for id, x := range c.Layers.All() {
		h.u64(uint64(id))
		h.str(x.Name)
		h.boolean(x.Visible)
		h.boolean(x.Locked)
	}
	h.u64(uint64(c.Metadata.Len()))
	for id, x := range c.Metadata.All() {
		h.u64(uint64(id))
		h.u64(uint64(len(x.Tags)))
		for _, t := range x.Tags {
			h.str(t)
		}
		h.u64(uint64(len(x.Properties)))
		for k, v := range x.Properties.All() {
			h.str(k)
			h.u64(uint64(v.Kind()))
			Match(v,
				func(s string) struct{} { h.str(s); return struct{}{} },
				func(n float64) struct{} { h.f64(n); return struct{}{} },
				func(b bool) struct{} { h.boolean(b); return struct{}{} },
				func() struct{} { return struct{}{} },
			)
		}
	}

	a := &g.Assets
	h.u64(uint64(a.Meshes.Len()))
	for id, x := range a.Meshes.All() {
		h.u64(uint64(id))
		h.u64(uint64(x.VertexCount))
		h.u64(uint64(x.IndexCount))
		h.u64(uint64(x.Topology))
		h.u64(uint64(x.IndexFormat))
		h.u64(uint64(x.Layout.Stride))
		h.u64(uint64(x.Layout.Mask))
		for i := 0; i < MaxSemantic; i++ {
			if off, ok := x.Layout.Offset(Semantic(1 << i)); ok {
				h.u64(uint64(off))
			}
		}
		h.str(x.URI)
		h.aabb(x.Bounds)
	}
	h.u64(uint64(a.Materials.Len()))
	for id, x := range a.Materials.All() {
		h.u64(uint64(id))
		h.color(x.BaseColor)
		h.f32(x.Metallic)
		h.f32(x.Roughness)
		h.u64(uint64(x.BaseColorTexture))
	}
	h.u64(uint64(a.Textures.Len()))
	for id, x := range a.Textures.All() {
		h.u64(uint64(id))
		h.str(x.URI)
	}

	h.flush()
	return h.d.Sum64()
}
