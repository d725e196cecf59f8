// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"slices"

	"github.com/gviegas/scenegraph/linear"
)

// ComponentKind identifies a component table.
type ComponentKind int

// Component kinds.
const (
	TransformKind ComponentKind = iota
	GeometryKind
	MaterialKind
	LayerKind
	MetadataKind

	MaxComponentKind int = iota
)

// String implements fmt.Stringer.
func (k ComponentKind) String() string {
	switch k {
	case TransformKind:
		return "transform"
	case GeometryKind:
		return "geometry"
	case MaterialKind:
		return "material"
	case LayerKind:
		return "layer"
	case MetadataKind:
		return "metadata"
	default:
		return "[!] invalid ComponentKind value"
	}
}

// Aabb is an axis-aligned bounding box.
type Aabb struct {
	Min linear.Vector3
	Max linear.Vector3
}

// Empty reports whether b encloses no point.
func (b Aabb) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Union returns the smallest box enclosing both b and c.
func (b Aabb) Union(c Aabb) Aabb {
	return Aabb{b.Min.Min(c.Min), b.Max.Max(c.Max)}
}

// Transform returns the box enclosing b transformed by m.
func (b Aabb) Transform(m linear.Matrix4) Aabb {
	var r Aabb
	for i := 0; i < 8; i++ {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		p = m.TransformPoint(p)
		if i == 0 {
			r = Aabb{p, p}
		} else {
			r = r.Union(Aabb{p, p})
		}
	}
	return r
}

// Transform places an entity.
// Rotation holds Euler angles in radians (intrinsic XYZ).
type Transform struct {
	Position linear.Vector3
	Rotation linear.Vector3
	Scale    linear.Vector3
}

// IdentityTransform returns a transform that leaves
// geometry in place.
func IdentityTransform() Transform {
	return Transform{Scale: linear.Vector3{X: 1, Y: 1, Z: 1}}
}

// Matrix returns the matrix that t describes.
func (t Transform) Matrix() linear.Matrix4 {
	return linear.Compose(t.Position, t.Rotation, t.Scale)
}

// Topology is the primitive topology of geometry.
type Topology int

// Topologies.
const (
	Triangles Topology = iota
	Lines
)

// String implements fmt.Stringer.
func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	default:
		return "[!] invalid Topology value"
	}
}

// Geometry attaches a mesh asset to an entity.
type Geometry struct {
	Mesh        AssetID
	Topology    Topology
	LocalBounds *Aabb
}

// Material describes surface appearance.
// Values are expected in [0, 1]; this is not enforced.
// Asset optionally refers to a MaterialAsset that the
// values override.
type Material struct {
	BaseColor [4]float32
	Metallic  float32
	Roughness float32
	Opacity   float32
	Asset     AssetID
}

// Layer groups entities for visibility and editing.
type Layer struct {
	Name    string
	Visible bool
	Locked  bool
}

// Metadata carries free-form annotations.
type Metadata struct {
	Tags       []string
	Properties Properties
}

// Clone returns a deep copy of m.
func (m Metadata) Clone() Metadata {
	return Metadata{Tags: slices.Clone(m.Tags), Properties: m.Properties.Clone()}
}

// ComponentRefs links an entity to at most one component
// of each kind. NilComponent marks an empty slot.
type ComponentRefs struct {
	Transform ComponentID
	Geometry  ComponentID
	Material  ComponentID
	Layer     ComponentID
	Metadata  ComponentID
}

// Get returns the slot of the given kind.
func (r ComponentRefs) Get(kind ComponentKind) ComponentID {
	switch kind {
	case TransformKind:
		return r.Transform
	case GeometryKind:
		return r.Geometry
	case MaterialKind:
		return r.Material
	case LayerKind:
		return r.Layer
	case MetadataKind:
		return r.Metadata
	}
	panic("invalid ComponentKind value")
}

// Set returns a copy of r with the slot of the given kind
// set to id.
func (r ComponentRefs) Set(kind ComponentKind, id ComponentID) ComponentRefs {
	switch kind {
	case TransformKind:
		r.Transform = id
	case GeometryKind:
		r.Geometry = id
	case MaterialKind:
		r.Material = id
	case LayerKind:
		r.Layer = id
	case MetadataKind:
		r.Metadata = id
	default:
		panic("invalid ComponentKind value")
	}
	return r
}

// Components holds one table per component kind.
type Components struct {
	Transforms Table[ComponentID, Transform]
	Geometries Table[ComponentID, Geometry]
	Materials  Table[ComponentID, Material]
	Layers     Table[ComponentID, Layer]
	Metadata   Table[ComponentID, Metadata]
}

// Has reports whether the table of the given kind
// contains id.
func (c *Components) Has(kind ComponentKind, id ComponentID) bool {
	switch kind {
	case TransformKind:
		return c.Transforms.Has(id)
	case GeometryKind:
		return c.Geometries.Has(id)
	case MaterialKind:
		return c.Materials.Has(id)
	case LayerKind:
		return c.Layers.Has(id)
	case MetadataKind:
		return c.Metadata.Has(id)
	}
	panic("invalid ComponentKind value")
}

// Delete removes id from the table of the given kind.
func (c *Components) Delete(kind ComponentKind, id ComponentID) bool {
	switch kind {
	case TransformKind:
		return c.Transforms.Delete(id)
	case GeometryKind:
		return c.Geometries.Delete(id)
	case MaterialKind:
		return c.Materials.Delete(id)
	case LayerKind:
		return c.Layers.Delete(id)
	case MetadataKind:
		return c.Metadata.Delete(id)
	}
	panic("invalid ComponentKind value")
}

// Len returns the total number of components.
func (c *Components) Len() int {
	return c.Transforms.Len() + c.Geometries.Len() + c.Materials.Len() +
		c.Layers.Len() + c.Metadata.Len()
}

// Clone returns a deep copy of c.
func (c *Components) Clone() Components {
	d := Components{
		Transforms: c.Transforms.Clone(),
		Materials:  c.Materials.Clone(),
		Layers:     c.Layers.Clone(),
	}
	for id, g := range c.Geometries.All() {
		if g.LocalBounds != nil {
			b := *g.LocalBounds
			g.LocalBounds = &b
		}
		d.Geometries.Set(id, g)
	}
	for id, m := range c.Metadata.All() {
		d.Metadata.Set(id, m.Clone())
	}
	return d
}
