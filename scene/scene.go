// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package scene defines a flat, component-based scene
// description.
//
// Entities are lightweight records that refer to components
// by identifier; components live in one ordered table per
// kind, and shared data lives in an asset registry. A Graph
// is well formed when Validate succeeds:
//
//   - every component referred to by an entity exists in
//     the table of its kind;
//   - every asset referred to by a component or asset exists
//     in the registry;
//   - entity identifiers are unique among entities and
//     component identifiers are unique among components;
//   - the schema version is known.
//
// The package does not mutate graphs on behalf of callers.
// Code that edits a Graph must link a component in the same
// step that inserts it, and unlink it before removing it
// (see package edit).
package scene

import (
	"slices"
	"time"

	"github.com/gviegas/scenegraph/linear"
)

// Unit is the length unit of scene coordinates.
type Unit int

// Units.
const (
	Meters Unit = iota
	Centimeters
	Millimeters
)

// String implements fmt.Stringer.
func (u Unit) String() string {
	switch u {
	case Meters:
		return "m"
	case Centimeters:
		return "cm"
	case Millimeters:
		return "mm"
	default:
		return "[!] invalid Unit value"
	}
}

// ToMeters returns the length of one u in meters.
func (u Unit) ToMeters() float64 {
	switch u {
	case Centimeters:
		return 0.01
	case Millimeters:
		return 0.001
	default:
		return 1
	}
}

// Axis is a coordinate axis.
type Axis int

// Axes.
const (
	AxisY Axis = iota
	AxisZ
	AxisX
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "[!] invalid Axis value"
	}
}

// Vector returns the unit vector along a.
func (a Axis) Vector() linear.Vector3 {
	switch a {
	case AxisX:
		return linear.Vector3{X: 1}
	case AxisZ:
		return linear.Vector3{Z: 1}
	default:
		return linear.Vector3{Y: 1}
	}
}

// SceneMetadata describes a scene as a whole.
type SceneMetadata struct {
	Name      string
	Unit      Unit
	UpAxis    Axis
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntityRecord is an entity and the components linked to it.
// An empty Name means that the entity is unnamed.
type EntityRecord struct {
	ID         EntityID
	Name       string
	Components ComponentRefs
}

// Graph is a scene: entities, their components and the
// assets they use.
type Graph struct {
	SchemaVersion SchemaVersion
	Metadata      SceneMetadata
	Entities      []EntityRecord
	Components    Components
	Assets        Assets
}

// New creates an empty graph using the Current schema.
func New(name string) *Graph { return new(Graph).Init(name) }

// Init initializes g as an empty graph.
func (g *Graph) Init(name string) *Graph {
	*g = Graph{
		SchemaVersion: Current,
		Metadata: SceneMetadata{
			Name:   name,
			Unit:   Meters,
			UpAxis: AxisY,
		},
	}
	return g
}

// Entity returns the entity identified by id.
// The pointer aliases g.Entities.
func (g *Graph) Entity(id EntityID) (*EntityRecord, bool) {
	for i := range g.Entities {
		if g.Entities[i].ID == id {
			return &g.Entities[i], true
		}
	}
	return nil, false
}

// Resolved is an entity with its components looked up.
// Fields are nil for empty slots.
type Resolved struct {
	Entity    EntityRecord
	Transform *Transform
	Geometry  *Geometry
	Mesh      *MeshAsset
	Material  *Material
	Layer     *Layer
	Metadata  *Metadata
}

// Resolve follows every populated component slot of e.
// A slot whose component does not exist yields an error
// wrapping ErrDanglingReference; geometry whose mesh does
// not exist yields an error wrapping ErrUnknownAsset.
func (g *Graph) Resolve(e *EntityRecord) (r Resolved, err error) {
	r.Entity = *e
	c := &g.Components
	refs := e.Components
	dangling := func(kind ComponentKind, id ComponentID) error {
		return &Error{Err: ErrDanglingReference, Entity: e.ID, Component: id, Kind: kind}
	}
	if id := refs.Transform; id != NilComponent {
		x, ok := c.Transforms.Get(id)
		if !ok {
			return r, dangling(TransformKind, id)
		}
		r.Transform = &x
	}
	if id := refs.Geometry; id != NilComponent {
		x, ok := c.Geometries.Get(id)
		if !ok {
			return r, dangling(GeometryKind, id)
		}
		m, ok := g.Assets.Meshes.Get(x.Mesh)
		if !ok {
			return r, &Error{Err: ErrUnknownAsset, Entity: e.ID, Component: id, Kind: GeometryKind, Asset: x.Mesh, Detail: "mesh"}
		}
		r.Geometry = &x
		r.Mesh = &m
	}
	if id := refs.Material; id != NilComponent {
		x, ok := c.Materials.Get(id)
		if !ok {
			return r, dangling(MaterialKind, id)
		}
		r.Material = &x
	}
	if id := refs.Layer; id != NilComponent {
		x, ok := c.Layers.Get(id)
		if !ok {
			return r, dangling(LayerKind, id)
		}
		r.Layer = &x
	}
	if id := refs.Metadata; id != NilComponent {
		x, ok := c.Metadata.Get(id)
		if !ok {
			return r, dangling(MetadataKind, id)
		}
		r.Metadata = &x
	}
	return r, nil
}

// ResolveAll resolves every entity in order.
// It stops at the first error.
func (g *Graph) ResolveAll() ([]Resolved, error) {
	rs := make([]Resolved, 0, len(g.Entities))
	for i := range g.Entities {
		r, err := g.Resolve(&g.Entities[i])
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

// Mesh returns the mesh asset that geo refers to.
func (g *Graph) Mesh(geo Geometry) (MeshAsset, error) {
	m, ok := g.Assets.Meshes.Get(geo.Mesh)
	if !ok {
		return m, &Error{Err: ErrUnknownAsset, Kind: GeometryKind, Asset: geo.Mesh, Detail: "mesh"}
	}
	return m, nil
}

// Bounds returns the world-space box enclosing every
// entity that has both geometry and bounds (taken from
// Geometry.LocalBounds, or else from the mesh asset).
// It returns false if no such entity exists.
func (g *Graph) Bounds() (b Aabb, ok bool, err error) {
	for i := range g.Entities {
		r, err := g.Resolve(&g.Entities[i])
		if err != nil {
			return Aabb{}, false, err
		}
		if r.Geometry == nil {
			continue
		}
		local := r.Geometry.LocalBounds
		if local == nil {
			local = r.Mesh.Bounds
		}
		if local == nil {
			continue
		}
		w := *local
		if r.Transform != nil {
			w = w.Transform(r.Transform.Matrix())
		}
		if ok {
			b = b.Union(w)
		} else {
			b, ok = w, true
		}
	}
	return
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	return &Graph{
		SchemaVersion: g.SchemaVersion,
		Metadata:      g.Metadata,
		Entities:      slices.Clone(g.Entities),
		Components:    g.Components.Clone(),
		Assets:        g.Assets.Clone(),
	}
}
