// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

// EntityID identifies an entity in a Graph.
type EntityID uint64

// ComponentID identifies a component in a Graph's
// component tables.
type ComponentID uint64

// AssetID identifies an asset in a Graph's asset registry.
type AssetID uint64

// Nil values represent the absence of an identifier.
// They are never valid keys.
const (
	NilEntity    EntityID    = 0
	NilComponent ComponentID = 0
	NilAsset     AssetID     = 0
)

// IDs issues identifiers for a single Graph.
// Identifiers are drawn from one increasing sequence and
// are never issued twice, even after the identified
// element has been removed.
// The zero value issues identifiers starting at 1.
type IDs struct {
	last uint64
}

// NewIDs creates an IDs that will not issue any identifier
// already in use by g.
func NewIDs(g *Graph) *IDs {
	ids := new(IDs)
	for i := range g.Entities {
		ids.see(uint64(g.Entities[i].ID))
	}
	c := &g.Components
	ids.see(uint64(c.Transforms.Max()))
	ids.see(uint64(c.Geometries.Max()))
	ids.see(uint64(c.Materials.Max()))
	ids.see(uint64(c.Layers.Max()))
	ids.see(uint64(c.Metadata.Max()))
	a := &g.Assets
	ids.see(uint64(a.Meshes.Max()))
	ids.see(uint64(a.Materials.Max()))
	ids.see(uint64(a.Textures.Max()))
	return ids
}

func (ids *IDs) see(id uint64) {
	if id > ids.last {
		ids.last = id
	}
}

func (ids *IDs) next() uint64 {
	if ids.last == ^uint64(0) {
		// Should never happen.
		panic("scene: identifier space exhausted")
	}
	ids.last++
	return ids.last
}

// Entity issues a new EntityID.
func (ids *IDs) Entity() EntityID { return EntityID(ids.next()) }

// Component issues a new ComponentID.
func (ids *IDs) Component() ComponentID { return ComponentID(ids.next()) }

// Asset issues a new AssetID.
func (ids *IDs) Asset() AssetID { return AssetID(ids.next()) }

// Last returns the most recently issued (or observed)
// identifier.
func (ids *IDs) Last() uint64 { return ids.last }
