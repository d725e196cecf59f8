// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/scenegraph/linear"
)

// sample builds a well-formed graph with two entities:
// a fully populated one and one with only a layer.
func sample() *Graph {
	g := New("sample")
	g.Metadata.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g.Metadata.UpdatedAt = g.Metadata.CreatedAt
	ids := new(IDs)

	tex := ids.Asset()
	g.Assets.Textures.Set(tex, TextureAsset{URI: "textures/brick.png"})
	matAsset := ids.Asset()
	g.Assets.Materials.Set(matAsset, MaterialAsset{BaseColor: [4]float32{1, 1, 1, 1}, Roughness: 0.5, BaseColorTexture: tex})
	mesh := ids.Asset()
	g.Assets.Meshes.Set(mesh, MeshAsset{
		VertexCount: 8,
		IndexCount:  36,
		IndexFormat: Uint16,
		Layout:      PositionLayout(),
		Bounds:      &Aabb{linear.Vector3{X: -1, Y: -1, Z: -1}, linear.Vector3{X: 1, Y: 1, Z: 1}},
	})

	e1 := ids.Entity()
	xf, geo, mat, layer, meta := ids.Component(), ids.Component(), ids.Component(), ids.Component(), ids.Component()
	g.Components.Transforms.Set(xf, Transform{Position: linear.Vector3{X: 10}, Scale: linear.Vector3{X: 1, Y: 1, Z: 1}})
	g.Components.Geometries.Set(geo, Geometry{Mesh: mesh})
	g.Components.Materials.Set(mat, Material{BaseColor: [4]float32{1, 0, 0, 1}, Opacity: 1, Asset: matAsset})
	g.Components.Layers.Set(layer, Layer{Name: "default", Visible: true})
	g.Components.Metadata.Set(meta, Metadata{
		Tags:       []string{"wall", "static"},
		Properties: Properties{"weight": NumberValue(12.5), "label": StringValue("north"), "hidden": BoolValue(false), "extra": NullValue()},
	})
	g.Entities = append(g.Entities, EntityRecord{
		ID:         e1,
		Name:       "wall",
		Components: ComponentRefs{Transform: xf, Geometry: geo, Material: mat, Layer: layer, Metadata: meta},
	})

	e2 := ids.Entity()
	layer2 := ids.Component()
	g.Components.Layers.Set(layer2, Layer{Name: "hidden"})
	g.Entities = append(g.Entities, EntityRecord{ID: e2, Components: ComponentRefs{Layer: layer2}})
	return g
}

func TestSampleIsValid(t *testing.T) {
	g := sample()
	require.NoError(t, g.Validate())
	require.NoError(t, g.ValidateAll())

	rs, err := g.ResolveAll()
	require.NoError(t, err)
	require.Len(t, rs, 2)

	r := rs[0]
	require.NotNil(t, r.Transform)
	require.NotNil(t, r.Geometry)
	require.NotNil(t, r.Mesh)
	require.NotNil(t, r.Material)
	require.NotNil(t, r.Layer)
	require.NotNil(t, r.Metadata)
	assert.Equal(t, uint32(36), r.Mesh.IndexCount)
	assert.Equal(t, "default", r.Layer.Name)

	r = rs[1]
	assert.Nil(t, r.Transform)
	assert.Nil(t, r.Geometry)
	assert.Nil(t, r.Mesh)
	require.NotNil(t, r.Layer)
	assert.False(t, r.Layer.Visible)
}

func TestDanglingReference(t *testing.T) {
	g := sample()
	g.Entities[0].Components.Geometry = 999

	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDanglingReference))
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, g.Entities[0].ID, e.Entity)
	assert.Equal(t, ComponentID(999), e.Component)
	assert.Equal(t, GeometryKind, e.Kind)

	_, err = g.Resolve(&g.Entities[0])
	assert.ErrorIs(t, err, ErrDanglingReference)
	_, err = g.ResolveAll()
	assert.ErrorIs(t, err, ErrDanglingReference)

	// The reference must point into the table of its kind.
	g = sample()
	g.Entities[1].Components.Transform = g.Entities[1].Components.Layer
	assert.ErrorIs(t, g.Validate(), ErrDanglingReference)
}

func TestUnknownAsset(t *testing.T) {
	g := sample()
	geoID := g.Entities[0].Components.Geometry
	geo, _ := g.Components.Geometries.Get(geoID)
	geo.Mesh = 12345
	g.Components.Geometries.Set(geoID, geo)

	err := g.Validate()
	assert.ErrorIs(t, err, ErrUnknownAsset)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, AssetID(12345), e.Asset)

	_, err = g.Mesh(geo)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = g.Resolve(&g.Entities[0])
	assert.ErrorIs(t, err, ErrUnknownAsset)

	// Unreferenced geometry is checked too.
	g = sample()
	g.Components.Geometries.Set(5000, Geometry{Mesh: 4000})
	assert.ErrorIs(t, g.Validate(), ErrUnknownAsset)

	g = sample()
	matAssetID := g.Assets.Materials.Max()
	matAsset, _ := g.Assets.Materials.Get(matAssetID)
	matAsset.BaseColorTexture = 777
	g.Assets.Materials.Set(matAssetID, matAsset)
	assert.ErrorIs(t, g.Validate(), ErrUnknownAsset)

	g = sample()
	matID := g.Entities[0].Components.Material
	mat, _ := g.Components.Materials.Get(matID)
	mat.Asset = 888
	g.Components.Materials.Set(matID, mat)
	assert.ErrorIs(t, g.Validate(), ErrUnknownAsset)
}

func TestDuplicateID(t *testing.T) {
	g := sample()
	g.Entities = append(g.Entities, EntityRecord{ID: g.Entities[0].ID})
	assert.ErrorIs(t, g.Validate(), ErrDuplicateID)

	g = sample()
	layer := g.Entities[1].Components.Layer
	g.Components.Metadata.Set(layer, Metadata{})
	assert.ErrorIs(t, g.Validate(), ErrDuplicateID)
}

func TestInvalidID(t *testing.T) {
	g := sample()
	g.Entities = append(g.Entities, EntityRecord{})
	assert.ErrorIs(t, g.Validate(), ErrInvalidID)

	g = sample()
	g.Components.Transforms.Set(NilComponent, IdentityTransform())
	assert.ErrorIs(t, g.Validate(), ErrInvalidID)

	g = sample()
	g.Assets.Textures.Set(NilAsset, TextureAsset{})
	assert.ErrorIs(t, g.Validate(), ErrInvalidID)
}

func TestUnsupportedSchemaVersion(t *testing.T) {
	g := sample()
	g.SchemaVersion = Current + 1
	err := g.Validate()
	assert.ErrorIs(t, err, ErrUnsupportedSchemaVersion)
	assert.ErrorIs(t, Migrate(g), ErrUnsupportedSchemaVersion)
	assert.Equal(t, Current+1, g.SchemaVersion)
}

func TestValidateAll(t *testing.T) {
	g := sample()
	g.Entities[0].Components.Transform = 900
	g.Entities[1].Components.Metadata = 901
	g.Components.Geometries.Set(902, Geometry{Mesh: 903})

	err := g.ValidateAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingReference)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	n := 0
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var se *Error
		require.ErrorAs(t, e, &se)
		n++
	}
	assert.Equal(t, 3, n)

	// Validate stops at the first violation.
	var se *Error
	require.ErrorAs(t, g.Validate(), &se)
	assert.Equal(t, ComponentID(900), se.Component)
}

func TestErrorMessage(t *testing.T) {
	e := &Error{Err: ErrDanglingReference, Entity: 3, Component: 7, Kind: MaterialKind}
	assert.Equal(t, "scene: dangling reference: entity 3: material component 7", e.Error())
	e = &Error{Err: ErrUnknownAsset, Asset: 9, Detail: "mesh"}
	assert.Equal(t, "scene: unknown asset: asset 9: mesh", e.Error())
}

func TestEntity(t *testing.T) {
	g := sample()
	e, ok := g.Entity(g.Entities[1].ID)
	require.True(t, ok)
	assert.Same(t, &g.Entities[1], e)
	_, ok = g.Entity(NilEntity)
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	g := sample()
	c := g.Clone()
	require.Equal(t, g.Hash(), c.Hash())

	c.Entities[0].Name = "changed"
	// Slices, maps and pointers are shared with the stored
	// values, so these write through to c's tables.
	for _, m := range c.Components.Metadata.All() {
		m.Tags[0] = "changed"
		m.Properties["label"] = StringValue("changed")
	}
	for _, m := range c.Assets.Meshes.All() {
		m.Bounds.Max.X = 100
	}
	c.Components.Layers.Set(5000, Layer{})

	assert.Equal(t, "wall", g.Entities[0].Name)
	for _, m := range g.Components.Metadata.All() {
		assert.Equal(t, "wall", m.Tags[0])
		s, _ := m.Properties["label"].AsString()
		assert.Equal(t, "north", s)
	}
	for _, m := range g.Assets.Meshes.All() {
		assert.Equal(t, float64(1), m.Bounds.Max.X)
	}
	assert.False(t, g.Components.Layers.Has(5000))
	assert.NotEqual(t, g.Hash(), c.Hash())
}

func TestHash(t *testing.T) {
	g := sample()
	h := g.Hash()
	assert.Equal(t, h, g.Hash())

	// Insertion order does not matter.
	c := g.Clone()
	var layers []ComponentID
	for id := range c.Components.Layers.Keys() {
		layers = append(layers, id)
	}
	saved := make([]Layer, len(layers))
	for i, id := range layers {
		saved[i], _ = c.Components.Layers.Get(id)
		c.Components.Layers.Delete(id)
	}
	for i := len(layers) - 1; i >= 0; i-- {
		c.Components.Layers.Set(layers[i], saved[i])
	}
	assert.Equal(t, h, c.Hash())

	// Offsets of absent semantics are ignored.
	id := c.Assets.Meshes.Max()
	m, _ := c.Assets.Meshes.Get(id)
	m.Layout.Offsets[UV.I()] = 7
	c.Assets.Meshes.Set(id, m)
	assert.Equal(t, h, c.Hash())
	m.Layout = m.Layout.With(UV, 4)
	c.Assets.Meshes.Set(id, m)
	assert.NotEqual(t, h, c.Hash())

	c.Metadata.Name = "other"
	assert.NotEqual(t, h, c.Hash())
}

func TestBounds(t *testing.T) {
	g := sample()
	b, ok, err := g.Bounds()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Aabb{linear.Vector3{X: 9, Y: -1, Z: -1}, linear.Vector3{X: 11, Y: 1, Z: 1}}, b)

	_, ok, err = New("empty").Bounds()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIDs(t *testing.T) {
	var ids IDs
	assert.Equal(t, EntityID(1), ids.Entity())
	assert.Equal(t, ComponentID(2), ids.Component())
	assert.Equal(t, AssetID(3), ids.Asset())

	g := sample()
	ids2 := NewIDs(g)
	seen := make(map[uint64]bool)
	for _, e := range g.Entities {
		seen[uint64(e.ID)] = true
	}
	for id := range g.Components.Layers.Keys() {
		seen[uint64(id)] = true
	}
	for id := range g.Assets.Meshes.Keys() {
		seen[uint64(id)] = true
	}
	for i := 0; i < 100; i++ {
		id := uint64(ids2.Component())
		assert.False(t, seen[id], "reissued identifier %d", id)
		seen[id] = true
	}
}

func TestComponentRefs(t *testing.T) {
	var r ComponentRefs
	for k := 0; k < MaxComponentKind; k++ {
		r = r.Set(ComponentKind(k), ComponentID(k+1))
	}
	assert.Equal(t, ComponentRefs{1, 2, 3, 4, 5}, r)
	for k := 0; k < MaxComponentKind; k++ {
		assert.Equal(t, ComponentID(k+1), r.Get(ComponentKind(k)))
	}
	assert.Panics(t, func() { r.Get(ComponentKind(MaxComponentKind)) })
}

func TestTransformMatrix(t *testing.T) {
	x := Transform{
		Position: linear.Vector3{X: 1, Y: 2, Z: 3},
		Rotation: linear.Vector3{X: 0.1, Y: 0.2, Z: 0.3},
		Scale:    linear.Vector3{X: 2, Y: 2, Z: 2},
	}
	assert.Equal(t, linear.Compose(x.Position, x.Rotation, x.Scale), x.Matrix())
	assert.Equal(t, linear.Identity(), IdentityTransform().Matrix())
}
