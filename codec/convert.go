// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package codec

import (
	"fmt"
	"strconv"

	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/scene"
)

func toVec3(v linear.Vector3) vec3 { return vec3{v.X, v.Y, v.Z} }

func fromVec3(v vec3) linear.Vector3 { return linear.Vector3{X: v[0], Y: v[1], Z: v[2]} }

func toAabb(b *scene.Aabb) *aabbDoc {
	if b == nil {
		return nil
	}
	return &aabbDoc{toVec3(b.Min), toVec3(b.Max)}
}

func fromAabb(b *aabbDoc) *scene.Aabb {
	if b == nil {
		return nil
	}
	return &scene.Aabb{Min: fromVec3(b.Min), Max: fromVec3(b.Max)}
}

// parseEnum finds the value of an enumeration, in the
// range [0, n), whose name is s.
func parseEnum[T interface {
	~int
	String() string
}](what, s string, n int) (T, error) {
	for i := 0; i < n; i++ {
		if v := T(i); v.String() == s {
			return v, nil
		}
	}
	return 0, newErr("unknown " + what + " " + strconv.Quote(s))
}

func toValue(v scene.Value) valueDoc {
	d := valueDoc{Kind: v.Kind().String()}
	d.Value = scene.Match(v,
		func(s string) any { return s },
		func(n float64) any { return n },
		func(b bool) any { return b },
		func() any { return nil },
	)
	return d
}

func fromValue(d valueDoc) (scene.Value, error) {
	kind, err := scene.ParseValueKind(d.Kind)
	if err != nil {
		return scene.Value{}, newErr("unknown value kind " + strconv.Quote(d.Kind))
	}
	mismatch := func() (scene.Value, error) {
		return scene.Value{}, newErr(fmt.Sprintf("%s value has type %T", kind, d.Value))
	}
	switch kind {
	case scene.StringKind:
		if s, ok := d.Value.(string); ok {
			return scene.StringValue(s), nil
		}
	case scene.NumberKind:
		// YAML decodes integers as int.
		switch n := d.Value.(type) {
		case float64:
			return scene.NumberValue(n), nil
		case int:
			return scene.NumberValue(float64(n)), nil
		case int64:
			return scene.NumberValue(float64(n)), nil
		case uint64:
			return scene.NumberValue(float64(n)), nil
		}
	case scene.BoolKind:
		if b, ok := d.Value.(bool); ok {
			return scene.BoolValue(b), nil
		}
	case scene.NullKind:
		if d.Value == nil {
			return scene.NullValue(), nil
		}
	}
	return mismatch()
}

func toLayout(l scene.BufferLayout) *layoutDoc {
	d := &layoutDoc{Stride: l.Stride, Attributes: []attributeDoc{}}
	for i := 0; i < scene.MaxSemantic; i++ {
		s := scene.Semantic(1 << i)
		if off, ok := l.Offset(s); ok {
			d.Attributes = append(d.Attributes, attributeDoc{s.String(), off})
		}
	}
	return d
}

func fromLayout(d *layoutDoc) (scene.BufferLayout, error) {
	var l scene.BufferLayout
	if d == nil {
		return l, nil
	}
	l.Stride = d.Stride
	for _, a := range d.Attributes {
		var s scene.Semantic
		for i := 0; i < scene.MaxSemantic; i++ {
			if x := scene.Semantic(1 << i); x.String() == a.Semantic {
				s = x
				break
			}
		}
		if s == 0 {
			return l, newErr("unknown semantic " + strconv.Quote(a.Semantic))
		}
		if l.Has(s) {
			return l, newErr("duplicate semantic " + a.Semantic)
		}
		l = l.With(s, a.Offset)
	}
	return l, l.Check()
}

// toDocument converts g into its serialized form.
func toDocument(g *scene.Graph) *document {
	d := &document{
		SchemaVersion: g.SchemaVersion.String(),
		Metadata: metadataDoc{
			Name:      g.Metadata.Name,
			Unit:      g.Metadata.Unit.String(),
			UpAxis:    g.Metadata.UpAxis.String(),
			CreatedAt: g.Metadata.CreatedAt,
			UpdatedAt: g.Metadata.UpdatedAt,
		},
	}

	for _, e := range g.Entities {
		d.Entities = append(d.Entities, entityDoc{
			ID:        uint64(e.ID),
			Name:      e.Name,
			Transform: uint64(e.Components.Transform),
			Geometry:  uint64(e.Components.Geometry),
			Material:  uint64(e.Components.Material),
			Layer:     uint64(e.Components.Layer),
			Metadata:  uint64(e.Components.Metadata),
		})
	}

	c := &g.Components
	for id, x := range c.Transforms.All() {
		d.Components.Transforms = append(d.Components.Transforms, transformDoc{
			ID:       uint64(id),
			Position: toVec3(x.Position),
			Rotation: toVec3(x.Rotation),
			Scale:    toVec3(x.Scale),
		})
	}
	for id, x := range c.Geometries.All() {
		d.Components.Geometries = append(d.Components.Geometries, geometryDoc{
			ID:          uint64(id),
			Mesh:        uint64(x.Mesh),
			Topology:    x.Topology.String(),
			LocalBounds: toAabb(x.LocalBounds),
		})
	}
	for id, x := range c.Materials.All() {
		d.Components.Materials = append(d.Components.Materials, materialDoc{
			ID:        uint64(id),
			BaseColor: x.BaseColor,
			Metallic:  x.Metallic,
			Roughness: x.Roughness,
			Opacity:   x.Opacity,
			Asset:     uint64(x.Asset),
		})
	}
	for id, x := range c.Layers.All() {
		d.Components.Layers = append(d.Components.Layers, layerDoc{
			ID:      uint64(id),
			Name:    x.Name,
			Visible: x.Visible,
			Locked:  x.Locked,
		})
	}
	for id, x := range c.Metadata.All() {
		a := annotationsDoc{ID: uint64(id), Tags: x.Tags}
		if len(x.Properties) > 0 {
			a.Properties = make(map[string]valueDoc, len(x.Properties))
			for k, v := range x.Properties.All() {
				a.Properties[k] = toValue(v)
			}
		}
		d.Components.Metadata = append(d.Components.Metadata, a)
	}

	a := &g.Assets
	for id, x := range a.Meshes.All() {
		m := meshDoc{
			ID:          uint64(id),
			VertexCount: x.VertexCount,
			IndexCount:  x.IndexCount,
			Topology:    x.Topology.String(),
			URI:         x.URI,
			Bounds:      toAabb(x.Bounds),
		}
		if g.SchemaVersion >= scene.V1 {
			m.IndexFormat = x.IndexFormat.String()
			m.Layout = toLayout(x.Layout)
		}
		d.Assets.Meshes = append(d.Assets.Meshes, m)
	}
	for id, x := range a.Materials.All() {
		d.Assets.Materials = append(d.Assets.Materials, materialAssetDoc{
			ID:               uint64(id),
			BaseColor:        x.BaseColor,
			Metallic:         x.Metallic,
			Roughness:        x.Roughness,
			BaseColorTexture: uint64(x.BaseColorTexture),
		})
	}
	for id, x := range a.Textures.All() {
		d.Assets.Textures = append(d.Assets.Textures, textureDoc{ID: uint64(id), URI: x.URI})
	}
	return d
}

// insert adds a row to a table, rejecting repeated ids.
func insert[K ~uint64, V any](t *scene.Table[K, V], id uint64, v V, dup func() *scene.Error) error {
	if t.Has(K(id)) {
		return dup()
	}
	t.Set(K(id), v)
	return nil
}

// fromDocument converts d into a graph.
// The graph is not validated.
func fromDocument(d *document) (*scene.Graph, error) {
	var err error
	g := new(scene.Graph)
	if g.SchemaVersion, err = scene.ParseSchemaVersion(d.SchemaVersion); err != nil {
		return nil, err
	}
	g.Metadata.Name = d.Metadata.Name
	if g.Metadata.Unit, err = parseEnum[scene.Unit]("unit", d.Metadata.Unit, 3); err != nil {
		return nil, err
	}
	if g.Metadata.UpAxis, err = parseEnum[scene.Axis]("axis", d.Metadata.UpAxis, 3); err != nil {
		return nil, err
	}
	g.Metadata.CreatedAt = d.Metadata.CreatedAt
	g.Metadata.UpdatedAt = d.Metadata.UpdatedAt

	for _, e := range d.Entities {
		g.Entities = append(g.Entities, scene.EntityRecord{
			ID:   scene.EntityID(e.ID),
			Name: e.Name,
			Components: scene.ComponentRefs{
				Transform: scene.ComponentID(e.Transform),
				Geometry:  scene.ComponentID(e.Geometry),
				Material:  scene.ComponentID(e.Material),
				Layer:     scene.ComponentID(e.Layer),
				Metadata:  scene.ComponentID(e.Metadata),
			},
		})
	}

	dupComponent := func(kind scene.ComponentKind, id uint64) func() *scene.Error {
		return func() *scene.Error {
			return &scene.Error{Err: scene.ErrDuplicateID, Component: scene.ComponentID(id), Kind: kind}
		}
	}
	dupAsset := func(what string, id uint64) func() *scene.Error {
		return func() *scene.Error {
			return &scene.Error{Err: scene.ErrDuplicateID, Asset: scene.AssetID(id), Detail: what}
		}
	}

	c := &g.Components
	for _, x := range d.Components.Transforms {
		t := scene.Transform{Position: fromVec3(x.Position), Rotation: fromVec3(x.Rotation), Scale: fromVec3(x.Scale)}
		if err := insert(&c.Transforms, x.ID, t, dupComponent(scene.TransformKind, x.ID)); err != nil {
			return nil, err
		}
	}
	for _, x := range d.Components.Geometries {
		top, err := parseEnum[scene.Topology]("topology", x.Topology, 2)
		if err != nil {
			return nil, err
		}
		geo := scene.Geometry{Mesh: scene.AssetID(x.Mesh), Topology: top, LocalBounds: fromAabb(x.LocalBounds)}
		if err := insert(&c.Geometries, x.ID, geo, dupComponent(scene.GeometryKind, x.ID)); err != nil {
			return nil, err
		}
	}
	for _, x := range d.Components.Materials {
		mat := scene.Material{
			BaseColor: x.BaseColor,
			Metallic:  x.Metallic,
			Roughness: x.Roughness,
			Opacity:   x.Opacity,
			Asset:     scene.AssetID(x.Asset),
		}
		if err := insert(&c.Materials, x.ID, mat, dupComponent(scene.MaterialKind, x.ID)); err != nil {
			return nil, err
		}
	}
	for _, x := range d.Components.Layers {
		l := scene.Layer{Name: x.Name, Visible: x.Visible, Locked: x.Locked}
		if err := insert(&c.Layers, x.ID, l, dupComponent(scene.LayerKind, x.ID)); err != nil {
			return nil, err
		}
	}
	for _, x := range d.Components.Metadata {
		m := scene.Metadata{Tags: x.Tags}
		if len(x.Properties) > 0 {
			m.Properties = make(scene.Properties, len(x.Properties))
			for k, v := range x.Properties {
				if m.Properties[k], err = fromValue(v); err != nil {
					return nil, fmt.Errorf("%w (property %q)", err, k)
				}
			}
		}
		if err := insert(&c.Metadata, x.ID, m, dupComponent(scene.MetadataKind, x.ID)); err != nil {
			return nil, err
		}
	}

	a := &g.Assets
	for _, x := range d.Assets.Meshes {
		m := scene.MeshAsset{
			VertexCount: x.VertexCount,
			IndexCount:  x.IndexCount,
			URI:         x.URI,
			Bounds:      fromAabb(x.Bounds),
		}
		if m.Topology, err = parseEnum[scene.Topology]("topology", x.Topology, 2); err != nil {
			return nil, err
		}
		if g.SchemaVersion >= scene.V1 {
			if m.IndexFormat, err = parseEnum[scene.IndexFormat]("index format", x.IndexFormat, 2); err != nil {
				return nil, err
			}
			if x.Layout == nil {
				return nil, newErr("mesh " + strconv.FormatUint(x.ID, 10) + " has no layout")
			}
			if m.Layout, err = fromLayout(x.Layout); err != nil {
				return nil, err
			}
		}
		if err := insert(&a.Meshes, x.ID, m, dupAsset("mesh", x.ID)); err != nil {
			return nil, err
		}
	}
	for _, x := range d.Assets.Materials {
		m := scene.MaterialAsset{
			BaseColor:        x.BaseColor,
			Metallic:         x.Metallic,
			Roughness:        x.Roughness,
			BaseColorTexture: scene.AssetID(x.BaseColorTexture),
		}
		if err := insert(&a.Materials, x.ID, m, dupAsset("material", x.ID)); err != nil {
			return nil, err
		}
	}
	for _, x := range d.Assets.Textures {
		if err := insert(&a.Textures, x.ID, scene.TextureAsset{URI: x.URI}, dupAsset("texture", x.ID)); err != nil {
			return nil, err
		}
	}
	return g, nil
}
