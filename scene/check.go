// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"errors"
	"strconv"
)

// Validate checks that g is well formed.
// It returns the first violation found, as an *Error.
func (g *Graph) Validate() error {
	var err error
	g.check(func(e *Error) bool {
		err = e
		return false
	})
	return err
}

// ValidateAll checks that g is well formed.
// It returns every violation found, joined with errors.Join.
func (g *Graph) ValidateAll() error {
	var errs []error
	g.check(func(e *Error) bool {
		errs = append(errs, e)
		return true
	})
	return errors.Join(errs...)
}

// check reports each violation to report until it
// returns false.
func (g *Graph) check(report func(*Error) bool) {
	if !g.SchemaVersion.Known() {
		// Nothing else can be interpreted.
		report(&Error{Err: ErrUnsupportedSchemaVersion, Detail: g.SchemaVersion.String()})
		return
	}

	entities := make(map[EntityID]struct{}, len(g.Entities))
	for i := range g.Entities {
		id := g.Entities[i].ID
		if id == NilEntity {
			if !report(&Error{Err: ErrInvalidID, Detail: "entity"}) {
				return
			}
			continue
		}
		if _, dup := entities[id]; dup {
			if !report(&Error{Err: ErrDuplicateID, Entity: id}) {
				return
			}
			continue
		}
		entities[id] = struct{}{}
	}

	if !g.checkComponentIDs(report) || !g.checkAssetIDs(report) {
		return
	}

	for i := range g.Entities {
		e := &g.Entities[i]
		for k := 0; k < MaxComponentKind; k++ {
			kind := ComponentKind(k)
			id := e.Components.Get(kind)
			if id == NilComponent || g.Components.Has(kind, id) {
				continue
			}
			if !report(&Error{Err: ErrDanglingReference, Entity: e.ID, Component: id, Kind: kind}) {
				return
			}
		}
	}

	for id, geo := range g.Components.Geometries.All() {
		if !g.Assets.Meshes.Has(geo.Mesh) {
			if !report(&Error{Err: ErrUnknownAsset, Component: id, Kind: GeometryKind, Asset: geo.Mesh, Detail: "mesh"}) {
				return
			}
		}
	}
	for id, mat := range g.Components.Materials.All() {
		if mat.Asset != NilAsset && !g.Assets.Materials.Has(mat.Asset) {
			if !report(&Error{Err: ErrUnknownAsset, Component: id, Kind: MaterialKind, Asset: mat.Asset, Detail: "material"}) {
				return
			}
		}
	}
	for id, mat := range g.Assets.Materials.All() {
		if tex := mat.BaseColorTexture; tex != NilAsset && !g.Assets.Textures.Has(tex) {
			if !report(&Error{Err: ErrUnknownAsset, Asset: tex, Detail: "texture of material asset " + strconv.FormatUint(uint64(id), 10)}) {
				return
			}
		}
	}
}

// checkComponentIDs checks that no component table uses
// NilComponent and that no identifier appears in more
// than one table.
func (g *Graph) checkComponentIDs(report func(*Error) bool) bool {
	c := &g.Components
	seen := make(map[ComponentID]ComponentKind, c.Len())
	visit := func(kind ComponentKind, id ComponentID) bool {
		if id == NilComponent {
			return report(&Error{Err: ErrInvalidID, Kind: kind, Detail: kind.String() + " table"})
		}
		if prev, dup := seen[id]; dup {
			return report(&Error{Err: ErrDuplicateID, Component: id, Kind: kind, Detail: "also in " + prev.String() + " table"})
		}
		seen[id] = kind
		return true
	}
	for id := range c.Transforms.Keys() {
		if !visit(TransformKind, id) {
			return false
		}
	}
	for id := range c.Geometries.Keys() {
		if !visit(GeometryKind, id) {
			return false
		}
	}
	for id := range c.Materials.Keys() {
		if !visit(MaterialKind, id) {
			return false
		}
	}
	for id := range c.Layers.Keys() {
		if !visit(LayerKind, id) {
			return false
		}
	}
	for id := range c.Metadata.Keys() {
		if !visit(MetadataKind, id) {
			return false
		}
	}
	return true
}

// checkAssetIDs checks that no asset table uses NilAsset.
func (g *Graph) checkAssetIDs(report func(*Error) bool) bool {
	a := &g.Assets
	for _, x := range [...]struct {
		has  bool
		name string
	}{
		{a.Meshes.Has(NilAsset), "mesh"},
		{a.Materials.Has(NilAsset), "material"},
		{a.Textures.Has(NilAsset), "texture"},
	} {
		if x.has && !report(&Error{Err: ErrInvalidID, Detail: x.name + " asset table"}) {
			return false
		}
	}
	return true
}
