// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package edit mutates scene graphs without breaking
// their integrity.
//
// Every Editor method either applies completely or leaves
// the graph as it was. Components are linked in the same
// step that inserts them and unlinked before they are
// removed, so a graph that was valid before an edit remains
// valid after it.
package edit

import (
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/gviegas/scenegraph/scene"
)

// Edit errors.
// They are reported wrapped in a *scene.Error.
var (
	// ErrNoEntity means that the entity does not exist.
	ErrNoEntity = errors.New("no such entity")

	// ErrNoComponent means that the component does not
	// exist in the table of the given kind.
	ErrNoComponent = errors.New("no such component")

	// ErrAssetInUse means that an asset cannot be removed
	// because a component or another asset refers to it.
	ErrAssetInUse = errors.New("asset in use")

	// ErrEmptyBounds means that a mesh declares bounds
	// whose minimum exceeds their maximum.
	ErrEmptyBounds = errors.New("empty bounds")
)

// Editor edits a single scene.Graph.
// It is not safe for concurrent use.
type Editor struct {
	g   *scene.Graph
	ids *scene.IDs
	log *zap.Logger
	now func() time.Time
}

// New creates an Editor for g.
// Identifiers already in use by g are never issued.
// A nil log discards all messages.
func New(g *scene.Graph, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{
		g:   g,
		ids: scene.NewIDs(g),
		log: log,
		now: time.Now,
	}
}

// Graph returns the graph being edited.
func (e *Editor) Graph() *scene.Graph { return e.g }

func (e *Editor) touch() {
	t := e.now().UTC()
	if e.g.Metadata.CreatedAt.IsZero() {
		e.g.Metadata.CreatedAt = t
	}
	e.g.Metadata.UpdatedAt = t
}

func (e *Editor) entity(id scene.EntityID) (*scene.EntityRecord, error) {
	if r, ok := e.g.Entity(id); ok {
		return r, nil
	}
	return nil, &scene.Error{Err: ErrNoEntity, Entity: id}
}

// AddMesh registers a mesh asset.
// The layout must be valid and the bounds, if any, must
// not be empty.
func (e *Editor) AddMesh(m scene.MeshAsset) (scene.AssetID, error) {
	if err := m.Layout.Check(); err != nil {
		return scene.NilAsset, err
	}
	if m.Bounds != nil {
		if m.Bounds.Empty() {
			return scene.NilAsset, &scene.Error{Err: ErrEmptyBounds, Detail: "mesh"}
		}
		b := *m.Bounds
		m.Bounds = &b
	}
	id := e.ids.Asset()
	e.g.Assets.Meshes.Set(id, m)
	e.touch()
	e.log.Debug("mesh added", zap.Uint64("asset", uint64(id)), zap.Uint32("vertices", m.VertexCount), zap.String("uri", m.URI))
	return id, nil
}

// AddMaterialAsset registers a material asset.
// Its base color texture, if any, must be registered.
func (e *Editor) AddMaterialAsset(m scene.MaterialAsset) (scene.AssetID, error) {
	if tex := m.BaseColorTexture; tex != scene.NilAsset && !e.g.Assets.Textures.Has(tex) {
		return scene.NilAsset, &scene.Error{Err: scene.ErrUnknownAsset, Asset: tex, Detail: "texture"}
	}
	id := e.ids.Asset()
	e.g.Assets.Materials.Set(id, m)
	e.touch()
	e.log.Debug("material asset added", zap.Uint64("asset", uint64(id)))
	return id, nil
}

// AddTexture registers a texture asset.
func (e *Editor) AddTexture(t scene.TextureAsset) scene.AssetID {
	id := e.ids.Asset()
	e.g.Assets.Textures.Set(id, t)
	e.touch()
	e.log.Debug("texture added", zap.Uint64("asset", uint64(id)), zap.String("uri", t.URI))
	return id
}

// CreateEntity creates an entity with no components.
// An empty name creates an unnamed entity.
func (e *Editor) CreateEntity(name string) scene.EntityID {
	id := e.ids.Entity()
	e.g.Entities = append(e.g.Entities, scene.EntityRecord{ID: id, Name: name})
	e.touch()
	e.log.Debug("entity created", zap.Uint64("entity", uint64(id)), zap.String("name", name))
	return id
}

// Rename changes the name of an entity.
func (e *Editor) Rename(ent scene.EntityID, name string) error {
	r, err := e.entity(ent)
	if err != nil {
		return err
	}
	r.Name = name
	e.touch()
	return nil
}

// set stores a component of the given kind for ent.
// If the slot is populated, the component is replaced in
// place and keeps its identifier. Otherwise a new
// component is inserted and linked.
func set[T any](e *Editor, ent scene.EntityID, kind scene.ComponentKind, tab *scene.Table[scene.ComponentID, T], x T) (scene.ComponentID, error) {
	r, err := e.entity(ent)
	if err != nil {
		return scene.NilComponent, err
	}
	id := r.Components.Get(kind)
	if id == scene.NilComponent {
		id = e.ids.Component()
		r.Components = r.Components.Set(kind, id)
	}
	tab.Set(id, x)
	e.touch()
	e.log.Debug("component set", zap.Uint64("entity", uint64(ent)), zap.Stringer("kind", kind), zap.Uint64("component", uint64(id)))
	return id, nil
}

// SetTransform sets the transform of ent.
func (e *Editor) SetTransform(ent scene.EntityID, t scene.Transform) (scene.ComponentID, error) {
	return set(e, ent, scene.TransformKind, &e.g.Components.Transforms, t)
}

// SetGeometry sets the geometry of ent.
// The mesh asset must be registered.
func (e *Editor) SetGeometry(ent scene.EntityID, geo scene.Geometry) (scene.ComponentID, error) {
	if !e.g.Assets.Meshes.Has(geo.Mesh) {
		return scene.NilComponent, &scene.Error{Err: scene.ErrUnknownAsset, Entity: ent, Asset: geo.Mesh, Detail: "mesh"}
	}
	if geo.LocalBounds != nil {
		b := *geo.LocalBounds
		geo.LocalBounds = &b
	}
	return set(e, ent, scene.GeometryKind, &e.g.Components.Geometries, geo)
}

// SetMaterial sets the material of ent.
// The material asset, if any, must be registered.
func (e *Editor) SetMaterial(ent scene.EntityID, mat scene.Material) (scene.ComponentID, error) {
	if mat.Asset != scene.NilAsset && !e.g.Assets.Materials.Has(mat.Asset) {
		return scene.NilComponent, &scene.Error{Err: scene.ErrUnknownAsset, Entity: ent, Asset: mat.Asset, Detail: "material"}
	}
	return set(e, ent, scene.MaterialKind, &e.g.Components.Materials, mat)
}

// SetLayer sets the layer of ent.
func (e *Editor) SetLayer(ent scene.EntityID, l scene.Layer) (scene.ComponentID, error) {
	return set(e, ent, scene.LayerKind, &e.g.Components.Layers, l)
}

// SetMetadata sets the metadata of ent.
// m is copied.
func (e *Editor) SetMetadata(ent scene.EntityID, m scene.Metadata) (scene.ComponentID, error) {
	return set(e, ent, scene.MetadataKind, &e.g.Components.Metadata, m.Clone())
}

// Share links ent to an existing component, replacing
// whatever the slot held. Components can be shared by any
// number of entities.
func (e *Editor) Share(ent scene.EntityID, kind scene.ComponentKind, id scene.ComponentID) error {
	r, err := e.entity(ent)
	if err != nil {
		return err
	}
	if id == scene.NilComponent || !e.g.Components.Has(kind, id) {
		return &scene.Error{Err: ErrNoComponent, Entity: ent, Component: id, Kind: kind}
	}
	old := r.Components.Get(kind)
	r.Components = r.Components.Set(kind, id)
	e.release(kind, old)
	e.touch()
	e.log.Debug("component shared", zap.Uint64("entity", uint64(ent)), zap.Stringer("kind", kind), zap.Uint64("component", uint64(id)))
	return nil
}

// Detach unlinks the component of the given kind from ent.
// The component is removed when no other entity links it.
// Detaching an empty slot does nothing.
func (e *Editor) Detach(ent scene.EntityID, kind scene.ComponentKind) error {
	r, err := e.entity(ent)
	if err != nil {
		return err
	}
	id := r.Components.Get(kind)
	if id == scene.NilComponent {
		return nil
	}
	r.Components = r.Components.Set(kind, scene.NilComponent)
	e.release(kind, id)
	e.touch()
	e.log.Debug("component detached", zap.Uint64("entity", uint64(ent)), zap.Stringer("kind", kind), zap.Uint64("component", uint64(id)))
	return nil
}

// release removes a component that has just been unlinked,
// unless some entity still links it.
func (e *Editor) release(kind scene.ComponentKind, id scene.ComponentID) {
	if id == scene.NilComponent || e.linked(kind, id) {
		return
	}
	e.g.Components.Delete(kind, id)
}

func (e *Editor) linked(kind scene.ComponentKind, id scene.ComponentID) bool {
	for i := range e.g.Entities {
		if e.g.Entities[i].Components.Get(kind) == id {
			return true
		}
	}
	return false
}

// RemoveEntity removes ent and every component that only
// it links.
func (e *Editor) RemoveEntity(ent scene.EntityID) error {
	i := slices.IndexFunc(e.g.Entities, func(r scene.EntityRecord) bool { return r.ID == ent })
	if i < 0 {
		return &scene.Error{Err: ErrNoEntity, Entity: ent}
	}
	refs := e.g.Entities[i].Components
	e.g.Entities = slices.Delete(e.g.Entities, i, i+1)
	for k := 0; k < scene.MaxComponentKind; k++ {
		e.release(scene.ComponentKind(k), refs.Get(scene.ComponentKind(k)))
	}
	e.touch()
	e.log.Debug("entity removed", zap.Uint64("entity", uint64(ent)))
	return nil
}

// RemoveMesh removes a mesh asset.
// It fails with ErrAssetInUse while a geometry component
// refers to the mesh.
func (e *Editor) RemoveMesh(id scene.AssetID) error {
	if !e.g.Assets.Meshes.Has(id) {
		return &scene.Error{Err: scene.ErrUnknownAsset, Asset: id, Detail: "mesh"}
	}
	for cid, geo := range e.g.Components.Geometries.All() {
		if geo.Mesh == id {
			return &scene.Error{Err: ErrAssetInUse, Component: cid, Kind: scene.GeometryKind, Asset: id}
		}
	}
	e.g.Assets.Meshes.Delete(id)
	e.touch()
	e.log.Debug("mesh removed", zap.Uint64("asset", uint64(id)))
	return nil
}

// RemoveMaterialAsset removes a material asset.
// It fails with ErrAssetInUse while a material component
// refers to it.
func (e *Editor) RemoveMaterialAsset(id scene.AssetID) error {
	if !e.g.Assets.Materials.Has(id) {
		return &scene.Error{Err: scene.ErrUnknownAsset, Asset: id, Detail: "material"}
	}
	for cid, mat := range e.g.Components.Materials.All() {
		if mat.Asset == id {
			return &scene.Error{Err: ErrAssetInUse, Component: cid, Kind: scene.MaterialKind, Asset: id}
		}
	}
	e.g.Assets.Materials.Delete(id)
	e.touch()
	e.log.Debug("material asset removed", zap.Uint64("asset", uint64(id)))
	return nil
}

// RemoveTexture removes a texture asset.
// It fails with ErrAssetInUse while a material asset
// refers to it.
func (e *Editor) RemoveTexture(id scene.AssetID) error {
	if !e.g.Assets.Textures.Has(id) {
		return &scene.Error{Err: scene.ErrUnknownAsset, Asset: id, Detail: "texture"}
	}
	for _, mat := range e.g.Assets.Materials.All() {
		if mat.BaseColorTexture == id {
			return &scene.Error{Err: ErrAssetInUse, Asset: id, Detail: "texture"}
		}
	}
	e.g.Assets.Textures.Delete(id)
	e.touch()
	e.log.Debug("texture removed", zap.Uint64("asset", uint64(id)))
	return nil
}
