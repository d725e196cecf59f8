// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package codec

import (
	"time"
)

// Serialized scene.
// Tables are stored as lists in ascending id order and
// enumerations are stored by name.
type document struct {
	SchemaVersion string        `json:"schemaVersion" yaml:"schemaVersion"`
	Metadata      metadataDoc   `json:"metadata" yaml:"metadata"`
	Entities      []entityDoc   `json:"entities,omitempty" yaml:"entities,omitempty"`
	Components    componentsDoc `json:"components" yaml:"components"`
	Assets        assetsDoc     `json:"assets" yaml:"assets"`
}

// document.metadata.
type metadataDoc struct {
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Unit      string    `json:"unit" yaml:"unit"`
	UpAxis    string    `json:"upAxis" yaml:"upAxis"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// document.entities' element.
// Zero ids are empty slots.
type entityDoc struct {
	ID        uint64 `json:"id" yaml:"id"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Transform uint64 `json:"transform,omitempty" yaml:"transform,omitempty"`
	Geometry  uint64 `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Material  uint64 `json:"material,omitempty" yaml:"material,omitempty"`
	Layer     uint64 `json:"layer,omitempty" yaml:"layer,omitempty"`
	Metadata  uint64 `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// document.components.
type componentsDoc struct {
	Transforms []transformDoc   `json:"transforms,omitempty" yaml:"transforms,omitempty"`
	Geometries []geometryDoc    `json:"geometries,omitempty" yaml:"geometries,omitempty"`
	Materials  []materialDoc    `json:"materials,omitempty" yaml:"materials,omitempty"`
	Layers     []layerDoc       `json:"layers,omitempty" yaml:"layers,omitempty"`
	Metadata   []annotationsDoc `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type vec3 [3]float64

type aabbDoc struct {
	Min vec3 `json:"min" yaml:"min,flow"`
	Max vec3 `json:"max" yaml:"max,flow"`
}

type transformDoc struct {
	ID       uint64 `json:"id" yaml:"id"`
	Position vec3   `json:"position" yaml:"position,flow"`
	Rotation vec3   `json:"rotation" yaml:"rotation,flow"`
	Scale    vec3   `json:"scale" yaml:"scale,flow"`
}

type geometryDoc struct {
	ID          uint64   `json:"id" yaml:"id"`
	Mesh        uint64   `json:"mesh" yaml:"mesh"`
	Topology    string   `json:"topology" yaml:"topology"`
	LocalBounds *aabbDoc `json:"localBounds,omitempty" yaml:"localBounds,omitempty"`
}

type materialDoc struct {
	ID        uint64     `json:"id" yaml:"id"`
	BaseColor [4]float32 `json:"baseColor" yaml:"baseColor,flow"`
	Metallic  float32    `json:"metallic" yaml:"metallic"`
	Roughness float32    `json:"roughness" yaml:"roughness"`
	Opacity   float32    `json:"opacity" yaml:"opacity"`
	Asset     uint64     `json:"asset,omitempty" yaml:"asset,omitempty"`
}

type layerDoc struct {
	ID      uint64 `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Visible bool   `json:"visible" yaml:"visible"`
	Locked  bool   `json:"locked" yaml:"locked"`
}

type annotationsDoc struct {
	ID         uint64              `json:"id" yaml:"id"`
	Tags       []string            `json:"tags,omitempty" yaml:"tags,omitempty,flow"`
	Properties map[string]valueDoc `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Tagged metadata value.
// Value is null for the null kind.
type valueDoc struct {
	Kind  string `json:"kind" yaml:"kind"`
	Value any    `json:"value" yaml:"value"`
}

// document.assets.
type assetsDoc struct {
	Meshes    []meshDoc          `json:"meshes,omitempty" yaml:"meshes,omitempty"`
	Materials []materialAssetDoc `json:"materials,omitempty" yaml:"materials,omitempty"`
	Textures  []textureDoc       `json:"textures,omitempty" yaml:"textures,omitempty"`
}

// V0 documents have neither indexFormat nor layout.
type meshDoc struct {
	ID          uint64     `json:"id" yaml:"id"`
	VertexCount uint32     `json:"vertexCount" yaml:"vertexCount"`
	IndexCount  uint32     `json:"indexCount" yaml:"indexCount"`
	Topology    string     `json:"topology" yaml:"topology"`
	IndexFormat string     `json:"indexFormat,omitempty" yaml:"indexFormat,omitempty"`
	Layout      *layoutDoc `json:"layout,omitempty" yaml:"layout,omitempty"`
	URI         string     `json:"uri,omitempty" yaml:"uri,omitempty"`
	Bounds      *aabbDoc   `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

type layoutDoc struct {
	Stride     uint32         `json:"stride" yaml:"stride"`
	Attributes []attributeDoc `json:"attributes" yaml:"attributes"`
}

type attributeDoc struct {
	Semantic string `json:"semantic" yaml:"semantic"`
	Offset   uint32 `json:"offset" yaml:"offset"`
}

type materialAssetDoc struct {
	ID               uint64     `json:"id" yaml:"id"`
	BaseColor        [4]float32 `json:"baseColor" yaml:"baseColor,flow"`
	Metallic         float32    `json:"metallic" yaml:"metallic"`
	Roughness        float32    `json:"roughness" yaml:"roughness"`
	BaseColorTexture uint64     `json:"baseColorTexture,omitempty" yaml:"baseColorTexture,omitempty"`
}

type textureDoc struct {
	ID  uint64 `json:"id" yaml:"id"`
	URI string `json:"uri" yaml:"uri"`
}
