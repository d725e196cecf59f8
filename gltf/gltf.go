// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gltf imports glTF 2.0 assets into scene graphs.
//
// Only the parts of glTF that a scene description can hold
// are decoded: the node forest is flattened into entities,
// and mesh primitives, materials and images become assets.
// Animations, cameras, skins and morph targets are ignored.
package gltf

import (
	"bufio"
	"encoding/json"
	"io"
)

// Root glTF object.
type GLTF struct {
	Accessors []Accessor `json:"accessors,omitempty"`
	Asset     struct {
		Generator string `json:"generator,omitempty"`
		Version   string `json:"version"`
	} `json:"asset"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Images      []Image      `json:"images,omitempty"`
	Materials   []Material   `json:"materials,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Nodes       []Node       `json:"nodes,omitempty"`
	Scene       *int64       `json:"scene,omitempty"`
	Scenes      []Scene      `json:"scenes,omitempty"`
	Textures    []Texture    `json:"textures,omitempty"`
}

// glTF.accessors' element.
type Accessor struct {
	BufferView    *int64    `json:"bufferView,omitempty"`
	ComponentType int64     `json:"componentType"`
	Count         int64     `json:"count"`
	Type          string    `json:"type"`
	Max           []float32 `json:"max,omitempty"`
	Min           []float32 `json:"min,omitempty"`
	Name          string    `json:"name,omitempty"`
}

// accessor.*.componentType values.
const (
	BYTE           = 5120
	UNSIGNED_BYTE  = 5121
	SHORT          = 5122
	UNSIGNED_SHORT = 5123
	UNSIGNED_INT   = 5125
	FLOAT          = 5126
)

// accessor.type values.
const (
	SCALAR = "SCALAR"
	VEC2   = "VEC2"
	VEC3   = "VEC3"
	VEC4   = "VEC4"
	MAT2   = "MAT2"
	MAT3   = "MAT3"
	MAT4   = "MAT4"
)

// glTF.buffers' element.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int64  `json:"byteLength"`
	Name       string `json:"name,omitempty"`
}

// glTF.bufferViews' element.
type BufferView struct {
	Buffer     int64 `json:"buffer"`
	ByteOffset int64 `json:"byteOffset,omitempty"` // Default is 0.
	ByteLength int64 `json:"byteLength"`
}

// glTF.images' element.
type Image struct {
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int64 `json:"bufferView,omitempty"`
	Name       string `json:"name,omitempty"`
}

// glTF.materials' element.
type Material struct {
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	AlphaMode            string                `json:"alphaMode,omitempty"` // Default is "OPAQUE".
	Name                 string                `json:"name,omitempty"`
}

// material.pbrMetallicRoughness.
type PBRMetallicRoughness struct {
	BaseColorFactor  *[4]float32  `json:"baseColorFactor,omitempty"` // Default is [1, 1, 1, 1].
	BaseColorTexture *TextureInfo `json:"baseColorTexture,omitempty"`
	MetallicFactor   *float32     `json:"metallicFactor,omitempty"`  // Default is 1.
	RoughnessFactor  *float32     `json:"roughnessFactor,omitempty"` // Default is 1.
}

// material.alphaMode values.
const (
	OPAQUE = "OPAQUE"
	MASK   = "MASK"
	BLEND  = "BLEND"
)

// glTF.meshes' element.
type Mesh struct {
	Primitives []Primitive `json:"primitives"`
	Name       string      `json:"name,omitempty"`
}

// mesh.primitives' element.
type Primitive struct {
	Attributes map[string]int64 `json:"attributes"`
	Indices    *int64           `json:"indices,omitempty"`
	Material   *int64           `json:"material,omitempty"`
	Mode       *int64           `json:"mode,omitempty"` // Default is 4.
}

// mesh.primitive.mode values.
const (
	POINTS = iota
	LINES
	LINE_LOOP
	LINE_STRIP
	TRIANGLES
	TRIANGLE_STRIP
	TRIANGLE_FAN
)

// glTF.nodes' element.
type Node struct {
	Children    []int64      `json:"children,omitempty"`
	Matrix      *[16]float32 `json:"matrix,omitempty"` // Default is identity.
	Mesh        *int64       `json:"mesh,omitempty"`
	Rotation    *[4]float32  `json:"rotation,omitempty"`    // Default is [0, 0, 0, 1].
	Scale       *[3]float32  `json:"scale,omitempty"`       // Default is [1, 1, 1].
	Translation *[3]float32  `json:"translation,omitempty"` // Default is [0, 0, 0].
	Name        string       `json:"name,omitempty"`
}

// glTF.scenes' element.
type Scene struct {
	Nodes []int64 `json:"nodes,omitempty"`
	Name  string  `json:"name,omitempty"`
}

// glTF.textures' element.
type Texture struct {
	Sampler *int64 `json:"sampler,omitempty"`
	Source  *int64 `json:"source,omitempty"`
	Name    string `json:"name,omitempty"`
}

// textureInfo.
type TextureInfo struct {
	Index    int64 `json:"index"`
	TexCoord int64 `json:"texCoord,omitempty"` // Default is TEXCOORD_0.
}

// Decode decodes r into a new GLTF instance.
// r may hold either a glTF JSON document or a GLB blob.
// The result is not checked.
func Decode(r io.Reader) (*GLTF, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(4); err == nil && isMagic(b) {
		n, err := SeekJSON(br)
		if err != nil {
			return nil, err
		}
		r = io.LimitReader(br, int64(n))
	} else {
		r = br
	}
	var gltf GLTF
	if err := json.NewDecoder(r).Decode(&gltf); err != nil {
		return nil, newErr(err.Error())
	}
	return &gltf, nil
}
