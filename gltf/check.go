// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"
	"strconv"
)

func newErr(reason string) error {
	return errors.New("gltf: " + reason)
}

func validIndex[T any](i int64, s []T) bool { return i >= 0 && i < int64(len(s)) }

// Check checks that the parts of f used by Import are
// valid glTF.
func (f *GLTF) Check() error {
	if f.Asset.Version != "2.0" {
		return newErr("unsupported version " + strconv.Quote(f.Asset.Version))
	}
	if s := f.Scene; s != nil && !validIndex(*s, f.Scenes) {
		return newErr("invalid GLTF.Scene index")
	}
	for i := range f.Accessors {
		if err := f.Accessors[i].Check(f); err != nil {
			return err
		}
	}
	for _, v := range f.BufferViews {
		if !validIndex(v.Buffer, f.Buffers) {
			return newErr("invalid BufferView.Buffer index")
		}
		if v.ByteOffset < 0 || v.ByteLength < 1 {
			return newErr("invalid BufferView range")
		}
	}
	for _, t := range f.Textures {
		if t.Source != nil && !validIndex(*t.Source, f.Images) {
			return newErr("invalid Texture.Source index")
		}
	}
	for _, m := range f.Materials {
		switch m.AlphaMode {
		case "", OPAQUE, MASK, BLEND:
		default:
			return newErr("invalid Material.AlphaMode value " + strconv.Quote(m.AlphaMode))
		}
		if p := m.PBRMetallicRoughness; p != nil && p.BaseColorTexture != nil {
			if !validIndex(p.BaseColorTexture.Index, f.Textures) {
				return newErr("invalid TextureInfo.Index index")
			}
		}
	}
	for i := range f.Meshes {
		if err := f.Meshes[i].Check(f); err != nil {
			return err
		}
	}
	for _, n := range f.Nodes {
		if n.Mesh != nil && !validIndex(*n.Mesh, f.Meshes) {
			return newErr("invalid Node.Mesh index")
		}
		for _, c := range n.Children {
			if !validIndex(c, f.Nodes) {
				return newErr("invalid Node.Children index")
			}
		}
		if n.Matrix != nil && (n.Rotation != nil || n.Scale != nil || n.Translation != nil) {
			return newErr("Node.Matrix and Node.TRS are mutually exclusive")
		}
	}
	for _, s := range f.Scenes {
		for _, n := range s.Nodes {
			if !validIndex(n, f.Nodes) {
				return newErr("invalid Scene.Nodes index")
			}
		}
	}
	return nil
}

// Check checks that a is valid glTF.accessors' element.
func (a *Accessor) Check(gltf *GLTF) error {
	if a.BufferView != nil && !validIndex(*a.BufferView, gltf.BufferViews) {
		return newErr("invalid Accessor.BufferView index")
	}
	switch a.ComponentType {
	case BYTE, UNSIGNED_BYTE, SHORT, UNSIGNED_SHORT, UNSIGNED_INT, FLOAT:
	default:
		return newErr("invalid Accessor.ComponentType value")
	}
	if a.Count < 1 {
		return newErr("invalid Accessor.Count value")
	}
	switch a.Type {
	case SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4:
	default:
		return newErr("invalid Accessor.Type value")
	}
	if len(a.Max) != len(a.Min) {
		return newErr("invalid Accessor.Max/Min length")
	}
	return nil
}

// Check checks that m is valid glTF.meshes' element.
func (m *Mesh) Check(gltf *GLTF) error {
	if len(m.Primitives) == 0 {
		return newErr("Mesh.Primitives is empty")
	}
	for _, p := range m.Primitives {
		pos, ok := p.Attributes["POSITION"]
		if !ok {
			return newErr("Primitive.Attributes has no POSITION")
		}
		for _, a := range p.Attributes {
			if !validIndex(a, gltf.Accessors) {
				return newErr("invalid Primitive.Attributes index")
			}
		}
		if a := gltf.Accessors[pos]; a.Type != VEC3 || a.ComponentType != FLOAT || len(a.Min) != 3 {
			return newErr("invalid POSITION accessor")
		}
		if p.Indices != nil {
			if !validIndex(*p.Indices, gltf.Accessors) {
				return newErr("invalid Primitive.Indices index")
			}
			switch a := gltf.Accessors[*p.Indices]; {
			case a.Type != SCALAR:
				return newErr("invalid Primitive.Indices type")
			case a.ComponentType != UNSIGNED_BYTE && a.ComponentType != UNSIGNED_SHORT && a.ComponentType != UNSIGNED_INT:
				return newErr("invalid Primitive.Indices component type")
			}
		}
		if p.Material != nil && !validIndex(*p.Material, gltf.Materials) {
			return newErr("invalid Primitive.Material index")
		}
		if p.Mode != nil && (*p.Mode < POINTS || *p.Mode > TRIANGLE_FAN) {
			return newErr("invalid Primitive.Mode value")
		}
	}
	return nil
}
