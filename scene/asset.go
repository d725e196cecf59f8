// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

// Semantic specifies the intended use of a vertex attribute.
type Semantic int

// Semantics.
const (
	Position Semantic = 1 << iota
	Normal
	UV

	MaxSemantic int = iota
)

// I computes log₂(s).
// This value can be used to index into BufferLayout.Offsets.
func (s Semantic) I() (i int) {
	for s > 1 {
		s >>= 1
		i++
	}
	return
}

// Size returns the size in bytes of one s attribute.
// Attributes are stored as float32 components.
func (s Semantic) Size() uint32 {
	switch s {
	case Position, Normal:
		return 12
	case UV:
		return 8
	default:
		panic("invalid Semantic value")
	}
}

// String implements fmt.Stringer.
func (s Semantic) String() string {
	switch s {
	case Position:
		return "Position"
	case Normal:
		return "Normal"
	case UV:
		return "UV"
	default:
		return "[!] invalid Semantic value"
	}
}

// BufferLayout describes interleaved vertex data.
// Mask indicates which semantics are present; Offsets
// of semantics not in Mask are ignored.
type BufferLayout struct {
	Stride  uint32
	Mask    Semantic
	Offsets [MaxSemantic]uint32
}

// PositionLayout returns the layout of tightly packed
// positions with no other attributes.
func PositionLayout() BufferLayout {
	return BufferLayout{Stride: Position.Size(), Mask: Position}
}

// Has reports whether l contains semantic s.
func (l BufferLayout) Has(s Semantic) bool { return l.Mask&s != 0 }

// Offset returns the byte offset of semantic s.
func (l BufferLayout) Offset(s Semantic) (uint32, bool) {
	if !l.Has(s) {
		return 0, false
	}
	return l.Offsets[s.I()], true
}

// With returns a copy of l that includes semantic s
// at the given offset.
func (l BufferLayout) With(s Semantic, offset uint32) BufferLayout {
	l.Mask |= s
	l.Offsets[s.I()] = offset
	return l
}

// Check checks that l is a valid layout.
func (l BufferLayout) Check() error {
	var reason string
	switch {
	case l.Mask&Position == 0:
		reason = "no position semantic"
	case l.Mask&^(Position|Normal|UV) != 0:
		reason = "invalid semantic mask"
	default:
		for i := 0; i < MaxSemantic; i++ {
			s := Semantic(1 << i)
			if !l.Has(s) {
				continue
			}
			if uint64(l.Offsets[i])+uint64(s.Size()) > uint64(l.Stride) {
				reason = s.String() + " attribute exceeds stride"
				break
			}
		}
	}
	if reason != "" {
		return &Error{Err: ErrInvalidLayout, Detail: reason}
	}
	return nil
}

// IndexFormat is the format of index data.
type IndexFormat int

// Index formats.
const (
	Uint16 IndexFormat = iota
	Uint32
)

// String implements fmt.Stringer.
func (f IndexFormat) String() string {
	switch f {
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	default:
		return "[!] invalid IndexFormat value"
	}
}

// IndexFormatFor returns the smallest index format able
// to address vertexCount vertices.
func IndexFormatFor(vertexCount uint32) IndexFormat {
	if vertexCount > 1<<16 {
		return Uint32
	}
	return Uint16
}

// MeshAsset describes mesh data shared by geometry
// components.
type MeshAsset struct {
	VertexCount uint32
	IndexCount  uint32
	Topology    Topology
	IndexFormat IndexFormat
	Layout      BufferLayout
	URI         string
	Bounds      *Aabb
}

// MaterialAsset describes a shared material.
// BaseColorTexture optionally refers to a TextureAsset.
type MaterialAsset struct {
	BaseColor        [4]float32
	Metallic         float32
	Roughness        float32
	BaseColorTexture AssetID
}

// TextureAsset refers to image data.
type TextureAsset struct {
	URI string
}

// Assets is the registry of shared assets.
type Assets struct {
	Meshes    Table[AssetID, MeshAsset]
	Materials Table[AssetID, MaterialAsset]
	Textures  Table[AssetID, TextureAsset]
}

// Len returns the total number of assets.
func (a *Assets) Len() int {
	return a.Meshes.Len() + a.Materials.Len() + a.Textures.Len()
}

// Clone returns a deep copy of a.
func (a *Assets) Clone() Assets {
	d := Assets{
		Materials: a.Materials.Clone(),
		Textures:  a.Textures.Clone(),
	}
	for id, m := range a.Meshes.All() {
		if m.Bounds != nil {
			b := *m.Bounds
			m.Bounds = &b
		}
		d.Meshes.Set(id, m)
	}
	return d
}
