// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/scene"
	"github.com/gviegas/scenegraph/scene/edit"
)

// Import converts f into a new scene graph.
//
// Every node of the selected scene that has a mesh yields
// one entity per mesh primitive, with the node's world
// transform decomposed into position, XYZ Euler rotation and
// scale (shear is lost). Nodes without meshes yield no
// entities. Each entity carries metadata tagged "gltf" that
// records its source node.
//
// f is checked before conversion. log may be nil.
func Import(f *GLTF, name string, log *zap.Logger) (*scene.Graph, error) {
	if err := f.Check(); err != nil {
		return nil, err
	}
	roots, sceneName, all := f.roots()
	if name == "" {
		name = sceneName
	}
	g := scene.New(name)
	im := importer{f: f, e: edit.New(g, log), visited: make([]bool, len(f.Nodes))}
	if err := im.assets(); err != nil {
		return nil, err
	}
	for _, n := range roots {
		if err := im.node(n, linear.Identity()); err != nil {
			return nil, err
		}
	}
	if all {
		for i, v := range im.visited {
			if !v {
				return nil, newErr("node " + strconv.Itoa(i) + " is not in a tree")
			}
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// roots returns the root nodes of the scene to import.
// It is the default scene, or else the first one, or else
// every node that is nobody's child. In the latter case,
// all is true and every node must be reachable from roots.
func (f *GLTF) roots() (roots []int64, name string, all bool) {
	switch {
	case f.Scene != nil:
		s := &f.Scenes[*f.Scene]
		return s.Nodes, s.Name, false
	case len(f.Scenes) > 0:
		return f.Scenes[0].Nodes, f.Scenes[0].Name, false
	}
	child := make([]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	for i, c := range child {
		if !c {
			roots = append(roots, int64(i))
		}
	}
	return roots, "", true
}

// Imported mesh primitive.
type primitive struct {
	mesh     scene.AssetID
	topology scene.Topology
	material *int64
}

type importer struct {
	f         *GLTF
	e         *edit.Editor
	textures  []scene.AssetID
	materials []scene.AssetID
	meshes    [][]primitive
	visited   []bool
}

func (im *importer) assets() error {
	f := im.f
	im.textures = make([]scene.AssetID, len(f.Textures))
	for i, t := range f.Textures {
		if t.Source == nil {
			continue
		}
		im.textures[i] = im.e.AddTexture(scene.TextureAsset{URI: f.Images[*t.Source].URI})
	}

	im.materials = make([]scene.AssetID, len(f.Materials))
	for i, m := range f.Materials {
		id, err := im.e.AddMaterialAsset(materialAsset(&m, im.textures))
		if err != nil {
			return err
		}
		im.materials[i] = id
	}

	im.meshes = make([][]primitive, len(f.Meshes))
	for i := range f.Meshes {
		for _, p := range f.Meshes[i].Primitives {
			a, top, err := im.meshAsset(&p)
			if err != nil {
				return err
			}
			id, err := im.e.AddMesh(a)
			if err != nil {
				return err
			}
			im.meshes[i] = append(im.meshes[i], primitive{id, top, p.Material})
		}
	}
	return nil
}

func materialAsset(m *Material, textures []scene.AssetID) scene.MaterialAsset {
	a := scene.MaterialAsset{BaseColor: [4]float32{1, 1, 1, 1}, Metallic: 1, Roughness: 1}
	p := m.PBRMetallicRoughness
	if p == nil {
		return a
	}
	if p.BaseColorFactor != nil {
		a.BaseColor = *p.BaseColorFactor
	}
	if p.MetallicFactor != nil {
		a.Metallic = *p.MetallicFactor
	}
	if p.RoughnessFactor != nil {
		a.Roughness = *p.RoughnessFactor
	}
	if t := p.BaseColorTexture; t != nil {
		a.BaseColorTexture = textures[t.Index]
	}
	return a
}

// opacity returns the opacity of m given its base color
// alpha. Only BLEND materials are translucent; MASK cuts
// fragments out rather than blending them.
func opacity(m *Material, alpha float32) float32 {
	if m.AlphaMode == BLEND {
		return alpha
	}
	return 1
}

// meshAsset describes p as a mesh asset whose attributes
// are interleaved in the order POSITION, NORMAL, TEXCOORD_0.
func (im *importer) meshAsset(p *Primitive) (scene.MeshAsset, scene.Topology, error) {
	f := im.f
	var top scene.Topology
	mode := int64(TRIANGLES)
	if p.Mode != nil {
		mode = *p.Mode
	}
	switch mode {
	case TRIANGLES:
		top = scene.Triangles
	case LINES:
		top = scene.Lines
	default:
		return scene.MeshAsset{}, 0, newErr("unsupported Primitive.Mode value " + strconv.FormatInt(mode, 10))
	}

	pos := &f.Accessors[p.Attributes["POSITION"]]
	a := scene.MeshAsset{
		VertexCount: uint32(pos.Count),
		IndexCount:  uint32(pos.Count),
		Topology:    top,
		IndexFormat: scene.IndexFormatFor(uint32(pos.Count)),
		Bounds: &scene.Aabb{
			Min: linear.Vector3{X: float64(pos.Min[0]), Y: float64(pos.Min[1]), Z: float64(pos.Min[2])},
			Max: linear.Vector3{X: float64(pos.Max[0]), Y: float64(pos.Max[1]), Z: float64(pos.Max[2])},
		},
	}
	if pos.BufferView != nil {
		a.URI = f.Buffers[f.BufferViews[*pos.BufferView].Buffer].URI
	}
	if p.Indices != nil {
		idx := &f.Accessors[*p.Indices]
		a.IndexCount = uint32(idx.Count)
		if idx.ComponentType == UNSIGNED_INT {
			a.IndexFormat = scene.Uint32
		} else {
			a.IndexFormat = scene.Uint16
		}
	}

	a.Layout = scene.PositionLayout()
	for _, x := range [...]struct {
		attr string
		sem  scene.Semantic
		typ  string
	}{
		{"NORMAL", scene.Normal, VEC3},
		{"TEXCOORD_0", scene.UV, VEC2},
	} {
		i, ok := p.Attributes[x.attr]
		if !ok {
			continue
		}
		if acc := &f.Accessors[i]; acc.Type != x.typ || acc.ComponentType != FLOAT {
			return a, top, newErr("unsupported " + x.attr + " accessor")
		}
		a.Layout = a.Layout.With(x.sem, a.Layout.Stride)
		a.Layout.Stride += x.sem.Size()
	}
	return a, top, nil
}

// local returns the local transform of n.
func (n *Node) local() linear.Matrix4 {
	if m := n.Matrix; m != nil {
		var l linear.Matrix4
		for i, x := range m {
			l[i] = float64(x)
		}
		return l
	}
	t := linear.Identity()
	if v := n.Translation; v != nil {
		t = linear.Translation(linear.Vector3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
	}
	if q := n.Rotation; q != nil {
		r := linear.Quaternion{V: linear.Vector3{X: float64(q[0]), Y: float64(q[1]), Z: float64(q[2])}, R: float64(q[3])}
		t = linear.Mul(t, r.Matrix())
	}
	if s := n.Scale; s != nil {
		t = linear.Mul(t, linear.Scaling(linear.Vector3{X: float64(s[0]), Y: float64(s[1]), Z: float64(s[2])}))
	}
	return t
}

func (im *importer) node(i int64, parent linear.Matrix4) error {
	if im.visited[i] {
		return newErr("node " + strconv.FormatInt(i, 10) + " is not in a tree")
	}
	im.visited[i] = true
	n := &im.f.Nodes[i]
	world := linear.Mul(parent, n.local())

	if n.Mesh != nil {
		prims := im.meshes[*n.Mesh]
		pos, rot, scl := linear.Decompose(world)
		for j, p := range prims {
			name := n.Name
			if len(prims) > 1 {
				name += "." + strconv.Itoa(j)
			}
			if err := im.entity(name, i, *n.Mesh, p, scene.Transform{Position: pos, Rotation: rot, Scale: scl}); err != nil {
				return err
			}
		}
	}
	for _, c := range n.Children {
		if err := im.node(c, world); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) entity(name string, node, mesh int64, p primitive, t scene.Transform) error {
	e := im.e
	ent := e.CreateEntity(name)
	if _, err := e.SetTransform(ent, t); err != nil {
		return err
	}
	if _, err := e.SetGeometry(ent, scene.Geometry{Mesh: p.mesh, Topology: p.topology}); err != nil {
		return err
	}
	if p.material != nil {
		asset := im.materials[*p.material]
		ma, _ := e.Graph().Assets.Materials.Get(asset)
		mat := scene.Material{
			BaseColor: ma.BaseColor,
			Metallic:  ma.Metallic,
			Roughness: ma.Roughness,
			Opacity:   opacity(&im.f.Materials[*p.material], ma.BaseColor[3]),
			Asset:     asset,
		}
		if _, err := e.SetMaterial(ent, mat); err != nil {
			return err
		}
	}
	md := scene.Metadata{
		Tags:       []string{"gltf"},
		Properties: scene.Properties{"node": scene.NumberValue(float64(node))},
	}
	if s := im.f.Meshes[mesh].Name; s != "" {
		md.Properties["mesh"] = scene.StringValue(s)
	}
	_, err := e.SetMetadata(ent, md)
	return err
}
