// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/scene"
)

const boxGLTF = `{
  "asset": {"version": "2.0", "generator": "test"},
  "scene": 0,
  "scenes": [{"name": "Main", "nodes": [0]}],
  "nodes": [
    {"name": "root", "translation": [1, 0, 0], "children": [1]},
    {"name": "box", "mesh": 0, "scale": [2, 2, 2]}
  ],
  "meshes": [{"name": "Box", "primitives": [{"attributes": {"POSITION": 0, "NORMAL": 1}, "indices": 2, "material": 0}]}],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 24, "type": "VEC3", "min": [-0.5, -0.5, -0.5], "max": [0.5, 0.5, 0.5]},
    {"bufferView": 0, "componentType": 5126, "count": 24, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5123, "count": 36, "type": "SCALAR"}
  ],
  "bufferViews": [{"buffer": 0, "byteLength": 576}, {"buffer": 0, "byteOffset": 576, "byteLength": 72}],
  "buffers": [{"uri": "box.bin", "byteLength": 648}],
  "materials": [{"name": "red", "pbrMetallicRoughness": {"baseColorFactor": [1, 0, 0, 0.5], "metallicFactor": 0, "baseColorTexture": {"index": 0}}}],
  "textures": [{"source": 0}],
  "images": [{"uri": "red.png"}],
  "animations": [{"channels": [], "samplers": []}]
}`

func near(a, b linear.Vector3) bool {
	const eps = 1e-12
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func checkBox(t *testing.T, g *scene.Graph) {
	t.Helper()
	if g.Metadata.Name != "Main" {
		t.Fatalf("Import: Metadata.Name\nhave %q\nwant Main", g.Metadata.Name)
	}
	if len(g.Entities) != 1 {
		t.Fatalf("Import: len(Entities)\nhave %d\nwant 1", len(g.Entities))
	}
	r, err := g.Resolve(&g.Entities[0])
	if err != nil {
		t.Fatalf("Resolve: unexpected error: %v", err)
	}
	if r.Entity.Name != "box" {
		t.Fatalf("Import: entity name\nhave %q\nwant box", r.Entity.Name)
	}

	xf := r.Transform
	if xf == nil {
		t.Fatal("Import: entity has no transform")
	}
	if !near(xf.Position, linear.Vector3{X: 1}) || !near(xf.Rotation, linear.Vector3{}) || !near(xf.Scale, linear.Vector3{X: 2, Y: 2, Z: 2}) {
		t.Fatalf("Import: transform\nhave %+v\nwant position {1 0 0}, rotation {0 0 0}, scale {2 2 2}", *xf)
	}

	m := r.Mesh
	switch {
	case m.VertexCount != 24, m.IndexCount != 36:
		t.Fatalf("Import: mesh counts\nhave %d/%d\nwant 24/36", m.VertexCount, m.IndexCount)
	case m.IndexFormat != scene.Uint16:
		t.Fatalf("Import: mesh IndexFormat\nhave %v\nwant %v", m.IndexFormat, scene.Uint16)
	case m.URI != "box.bin":
		t.Fatalf("Import: mesh URI\nhave %q\nwant box.bin", m.URI)
	case m.Layout.Stride != 24 || !m.Layout.Has(scene.Normal) || m.Layout.Has(scene.UV):
		t.Fatalf("Import: mesh Layout\nhave %+v\nwant position and normal, stride 24", m.Layout)
	case m.Bounds == nil || m.Bounds.Max != (linear.Vector3{X: 0.5, Y: 0.5, Z: 0.5}):
		t.Fatalf("Import: mesh Bounds\nhave %+v\nwant max {0.5 0.5 0.5}", m.Bounds)
	}
	if off, _ := m.Layout.Offset(scene.Normal); off != 12 {
		t.Fatalf("Import: normal offset\nhave %d\nwant 12", off)
	}

	mat := r.Material
	if mat == nil {
		t.Fatal("Import: entity has no material")
	}
	if mat.BaseColor != [4]float32{1, 0, 0, 0.5} || mat.Metallic != 0 || mat.Roughness != 1 || mat.Opacity != 1 {
		t.Fatalf("Import: material\nhave %+v", *mat)
	}
	ma, _ := g.Assets.Materials.Get(mat.Asset)
	tex, ok := g.Assets.Textures.Get(ma.BaseColorTexture)
	if !ok || tex.URI != "red.png" {
		t.Fatalf("Import: base color texture\nhave %+v, %t\nwant red.png", tex, ok)
	}

	md := r.Metadata
	if md == nil || len(md.Tags) != 1 || md.Tags[0] != "gltf" {
		t.Fatalf("Import: metadata\nhave %+v", md)
	}
	if n, _ := md.Properties["node"].AsNumber(); n != 1 {
		t.Fatalf("Import: node property\nhave %v\nwant 1", n)
	}
	if s, _ := md.Properties["mesh"].AsString(); s != "Box" {
		t.Fatalf("Import: mesh property\nhave %q\nwant Box", s)
	}
}

func TestImport(t *testing.T) {
	f, err := Decode(strings.NewReader(boxGLTF))
	if err != nil {
		t.Fatal(err)
	}
	g, err := Import(f, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	checkBox(t, g)

	g, err = Import(f, "named", nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Metadata.Name != "named" {
		t.Fatalf("Import: Metadata.Name\nhave %q\nwant named", g.Metadata.Name)
	}
}

func TestGLB(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGLB(&buf, []byte(boxGLTF), make([]byte, 648)); err != nil {
		t.Fatal(err)
	}
	if buf.Len()%4 != 0 {
		t.Fatalf("WriteGLB: length\nhave %d\nwant multiple of 4", buf.Len())
	}
	if !IsGLB(bytes.NewReader(buf.Bytes())) {
		t.Fatal("IsGLB(glb):\nwant true\nhave false")
	}
	if IsGLB(strings.NewReader(`{"asset":{"version":"2.0"}}`)) {
		t.Fatal("IsGLB(json):\nwant false\nhave true")
	}
	r := bytes.NewReader(buf.Bytes())
	n, err := SeekJSON(r)
	if err != nil {
		t.Fatal(err)
	}
	if n < len(boxGLTF) || n%4 != 0 {
		t.Fatalf("SeekJSON: length\nhave %d\nwant >= %d, multiple of 4", n, len(boxGLTF))
	}

	f, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	g, err := Import(f, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	checkBox(t, g)
}

func TestImportRejects(t *testing.T) {
	for _, x := range []struct {
		name, old, new string
	}{
		{"version", `"version": "2.0"`, `"version": "1.0"`},
		{"mode", `"indices": 2,`, `"indices": 2, "mode": 5,`},
		{"position", `"POSITION": 0, `, ``},
		{"mesh index", `"mesh": 0`, `"mesh": 3`},
		{"cycle", `"scale": [2, 2, 2]}`, `"scale": [2, 2, 2], "children": [0]}`},
		{"texture", `{"index": 0}`, `{"index": 4}`},
		{"indices type", `"componentType": 5123`, `"componentType": 5126`},
		{"alpha mode", `"name": "red", `, `"name": "red", "alphaMode": "ADD", `},
	} {
		doc := strings.Replace(boxGLTF, x.old, x.new, 1)
		if doc == boxGLTF {
			t.Fatalf("%s: replacement did not apply", x.name)
		}
		f, err := Decode(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("%s: Decode: unexpected error: %v", x.name, err)
		}
		if _, err := Import(f, "", nil); err == nil {
			t.Fatalf("%s: Import:\nhave nil\nwant error", x.name)
		}
	}
}

func TestImportRoots(t *testing.T) {
	// Without scenes, every parentless node is a root.
	doc := strings.Replace(boxGLTF, `"scene": 0,
  "scenes": [{"name": "Main", "nodes": [0]}],`, ``, 1)
	f, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	g, err := Import(f, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Entities) != 1 || g.Metadata.Name != "" {
		t.Fatalf("Import: roots\nhave %d entities, name %q\nwant 1 entity, no name", len(g.Entities), g.Metadata.Name)
	}
}

func TestImportAlphaMode(t *testing.T) {
	for _, x := range []struct {
		mode string
		want float32
	}{
		{"", 1},
		{OPAQUE, 1},
		{MASK, 1},
		{BLEND, 0.5},
	} {
		doc := boxGLTF
		if x.mode != "" {
			doc = strings.Replace(doc, `"name": "red", `, `"name": "red", "alphaMode": "`+x.mode+`", `, 1)
		}
		f, err := Decode(strings.NewReader(doc))
		if err != nil {
			t.Fatal(err)
		}
		g, err := Import(f, "", nil)
		if err != nil {
			t.Fatal(err)
		}
		r, err := g.Resolve(&g.Entities[0])
		if err != nil {
			t.Fatal(err)
		}
		if r.Material.Opacity != x.want {
			t.Fatalf("Import: Opacity (alphaMode %q)\nhave %v\nwant %v", x.mode, r.Material.Opacity, x.want)
		}
		if r.Material.BaseColor[3] != 0.5 {
			t.Fatalf("Import: BaseColor alpha (alphaMode %q)\nhave %v\nwant 0.5", x.mode, r.Material.BaseColor[3])
		}
	}
}

func TestImportOrphanCycle(t *testing.T) {
	// Without scenes, nodes that only reach each other have no root.
	doc := strings.Replace(boxGLTF, `"scene": 0,
  "scenes": [{"name": "Main", "nodes": [0]}],`, ``, 1)
	doc = strings.Replace(doc, `"scale": [2, 2, 2]}`, `"scale": [2, 2, 2], "children": [0]}`, 1)
	f, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if g, err := Import(f, "", nil); err == nil {
		t.Fatalf("Import: cyclic nodes\nhave %d entities, nil error\nwant error", len(g.Entities))
	}
}

func TestDecodeError(t *testing.T) {
	_, err := Decode(strings.NewReader("{"))
	if err == nil {
		t.Fatal("Decode:\nhave nil\nwant error")
	}
	var se *scene.Error
	if errors.As(err, &se) {
		t.Fatal("Decode: unexpected *scene.Error")
	}
}
