// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gviegas/scenegraph/codec"
	"github.com/gviegas/scenegraph/gltf"
	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/mesh"
	"github.com/gviegas/scenegraph/scene"
	"github.com/gviegas/scenegraph/scene/edit"
)

func schemaVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema-version",
		Short: "Print the schema version of written scenes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), scene.Current)
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add a b",
		Short: "Print the sum of two numbers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var x [2]float64
			for i, s := range args {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return fmt.Errorf("invalid number %q", s)
				}
				x[i] = f
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(x[0]+x[1], 'g', -1, 64))
			return nil
		},
	}
}

// options returns the configured codec options with
// command line overrides applied.
func (a *app) options(cmd *cobra.Command) (codec.Options, error) {
	cfg := a.cfg
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		cfg.Format = f.Value.String()
	}
	if f := cmd.Flags().Lookup("compression"); f != nil && f.Changed {
		cfg.Compression = f.Value.String()
	}
	return cfg.Options()
}

func addCodecFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "Output format (yaml, json)")
	cmd.Flags().String("compression", "", "Output compression (none, zstd, lz4)")
}

// open opens the named file for reading, or stdin for "-".
func open(cmd *cobra.Command, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(name)
}

// write encodes g to the named file, or to stdout for "-"
// or an empty name.
func (a *app) write(cmd *cobra.Command, name string, g *scene.Graph) error {
	opts, err := a.options(cmd)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := codec.Encode(&buf, g, opts); err != nil {
		return err
	}
	a.log.Debug("scene encoded",
		zap.String("format", opts.Format.String()),
		zap.String("compression", opts.Compression.String()),
		zap.Int("bytes", buf.Len()))
	if name == "" || name == "-" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	return os.WriteFile(name, buf.Bytes(), 0o644)
}

func (a *app) read(cmd *cobra.Command, name string) (*scene.Graph, codec.Options, error) {
	r, err := open(cmd, name)
	if err != nil {
		return nil, codec.Options{}, err
	}
	defer r.Close()
	g, opts, err := codec.DecodeOptions(r)
	if err != nil {
		a.log.Info("scene rejected", zap.String("file", name), zap.Error(err))
		return nil, opts, err
	}
	a.log.Debug("scene decoded",
		zap.String("file", name),
		zap.String("format", opts.Format.String()),
		zap.String("compression", opts.Compression.String()),
		zap.Int("entities", len(g.Entities)))
	return g, opts, nil
}

// cubeAsset describes m as a mesh asset.
func cubeAsset(m *mesh.Mesh) scene.MeshAsset {
	a := scene.MeshAsset{
		VertexCount: uint32(m.VertexCount()),
		IndexCount:  uint32(len(m.Indices)),
		Topology:    scene.Triangles,
		IndexFormat: scene.IndexFormatFor(uint32(m.VertexCount())),
		Layout:      scene.PositionLayout(),
	}
	if lo, hi, ok := m.Bounds(); ok {
		a.Bounds = &scene.Aabb{Min: lo, Max: hi}
	}
	return a
}

func (a *app) cubeCmd() *cobra.Command {
	var (
		out  string
		name string
		size float32
		pos  []float64
	)
	cmd := &cobra.Command{
		Use:   "cube",
		Short: "Write a scene holding a single cube",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(pos) != 3 {
				return fmt.Errorf("position needs 3 components, got %d", len(pos))
			}
			g := scene.New(name)
			e := edit.New(g, a.log)
			m, err := e.AddMesh(cubeAsset(mesh.Cube(size)))
			if err != nil {
				return err
			}
			ent := e.CreateEntity("cube")
			xf := scene.IdentityTransform()
			xf.Position = linear.Vector3{X: pos[0], Y: pos[1], Z: pos[2]}
			if _, err := e.SetTransform(ent, xf); err != nil {
				return err
			}
			if _, err := e.SetGeometry(ent, scene.Geometry{Mesh: m}); err != nil {
				return err
			}
			if _, err := e.SetMaterial(ent, scene.Material{BaseColor: [4]float32{1, 1, 1, 1}, Roughness: 1, Opacity: 1}); err != nil {
				return err
			}
			if _, err := e.SetLayer(ent, scene.Layer{Name: "default", Visible: true}); err != nil {
				return err
			}
			if err := g.Validate(); err != nil {
				return err
			}
			return a.write(cmd, out, g)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "Output file")
	cmd.Flags().StringVar(&name, "name", "cube", "Scene name")
	cmd.Flags().Float32Var(&size, "size", 2, "Edge length")
	cmd.Flags().Float64SliceVar(&pos, "position", []float64{0, 0, 0}, "Cube position (x,y,z)")
	addCodecFlags(cmd)
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate file...",
		Short: "Check that scene files are well formed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			errs := make([]error, len(args))
			var eg errgroup.Group
			eg.SetLimit(runtime.GOMAXPROCS(0))
			for i, name := range args {
				eg.Go(func() error {
					_, _, errs[i] = a.read(cmd, name)
					return nil
				})
			}
			_ = eg.Wait()

			w := cmd.OutOrStdout()
			var failed int
			for i, name := range args {
				if errs[i] != nil {
					failed++
					fmt.Fprintf(w, "%s: %v\n", name, errs[i])
				} else {
					fmt.Fprintf(w, "%s: ok\n", name)
				}
			}
			if failed > 0 {
				if len(args) == 1 {
					return errs[0]
				}
				return fmt.Errorf("%d of %d files are invalid", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash file",
		Short: "Print the content hash of a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := a.read(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%016x\n", g.Hash())
			return nil
		},
	}
}

func (a *app) convertCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "convert file",
		Short: "Rewrite a scene file, upgrading it to the current schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := a.read(cmd, args[0])
			if err != nil {
				return err
			}
			return a.write(cmd, out, g)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "Output file")
	addCodecFlags(cmd)
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect file",
		Short: "Summarize a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, opts, err := a.read(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			md := &g.Metadata
			fmt.Fprintf(w, "name:        %s\n", md.Name)
			fmt.Fprintf(w, "schema:      %s\n", g.SchemaVersion)
			fmt.Fprintf(w, "encoding:    %s/%s\n", opts.Format, opts.Compression)
			fmt.Fprintf(w, "unit:        %s\n", md.Unit)
			fmt.Fprintf(w, "up axis:     %s\n", md.UpAxis)
			fmt.Fprintf(w, "entities:    %d\n", len(g.Entities))
			c := &g.Components
			fmt.Fprintf(w, "components:  %d (transform %d, geometry %d, material %d, layer %d, metadata %d)\n",
				c.Len(), c.Transforms.Len(), c.Geometries.Len(), c.Materials.Len(), c.Layers.Len(), c.Metadata.Len())
			as := &g.Assets
			fmt.Fprintf(w, "assets:      %d (mesh %d, material %d, texture %d)\n",
				as.Len(), as.Meshes.Len(), as.Materials.Len(), as.Textures.Len())
			b, ok, err := g.Bounds()
			switch {
			case err != nil:
				return err
			case ok:
				fmt.Fprintf(w, "bounds:      %v %v\n", b.Min.Array(), b.Max.Array())
			}
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	var out, name string
	cmd := &cobra.Command{
		Use:   "import file",
		Short: "Convert a glTF or GLB file into a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := open(cmd, args[0])
			if err != nil {
				return err
			}
			defer r.Close()
			f, err := gltf.Decode(r)
			if err != nil {
				return err
			}
			g, err := gltf.Import(f, name, a.log)
			if err != nil {
				return err
			}
			a.log.Info("glTF imported",
				zap.String("file", args[0]),
				zap.Int("entities", len(g.Entities)),
				zap.Int("assets", g.Assets.Len()))
			return a.write(cmd, out, g)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "Output file")
	cmd.Flags().StringVar(&name, "name", "", "Scene name (default is the glTF scene name)")
	addCodecFlags(cmd)
	return cmd
}
