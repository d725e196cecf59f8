// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"strconv"
)

// SchemaVersion identifies the layout of a Graph.
type SchemaVersion uint32

// Schema versions.
// V0 graphs carry no metadata properties and their mesh
// assets have neither an index format nor a buffer layout.
const (
	V0 SchemaVersion = iota
	V1

	// Current is the version this package produces.
	Current = V1
)

// Known reports whether v is a recognized version.
func (v SchemaVersion) Known() bool { return v <= Current }

// String implements fmt.Stringer.
func (v SchemaVersion) String() string { return "v" + strconv.FormatUint(uint64(v), 10) }

// ParseSchemaVersion parses a version as produced by
// SchemaVersion.String.
// Unknown versions are rejected.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	if len(s) > 1 && s[0] == 'v' {
		if n, err := strconv.ParseUint(s[1:], 10, 32); err == nil {
			if v := SchemaVersion(n); v.Known() && v.String() == s {
				return v, nil
			}
		}
	}
	return 0, &Error{Err: ErrUnsupportedSchemaVersion, Detail: strconv.Quote(s)}
}

// CheckSchemaVersion returns an error if v is not known.
func CheckSchemaVersion(v SchemaVersion) error {
	if !v.Known() {
		return &Error{Err: ErrUnsupportedSchemaVersion, Detail: v.String()}
	}
	return nil
}

// Migrate upgrades g to the Current schema version.
// It fails without modifying g if g's version is unknown.
func Migrate(g *Graph) error {
	if err := CheckSchemaVersion(g.SchemaVersion); err != nil {
		return err
	}
	for g.SchemaVersion < Current {
		switch g.SchemaVersion {
		case V0:
			migrateV0(g)
		}
		g.SchemaVersion++
	}
	return nil
}

// migrateV0 fills the mesh fields that V1 introduced.
func migrateV0(g *Graph) {
	var ids []AssetID
	for id := range g.Assets.Meshes.Keys() {
		ids = append(ids, id)
	}
	for _, id := range ids {
		m, _ := g.Assets.Meshes.Get(id)
		m.IndexFormat = IndexFormatFor(m.VertexCount)
		if m.Layout.Mask == 0 {
			m.Layout = PositionLayout()
		}
		g.Assets.Meshes.Set(id, m)
	}
}
