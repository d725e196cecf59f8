// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"errors"
	"fmt"
)

const prefix = "scene: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// Integrity errors.
// An *Error wraps exactly one of these, so they can be
// tested with errors.Is.
var (
	// ErrDanglingReference means that an entity refers to
	// a component that is not in its table.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrUnknownAsset means that a component or asset refers
	// to an asset that is not in the registry.
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrUnsupportedSchemaVersion means that a graph declares
	// a schema version that is not recognized.
	ErrUnsupportedSchemaVersion = errors.New("unsupported schema version")

	// ErrDuplicateID means that an identifier is used by
	// more than one entity, or by more than one component.
	ErrDuplicateID = errors.New("duplicate identifier")

	// ErrInvalidID means that a Nil identifier is used as
	// a key.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrInvalidLayout means that a mesh buffer layout
	// lacks positions, has unknown semantics or places an
	// attribute past its stride.
	ErrInvalidLayout = errors.New("invalid buffer layout")
)

// Error describes an integrity violation found in a Graph.
type Error struct {
	// Err is one of the integrity errors of this package.
	Err error
	// Entity is the entity where the violation was found,
	// or NilEntity.
	Entity EntityID
	// Component is the component where the violation was
	// found, or NilComponent.
	Component ComponentID
	// Kind is the kind of Component, if any.
	Kind ComponentKind
	// Asset is the asset involved, or NilAsset.
	Asset AssetID
	// Detail gives additional context.
	Detail string
}

func (e *Error) Error() string {
	s := prefix + e.Err.Error()
	if e.Entity != NilEntity {
		s += fmt.Sprintf(": entity %d", e.Entity)
	}
	if e.Component != NilComponent {
		s += fmt.Sprintf(": %s component %d", e.Kind, e.Component)
	}
	if e.Asset != NilAsset {
		s += fmt.Sprintf(": asset %d", e.Asset)
	}
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }
