// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/binary"
	"io"
)

// GLB header.
type glbHeader [3]uint32

// Indices in glbHeader.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// GLB chunk.
type glbChunk [2]uint32

// Indices in glbChunk.
const (
	chunkLength = 0
	chunkType   = 1
	// Then payload.
)

const (
	// glbHeader[headerMagic].
	magic = 0x46546c67

	// glbChunk[chunkType].
	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942
)

func isMagic(b []byte) bool {
	return len(b) >= 4 && binary.LittleEndian.Uint32(b) == magic
}

// IsGLB returns whether r refers to a binary glTF (version 2).
// It assumes that r was positioned accordingly.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	switch {
	case err != nil, h[headerMagic] != magic, h[headerVersion] != 2:
		return false
	default:
		return true
	}
}

// SeekJSON seeks into r until it finds the beginning
// of the JSON string.
// If successful, it returns the length of the chunk.
// r must refer to an unread GLB blob.
func SeekJSON(r io.Reader) (n int, err error) {
	if !IsGLB(r) {
		err = newErr("not a GLB blob")
		return
	}
	var c glbChunk
	err = binary.Read(r, binary.LittleEndian, c[:])
	switch {
	case err != nil:
	case c[chunkLength] == 0 || c[chunkType] != typeJSON:
		err = newErr("invalid GLB chunk")
	default:
		n = int(c[chunkLength])
	}
	return
}

// WriteGLB writes a GLB blob holding json and, if bin is
// not empty, a binary chunk.
// Chunks are padded to 4-byte alignment.
func WriteGLB(w io.Writer, json, bin []byte) error {
	pad := func(b []byte, c byte) []byte {
		for len(b)%4 != 0 {
			b = append(b, c)
		}
		return b
	}
	json = pad(append([]byte(nil), json...), ' ')
	n := 12 + 8 + len(json)
	if len(bin) > 0 {
		bin = pad(append([]byte(nil), bin...), 0)
		n += 8 + len(bin)
	}
	h := glbHeader{magic, 2, uint32(n)}
	if err := binary.Write(w, binary.LittleEndian, h[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, glbChunk{uint32(len(json)), typeJSON}); err != nil {
		return err
	}
	if _, err := w.Write(json); err != nil {
		return err
	}
	if len(bin) == 0 {
		return nil
	}
	if err := binary.Write(w, binary.LittleEndian, glbChunk{uint32(len(bin)), typeBIN}); err != nil {
		return err
	}
	_, err := w.Write(bin)
	return err
}
