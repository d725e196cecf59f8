// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package codec implements scene serialization.
//
// Scenes are stored as YAML or JSON documents, optionally
// compressed with zstd or LZ4. Decode detects both the
// compression and the format, so the options used to
// encode a scene need not be known when decoding it.
package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/scenegraph/scene"
)

const prefix = "codec: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// Format is a document format.
type Format int

// Formats.
const (
	YAML Format = iota
	JSON
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	default:
		return "[!] invalid Format value"
	}
}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) { return parseEnum[Format]("format", s, 2) }

// Compression is a compression method.
type Compression int

// Compression methods.
const (
	None Compression = iota
	Zstd
	LZ4
)

// String implements fmt.Stringer.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "[!] invalid Compression value"
	}
}

// ParseCompression returns the Compression named s.
func ParseCompression(s string) (Compression, error) {
	return parseEnum[Compression]("compression", s, 3)
}

// Frame magic numbers, as written by the encoders.
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Options controls encoding.
// The zero value encodes uncompressed YAML.
type Options struct {
	Format      Format
	Compression Compression
}

// Encode writes g to w.
// g is encoded as is: it is neither validated nor migrated.
func Encode(w io.Writer, g *scene.Graph, opts Options) (err error) {
	var c io.WriteCloser
	switch opts.Compression {
	case None:
	case Zstd:
		if c, err = zstd.NewWriter(w); err != nil {
			return fmt.Errorf(prefix+"%w", err)
		}
	case LZ4:
		c = lz4.NewWriter(w)
	default:
		return newErr("invalid compression")
	}
	if c != nil {
		w = c
		defer func() {
			if e := c.Close(); err == nil && e != nil {
				err = fmt.Errorf(prefix+"%w", e)
			}
		}()
	}

	d := toDocument(g)
	switch opts.Format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(d); err == nil {
			err = enc.Close()
		}
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(d)
	default:
		return newErr("invalid format")
	}
	if err != nil {
		return fmt.Errorf(prefix+"%w", err)
	}
	return nil
}

// Decode reads a graph from r.
// Graphs of older schema versions are migrated to
// scene.Current. The graph is validated before being
// returned; an integrity violation is reported as a
// *scene.Error.
func Decode(r io.Reader) (*scene.Graph, error) {
	g, _, err := DecodeOptions(r)
	return g, err
}

// DecodeOptions is like Decode but also returns the
// options that would reproduce the encoding of r.
func DecodeOptions(r io.Reader) (*scene.Graph, Options, error) {
	var opts Options
	data, err := decompress(r, &opts)
	if err != nil {
		return nil, opts, err
	}

	var d document
	text := bytes.TrimLeft(data, " \t\r\n")
	if len(text) == 0 {
		return nil, opts, newErr("empty document")
	}
	// A leading '{' is either JSON or a YAML flow mapping.
	if text[0] == '{' {
		opts.Format = JSON
		err = decodeJSON(text, &d)
		var serr *json.SyntaxError
		if errors.As(err, &serr) {
			var y document
			if decodeYAML(text, &y) == nil {
				opts.Format = YAML
				d, err = y, nil
			}
		}
	} else {
		opts.Format = YAML
		err = decodeYAML(text, &d)
	}
	if err != nil {
		return nil, opts, fmt.Errorf(prefix+"%w", err)
	}

	g, err := fromDocument(&d)
	if err != nil {
		return nil, opts, err
	}
	if err = scene.Migrate(g); err != nil {
		return nil, opts, err
	}
	if err = g.Validate(); err != nil {
		return nil, opts, err
	}
	return g, opts, nil
}

func decodeJSON(text []byte, d *document) error {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.DisallowUnknownFields()
	return dec.Decode(d)
}

func decodeYAML(text []byte, d *document) error {
	dec := yaml.NewDecoder(bytes.NewReader(text))
	dec.KnownFields(true)
	return dec.Decode(d)
}

// decompress reads the whole of r, undoing any compression
// identified by its magic number.
func decompress(r io.Reader, opts *Options) ([]byte, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)
	var src io.Reader = br
	switch {
	case bytes.Equal(magic, zstdMagic):
		opts.Compression = Zstd
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf(prefix+"%w", err)
		}
		defer dec.Close()
		src = dec
	case bytes.Equal(magic, lz4Magic):
		opts.Compression = LZ4
		src = lz4.NewReader(br)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf(prefix+"%w", err)
	}
	return data, nil
}
