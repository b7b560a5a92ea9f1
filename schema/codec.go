package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/fieldctx"
)

// Codec is the uniform interface every type constructor in this package
// satisfies: Sequence, Bitfield, Array, Union, Choice, Optional,
// BackReference, and the scalar leaf codecs below. A schema is built by
// composing Codecs; there is no separate "type reference" indirection —
// a field's type reference is simply the Codec value itself (or, for
// recursive/named types, a func-backed Codec that closes over it).
type Codec interface {
	// Encode writes v's wire representation to w.
	Encode(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error
	// Decode reads one value's wire representation from r.
	Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error)
}

// funcCodec adapts a pair of plain functions to the Codec interface, used
// for named/recursive type references that must be declared before their
// target Codec value exists.
type funcCodec struct {
	encode func(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error
	decode func(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error)
}

func (f funcCodec) Encode(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error {
	return f.encode(w, ctx, v)
}

func (f funcCodec) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	return f.decode(r, ctx)
}

// Lazy returns a Codec that defers to resolve() on first use, letting a
// recursive or forward-declared named type close over its own Codec
// variable after it is assigned.
func Lazy(resolve func() Codec) Codec {
	return funcCodec{
		encode: func(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error {
			return resolve().Encode(w, ctx, v)
		},
		decode: func(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
			return resolve().Decode(r, ctx)
		},
	}
}
