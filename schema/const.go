package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

// constCodec emits a fixed literal value on encode (the caller-supplied
// value is ignored) and verifies the decoded value matches on decode.
type constCodec struct {
	inner   Codec
	literal fieldctx.Value
}

// Const builds a codec for a field whose value is a fixed literal: the
// wire form is declared type's encoding of literal. Encode ignores any
// caller-supplied value and always emits literal. Decode reads a value of
// the declared type and fails with ErrConstMismatch if it differs from
// literal.
func Const(inner Codec, literal fieldctx.Value) Codec {
	return constCodec{inner: inner, literal: literal}
}

func (c constCodec) Encode(w *bitstream.Writer, ctx *fieldctx.Context, _ fieldctx.Value) error {
	return c.inner.Encode(w, ctx, c.literal)
}

func (c constCodec) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	v, err := c.inner.Decode(r, ctx)
	if err != nil {
		return fieldctx.Value{}, err
	}

	if !valuesEqual(v, c.literal) {
		return fieldctx.Value{}, errs.WrapDecode(r.Position(), errs.ErrConstMismatch)
	}

	return v, nil
}

// valuesEqual compares two Values for the scalar kinds const fields are
// declared over.
func valuesEqual(a, b fieldctx.Value) bool {
	if au, ok := a.AsUint64(); ok {
		bu, ok := b.AsUint64()

		return ok && au == bu
	}
	if as, ok := a.AsString(); ok {
		bs, ok := b.AsString()

		return ok && as == bs
	}
	if ab, ok := a.AsBytes(); ok {
		bb, ok := b.AsBytes()
		if !ok || len(ab) != len(bb) {
			return false
		}
		for i := range ab {
			if ab[i] != bb[i] {
				return false
			}
		}

		return true
	}
	if af, ok := a.AsFloat64(); ok {
		bf, ok := b.AsFloat64()

		return ok && af == bf
	}

	return false
}
