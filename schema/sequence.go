package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

// FieldSpec names one field of a Sequence and the Codec that reads or
// writes it.
type FieldSpec struct {
	Name  string
	Codec Codec
}

// valueResolver is implemented by field codecs whose wire value is not
// supplied by the caller's input record — Computed and Const — so
// Sequence can obtain the value to encode (and to publish into the
// parent-field stack for later sibling fields) without the caller
// populating it.
type valueResolver interface {
	resolveEncodeValue(ctx *fieldctx.Context) (fieldctx.Value, error)
}

func (c computedCodec) resolveEncodeValue(ctx *fieldctx.Context) (fieldctx.Value, error) {
	return c.expr.Eval(ctx, ctx.CurrentFrame())
}

func (c constCodec) resolveEncodeValue(ctx *fieldctx.Context) (fieldctx.Value, error) {
	return c.literal, nil
}

// sequenceCodec implements the ordered-struct constructor: fields encode
// left-to-right, each one seeing the already-encoded values of its
// predecessors via the parent-field stack.
//
// Fields write directly into the caller's Writer rather than a private
// scratch buffer, so a nested sequence's positions are already absolute
// in the shared stream — no base-offset adjustment is needed at this
// level. Constructs that splice a separately-measured sub-buffer (a
// byte-length-prefixed array, a back-reference's speculative encode) are
// responsible for adjusting base offset themselves.
type sequenceCodec struct {
	fields []FieldSpec
}

// Sequence builds a codec for an ordered struct of fields. The value
// passed to Encode is a record containing every non-computed,
// non-const field's input value (computed/const fields are derived
// internally and may be omitted); Decode always returns a record
// containing every field, including computed/const ones.
func Sequence(fields []FieldSpec) Codec {
	return sequenceCodec{fields: fields}
}

func (c sequenceCodec) Encode(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error {
	input, ok := v.AsRecord()
	if !ok {
		return errs.NewInvalidValue("expected record value for sequence")
	}

	// Seed built with every input field up front, not just the ones
	// encoded so far: a computed field (e.g. a DNS record count) is
	// declared before the array it counts but must still see that
	// array's input value when its expression evaluates. Decode has no
	// such forward dependency — fields are only ever computed from what
	// is already on the wire — so Decode below builds its map strictly
	// incrementally.
	built := make(map[string]fieldctx.Value, len(c.fields))
	for name, val := range input {
		built[name] = val
	}
	fieldCtx := ctx.ExtendWithParent(built)

	for _, f := range c.fields {
		var fv fieldctx.Value
		if resolver, ok := f.Codec.(valueResolver); ok {
			var err error
			fv, err = resolver.resolveEncodeValue(fieldCtx)
			if err != nil {
				return errs.WrapEncode(f.Name, err)
			}
		} else {
			fv, ok = input[f.Name]
			if !ok {
				return errs.WrapEncode(f.Name, errs.ErrMissingField)
			}
		}

		if err := f.Codec.Encode(w, fieldCtx, fv); err != nil {
			return errs.WrapEncode(f.Name, err)
		}

		built[f.Name] = fv
	}

	return nil
}

func (c sequenceCodec) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	built := make(map[string]fieldctx.Value, len(c.fields))
	fieldCtx := ctx.ExtendWithParent(built)

	for _, f := range c.fields {
		fv, err := f.Codec.Decode(r, fieldCtx)
		if err != nil {
			return fieldctx.Value{}, errs.WrapDecode(r.Position(), err)
		}

		built[f.Name] = fv
	}

	return fieldctx.NewRecord(built), nil
}
