package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/fieldctx"
)

// computedCodec derives its value from expr at encode time — the
// caller's input never supplies it — and emits it as inner's declared
// scalar type. Decode simply reads a value of the declared type; the
// runtime trusts the decoded bytes and does not re-evaluate expr to
// verify them (the "decoded-trust" policy).
type computedCodec struct {
	inner Codec
	expr  Expr
}

// Computed builds a codec for a field whose value is derived from expr
// (e.g. length_of a sibling array) rather than supplied by the caller.
// On encode, expr is evaluated with the context's current frame (the
// enclosing sequence's in-progress field record) as self.
func Computed(inner Codec, expr Expr) Codec {
	return computedCodec{inner: inner, expr: expr}
}

func (c computedCodec) Encode(w *bitstream.Writer, ctx *fieldctx.Context, _ fieldctx.Value) error {
	computed, err := c.expr.Eval(ctx, ctx.CurrentFrame())
	if err != nil {
		return err
	}

	return c.inner.Encode(w, ctx, computed)
}

func (c computedCodec) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	return c.inner.Decode(r, ctx)
}
