package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/fieldctx"
)

// paddingCodec zero-fills n bits; it carries no value of its own.
type paddingCodec struct {
	bits int
}

// Padding builds a codec that writes/skips n zero bits. Typically used
// to round a sequence up to a byte or word boundary (align_to).
func Padding(bits int) Codec {
	return paddingCodec{bits: bits}
}

func (c paddingCodec) Encode(w *bitstream.Writer, _ *fieldctx.Context, _ fieldctx.Value) error {
	return w.WritePadding(c.bits)
}

func (c paddingCodec) Decode(r *bitstream.Reader, _ *fieldctx.Context) (fieldctx.Value, error) {
	if err := r.SkipPadding(c.bits); err != nil {
		return fieldctx.Value{}, err
	}

	return fieldctx.Value{}, nil
}
