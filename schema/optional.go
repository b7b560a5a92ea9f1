package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

// optionalCodec precedes a value with a one-byte presence flag: a
// nonzero byte means the value follows; zero means it is absent.
type optionalCodec struct {
	inner Codec
}

// Optional builds a codec for a field that may be absent, signaled by a
// one-byte presence flag ahead of the value. Encode/Decode pass a record
// with a "present" bool field and, when present, a "value" field.
func Optional(inner Codec) Codec {
	return optionalCodec{inner: inner}
}

func (c optionalCodec) Encode(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error {
	record, ok := v.AsRecord()
	if !ok {
		return errs.NewInvalidValue("expected record value for optional")
	}

	presentVal, ok := record["present"]
	if !ok {
		return errs.WrapEncode("present", errs.ErrMissingField)
	}
	present, _ := presentVal.AsUint64()

	if present == 0 {
		w.WriteUint8(0)

		return nil
	}

	w.WriteUint8(1)

	payload, ok := record["value"]
	if !ok {
		return errs.WrapEncode("value", errs.ErrMissingField)
	}

	return errs.WrapEncode("value", c.inner.Encode(w, ctx, payload))
}

func (c optionalCodec) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	flag, err := r.ReadUint8()
	if err != nil {
		return fieldctx.Value{}, err
	}

	if flag == 0 {
		return fieldctx.NewRecord(map[string]fieldctx.Value{
			"present": fieldctx.NewBool(false),
		}), nil
	}

	payload, err := c.inner.Decode(r, ctx)
	if err != nil {
		return fieldctx.Value{}, errs.WrapDecode(r.Position(), err)
	}

	return fieldctx.NewRecord(map[string]fieldctx.Value{
		"present": fieldctx.NewBool(true),
		"value":   payload,
	}), nil
}
