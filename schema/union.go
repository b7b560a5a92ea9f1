package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

// UnionVariant binds one discriminator value to the Codec that encodes
// and decodes that variant's payload.
type UnionVariant struct {
	Tag   uint64
	Name  string
	Codec Codec
}

// unionCodec implements a discriminated (tagged) union: a discriminator
// value precedes the payload, and selects which variant's Codec reads or
// writes the remainder.
type unionCodec struct {
	tag      Codec
	variants []UnionVariant
}

// Union builds a discriminated union codec. tag encodes/decodes the
// discriminator field itself (typically a fixed-width uint); variants
// binds each discriminator value to the Codec for its payload. The value
// passed to Encode/Decode is a record with a "tag" field (the
// discriminator) and a "value" field (the selected variant's payload).
func Union(tag Codec, variants []UnionVariant) Codec {
	return unionCodec{tag: tag, variants: variants}
}

func (c unionCodec) variantByTag(tag uint64) (UnionVariant, bool) {
	for _, v := range c.variants {
		if v.Tag == tag {
			return v, true
		}
	}

	return UnionVariant{}, false
}

func (c unionCodec) Encode(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error {
	record, ok := v.AsRecord()
	if !ok {
		return errs.NewInvalidValue("expected record value for union")
	}

	tagVal, ok := record["tag"]
	if !ok {
		return errs.WrapEncode("tag", errs.ErrMissingField)
	}
	tag, ok := tagVal.AsUint64()
	if !ok {
		return errs.NewInvalidValue("expected integer union tag")
	}

	variant, ok := c.variantByTag(tag)
	if !ok {
		return &errs.InvalidVariantError{Discriminator: tag}
	}

	if err := c.tag.Encode(w, ctx, tagVal); err != nil {
		return errs.WrapEncode("tag", err)
	}

	payload, ok := record["value"]
	if !ok {
		return errs.WrapEncode("value", errs.ErrMissingField)
	}

	return errs.WrapEncode(variant.Name, variant.Codec.Encode(w, ctx, payload))
}

func (c unionCodec) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	tagVal, err := c.tag.Decode(r, ctx)
	if err != nil {
		return fieldctx.Value{}, err
	}
	tag, ok := tagVal.AsUint64()
	if !ok {
		return fieldctx.Value{}, errs.NewInvalidValue("expected integer union tag")
	}

	variant, ok := c.variantByTag(tag)
	if !ok {
		return fieldctx.Value{}, &errs.InvalidVariantError{Discriminator: tag}
	}

	payload, err := variant.Codec.Decode(r, ctx)
	if err != nil {
		return fieldctx.Value{}, errs.WrapDecode(r.Position(), err)
	}

	return fieldctx.NewRecord(map[string]fieldctx.Value{
		"tag":   tagVal,
		"value": payload,
	}), nil
}
