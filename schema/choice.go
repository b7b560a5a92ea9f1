package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

// ChoiceVariant binds a name, a Codec, and a runtime predicate (Matches)
// to one inline-choice alternative. Matches is consulted on encode to
// select the variant from the held value alone — there is no wire or
// caller-supplied discriminator, per the untagged-union contract.
type ChoiceVariant struct {
	Name    string
	Matches func(v fieldctx.Value) bool
	Codec   Codec
}

// choiceCodec implements an untagged union: no discriminator precedes
// the payload. Decode tries each variant in declaration order, restoring
// the read position between attempts, and commits to the first variant
// that decodes without error. Encode tries each variant's Matches
// predicate in the same order and commits to the first that accepts the
// held value.
type choiceCodec struct {
	variants []ChoiceVariant
}

// Choice builds an inline (untagged) union codec from variants tried in
// declaration order. Encode takes a record with a "value" field and
// selects the variant whose Matches predicate accepts it — the runtime
// type of the held value, not a caller-supplied tag, drives selection.
// Decode returns a record with "variant" (the matched name) and "value"
// (the decoded payload), so its output can be fed straight back into
// Encode: the same payload matches the same variant's predicate.
func Choice(variants []ChoiceVariant) Codec {
	return choiceCodec{variants: variants}
}

func (c choiceCodec) Encode(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error {
	record, ok := v.AsRecord()
	if !ok {
		return errs.NewInvalidValue("expected record value for choice")
	}

	payload, ok := record["value"]
	if !ok {
		return errs.WrapEncode("value", errs.ErrMissingField)
	}

	for _, variant := range c.variants {
		if variant.Matches == nil || !variant.Matches(payload) {
			continue
		}

		return errs.WrapEncode(variant.Name, variant.Codec.Encode(w, ctx, payload))
	}

	return errs.NewInvalidValue("no choice variant matches the held value")
}

func (c choiceCodec) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	start := r.Position()

	for _, variant := range c.variants {
		if err := r.Seek(start); err != nil {
			return fieldctx.Value{}, err
		}

		payload, err := variant.Codec.Decode(r, ctx)
		if err != nil {
			continue
		}

		return fieldctx.NewRecord(map[string]fieldctx.Value{
			"variant": fieldctx.NewString(variant.Name),
			"value":   payload,
		}), nil
	}

	return fieldctx.Value{}, errs.WrapDecode(start, errs.ErrNoMatchingVariant)
}
