package dnsmsg

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/fieldctx"
	"github.com/arloliu/binschema/schema"
)

// pascalLabelCodec encodes one DNS label as a one-byte length (0-63)
// followed by that many bytes, the element type of a name's label
// sequence.
type pascalLabelCodec struct{}

func (pascalLabelCodec) Encode(w *bitstream.Writer, _ *fieldctx.Context, v fieldctx.Value) error {
	b, _ := v.AsBytes()
	w.WriteUint8(uint8(len(b)))

	return w.WriteBytes(b)
}

func (pascalLabelCodec) Decode(r *bitstream.Reader, _ *fieldctx.Context) (fieldctx.Value, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return fieldctx.Value{}, err
	}

	b, err := r.ReadBytes(int(n))
	if err != nil {
		return fieldctx.Value{}, err
	}

	return fieldctx.NewBytes(b), nil
}

// nameLabelsCodec decodes the null-terminated label sequence that makes
// up the inline form of a name: one or more length-prefixed labels
// followed by a zero-length terminator label. Its encoder writes the
// labels only; terminatedLabels appends the terminator.
var nameLabelsCodec = schema.TerminatedArray("labels", pascalLabelCodec{}, schema.Terminator{
	PeekStop: func(r *bitstream.Reader) (bool, error) {
		v, err := r.PeekUint8()
		if err != nil {
			return false, err
		}

		return v == 0, nil
	},
	Consume: func(r *bitstream.Reader) error {
		_, err := r.ReadUint8()

		return err
	},
})

// Name is a domain name: an inline label sequence, or a 16-bit pointer
// into the message compressing a repeated name (the top two bits of the
// first byte distinguish a pointer from an inline length byte, since
// DNS labels are capped at 63 bytes and can never set both high bits).
var Name = schema.BackReference(terminatedLabels{}, 16, 0xC000, 0xC000, 0x3FFF)

// terminatedLabels encodes a name's labels with nameLabelsCodec followed
// by the zero-length terminator label; decoding is nameLabelsCodec's.
type terminatedLabels struct{}

func (terminatedLabels) Encode(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error {
	if err := nameLabelsCodec.Encode(w, ctx, v); err != nil {
		return err
	}
	w.WriteUint8(0)

	return nil
}

func (terminatedLabels) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	return nameLabelsCodec.Decode(r, ctx)
}

// NameValue builds the Value a Name field expects from a sequence of
// plain-text labels, e.g. NameValue("example", "com").
func NameValue(labels ...string) fieldctx.Value {
	elements := make([]fieldctx.Value, len(labels))
	for i, l := range labels {
		elements[i] = fieldctx.NewBytes([]byte(l))
	}

	return schema.NewArrayValue(elements)
}

// NameLabels extracts a decoded Name's labels as plain-text strings.
func NameLabels(v fieldctx.Value) []string {
	elements, ok := schema.ArrayElements(v)
	if !ok {
		return nil
	}

	labels := make([]string, len(elements))
	for i, el := range elements {
		b, _ := el.AsBytes()
		labels[i] = string(b)
	}

	return labels
}
