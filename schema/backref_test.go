package schema

import (
	"testing"

	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/fieldctx"
	"github.com/stretchr/testify/require"
)

func dnsNameLabelsCodec() Codec {
	term := Terminator{
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
	}

	return TerminatedArray("labels", pascalLabelCodec{}, term)
}

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

func dnsNameValue(labels ...string) fieldctx.Value {
	elements := make([]fieldctx.Value, len(labels))
	for i, l := range labels {
		elements[i] = fieldctx.NewBytes([]byte(l))
	}

	return NewArrayValue(elements)
}

func TestBackReferenceEncodesInlineFirstThenPointer(t *testing.T) {
	name := BackReference(dnsNameLabelsCodec(), 16, 0xC000, 0xC000, 0x3FFF)
	ctx := fieldctx.New()

	w := bitstream.NewWriter()
	// Two identical names back-to-back: the first is inline, the second
	// compresses to a pointer at the first's offset.
	require.NoError(t, name.Encode(w, ctx, dnsNameValue("example", "com")))
	firstLen := w.ByteOffset()
	require.NoError(t, name.Encode(w, ctx, dnsNameValue("example", "com")))

	data := w.Finish()
	pointer := data[firstLen:]
	require.Len(t, pointer, 2)
	require.Equal(t, byte(0xC0), pointer[0]&0xC0)
}

func TestBackReferenceDecodeFollowsPointer(t *testing.T) {
	name := BackReference(dnsNameLabelsCodec(), 16, 0xC000, 0xC000, 0x3FFF)
	ctx := fieldctx.New()

	w := bitstream.NewWriter()
	require.NoError(t, name.Encode(w, ctx, dnsNameValue("example", "com")))
	require.NoError(t, name.Encode(w, ctx, dnsNameValue("example", "com")))
	data := w.Finish()

	r := bitstream.NewReader(data)
	first, err := name.Decode(r, fieldctx.New())
	require.NoError(t, err)
	require.NoError(t, r.Seek(len(data)-2))

	second, err := name.Decode(r, fieldctx.New())
	require.NoError(t, err)

	firstLabels, _ := ArrayElements(first)
	secondLabels, _ := ArrayElements(second)
	require.Equal(t, len(firstLabels), len(secondLabels))
	for i := range firstLabels {
		a, _ := firstLabels[i].AsBytes()
		b, _ := secondLabels[i].AsBytes()
		require.Equal(t, a, b)
	}
}

func TestBackReferenceRejectsSelfPointingOffset(t *testing.T) {
	name := BackReference(dnsNameLabelsCodec(), 16, 0xC000, 0xC000, 0x3FFF)

	// A pointer whose offset equals its own position: malformed.
	r := bitstream.NewReader([]byte{0xC0, 0x00})
	_, err := name.Decode(r, fieldctx.New())
	require.Error(t, err)
}
