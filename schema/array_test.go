package schema

import (
	"testing"

	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/endian"
	"github.com/arloliu/binschema/fieldctx"
	"github.com/stretchr/testify/require"
)

func TestFixedArrayRoundtrip(t *testing.T) {
	c := FixedArray("items", Uint8(), 3)
	in := NewArrayValue([]fieldctx.Value{fieldctx.NewU8(1), fieldctx.NewU8(2), fieldctx.NewU8(3)})

	w := bitstream.NewWriter()
	require.NoError(t, c.Encode(w, fieldctx.New(), in))
	require.Equal(t, []byte{1, 2, 3}, w.Finish())

	r := bitstream.NewReader(w.Finish())
	out, err := c.Decode(r, fieldctx.New())
	require.NoError(t, err)

	elements, ok := ArrayElements(out)
	require.True(t, ok)
	require.Len(t, elements, 3)
	v2, _ := elements[1].AsUint64()
	require.Equal(t, uint64(2), v2)
}

func TestLengthPrefixedArrayEmpty(t *testing.T) {
	c := LengthPrefixedArray("items", Uint8(), Uint16(endian.BigEndian))
	in := NewArrayValue(nil)

	w := bitstream.NewWriter()
	require.NoError(t, c.Encode(w, fieldctx.New(), in))
	require.Equal(t, []byte{0, 0}, w.Finish())
}

func TestLengthPrefixedArrayRoundtrip(t *testing.T) {
	c := LengthPrefixedArray("items", Uint16(endian.BigEndian), Uint8())
	in := NewArrayValue([]fieldctx.Value{fieldctx.NewU16(10), fieldctx.NewU16(20)})

	w := bitstream.NewWriter()
	require.NoError(t, c.Encode(w, fieldctx.New(), in))

	r := bitstream.NewReader(w.Finish())
	out, err := c.Decode(r, fieldctx.New())
	require.NoError(t, err)

	elements, ok := ArrayElements(out)
	require.True(t, ok)
	require.Len(t, elements, 2)
}

func TestByteLengthPrefixedArrayRoundtrip(t *testing.T) {
	c := ByteLengthPrefixedArray("items", Uint32(endian.BigEndian), Uint16(endian.BigEndian))
	in := NewArrayValue([]fieldctx.Value{fieldctx.NewU32(1), fieldctx.NewU32(2)})

	w := bitstream.NewWriter()
	require.NoError(t, c.Encode(w, fieldctx.New(), in))
	data := w.Finish()
	require.Equal(t, []byte{0, 8}, data[:2]) // 2 uint32s = 8 bytes

	r := bitstream.NewReader(data)
	out, err := c.Decode(r, fieldctx.New())
	require.NoError(t, err)

	elements, ok := ArrayElements(out)
	require.True(t, ok)
	require.Len(t, elements, 2)
}

func TestFieldReferencedArrayRoundtrip(t *testing.T) {
	c := FieldReferencedArray("items", Uint8(), "count")

	ctx := fieldctx.New().ExtendWithParent(map[string]fieldctx.Value{"count": fieldctx.NewU8(2)})

	r := bitstream.NewReader([]byte{5, 6})
	out, err := c.Decode(r, ctx)
	require.NoError(t, err)

	elements, ok := ArrayElements(out)
	require.True(t, ok)
	require.Len(t, elements, 2)
}

func TestComputedCountArrayRoundtrip(t *testing.T) {
	c := ComputedCountArray("items", Uint8(), ConstExpr(fieldctx.NewU64(2)))

	r := bitstream.NewReader([]byte{9, 10})
	out, err := c.Decode(r, fieldctx.New())
	require.NoError(t, err)

	elements, ok := ArrayElements(out)
	require.True(t, ok)
	require.Len(t, elements, 2)
}

func TestTerminatedArrayNullTerminated(t *testing.T) {
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
	c := TerminatedArray("items", Uint8(), term)

	r := bitstream.NewReader([]byte{1, 2, 3, 0})
	out, err := c.Decode(r, fieldctx.New())
	require.NoError(t, err)

	elements, ok := ArrayElements(out)
	require.True(t, ok)
	require.Len(t, elements, 3)
	require.Equal(t, r.Position(), 4)
}
