package schema

import (
	"testing"

	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/fieldctx"
	"github.com/stretchr/testify/require"
)

func TestPaddingAlignsToByte(t *testing.T) {
	w := bitstream.NewWriter()
	require.NoError(t, w.WriteBits(1, 3))
	require.NoError(t, Padding(5).Encode(w, fieldctx.New(), fieldctx.Value{}))
	require.True(t, w.Aligned())
	require.Equal(t, []byte{0x20}, w.Finish())
}

func TestPaddingSkipsOnDecode(t *testing.T) {
	r := bitstream.NewReader([]byte{0xFF, 0x00})
	require.NoError(t, r.SkipPadding(0))
	_, err := Padding(8).Decode(r, fieldctx.New())
	require.NoError(t, err)
	require.Equal(t, 1, r.Position())
}
