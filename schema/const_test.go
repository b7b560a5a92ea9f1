package schema

import (
	"testing"

	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/fieldctx"
	"github.com/stretchr/testify/require"
)

func TestConstEmitsLiteralRegardlessOfInput(t *testing.T) {
	c := Const(Uint8(), fieldctx.NewU8(0xAB))

	w := bitstream.NewWriter()
	require.NoError(t, c.Encode(w, fieldctx.New(), fieldctx.NewU8(0)))
	require.Equal(t, []byte{0xAB}, w.Finish())
}

func TestConstDecodeAcceptsMatch(t *testing.T) {
	c := Const(Uint8(), fieldctx.NewU8(0xAB))

	r := bitstream.NewReader([]byte{0xAB})
	_, err := c.Decode(r, fieldctx.New())
	require.NoError(t, err)
}

func TestConstDecodeRejectsMismatch(t *testing.T) {
	c := Const(Uint8(), fieldctx.NewU8(0xAB))

	r := bitstream.NewReader([]byte{0xFF})
	_, err := c.Decode(r, fieldctx.New())
	require.Error(t, err)
}
