package schema

import (
	"testing"

	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/fieldctx"
	"github.com/stretchr/testify/require"
)

func TestOptionalPresent(t *testing.T) {
	c := Optional(Uint8())
	in := fieldctx.NewRecord(map[string]fieldctx.Value{
		"present": fieldctx.NewBool(true),
		"value":   fieldctx.NewU8(42),
	})

	w := bitstream.NewWriter()
	require.NoError(t, c.Encode(w, fieldctx.New(), in))
	require.Equal(t, []byte{1, 42}, w.Finish())

	r := bitstream.NewReader(w.Finish())
	out, err := c.Decode(r, fieldctx.New())
	require.NoError(t, err)

	rec, _ := out.AsRecord()
	present, _ := rec["present"].AsUint64()
	require.Equal(t, uint64(1), present)
	val, _ := rec["value"].AsUint64()
	require.Equal(t, uint64(42), val)
}

func TestOptionalAbsent(t *testing.T) {
	c := Optional(Uint8())
	in := fieldctx.NewRecord(map[string]fieldctx.Value{
		"present": fieldctx.NewBool(false),
	})

	w := bitstream.NewWriter()
	require.NoError(t, c.Encode(w, fieldctx.New(), in))
	require.Equal(t, []byte{0}, w.Finish())

	r := bitstream.NewReader(w.Finish())
	out, err := c.Decode(r, fieldctx.New())
	require.NoError(t, err)

	rec, _ := out.AsRecord()
	_, hasValue := rec["value"]
	require.False(t, hasValue)
}
