package dict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableLookupMiss(t *testing.T) {
	tbl := New()
	_, ok := tbl.Lookup([]byte("example"))
	require.False(t, ok)
}

func TestTableRecordAndLookup(t *testing.T) {
	tbl := New()
	tbl.Record([]byte("example"), 12)

	off, ok := tbl.Lookup([]byte("example"))
	require.True(t, ok)
	require.Equal(t, 12, off)
}

func TestTableFirstOccurrenceWins(t *testing.T) {
	tbl := New()
	tbl.Record([]byte("example"), 12)
	tbl.Record([]byte("example"), 99)

	off, ok := tbl.Lookup([]byte("example"))
	require.True(t, ok)
	require.Equal(t, 12, off)
}

func TestTableDistinctKeys(t *testing.T) {
	tbl := New()
	tbl.Record([]byte("com"), 17)
	tbl.Record([]byte("example"), 12)

	off, ok := tbl.Lookup([]byte("com"))
	require.True(t, ok)
	require.Equal(t, 17, off)

	require.Equal(t, 2, tbl.Len())
}

func TestTableRecordCopiesInput(t *testing.T) {
	tbl := New()
	data := []byte("mutate-me")
	tbl.Record(data, 5)
	data[0] = 'X'

	off, ok := tbl.Lookup([]byte("mutate-me"))
	require.True(t, ok)
	require.Equal(t, 5, off)
}
