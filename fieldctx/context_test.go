package fieldctx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextEmpty(t *testing.T) {
	c := New()
	require.False(t, c.HasParents())
	require.Equal(t, 0, c.ParentCount())

	_, ok := c.GetParentField(1, "foo")
	require.False(t, ok)
}

func TestContextSingleParent(t *testing.T) {
	c := New()

	parent := map[string]Value{
		"data": NewBytes([]byte{1, 2, 3, 4}),
		"name": NewString("test"),
	}
	child := c.ExtendWithParent(parent)

	require.True(t, child.HasParents())
	require.Equal(t, 1, child.ParentCount())

	data, ok := child.GetParentField(1, "data")
	require.True(t, ok)
	require.Equal(t, 4, data.Len())
	b, ok := data.AsBytes()
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3, 4}, b)

	name, ok := child.GetParentField(1, "name")
	require.True(t, ok)
	s, ok := name.AsString()
	require.True(t, ok)
	require.Equal(t, "test", s)

	_, ok = child.GetParentField(1, "nonexistent")
	require.False(t, ok)

	_, ok = child.GetParentField(2, "data")
	require.False(t, ok)
}

func TestContextGrandparent(t *testing.T) {
	c := New()

	grandparent := map[string]Value{"payload": NewBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})}
	parentCtx := c.ExtendWithParent(grandparent)

	parent := map[string]Value{"header_value": NewU32(42)}
	child := parentCtx.ExtendWithParent(parent)

	require.Equal(t, 2, child.ParentCount())

	header, ok := child.GetParentField(1, "header_value")
	require.True(t, ok)
	v, ok := header.AsUint64()
	require.True(t, ok)
	require.Equal(t, uint64(42), v)

	payload, ok := child.GetParentField(2, "payload")
	require.True(t, ok)
	require.Equal(t, 4, payload.Len())
}

func TestFindParentFieldSearchesOutermostFirst(t *testing.T) {
	c := New()
	outer := c.ExtendWithParent(map[string]Value{"id": NewU16(1)})
	inner := outer.ExtendWithParent(map[string]Value{"id": NewU16(2)})

	v, ok := inner.FindParentField("id")
	require.True(t, ok)
	got, _ := v.AsUint64()
	require.Equal(t, uint64(1), got, "find_parent_field must return the outermost match")
}

func TestPositionTracking(t *testing.T) {
	c := New()
	c.TrackPosition("answers_A", 10)
	c.TrackPosition("answers_A", 20)
	c.TrackPosition("answers_A", 30)

	first, ok := c.GetFirstPosition("answers_A")
	require.True(t, ok)
	require.Equal(t, 10, first)

	last, ok := c.GetLastPosition("answers_A")
	require.True(t, ok)
	require.Equal(t, 30, last)

	nth, ok := c.GetPosition("answers_A", 1)
	require.True(t, ok)
	require.Equal(t, 20, nth)

	_, ok = c.GetFirstPosition("missing")
	require.False(t, ok)
}

func TestArrayIterationAndCurrentArray(t *testing.T) {
	c := New()
	require.False(t, c.IsCurrentArray("questions"))

	c.SetArrayIteration("questions", 0)
	require.True(t, c.IsCurrentArray("questions"))

	c.SetArrayIteration("answers", 2)
	require.False(t, c.IsCurrentArray("questions"))
	require.True(t, c.IsCurrentArray("answers"))

	idx, ok := c.GetArrayIteration("questions")
	require.True(t, ok)
	require.Equal(t, 0, idx)

	name, idx, ok := c.GetAnyArrayIteration()
	require.True(t, ok)
	require.Equal(t, "answers", name)
	require.Equal(t, 2, idx)
}

func TestTypeIndexIncrement(t *testing.T) {
	c := New()
	require.Equal(t, 0, c.GetTypeIndex("answers_A"))
	require.Equal(t, 1, c.IncrementTypeIndex("answers_A"))
	require.Equal(t, 2, c.IncrementTypeIndex("answers_A"))
	require.Equal(t, 2, c.GetTypeIndex("answers_A"))
}

func TestCompressionDictSharedAcrossExtend(t *testing.T) {
	c := New()
	c.EnsureCompressionDict()
	c.CompressionDict().Record([]byte("example.com"), 12)

	child := c.ExtendWithParent(map[string]Value{"x": NewU8(1)})
	offset, ok := child.CompressionDict().Lookup([]byte("example.com"))
	require.True(t, ok)
	require.Equal(t, 12, offset)
}

func TestExtendWithParentIsolatesPositionAndArrayState(t *testing.T) {
	c := New()
	c.TrackPosition("answers_A", 10)
	c.SetArrayIteration("questions", 0)
	c.IncrementTypeIndex("answers_A")

	sibling := c.ExtendWithParent(map[string]Value{"x": NewU8(1)})
	sibling.TrackPosition("answers_A", 99)
	sibling.SetArrayIteration("answers", 5)
	sibling.IncrementTypeIndex("answers_A")

	last, ok := c.GetLastPosition("answers_A")
	require.True(t, ok)
	require.Equal(t, 10, last, "parent's position list must not see the child's append")

	require.False(t, c.IsCurrentArray("answers"), "parent's current array must not follow the child's")
	require.Equal(t, 1, c.GetTypeIndex("answers_A"), "parent's type index must not see the child's increment")

	siblingLast, ok := sibling.GetLastPosition("answers_A")
	require.True(t, ok)
	require.Equal(t, 99, siblingLast)
	require.Equal(t, 2, sibling.GetTypeIndex("answers_A"))
}

func TestWithBaseOffsetIsolatesPositionAndArrayState(t *testing.T) {
	c := New()
	c.SetArrayIteration("questions", 3)

	nested := c.WithBaseOffset(12)
	nested.SetArrayIteration("answers", 1)

	require.True(t, c.IsCurrentArray("questions"))
	require.False(t, c.IsCurrentArray("answers"), "parent's current array must not follow the nested context's")
}

func TestWithBaseOffsetPreservesSharedDict(t *testing.T) {
	c := New()
	c.EnsureCompressionDict()
	c.CompressionDict().Record([]byte("com"), 5)

	nested := c.WithBaseOffset(7)
	require.Equal(t, 7, nested.BaseOffset())

	offset, ok := nested.CompressionDict().Lookup([]byte("com"))
	require.True(t, ok)
	require.Equal(t, 5, offset)
}

func TestFieldValueLen(t *testing.T) {
	require.Equal(t, 3, NewBytes([]byte{1, 2, 3}).Len())
	require.Equal(t, 5, NewString("hello").Len())
	require.Equal(t, 4, NewString("📄").Len())
	require.Equal(t, 0, NewU32(42).Len())
}

func TestFieldValueToBytes(t *testing.T) {
	require.Equal(t, []byte{0x42}, NewU8(0x42).ToBytes())
	require.Equal(t, []byte{0x34, 0x12}, NewU16(0x1234).ToBytes())
	require.Equal(t, []byte{1, 2, 3}, NewBytes([]byte{1, 2, 3}).ToBytes())
	require.Equal(t, []byte{0x41, 0x42}, NewString("AB").ToBytes())
}

func TestSumTypeSizesAndSumAllSizes(t *testing.T) {
	v := NewTypeSizes([]TypeSize{
		{TypeName: "A", Size: 4},
		{TypeName: "B", Size: 8},
		{TypeName: "A", Size: 2},
	})
	require.Equal(t, 6, v.SumTypeSizes("A"))
	require.Equal(t, 8, v.SumTypeSizes("B"))
	require.Equal(t, 14, v.SumAllSizes())
}

func TestNthItemOfType(t *testing.T) {
	v := NewItems([]Item{
		{TypeName: "A", Fields: map[string]Value{"x": NewU8(1)}},
		{TypeName: "B", Fields: map[string]Value{"x": NewU8(2)}},
		{TypeName: "A", Fields: map[string]Value{"x": NewU8(3)}},
	})

	item, ok := v.NthItemOfType("A", 1)
	require.True(t, ok)
	x, _ := item.Fields["x"].AsUint64()
	require.Equal(t, uint64(3), x)

	_, ok = v.NthItemOfType("A", 2)
	require.False(t, ok)
}
