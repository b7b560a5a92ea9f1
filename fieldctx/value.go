// Package fieldctx provides the dynamic value representation and the
// evaluation context threaded through nested encode/decode calls: a
// closed tagged union for field values (Value), and a context carrying
// the parent-field stack, array-iteration state, type-occurrence
// counters, and the shared compression dictionary used by back-reference
// fields.
package fieldctx

import (
	"encoding/binary"
	"math"
)

// Kind identifies which variant of Value is populated.
type Kind uint8

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindString
	KindBytes
	// KindTypeSizes holds an array's per-element (type name, encoded byte
	// size) pairs, consumed by sum_of_type_sizes/sum_all_sizes.
	KindTypeSizes
	// KindItems holds an array's per-element (type name, field map)
	// pairs, consumed by corresponding<Type> selectors.
	KindItems
	// KindRecord holds a single nested sequence's field-name -> Value
	// map, the shape produced/consumed by schema.Sequence.
	KindRecord
)

// TypeSize is one element of a KindTypeSizes value.
type TypeSize struct {
	TypeName string
	Size     int
}

// Item is one element of a KindItems value: the element's declared type
// name plus its own decoded/encoded field values, keyed by field name.
type Item struct {
	TypeName string
	Fields   map[string]Value
}

// Value is a closed tagged union over every scalar and aggregate shape a
// field can carry across the parent stack and array-iteration machinery.
// Exactly one of the typed fields is meaningful, selected by Kind.
type Value struct {
	kind      Kind
	u64       uint64
	i64       int64
	f64       float64
	boolean   bool
	str       string
	bytes     []byte
	typeSizes []TypeSize
	items     []Item
	record    map[string]Value
}

func NewU8(v uint8) Value   { return Value{kind: KindU8, u64: uint64(v)} }
func NewU16(v uint16) Value { return Value{kind: KindU16, u64: uint64(v)} }
func NewU32(v uint32) Value { return Value{kind: KindU32, u64: uint64(v)} }
func NewU64(v uint64) Value { return Value{kind: KindU64, u64: v} }
func NewI8(v int8) Value    { return Value{kind: KindI8, i64: int64(v)} }
func NewI16(v int16) Value  { return Value{kind: KindI16, i64: int64(v)} }
func NewI32(v int32) Value  { return Value{kind: KindI32, i64: int64(v)} }
func NewI64(v int64) Value  { return Value{kind: KindI64, i64: v} }
func NewF32(v float32) Value { return Value{kind: KindF32, f64: float64(v)} }
func NewF64(v float64) Value { return Value{kind: KindF64, f64: v} }
func NewBool(v bool) Value  { return Value{kind: KindBool, boolean: v} }
func NewString(v string) Value { return Value{kind: KindString, str: v} }

// NewBytes copies data into the Value so later mutation of the caller's
// slice cannot corrupt the stored field value.
func NewBytes(data []byte) Value {
	cp := make([]byte, len(data))
	copy(cp, data)

	return Value{kind: KindBytes, bytes: cp}
}

func NewTypeSizes(entries []TypeSize) Value {
	return Value{kind: KindTypeSizes, typeSizes: entries}
}

func NewItems(items []Item) Value {
	return Value{kind: KindItems, items: items}
}

// NewRecord wraps a nested sequence's decoded/input field map.
func NewRecord(fields map[string]Value) Value {
	return Value{kind: KindRecord, record: fields}
}

// AsRecord returns the value's field map, or (nil, false) if v is not
// KindRecord.
func (v Value) AsRecord() (map[string]Value, bool) {
	if v.kind != KindRecord {
		return nil, false
	}

	return v.record, true
}

// Kind reports which variant is populated.
func (v Value) Kind() Kind { return v.kind }

// AsBytes returns the value's byte slice, or (nil, false) if v is not
// KindBytes.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}

	return v.bytes, true
}

// AsString returns the value's string, or ("", false) if v is not
// KindString.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}

	return v.str, true
}

// AsFloat64 returns the value's float variant widened to float64, or
// (0, false) if v is not KindF32 or KindF64.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindF32, KindF64:
		return v.f64, true
	default:
		return 0, false
	}
}

// AsUint64 returns any integer/bool variant widened to uint64, or
// (0, false) for string/bytes/aggregate variants.
func (v Value) AsUint64() (uint64, bool) {
	switch v.kind {
	case KindU8, KindU16, KindU32, KindU64:
		return v.u64, true
	case KindI8, KindI16, KindI32, KindI64:
		return uint64(v.i64), true
	case KindBool:
		if v.boolean {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}

// Len reports the element count for Bytes, String (UTF-8 byte length),
// TypeSizes, and Items; 0 for scalar variants.
func (v Value) Len() int {
	switch v.kind {
	case KindBytes:
		return len(v.bytes)
	case KindString:
		return len(v.str)
	case KindTypeSizes:
		return len(v.typeSizes)
	case KindItems:
		return len(v.items)
	case KindRecord:
		return len(v.record)
	default:
		return 0
	}
}

// IsEmpty reports whether Len() == 0.
func (v Value) IsEmpty() bool { return v.Len() == 0 }

// SumTypeSizes sums the encoded sizes of elements whose type name matches
// elementType. Valid for KindTypeSizes and KindItems; 0 otherwise.
func (v Value) SumTypeSizes(elementType string) int {
	switch v.kind {
	case KindTypeSizes:
		sum := 0
		for _, e := range v.typeSizes {
			if e.TypeName == elementType {
				sum += e.Size
			}
		}

		return sum
	case KindItems:
		sum := 0
		for _, item := range v.items {
			if item.TypeName != elementType {
				continue
			}
			if sz, ok := item.Fields["_encoded_size"]; ok {
				sum += sz.LengthOfValue()
			}
		}

		return sum
	default:
		return 0
	}
}

// SumAllSizes sums encoded sizes across every element regardless of type.
// Valid for KindTypeSizes and KindItems; 0 otherwise.
func (v Value) SumAllSizes() int {
	switch v.kind {
	case KindTypeSizes:
		sum := 0
		for _, e := range v.typeSizes {
			sum += e.Size
		}

		return sum
	case KindItems:
		sum := 0
		for _, item := range v.items {
			if sz, ok := item.Fields["_encoded_size"]; ok {
				sum += sz.LengthOfValue()
			}
		}

		return sum
	default:
		return 0
	}
}

// NthItemOfType returns the Nth (zero-indexed) item whose type name
// matches typeName, for corresponding<Type> selectors. Valid only for
// KindItems.
func (v Value) NthItemOfType(typeName string, n int) (Item, bool) {
	if v.kind != KindItems {
		return Item{}, false
	}

	count := 0
	for _, item := range v.items {
		if item.TypeName != typeName {
			continue
		}
		if count == n {
			return item, true
		}
		count++
	}

	return Item{}, false
}

// LengthOfValue implements the length_of(path) computed-field selector:
// for scalar numeric/bool variants it returns the value itself widened to
// int (matching the reference implementation's float-truncation quirk for
// non-integer scalar kinds); for Bytes/String it returns the byte length;
// for TypeSizes/Items it returns the element count.
func (v Value) LengthOfValue() int {
	switch v.kind {
	case KindU8, KindU16, KindU32, KindU64:
		return int(v.u64)
	case KindI8, KindI16, KindI32, KindI64:
		return int(v.i64)
	case KindF32, KindF64:
		return int(v.f64)
	case KindBool:
		if v.boolean {
			return 1
		}

		return 0
	default:
		return v.Len()
	}
}

// ToBytes returns the value's raw little-endian byte representation.
// TypeSizes, Items and Record values have no byte representation and
// return nil.
func (v Value) ToBytes() []byte {
	switch v.kind {
	case KindU8:
		return []byte{byte(v.u64)}
	case KindU16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v.u64))

		return b
	case KindU32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v.u64))

		return b
	case KindU64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, v.u64)

		return b
	case KindI8:
		return []byte{byte(v.i64)}
	case KindI16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v.i64))

		return b
	case KindI32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v.i64))

		return b
	case KindI64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(v.i64))

		return b
	case KindF32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v.f64)))

		return b
	case KindF64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(v.f64))

		return b
	case KindBool:
		if v.boolean {
			return []byte{1}
		}

		return []byte{0}
	case KindString:
		return []byte(v.str)
	case KindBytes:
		cp := make([]byte, len(v.bytes))
		copy(cp, v.bytes)

		return cp
	default:
		return nil
	}
}
