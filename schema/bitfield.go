package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/endian"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

// BitfieldSpec names one sub-field of a Bitfield: its bit Offset (from
// the low bit of the underlying integer) and bit Size.
type BitfieldSpec struct {
	Name   string
	Offset int
	Size   int
}

// bitfieldCodec presents a fixed-width big-endian integer as a record of
// named, independently-sized sub-fields.
type bitfieldCodec struct {
	width  int // total width in bits, a multiple of 8
	fields []BitfieldSpec
}

// Bitfield builds a codec over a width-bit big-endian integer, exposing
// fields as named (offset, size) sub-ranges in bits. width must be a
// multiple of 8 and span every declared field without overlap, but
// overlap is not validated here (schema validation is out of scope).
func Bitfield(width int, fields []BitfieldSpec) Codec {
	return bitfieldCodec{width: width, fields: fields}
}

func (c bitfieldCodec) Encode(w *bitstream.Writer, _ *fieldctx.Context, v fieldctx.Value) error {
	record, ok := v.AsRecord()
	if !ok {
		return errs.NewInvalidValue("expected record value for bitfield")
	}

	var packed uint64
	for _, f := range c.fields {
		sub, ok := record[f.Name]
		if !ok {
			return errs.WrapEncode(f.Name, errs.ErrMissingField)
		}
		val, ok := sub.AsUint64()
		if !ok {
			return errs.WrapEncode(f.Name, errs.NewInvalidValue("expected integer sub-field"))
		}

		mask := uint64(1)<<uint(f.Size) - 1
		packed |= (val & mask) << uint(f.Offset)
	}

	switch c.width {
	case 8:
		w.WriteUint8(uint8(packed))
	case 16:
		w.WriteUint16(uint16(packed), endian.BigEndian)
	case 32:
		w.WriteUint32(uint32(packed), endian.BigEndian)
	case 64:
		w.WriteUint64(packed, endian.BigEndian)
	default:
		return errs.NewInvalidValue("unsupported bitfield width %d", c.width)
	}

	return nil
}

func (c bitfieldCodec) Decode(r *bitstream.Reader, _ *fieldctx.Context) (fieldctx.Value, error) {
	var packed uint64
	var err error

	switch c.width {
	case 8:
		var v uint8
		v, err = r.ReadUint8()
		packed = uint64(v)
	case 16:
		var v uint16
		v, err = r.ReadUint16(endian.BigEndian)
		packed = uint64(v)
	case 32:
		var v uint32
		v, err = r.ReadUint32(endian.BigEndian)
		packed = uint64(v)
	case 64:
		packed, err = r.ReadUint64(endian.BigEndian)
	default:
		return fieldctx.Value{}, errs.NewInvalidValue("unsupported bitfield width %d", c.width)
	}
	if err != nil {
		return fieldctx.Value{}, err
	}

	record := make(map[string]fieldctx.Value, len(c.fields))
	for _, f := range c.fields {
		mask := uint64(1)<<uint(f.Size) - 1
		sub := (packed >> uint(f.Offset)) & mask
		record[f.Name] = fieldctx.NewU64(sub)
	}

	return fieldctx.NewRecord(record), nil
}
