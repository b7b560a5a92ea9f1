package schema

import (
	"unicode/utf8"

	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/endian"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

type uintCodec struct {
	width int // 8, 16, 32, 64
	e     endian.Endianness
}

// Uint8/Uint16/Uint32/Uint64 build fixed-width unsigned integer codecs.
func Uint8() Codec                         { return uintCodec{width: 8} }
func Uint16(e endian.Endianness) Codec     { return uintCodec{width: 16, e: e} }
func Uint32(e endian.Endianness) Codec     { return uintCodec{width: 32, e: e} }
func Uint64(e endian.Endianness) Codec     { return uintCodec{width: 64, e: e} }

func (c uintCodec) Encode(w *bitstream.Writer, _ *fieldctx.Context, v fieldctx.Value) error {
	val, ok := v.AsUint64()
	if !ok {
		return errs.NewInvalidValue("expected integer value for uint%d field", c.width)
	}

	switch c.width {
	case 8:
		w.WriteUint8(uint8(val))
	case 16:
		w.WriteUint16(uint16(val), c.e)
	case 32:
		w.WriteUint32(uint32(val), c.e)
	case 64:
		w.WriteUint64(val, c.e)
	}

	return nil
}

func (c uintCodec) Decode(r *bitstream.Reader, _ *fieldctx.Context) (fieldctx.Value, error) {
	switch c.width {
	case 8:
		v, err := r.ReadUint8()
		return fieldctx.NewU8(v), err
	case 16:
		v, err := r.ReadUint16(c.e)
		return fieldctx.NewU16(v), err
	case 32:
		v, err := r.ReadUint32(c.e)
		return fieldctx.NewU32(v), err
	default:
		v, err := r.ReadUint64(c.e)
		return fieldctx.NewU64(v), err
	}
}

type intCodec struct {
	width int
	e     endian.Endianness
}

// Int8/Int16/Int32/Int64 build fixed-width signed integer codecs.
func Int8() Codec                     { return intCodec{width: 8} }
func Int16(e endian.Endianness) Codec { return intCodec{width: 16, e: e} }
func Int32(e endian.Endianness) Codec { return intCodec{width: 32, e: e} }
func Int64(e endian.Endianness) Codec { return intCodec{width: 64, e: e} }

func (c intCodec) Encode(w *bitstream.Writer, _ *fieldctx.Context, v fieldctx.Value) error {
	val, ok := v.AsUint64()
	if !ok {
		return errs.NewInvalidValue("expected integer value for int%d field", c.width)
	}

	switch c.width {
	case 8:
		w.WriteInt8(int8(val))
	case 16:
		w.WriteInt16(int16(val), c.e)
	case 32:
		w.WriteInt32(int32(val), c.e)
	case 64:
		w.WriteInt64(int64(val), c.e)
	}

	return nil
}

func (c intCodec) Decode(r *bitstream.Reader, _ *fieldctx.Context) (fieldctx.Value, error) {
	switch c.width {
	case 8:
		v, err := r.ReadInt8()
		return fieldctx.NewI8(v), err
	case 16:
		v, err := r.ReadInt16(c.e)
		return fieldctx.NewI16(v), err
	case 32:
		v, err := r.ReadInt32(c.e)
		return fieldctx.NewI32(v), err
	default:
		v, err := r.ReadInt64(c.e)
		return fieldctx.NewI64(v), err
	}
}

type floatCodec struct {
	width int // 32, 64
	e     endian.Endianness
}

// Float32/Float64 build IEEE-754 floating point codecs.
func Float32(e endian.Endianness) Codec { return floatCodec{width: 32, e: e} }
func Float64(e endian.Endianness) Codec { return floatCodec{width: 64, e: e} }

func (c floatCodec) Encode(w *bitstream.Writer, _ *fieldctx.Context, v fieldctx.Value) error {
	f, ok := v.AsFloat64()
	if !ok {
		return errs.NewInvalidValue("expected float value for float%d field", c.width)
	}

	if c.width == 32 {
		w.WriteFloat32(float32(f), c.e)
	} else {
		w.WriteFloat64(f, c.e)
	}

	return nil
}

func (c floatCodec) Decode(r *bitstream.Reader, _ *fieldctx.Context) (fieldctx.Value, error) {
	if c.width == 32 {
		v, err := r.ReadFloat32(c.e)
		return fieldctx.NewF32(v), err
	}

	v, err := r.ReadFloat64(c.e)

	return fieldctx.NewF64(v), err
}

type boolCodec struct{}

// Bool builds a one-byte boolean codec (0x00 = false, any nonzero = true).
func Bool() Codec { return boolCodec{} }

func (boolCodec) Encode(w *bitstream.Writer, _ *fieldctx.Context, v fieldctx.Value) error {
	b, ok := v.AsUint64()
	if !ok {
		return errs.NewInvalidValue("expected bool value")
	}
	if b != 0 {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}

	return nil
}

func (boolCodec) Decode(r *bitstream.Reader, _ *fieldctx.Context) (fieldctx.Value, error) {
	v, err := r.ReadUint8()
	if err != nil {
		return fieldctx.Value{}, err
	}

	return fieldctx.NewBool(v != 0), nil
}

type bytesCodec struct {
	n int
}

// FixedBytes builds a codec for exactly n raw bytes.
func FixedBytes(n int) Codec { return bytesCodec{n: n} }

func (c bytesCodec) Encode(w *bitstream.Writer, _ *fieldctx.Context, v fieldctx.Value) error {
	b, ok := v.AsBytes()
	if !ok {
		return errs.NewInvalidValue("expected bytes value")
	}
	if len(b) != c.n {
		return errs.NewInvalidValue("expected %d bytes, got %d", c.n, len(b))
	}

	return w.WriteBytes(b)
}

func (c bytesCodec) Decode(r *bitstream.Reader, _ *fieldctx.Context) (fieldctx.Value, error) {
	b, err := r.ReadBytes(c.n)
	if err != nil {
		return fieldctx.Value{}, err
	}

	return fieldctx.NewBytes(b), nil
}

type stringCodec struct {
	n int // declared byte length
}

// FixedString builds a codec for a UTF-8 string occupying exactly n
// bytes on the wire.
func FixedString(n int) Codec { return stringCodec{n: n} }

func (c stringCodec) Encode(w *bitstream.Writer, _ *fieldctx.Context, v fieldctx.Value) error {
	s, ok := v.AsString()
	if !ok {
		return errs.NewInvalidValue("expected string value")
	}
	if len(s) != c.n {
		return errs.NewInvalidValue("expected %d-byte string, got %d", c.n, len(s))
	}

	return w.WriteBytes([]byte(s))
}

func (c stringCodec) Decode(r *bitstream.Reader, _ *fieldctx.Context) (fieldctx.Value, error) {
	b, err := r.ReadBytes(c.n)
	if err != nil {
		return fieldctx.Value{}, err
	}
	if !utf8.Valid(b) {
		return fieldctx.Value{}, errs.ErrInvalidUTF8
	}

	return fieldctx.NewString(string(b)), nil
}
