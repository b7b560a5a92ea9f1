package bitstream

import (
	"math"

	"github.com/arloliu/binschema/endian"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/internal/options"
)

// Reader is the bit-level decoder. It holds an immutable byte slice plus
// a (byteOffset, bitOffset) cursor, with bitOffset in [0, 7] and
// byteOffset <= len(bytes). Reading past the end fails with
// errs.ErrEndOfInput.
type Reader struct {
	data       []byte
	byteOffset int
	bitOffset  uint8
	bitOrder   endian.BitOrder
}

// ReaderOption configures a Reader at construction time.
type ReaderOption = options.Option[*Reader]

// WithReaderBitOrder sets the reader's bit-unpacking order. Must match the
// order used to encode the stream. Default is MsbFirst.
func WithReaderBitOrder(order endian.BitOrder) ReaderOption {
	return options.NoError(func(r *Reader) {
		r.bitOrder = order
	})
}

// NewReader creates a Reader over data.
func NewReader(data []byte, opts ...ReaderOption) *Reader {
	r := &Reader{
		data:     data,
		bitOrder: endian.MsbFirst,
	}
	_ = options.Apply(r, opts...)

	return r
}

// Aligned reports whether the bit cursor currently sits at a byte boundary.
func (r *Reader) Aligned() bool {
	return r.bitOffset == 0
}

// Position returns the current absolute byte position. Mid-byte reads
// still report the byte currently being consumed.
func (r *Reader) Position() int {
	return r.byteOffset
}

// Remaining returns the number of whole bytes left to read, starting at
// the current byte position (not counting a partially-consumed byte).
func (r *Reader) Remaining() int {
	return len(r.data) - r.byteOffset
}

// Len returns the total length of the underlying input.
func (r *Reader) Len() int {
	return len(r.data)
}

// Seek moves the absolute byte position to pos, resetting bitOffset to 0.
// It fails if pos is past the end of the input.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return errs.ErrSeekOutOfRange
	}

	r.byteOffset = pos
	r.bitOffset = 0

	return nil
}

// ReadBits reads n bits, 1 <= n <= 64, honoring the reader's bit order.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 1 || n > 64 {
		return 0, errs.ErrInvalidBitWidth
	}

	var result uint64
	for i := range n {
		bit, err := r.readSingleBit()
		if err != nil {
			return 0, err
		}

		var bitIndex int
		switch r.bitOrder {
		case endian.MsbFirst:
			bitIndex = n - 1 - i
		case endian.LsbFirst:
			bitIndex = i
		}
		result |= uint64(bit) << uint(bitIndex)
	}

	return result, nil
}

func (r *Reader) readSingleBit() (uint8, error) {
	if r.byteOffset >= len(r.data) {
		return 0, errs.ErrEndOfInput
	}

	var bitIndex uint8
	switch r.bitOrder {
	case endian.MsbFirst:
		bitIndex = 7 - r.bitOffset
	case endian.LsbFirst:
		bitIndex = r.bitOffset
	}

	bit := (r.data[r.byteOffset] >> bitIndex) & 1

	r.bitOffset++
	if r.bitOffset == 8 {
		r.byteOffset++
		r.bitOffset = 0
	}

	return bit, nil
}

// readByteCrossing mirrors Writer.writeByteCrossing: byte-aligned reads
// copy directly; unaligned reads reconstruct the byte from bits read
// lowest-first.
func (r *Reader) readByteCrossing() (uint8, error) {
	if r.Aligned() {
		if r.byteOffset >= len(r.data) {
			return 0, errs.ErrEndOfInput
		}
		v := r.data[r.byteOffset]
		r.byteOffset++

		return v, nil
	}

	var v uint8
	for i := range 8 {
		bit, err := r.readSingleBit()
		if err != nil {
			return 0, err
		}
		v |= bit << uint(i)
	}

	return v, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	return r.readByteCrossing()
}

// ReadUint16 reads a 16-bit value in the given byte order.
func (r *Reader) ReadUint16(e endian.Endianness) (uint16, error) {
	b0, err := r.readByteCrossing()
	if err != nil {
		return 0, err
	}
	b1, err := r.readByteCrossing()
	if err != nil {
		return 0, err
	}

	switch e {
	case endian.BigEndian:
		return uint16(b0)<<8 | uint16(b1), nil
	default:
		return uint16(b1)<<8 | uint16(b0), nil
	}
}

// ReadUint32 reads a 32-bit value in the given byte order.
func (r *Reader) ReadUint32(e endian.Endianness) (uint32, error) {
	hi, err := r.ReadUint16(e)
	if err != nil {
		return 0, err
	}
	lo, err := r.ReadUint16(e)
	if err != nil {
		return 0, err
	}

	switch e {
	case endian.BigEndian:
		return uint32(hi)<<16 | uint32(lo), nil
	default:
		return uint32(lo)<<16 | uint32(hi), nil
	}
}

// ReadUint64 reads a 64-bit value in the given byte order.
func (r *Reader) ReadUint64(e endian.Endianness) (uint64, error) {
	hi, err := r.ReadUint32(e)
	if err != nil {
		return 0, err
	}
	lo, err := r.ReadUint32(e)
	if err != nil {
		return 0, err
	}

	switch e {
	case endian.BigEndian:
		return uint64(hi)<<32 | uint64(lo), nil
	default:
		return uint64(lo)<<32 | uint64(hi), nil
	}
}

// ReadInt8 reads a signed byte by reinterpreting its bits.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadInt16 reads a signed 16-bit value by reinterpreting its bits.
func (r *Reader) ReadInt16(e endian.Endianness) (int16, error) {
	v, err := r.ReadUint16(e)
	return int16(v), err
}

// ReadInt32 reads a signed 32-bit value by reinterpreting its bits.
func (r *Reader) ReadInt32(e endian.Endianness) (int32, error) {
	v, err := r.ReadUint32(e)
	return int32(v), err
}

// ReadInt64 reads a signed 64-bit value by reinterpreting its bits.
func (r *Reader) ReadInt64(e endian.Endianness) (int64, error) {
	v, err := r.ReadUint64(e)
	return int64(v), err
}

// ReadFloat32 reads a float32 from its IEEE-754 bit pattern.
func (r *Reader) ReadFloat32(e endian.Endianness) (float32, error) {
	v, err := r.ReadUint32(e)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

// ReadFloat64 reads a float64 from its IEEE-754 bit pattern.
func (r *Reader) ReadFloat64(e endian.Endianness) (float64, error) {
	v, err := r.ReadUint64(e)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(v), nil
}

// ReadBytes reads n raw bytes. Requires byte alignment.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if !r.Aligned() {
		return nil, errs.ErrUnalignedPosition
	}
	if r.byteOffset+n > len(r.data) {
		return nil, errs.ErrEndOfInput
	}

	out := make([]byte, n)
	copy(out, r.data[r.byteOffset:r.byteOffset+n])
	r.byteOffset += n

	return out, nil
}

// PeekUint8 reads a byte without advancing the cursor. Requires byte
// alignment.
func (r *Reader) PeekUint8() (uint8, error) {
	if !r.Aligned() {
		return 0, errs.ErrNotByteAligned
	}
	if r.byteOffset >= len(r.data) {
		return 0, errs.ErrEndOfInput
	}

	return r.data[r.byteOffset], nil
}

// PeekUint16 reads a 16-bit value without advancing the cursor. Requires
// byte alignment.
func (r *Reader) PeekUint16(e endian.Endianness) (uint16, error) {
	if !r.Aligned() {
		return 0, errs.ErrNotByteAligned
	}
	save := r.byteOffset
	v, err := r.ReadUint16(e)
	r.byteOffset = save
	r.bitOffset = 0

	return v, err
}

// PeekUint32 reads a 32-bit value without advancing the cursor. Requires
// byte alignment.
func (r *Reader) PeekUint32(e endian.Endianness) (uint32, error) {
	if !r.Aligned() {
		return 0, errs.ErrNotByteAligned
	}
	save := r.byteOffset
	v, err := r.ReadUint32(e)
	r.byteOffset = save
	r.bitOffset = 0

	return v, err
}

// SkipPadding advances n bits without interpreting them.
func (r *Reader) SkipPadding(n int) error {
	for range n {
		if _, err := r.readSingleBit(); err != nil {
			return err
		}
	}

	return nil
}
