package bitstream

import (
	"math"

	"github.com/arloliu/binschema/endian"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/internal/options"
	"github.com/arloliu/binschema/internal/pool"
)

// Writer is the bit-level encoder. It accumulates output in a growing byte
// buffer plus a partial byte accumulator with a bit cursor in [0, 7].
//
// Writer is not safe for concurrent use; one encode completes on a single
// calling goroutine without yielding, per the single-threaded cooperative
// model.
type Writer struct {
	buf      *pool.ByteBuffer
	partial  uint8
	bitPos   uint8
	bitOrder endian.BitOrder
}

// Option configures a Writer at construction time.
type Option = options.Option[*Writer]

// WithBitOrder sets the writer's bit-packing order. Default is MsbFirst.
func WithBitOrder(order endian.BitOrder) Option {
	return options.NoError(func(w *Writer) {
		w.bitOrder = order
	})
}

// WithInitialCapacity pre-sizes the writer's internal buffer.
func WithInitialCapacity(n int) Option {
	return options.NoError(func(w *Writer) {
		w.buf = pool.NewByteBuffer(n)
	})
}

// NewWriter creates a Writer ready for bit-level encoding.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		buf:      pool.NewByteBuffer(pool.BlobBufferDefaultSize),
		bitOrder: endian.MsbFirst,
	}
	_ = options.Apply(w, opts...)

	return w
}

// Aligned reports whether the bit cursor currently sits at a byte boundary.
func (w *Writer) Aligned() bool {
	return w.bitPos == 0
}

// ByteOffset returns the number of fully flushed bytes. A partial byte in
// progress is not counted — position-dependent operations (back-reference
// offsets, instance positions) require byte alignment at their invocation.
func (w *Writer) ByteOffset() int {
	return w.buf.Len()
}

// BitOrder returns the writer's configured bit-packing order.
func (w *Writer) BitOrder() endian.BitOrder {
	return w.bitOrder
}

// WriteBits emits the low n bits of value, 1 <= n <= 64. Under MsbFirst,
// bit n-1 of value is emitted first; under LsbFirst, bit 0 is emitted
// first. Each emitted bit lands at 7-bitPos (MsbFirst) or bitPos
// (LsbFirst) of the partial byte, which flushes on reaching 8 bits.
func (w *Writer) WriteBits(value uint64, n int) error {
	if n < 1 || n > 64 {
		return errs.ErrInvalidBitWidth
	}

	var mask uint64
	if n == 64 {
		mask = math.MaxUint64
	} else {
		mask = (uint64(1) << uint(n)) - 1
	}
	value &= mask

	for i := range n {
		var bitIndex int
		switch w.bitOrder {
		case endian.MsbFirst:
			bitIndex = n - 1 - i
		case endian.LsbFirst:
			bitIndex = i
		}
		bit := uint8((value >> uint(bitIndex)) & 1)
		w.writeSingleBit(bit)
	}

	return nil
}

func (w *Writer) writeSingleBit(bit uint8) {
	var bitIndex uint8
	switch w.bitOrder {
	case endian.MsbFirst:
		bitIndex = 7 - w.bitPos
	case endian.LsbFirst:
		bitIndex = w.bitPos
	}

	if bit != 0 {
		w.partial |= 1 << bitIndex
	}

	w.bitPos++
	if w.bitPos == 8 {
		w.flushByte()
	}
}

func (w *Writer) flushByte() {
	w.buf.Grow(1)
	w.buf.MustWrite([]byte{w.partial})
	w.partial = 0
	w.bitPos = 0
}

// writeByteCrossing writes a single byte value. When aligned it appends
// directly (fast path); when not, it decomposes the byte's bits
// lowest-first and writes them one at a time via writeSingleBit — the
// asymmetric unaligned rule described in the package doc.
func (w *Writer) writeByteCrossing(v uint8) {
	if w.Aligned() {
		w.buf.Grow(1)
		w.buf.MustWrite([]byte{v})

		return
	}

	for i := range 8 {
		bit := (v >> uint(i)) & 1
		w.writeSingleBit(bit)
	}
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.writeByteCrossing(v)
}

// WriteUint16 writes a 16-bit value in the given byte order.
func (w *Writer) WriteUint16(v uint16, e endian.Endianness) {
	b0, b1 := uint8(v), uint8(v>>8)
	switch e {
	case endian.BigEndian:
		w.writeByteCrossing(b1)
		w.writeByteCrossing(b0)
	case endian.LittleEndian:
		w.writeByteCrossing(b0)
		w.writeByteCrossing(b1)
	}
}

// WriteUint32 writes a 32-bit value in the given byte order.
func (w *Writer) WriteUint32(v uint32, e endian.Endianness) {
	switch e {
	case endian.BigEndian:
		w.WriteUint16(uint16(v>>16), e)
		w.WriteUint16(uint16(v), e)
	case endian.LittleEndian:
		w.WriteUint16(uint16(v), e)
		w.WriteUint16(uint16(v>>16), e)
	}
}

// WriteUint64 writes a 64-bit value in the given byte order.
func (w *Writer) WriteUint64(v uint64, e endian.Endianness) {
	switch e {
	case endian.BigEndian:
		w.WriteUint32(uint32(v>>32), e)
		w.WriteUint32(uint32(v), e)
	case endian.LittleEndian:
		w.WriteUint32(uint32(v), e)
		w.WriteUint32(uint32(v>>32), e)
	}
}

// WriteInt8 writes a signed byte by reinterpreting its two's-complement bits.
func (w *Writer) WriteInt8(v int8) { w.WriteUint8(uint8(v)) }

// WriteInt16 writes a signed 16-bit value by reinterpreting its bits.
func (w *Writer) WriteInt16(v int16, e endian.Endianness) { w.WriteUint16(uint16(v), e) }

// WriteInt32 writes a signed 32-bit value by reinterpreting its bits.
func (w *Writer) WriteInt32(v int32, e endian.Endianness) { w.WriteUint32(uint32(v), e) }

// WriteInt64 writes a signed 64-bit value by reinterpreting its bits.
func (w *Writer) WriteInt64(v int64, e endian.Endianness) { w.WriteUint64(uint64(v), e) }

// WriteFloat32 writes a float32 via its IEEE-754 bit pattern.
func (w *Writer) WriteFloat32(v float32, e endian.Endianness) {
	w.WriteUint32(math.Float32bits(v), e)
}

// WriteFloat64 writes a float64 via its IEEE-754 bit pattern.
func (w *Writer) WriteFloat64(v float64, e endian.Endianness) {
	w.WriteUint64(math.Float64bits(v), e)
}

// WriteBytes appends raw bytes. Requires byte alignment: it is used for
// splicing in nested encoders' already-finished output and for fixed/
// variable byte-run fields, never for sub-byte fragments.
func (w *Writer) WriteBytes(data []byte) error {
	if !w.Aligned() {
		return errs.ErrUnalignedPosition
	}

	w.buf.Grow(len(data))
	w.buf.MustWrite(data)

	return nil
}

// WritePadding zero-fills n bits, used to reach a declared alignment.
func (w *Writer) WritePadding(n int) error {
	for range n {
		w.writeSingleBit(0)
	}

	return nil
}

// Finish flushes any partial byte (zero-padded in its unused bits) and
// returns the accumulated buffer. The returned slice aliases the writer's
// internal buffer; callers that keep it beyond the writer's lifetime
// should copy it.
func (w *Writer) Finish() []byte {
	if w.bitPos > 0 {
		w.flushByte()
	}

	return w.buf.Bytes()
}
