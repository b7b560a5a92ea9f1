package varint

import "github.com/arloliu/binschema/errs"

// ByteSource supplies bytes one at a time to a varint decoder. Both a
// plain []byte cursor and a bitstream.Reader (via its ReadUint8 method)
// satisfy it, so decoders built against this interface work identically
// whether the stream is a standalone byte slice or mid-schema.
type ByteSource interface {
	ReadUint8() (uint8, error)
}

// SliceSource adapts a []byte to ByteSource for standalone decode calls
// that are not reading out of a bitstream.Reader.
type SliceSource struct {
	data []byte
	pos  int
}

// NewSliceSource wraps data for sequential single-byte reads.
func NewSliceSource(data []byte) *SliceSource {
	return &SliceSource{data: data}
}

// ReadUint8 returns the next byte, or ErrEndOfInput when exhausted.
func (s *SliceSource) ReadUint8() (uint8, error) {
	if s.pos >= len(s.data) {
		return 0, errs.ErrEndOfInput
	}
	v := s.data[s.pos]
	s.pos++

	return v, nil
}

// Pos reports how many bytes have been consumed so far.
func (s *SliceSource) Pos() int {
	return s.pos
}
