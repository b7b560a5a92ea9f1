package varint

import (
	"encoding/binary"

	"github.com/arloliu/binschema/errs"
)

// EncodeLEB128 writes value as an unsigned LEB128 varint: seven-bit
// groups, low group first, continuation bit set on all but the last
// byte. This is wire-identical to encoding/binary's uvarint, which this
// function delegates to directly.
func EncodeLEB128(value uint64) []byte {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], value)

	return buf[:n]
}

// DecodeLEB128 reads an unsigned LEB128 varint from src, rejecting
// encodings whose accumulated shift exceeds 64 bits.
func DecodeLEB128(src ByteSource) (uint64, error) {
	var result uint64
	var shift uint

	for {
		if shift >= 64 {
			return 0, errs.ErrVarintOverflow
		}

		b, err := src.ReadUint8()
		if err != nil {
			return 0, err
		}

		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}

		shift += 7
	}
}
