package varint

import "github.com/arloliu/binschema/errs"

// maxEBMLValue is 2^56 - 2, the largest value representable in the
// widest (8-byte) EBML encoding.
const maxEBMLValue = (uint64(1) << 56) - 2

// EncodeEBML writes value using EBML's marker-bit width selection: the
// smallest width w in 1..8 such that value <= 2^(7w)-2, emitted as
// (1<<7w)|value in w big-endian bytes.
func EncodeEBML(value uint64) ([]byte, error) {
	if value > maxEBMLValue {
		return nil, errs.ErrVarintOverflow
	}

	w := 1
	for uint64(w) < 8 {
		limit := (uint64(1) << uint(7*w)) - 2
		if value <= limit {
			break
		}
		w++
	}

	marker := uint64(1) << uint(7*w)
	encoded := marker | value

	out := make([]byte, w)
	for i := w - 1; i >= 0; i-- {
		out[i] = byte(encoded)
		encoded >>= 8
	}

	return out, nil
}

// DecodeEBML reads an EBML varint from src, locating the marker bit
// within the first byte to determine the field width.
func DecodeEBML(src ByteSource) (uint64, error) {
	first, err := src.ReadUint8()
	if err != nil {
		return 0, err
	}
	if first == 0 {
		return 0, errs.ErrVarintTooLong
	}

	w := 1
	for mask := uint8(0x80); mask != 0 && first&mask == 0; mask >>= 1 {
		w++
	}
	if w > 8 {
		return 0, errs.ErrVarintTooLong
	}

	value := uint64(first) &^ (uint64(1) << uint(8-w))
	for range w - 1 {
		b, err := src.ReadUint8()
		if err != nil {
			return 0, err
		}
		value = value<<8 | uint64(b)
	}

	return value, nil
}
