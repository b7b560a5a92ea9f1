package varint

import "github.com/arloliu/binschema/errs"

// maxVLQValue is 2^28 - 1, the largest value this package's four-group
// VLQ encoding can represent.
const maxVLQValue = (uint64(1) << 28) - 1

// EncodeVLQ writes value as a MIDI-style variable-length quantity:
// seven-bit groups, high group first, continuation bit set on every byte
// but the last.
func EncodeVLQ(value uint64) ([]byte, error) {
	if value > maxVLQValue {
		return nil, errs.ErrVarintOverflow
	}

	// Build low-group-first, each carrying a continuation bit except
	// the lowest (which is emitted last).
	groups := []byte{byte(value & 0x7F)}
	for value >>= 7; value > 0; value >>= 7 {
		groups = append(groups, byte(value&0x7F)|0x80)
	}

	out := make([]byte, len(groups))
	for i, g := range groups {
		out[len(groups)-1-i] = g
	}

	return out, nil
}

// DecodeVLQ reads a VLQ varint from src, high group first, rejecting
// encodings that would exceed four groups (2^28 - 1).
func DecodeVLQ(src ByteSource) (uint64, error) {
	var value uint64
	for i := 0; ; i++ {
		if i >= 4 {
			return 0, errs.ErrVarintTooLong
		}

		b, err := src.ReadUint8()
		if err != nil {
			return 0, err
		}

		value = value<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			return value, nil
		}
	}
}
