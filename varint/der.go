package varint

import "github.com/arloliu/binschema/errs"

// EncodeDER writes value using ASN.1 DER length-of-length framing: values
// under 128 emit as a single byte; larger values emit 0x80|N followed by N
// big-endian minimal-width bytes.
func EncodeDER(value uint64) []byte {
	if value < 0x80 {
		return []byte{byte(value)}
	}

	var tmp [8]byte
	n := 0
	for v := value; v > 0; v >>= 8 {
		tmp[n] = byte(v)
		n++
	}

	out := make([]byte, n+1)
	out[0] = 0x80 | byte(n)
	for i := range n {
		out[i+1] = tmp[n-1-i]
	}

	return out
}

// DecodeDER reads a DER-framed varint from src.
func DecodeDER(src ByteSource) (uint64, error) {
	first, err := src.ReadUint8()
	if err != nil {
		return 0, err
	}

	if first < 0x80 {
		return uint64(first), nil
	}

	n := int(first &^ 0x80)
	if n > 8 {
		return 0, errs.ErrVarintTooLong
	}

	var value uint64
	for range n {
		b, err := src.ReadUint8()
		if err != nil {
			return 0, err
		}
		value = value<<8 | uint64(b)
	}

	return value, nil
}
