package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/endian"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

// backRefCodec implements DNS-style message compression: a field is
// either an inline encoding of target, or a fixed-width token whose low
// bits are an absolute byte offset to an earlier equivalent occurrence.
// tagMask/tagValue identify the token on the wire (DNS: top two bits of
// the first byte, 0xC000/0xC000 masked against a 16-bit token);
// offsetMask isolates the offset once the tag bits are stripped.
type backRefCodec struct {
	target      Codec
	storageBits int // 16 for DNS-style 2-byte tokens
	tagMask     uint64
	tagValue    uint64
	offsetMask  uint64
}

// BackReference builds a back-reference codec over target, using a
// storageBits-wide big-endian token, tagMask/tagValue to recognize a
// reference token (vs. inline data) in the token's high bits, and
// offsetMask to isolate the absolute offset from the remaining bits.
// DNS compression pointers use BackReference(target, 16, 0xC000, 0xC000,
// 0x3FFF).
func BackReference(target Codec, storageBits int, tagMask, tagValue, offsetMask uint64) Codec {
	return backRefCodec{
		target:      target,
		storageBits: storageBits,
		tagMask:     tagMask,
		tagValue:    tagValue,
		offsetMask:  offsetMask,
	}
}

func (c backRefCodec) writeToken(w *bitstream.Writer, offset uint64) error {
	token := c.tagValue | (offset & c.offsetMask)
	switch c.storageBits {
	case 16:
		w.WriteUint16(uint16(token), endian.BigEndian)
	case 32:
		w.WriteUint32(uint32(token), endian.BigEndian)
	default:
		return errs.NewInvalidValue("unsupported back-reference storage width %d", c.storageBits)
	}

	return nil
}

func (c backRefCodec) peekToken(r *bitstream.Reader) (uint64, bool, error) {
	switch c.storageBits {
	case 16:
		v, err := r.PeekUint16(endian.BigEndian)
		if err != nil {
			return 0, false, err
		}

		return uint64(v), uint64(v)&c.tagMask == c.tagValue, nil
	case 32:
		v, err := r.PeekUint32(endian.BigEndian)
		if err != nil {
			return 0, false, err
		}

		return uint64(v), uint64(v)&c.tagMask == c.tagValue, nil
	default:
		return 0, false, errs.NewInvalidValue("unsupported back-reference storage width %d", c.storageBits)
	}
}

func (c backRefCodec) Encode(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error {
	ctx.EnsureCompressionDict()

	scratch := bitstream.NewWriter(bitstream.WithBitOrder(w.BitOrder()))
	if err := c.target.Encode(scratch, ctx.WithBaseOffset(ctx.BaseOffset()+w.ByteOffset()), v); err != nil {
		return err
	}
	payload := scratch.Finish()

	if offset, ok := ctx.CompressionDict().Lookup(payload); ok {
		return c.writeToken(w, uint64(offset))
	}

	absOffset := ctx.BaseOffset() + w.ByteOffset()
	ctx.CompressionDict().Record(payload, absOffset)

	return w.WriteBytes(payload)
}

func (c backRefCodec) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	tokenPos := r.Position()

	token, isRef, err := c.peekToken(r)
	if err != nil {
		return fieldctx.Value{}, err
	}

	if !isRef {
		return c.target.Decode(r, ctx)
	}

	offset := int(token & c.offsetMask)
	if offset >= tokenPos {
		return fieldctx.Value{}, errs.WrapDecode(tokenPos, errs.ErrBackReferenceLoop)
	}

	switch c.storageBits {
	case 16:
		if _, err := r.ReadUint16(endian.BigEndian); err != nil {
			return fieldctx.Value{}, err
		}
	case 32:
		if _, err := r.ReadUint32(endian.BigEndian); err != nil {
			return fieldctx.Value{}, err
		}
	}

	resumePos := r.Position()

	if err := r.Seek(offset); err != nil {
		return fieldctx.Value{}, err
	}

	target, err := c.target.Decode(r, ctx)
	if err != nil {
		return fieldctx.Value{}, err
	}

	if err := r.Seek(resumePos); err != nil {
		return fieldctx.Value{}, err
	}

	return target, nil
}
