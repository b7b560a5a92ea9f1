package schema

import (
	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/errs"
	"github.com/arloliu/binschema/fieldctx"
)

// ArrayKind selects one of the six array termination rules.
type ArrayKind int

const (
	// ArrayFixed reads/writes exactly N items.
	ArrayFixed ArrayKind = iota
	// ArrayLengthPrefixed precedes items with a count encoded via
	// LengthCodec.
	ArrayLengthPrefixed
	// ArrayFieldReferenced takes its count from a named peer field
	// already present in the enclosing sequence's in-progress record.
	ArrayFieldReferenced
	// ArrayByteLengthPrefixed precedes items with a byte-span length;
	// decode reads items until that many bytes have been consumed.
	ArrayByteLengthPrefixed
	// ArrayTerminated reads items until Terminator reports the stream
	// (or the most recently decoded item) signals the end.
	ArrayTerminated
	// ArrayComputedCount derives its count by evaluating CountExpr
	// against the enclosing sequence's in-progress record.
	ArrayComputedCount
)

// Terminator decides, after decoding one item, whether an
// ArrayTerminated array should stop. It also gets a chance to peek
// before decoding the next item (for the null/signature-terminated
// style, where a marker value precedes and is consumed instead of
// belonging to the item sequence).
type Terminator struct {
	// PeekStop, when non-nil, is consulted before each item decode. If
	// it reports true, the terminator bytes are consumed (via Consume)
	// and the array stops without decoding another item. Models
	// null_terminated / signature_terminated arrays.
	PeekStop func(r *bitstream.Reader) (bool, error)
	// Consume reads and discards the terminator bytes PeekStop detected.
	Consume func(r *bitstream.Reader) error
	// ItemIsTerminal, when non-nil, is consulted after decoding each
	// item. If it reports true, the array stops without consuming any
	// further terminator bytes. Models variant_terminated arrays, where
	// the last item's own variant tag signals finality.
	ItemIsTerminal func(item fieldctx.Value) bool
}

// arrayCodec implements every array kind over a single Item Codec.
type arrayCodec struct {
	kind ArrayKind
	// name identifies this array for position tracking and
	// corresponding<Type> array-iteration correlation (spec's
	// "{array_name}_{type_name}" position-tracker keys).
	name string
	item Codec

	// ArrayFixed
	count int

	// ArrayLengthPrefixed / ArrayByteLengthPrefixed
	lengthCodec Codec

	// ArrayFieldReferenced
	countField string

	// ArrayTerminated
	terminator Terminator

	// ArrayComputedCount
	countExpr Expr
}

// FixedArray builds an array of exactly count items. name identifies it
// for position tracking / corresponding<Type> correlation.
func FixedArray(name string, item Codec, count int) Codec {
	return arrayCodec{kind: ArrayFixed, name: name, item: item, count: count}
}

// LengthPrefixedArray builds an array preceded by an item count encoded
// with lengthCodec (e.g. Uint16(endian.BigEndian)).
func LengthPrefixedArray(name string, item Codec, lengthCodec Codec) Codec {
	return arrayCodec{kind: ArrayLengthPrefixed, name: name, item: item, lengthCodec: lengthCodec}
}

// FieldReferencedArray builds an array whose item count is read from the
// named sibling field of the enclosing sequence's in-progress record.
func FieldReferencedArray(name string, item Codec, countField string) Codec {
	return arrayCodec{kind: ArrayFieldReferenced, name: name, item: item, countField: countField}
}

// ByteLengthPrefixedArray builds an array preceded by a byte-span length
// encoded with lengthCodec; decode reads items until that many bytes of
// input have been consumed.
func ByteLengthPrefixedArray(name string, item Codec, lengthCodec Codec) Codec {
	return arrayCodec{kind: ArrayByteLengthPrefixed, name: name, item: item, lengthCodec: lengthCodec}
}

// TerminatedArray builds an array that reads items until term signals
// completion (null/signature/variant-terminated styles).
func TerminatedArray(name string, item Codec, term Terminator) Codec {
	return arrayCodec{kind: ArrayTerminated, name: name, item: item, terminator: term}
}

// ComputedCountArray builds an array whose item count is evaluated from
// countExpr against the enclosing sequence's in-progress record.
func ComputedCountArray(name string, item Codec, countExpr Expr) Codec {
	return arrayCodec{kind: ArrayComputedCount, name: name, item: item, countExpr: countExpr}
}

// arrays are represented as fieldctx.Value via NewItems with a sentinel
// type name, since fieldctx.Value has no bare-slice variant.
const arrayItemTypeName = "__element__"

// NewArrayValue wraps a slice of already-built element values as the
// fieldctx.Value an arrayCodec consumes/produces.
func NewArrayValue(elements []fieldctx.Value) fieldctx.Value {
	items := make([]fieldctx.Item, len(elements))
	for i, el := range elements {
		items[i] = fieldctx.Item{
			TypeName: arrayItemTypeName,
			Fields:   map[string]fieldctx.Value{"value": el},
		}
	}

	return fieldctx.NewItems(items)
}

// ArrayElements extracts the element slice from a Value built by
// NewArrayValue or returned by an arrayCodec's Decode.
func ArrayElements(v fieldctx.Value) ([]fieldctx.Value, bool) {
	if v.Kind() != fieldctx.KindItems {
		return nil, false
	}

	n := v.Len()
	out := make([]fieldctx.Value, 0, n)
	for i := range n {
		item, ok := v.NthItemOfType(arrayItemTypeName, i)
		if !ok {
			break
		}
		out = append(out, item.Fields["value"])
	}

	return out, true
}

func (c arrayCodec) Encode(w *bitstream.Writer, ctx *fieldctx.Context, v fieldctx.Value) error {
	elements, ok := ArrayElements(v)
	if !ok {
		return errs.NewInvalidValue("expected array value")
	}

	switch c.kind {
	case ArrayFixed:
		if len(elements) != c.count {
			return errs.NewInvalidValue("expected %d array items, got %d", c.count, len(elements))
		}
	case ArrayLengthPrefixed:
		if err := c.lengthCodec.Encode(w, ctx, fieldctx.NewU64(uint64(len(elements)))); err != nil {
			return err
		}
	case ArrayByteLengthPrefixed:
		// The byte span is only known after encoding the items, so
		// encode into a scratch writer first and splice the result.
		scratch := bitstream.NewWriter(bitstream.WithBitOrder(w.BitOrder()))
		scratchCtx := ctx.WithBaseOffset(ctx.BaseOffset() + w.ByteOffset())
		for i, el := range elements {
			scratchCtx.SetArrayIteration(c.name, i)
			if err := c.item.Encode(scratch, scratchCtx, el); err != nil {
				return err
			}
		}
		payload := scratch.Finish()
		if err := c.lengthCodec.Encode(w, ctx, fieldctx.NewU64(uint64(len(payload)))); err != nil {
			return err
		}

		return w.WriteBytes(payload)
	case ArrayFieldReferenced, ArrayComputedCount:
		// Count is derived from sibling data already on the wire or in
		// the record; nothing additional to emit here.
	case ArrayTerminated:
		// Nothing precedes a terminated array; termination is encoded
		// implicitly by the item sequence itself (callers supply items
		// already including any terminal-variant marker).
	}

	if c.kind != ArrayByteLengthPrefixed {
		for i, el := range elements {
			ctx.SetArrayIteration(c.name, i)
			if err := c.item.Encode(w, ctx, el); err != nil {
				return errs.WrapEncode("[]", err)
			}
		}
	}

	return nil
}

func (c arrayCodec) Decode(r *bitstream.Reader, ctx *fieldctx.Context) (fieldctx.Value, error) {
	switch c.kind {
	case ArrayFixed:
		return c.decodeN(r, ctx, c.count)

	case ArrayLengthPrefixed:
		n, err := c.lengthCodec.Decode(r, ctx)
		if err != nil {
			return fieldctx.Value{}, err
		}
		count, _ := n.AsUint64()

		return c.decodeN(r, ctx, int(count))

	case ArrayFieldReferenced:
		v, ok := ctx.CurrentFrame()[c.countField]
		if !ok {
			v, ok = ctx.FindParentField(c.countField)
		}
		if !ok {
			return fieldctx.Value{}, errs.ErrMissingField
		}
		count, _ := v.AsUint64()

		return c.decodeN(r, ctx, int(count))

	case ArrayComputedCount:
		v, err := c.countExpr.Eval(ctx, ctx.CurrentFrame())
		if err != nil {
			return fieldctx.Value{}, err
		}
		count, _ := v.AsUint64()

		return c.decodeN(r, ctx, int(count))

	case ArrayByteLengthPrefixed:
		n, err := c.lengthCodec.Decode(r, ctx)
		if err != nil {
			return fieldctx.Value{}, err
		}
		span, _ := n.AsUint64()
		stop := r.Position() + int(span)

		var elements []fieldctx.Value
		for i := 0; r.Position() < stop; i++ {
			ctx.SetArrayIteration(c.name, i)
			el, err := c.item.Decode(r, ctx)
			if err != nil {
				return fieldctx.Value{}, err
			}
			elements = append(elements, el)
		}

		return NewArrayValue(elements), nil

	case ArrayTerminated:
		var elements []fieldctx.Value
		for i := 0; ; i++ {
			if c.terminator.PeekStop != nil {
				stop, err := c.terminator.PeekStop(r)
				if err != nil {
					return fieldctx.Value{}, err
				}
				if stop {
					if c.terminator.Consume != nil {
						if err := c.terminator.Consume(r); err != nil {
							return fieldctx.Value{}, err
						}
					}

					break
				}
			}

			ctx.SetArrayIteration(c.name, i)
			el, err := c.item.Decode(r, ctx)
			if err != nil {
				return fieldctx.Value{}, err
			}
			elements = append(elements, el)

			if c.terminator.ItemIsTerminal != nil && c.terminator.ItemIsTerminal(el) {
				break
			}
		}

		return NewArrayValue(elements), nil
	}

	return fieldctx.Value{}, errs.NewInvalidValue("unknown array kind")
}

func (c arrayCodec) decodeN(r *bitstream.Reader, ctx *fieldctx.Context, n int) (fieldctx.Value, error) {
	elements := make([]fieldctx.Value, 0, n)
	for i := range n {
		ctx.SetArrayIteration(c.name, i)
		el, err := c.item.Decode(r, ctx)
		if err != nil {
			return fieldctx.Value{}, err
		}
		elements = append(elements, el)
	}

	return NewArrayValue(elements), nil
}
