package dnsmsg

import (
	"github.com/arloliu/binschema/endian"
	"github.com/arloliu/binschema/fieldctx"
	"github.com/arloliu/binschema/schema"
)

// DNS record types and classes used by the fixtures this package's
// tests exercise; RFC 1035 §3.2 defines the full tables.
const (
	TypeA   = 1
	ClassIN = 1
)

// flagsCodec presents the 16-bit header flags word as named sub-fields,
// offsets counted from the low bit of the packed integer.
var flagsCodec = schema.Bitfield(16, []schema.BitfieldSpec{
	{Name: "rcode", Offset: 0, Size: 4},
	{Name: "z", Offset: 4, Size: 3},
	{Name: "ra", Offset: 7, Size: 1},
	{Name: "rd", Offset: 8, Size: 1},
	{Name: "tc", Offset: 9, Size: 1},
	{Name: "aa", Offset: 10, Size: 1},
	{Name: "opcode", Offset: 11, Size: 4},
	{Name: "qr", Offset: 15, Size: 1},
})

// questionCodec is one entry of the question section: a name plus its
// queried type and class.
var questionCodec = schema.Sequence([]schema.FieldSpec{
	{Name: "qname", Codec: Name},
	{Name: "qtype", Codec: schema.Uint16(endian.BigEndian)},
	{Name: "qclass", Codec: schema.Uint16(endian.BigEndian)},
})

// resourceRecordCodec is one entry of the answer/authority/additional
// sections: a name, type, class, TTL, and a byte-length-prefixed RDATA
// blob (the length prefix is the wire's RDLENGTH field).
var resourceRecordCodec = schema.Sequence([]schema.FieldSpec{
	{Name: "name", Codec: Name},
	{Name: "type", Codec: schema.Uint16(endian.BigEndian)},
	{Name: "class", Codec: schema.Uint16(endian.BigEndian)},
	{Name: "ttl", Codec: schema.Uint32(endian.BigEndian)},
	{Name: "rdata", Codec: schema.ByteLengthPrefixedArray("rdata", schema.Uint8(), schema.Uint16(endian.BigEndian))},
})

// Message is a full DNS message: a 12-byte header (ID, flags, and four
// record counts, each computed from the section it counts) followed by
// the question, answer, authority, and additional sections.
var Message = schema.Sequence([]schema.FieldSpec{
	{Name: "id", Codec: schema.Uint16(endian.BigEndian)},
	{Name: "flags", Codec: flagsCodec},
	{Name: "qdcount", Codec: schema.Computed(schema.Uint16(endian.BigEndian), schema.LengthOf("questions"))},
	{Name: "ancount", Codec: schema.Computed(schema.Uint16(endian.BigEndian), schema.LengthOf("answers"))},
	{Name: "nscount", Codec: schema.Computed(schema.Uint16(endian.BigEndian), schema.LengthOf("authorities"))},
	{Name: "arcount", Codec: schema.Computed(schema.Uint16(endian.BigEndian), schema.LengthOf("additionals"))},
	{Name: "questions", Codec: schema.FieldReferencedArray("questions", questionCodec, "qdcount")},
	{Name: "answers", Codec: schema.FieldReferencedArray("answers", resourceRecordCodec, "ancount")},
	{Name: "authorities", Codec: schema.FieldReferencedArray("authorities", resourceRecordCodec, "nscount")},
	{Name: "additionals", Codec: schema.FieldReferencedArray("additionals", resourceRecordCodec, "arcount")},
})

// QuestionValue builds the record shape questionCodec expects.
func QuestionValue(qname fieldctx.Value, qtype, qclass uint16) fieldctx.Value {
	return fieldctx.NewRecord(map[string]fieldctx.Value{
		"qname":  qname,
		"qtype":  fieldctx.NewU16(qtype),
		"qclass": fieldctx.NewU16(qclass),
	})
}

// ResourceRecordValue builds the record shape resourceRecordCodec
// expects, rdata given as a raw byte slice (e.g. a 4-byte A record
// address).
func ResourceRecordValue(name fieldctx.Value, typ, class uint16, ttl uint32, rdata []byte) fieldctx.Value {
	elements := make([]fieldctx.Value, len(rdata))
	for i, b := range rdata {
		elements[i] = fieldctx.NewU8(b)
	}

	return fieldctx.NewRecord(map[string]fieldctx.Value{
		"name":  name,
		"type":  fieldctx.NewU16(typ),
		"class": fieldctx.NewU16(class),
		"ttl":   fieldctx.NewU32(ttl),
		"rdata": schema.NewArrayValue(elements),
	})
}

// FlagsValue builds the record shape flagsCodec expects from all eight
// flag fields.
func FlagsValue(qr, opcode, aa, tc, rd, ra, z, rcode uint64) fieldctx.Value {
	return fieldctx.NewRecord(map[string]fieldctx.Value{
		"qr":     fieldctx.NewU64(qr),
		"opcode": fieldctx.NewU64(opcode),
		"aa":     fieldctx.NewU64(aa),
		"tc":     fieldctx.NewU64(tc),
		"rd":     fieldctx.NewU64(rd),
		"ra":     fieldctx.NewU64(ra),
		"z":      fieldctx.NewU64(z),
		"rcode":  fieldctx.NewU64(rcode),
	})
}

// MessageValue builds the record shape Message expects. Header counts
// are computed fields and must not be supplied.
func MessageValue(id uint16, flags, questions, answers, authorities, additionals fieldctx.Value) fieldctx.Value {
	return fieldctx.NewRecord(map[string]fieldctx.Value{
		"id":          fieldctx.NewU16(id),
		"flags":       flags,
		"questions":   questions,
		"answers":     answers,
		"authorities": authorities,
		"additionals": additionals,
	})
}
