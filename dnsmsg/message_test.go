package dnsmsg

import (
	"testing"

	"github.com/arloliu/binschema/bitstream"
	"github.com/arloliu/binschema/fieldctx"
	"github.com/arloliu/binschema/schema"
	"github.com/stretchr/testify/require"
)

func emptyQuestions() fieldctx.Value { return schema.NewArrayValue(nil) }

func TestQueryMessageEncodesTo29Bytes(t *testing.T) {
	qname := NameValue("example", "com")
	questions := schema.NewArrayValue([]fieldctx.Value{
		QuestionValue(qname, TypeA, ClassIN),
	})

	msg := MessageValue(
		0x1234,
		FlagsValue(0, 0, 0, 0, 1, 0, 0, 0),
		questions,
		emptyQuestions(),
		emptyQuestions(),
		emptyQuestions(),
	)

	ctx := fieldctx.New()
	ctx.EnsureCompressionDict()
	w := bitstream.NewWriter()
	require.NoError(t, Message.Encode(w, ctx, msg))
	data := w.Finish()

	want := []byte{
		0x12, 0x34, // ID
		0x01, 0x00, // flags: RD=1
		0x00, 0x01, // QDCOUNT
		0x00, 0x00, // ANCOUNT
		0x00, 0x00, // NSCOUNT
		0x00, 0x00, // ARCOUNT
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		0x03, 'c', 'o', 'm',
		0x00,       // qname terminator
		0x00, 0x01, // QTYPE A
		0x00, 0x01, // QCLASS IN
	}

	require.Equal(t, want, data)
	require.Len(t, data, 29)
}

func TestQueryMessageDecodesExpectedFields(t *testing.T) {
	data := []byte{
		0x12, 0x34,
		0x01, 0x00,
		0x00, 0x01,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		0x03, 'c', 'o', 'm',
		0x00,
		0x00, 0x01,
		0x00, 0x01,
	}

	r := bitstream.NewReader(data)
	out, err := Message.Decode(r, fieldctx.New())
	require.NoError(t, err)

	rec, ok := out.AsRecord()
	require.True(t, ok)

	id, _ := rec["id"].AsUint64()
	require.Equal(t, uint64(0x1234), id)

	qdcount, _ := rec["qdcount"].AsUint64()
	require.Equal(t, uint64(1), qdcount)
	ancount, _ := rec["ancount"].AsUint64()
	require.Equal(t, uint64(0), ancount)

	questions, ok := schema.ArrayElements(rec["questions"])
	require.True(t, ok)
	require.Len(t, questions, 1)

	qrec, _ := questions[0].AsRecord()
	require.Equal(t, []string{"example", "com"}, NameLabels(qrec["qname"]))
}

func TestResponseMessageWithBackReferenceEncodesTo45BytesWithPointer(t *testing.T) {
	qname := NameValue("example", "com")
	questions := schema.NewArrayValue([]fieldctx.Value{
		QuestionValue(qname, TypeA, ClassIN),
	})
	answers := schema.NewArrayValue([]fieldctx.Value{
		ResourceRecordValue(qname, TypeA, ClassIN, 60, []byte{5, 6, 7, 8}),
	})

	msg := MessageValue(
		0x1234,
		FlagsValue(1, 0, 0, 0, 1, 1, 0, 0),
		questions,
		answers,
		emptyQuestions(),
		emptyQuestions(),
	)

	ctx := fieldctx.New()
	ctx.EnsureCompressionDict()
	w := bitstream.NewWriter()
	require.NoError(t, Message.Encode(w, ctx, msg))
	data := w.Finish()

	require.Len(t, data, 45)

	// The answer's NAME is a 2-byte pointer at offset 29 (header +
	// question) back to offset 12 (the question's qname).
	require.Equal(t, []byte{0xC0, 0x0C}, data[29:31])
}

func TestResponseMessageDecodeResolvesBackReferencedName(t *testing.T) {
	// Same 45-byte layout as the encode test above, built by hand.
	data := []byte{
		0x12, 0x34, // ID
		0x81, 0x00, // flags: QR=1, RD=1
		0x00, 0x01, // QDCOUNT
		0x00, 0x01, // ANCOUNT
		0x00, 0x00, // NSCOUNT
		0x00, 0x00, // ARCOUNT
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e', // qname @ offset 12
		0x03, 'c', 'o', 'm',
		0x00,
		0x00, 0x01, // QTYPE
		0x00, 0x01, // QCLASS
		0xC0, 0x0C, // answer NAME: pointer to offset 12
		0x00, 0x01, // TYPE
		0x00, 0x01, // CLASS
		0x00, 0x00, 0x00, 0x3C, // TTL = 60
		0x00, 0x04, // RDLENGTH
		5, 6, 7, 8, // RDATA
	}
	require.Len(t, data, 45)

	r := bitstream.NewReader(data)
	out, err := Message.Decode(r, fieldctx.New())
	require.NoError(t, err)

	rec, _ := out.AsRecord()
	answers, ok := schema.ArrayElements(rec["answers"])
	require.True(t, ok)
	require.Len(t, answers, 1)

	arec, _ := answers[0].AsRecord()
	require.Equal(t, []string{"example", "com"}, NameLabels(arec["name"]))

	ttl, _ := arec["ttl"].AsUint64()
	require.Equal(t, uint64(60), ttl)

	rdata, ok := schema.ArrayElements(arec["rdata"])
	require.True(t, ok)
	require.Len(t, rdata, 4)
}
