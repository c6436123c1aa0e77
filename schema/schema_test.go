package schema_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyncd/zyncd/catalog"
	"github.com/zyncd/zyncd/schema"
	"github.com/zyncd/zyncd/zyncerr"
)

func twoFieldSchema() schema.Schema {
	return schema.Schema{
		Descriptors: []schema.Descriptor{
			{Abbrev: [4]byte{'A', 'T', 'T', 'R'}, TypeID: schema.TypeBit, Description: "attribute"},
			{Abbrev: [4]byte{'T', 'I', 'T', 'L'}, TypeID: schema.TypeUTF8, Description: "title"},
		},
	}
}

func TestReaderMatchesSpecExample(t *testing.T) {
	// 01 00 00 00 07  05 00 00 00 "hello!" truncated to 5 bytes "hello"
	payload := []byte{0x01, 0x00, 0x00, 0x00, 0x07, 0x05, 0x00, 0x00, 0x00, 'h', 'e', 'l', 'l', 'o'}
	r := schema.NewReader(twoFieldSchema(), payload)

	attr, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x07), attr.Uint())

	title, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "hello", title.String())
	assert.True(t, r.Done())
}

func TestReaderTruncatedLengthIsProtocolViolation(t *testing.T) {
	payload := []byte{0x01, 0x00, 0x00, 0x00, 0x07, 0x05, 0x00, 0x00, 0x00}
	// second field claims 5 bytes but only 0 remain
	r := schema.NewReader(twoFieldSchema(), payload)
	_, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, zyncerr.ErrProtocolViolation)
}

func TestWriterReaderRoundTrip(t *testing.T) {
	s := twoFieldSchema()
	w := schema.NewWriter()
	w.WriteUint(7, 1)
	w.WriteString("hello!")

	r := schema.NewReader(s, w.Bytes())
	fields, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), fields["ATTR"].Uint())
	assert.Equal(t, "hello!", fields["TITL"].String())
}

func TestWriteAbsentStillAdvancesCursor(t *testing.T) {
	s := schema.Schema{Descriptors: []schema.Descriptor{
		{Abbrev: [4]byte{'R', 'E', 'N', 'D'}, TypeID: schema.TypeUChar},
		{Abbrev: [4]byte{'R', 'E', 'D', 'T'}, TypeID: schema.TypeTime},
	}}
	w := schema.NewWriter()
	w.WriteUint(0, 1)
	w.WriteAbsent()

	r := schema.NewReader(s, w.Bytes())
	rend, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rend.Uint())

	redt, err := r.Next()
	require.NoError(t, err)
	assert.False(t, redt.Present())
	assert.True(t, r.Done())
}

func TestSchemaFromMessageRoundTrip(t *testing.T) {
	msg := catalog.SchemaMsg{
		CardCount:    3,
		Abbrevs:      [][4]byte{{'A', 'T', 'T', 'R'}},
		TypeIDs:      []byte{schema.TypeBit},
		Descriptions: []string{"attribute"},
	}
	s, err := schema.FromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, msg, s.ToMessage())
}

func TestCacheGetPut(t *testing.T) {
	c, err := schema.NewCache()
	require.NoError(t, err)

	_, ok := c.Get("zaurus-sl-c1000", catalog.KindTodo)
	assert.False(t, ok)

	want := twoFieldSchema()
	c.Put("zaurus-sl-c1000", catalog.KindTodo, want)

	got, ok := c.Get("zaurus-sl-c1000", catalog.KindTodo)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCacheDistinguishesDevices(t *testing.T) {
	c, err := schema.NewCache()
	require.NoError(t, err)

	c.Put("zaurus-sl-c1000", catalog.KindTodo, twoFieldSchema())

	_, ok := c.Get("zaurus-sl-c760", catalog.KindTodo)
	assert.False(t, ok)
}

func TestTimeFieldRoundTrip(t *testing.T) {
	s := schema.Schema{Descriptors: []schema.Descriptor{
		{Abbrev: [4]byte{'C', 'T', 'T', 'M'}, TypeID: schema.TypeTime},
	}}
	want := time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)

	w := schema.NewWriter()
	w.WriteTime(want)

	r := schema.NewReader(s, w.Bytes())
	f, err := r.Next()
	require.NoError(t, err)
	got, err := f.Time()
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}
