package record_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyncd/zyncd/record"
	"github.com/zyncd/zyncd/schema"
)

func todoSchema() schema.Schema {
	mk := func(abbrev string, typeID byte) schema.Descriptor {
		var a [4]byte
		copy(a[:], abbrev)
		return schema.Descriptor{Abbrev: a, TypeID: typeID}
	}
	return schema.Schema{Descriptors: []schema.Descriptor{
		mk("ATTR", schema.TypeBit),
		mk("CTTM", schema.TypeTime),
		mk("MDTM", schema.TypeTime),
		mk("SYID", schema.TypeULong),
		mk("CTGR", schema.TypeBArray),
		mk("TITL", schema.TypeUTF8),
		mk("MEM1", schema.TypeUTF8),
		mk("MARK", schema.TypeUChar),
		mk("PRTY", schema.TypeUChar),
		mk("ETDY", schema.TypeTime),
		mk("LTDY", schema.TypeTime),
		mk("FNDY", schema.TypeTime),
	}}
}

func TestTodoEncodeDecodeRoundTrip(t *testing.T) {
	s := todoSchema()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC).Unix()

	want := &record.Todo{
		Base: record.Base{
			SyncID:       42,
			Attribute:    0x07,
			CreatedTime:  now,
			ModifiedTime: now,
			Category:     "work",
		},
		Description:    "Write spec",
		Notes:          "finish by Friday",
		ProgressStatus: 1,
		Priority:       2,
		StartDate:      now,
		DueDate:        now,
	}

	tape := record.EncodeTodo(want, s)
	got, err := record.DecodeTodo(s, tape)
	require.NoError(t, err)

	assert.Equal(t, want.SyncID, got.SyncID)
	assert.Equal(t, want.Attribute, got.Attribute)
	assert.Equal(t, want.Category, got.Category)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Notes, got.Notes)
	assert.Equal(t, want.ProgressStatus, got.ProgressStatus)
	assert.Equal(t, want.Priority, got.Priority)
	assert.Equal(t, want.StartDate, got.StartDate)
	assert.Equal(t, want.DueDate, got.DueDate)
	assert.Zero(t, got.CompletedDate)
}

func TestTodoKindAndCommon(t *testing.T) {
	var r record.Record = &record.Todo{}
	assert.Equal(t, record.KindTodo, r.Kind())
	assert.NotNil(t, r.Common())
}

func calendarSchemaWithRepeatEnd() schema.Schema {
	mk := func(abbrev string, typeID byte) schema.Descriptor {
		var a [4]byte
		copy(a[:], abbrev)
		return schema.Descriptor{Abbrev: a, TypeID: typeID}
	}
	return schema.Schema{Descriptors: []schema.Descriptor{
		mk("REND", schema.TypeUChar),
		mk("REDT", schema.TypeTime),
	}}
}

func TestCalendarRepeatEndDateOnlyPopulatedWhenSettingIsOne(t *testing.T) {
	s := calendarSchemaWithRepeatEnd()
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

	off := &record.Calendar{RepeatEndDateSetting: 0, RepeatEndDate: end}
	tape := record.EncodeCalendar(off, s)
	gotOff, err := record.DecodeCalendar(s, tape)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), gotOff.RepeatEndDateSetting)
	assert.Zero(t, gotOff.RepeatEndDate, "REDT must not be populated when REND=0")

	on := &record.Calendar{RepeatEndDateSetting: 1, RepeatEndDate: end}
	tape = record.EncodeCalendar(on, s)
	gotOn, err := record.DecodeCalendar(s, tape)
	require.NoError(t, err)
	assert.Equal(t, end, gotOn.RepeatEndDate)
}

func TestAddressEncodeDecodeRoundTrip(t *testing.T) {
	mk := func(abbrev string) schema.Descriptor {
		var a [4]byte
		copy(a[:], abbrev)
		return schema.Descriptor{Abbrev: a, TypeID: schema.TypeUTF8}
	}
	s := schema.Schema{Descriptors: []schema.Descriptor{
		mk("LNAM"), mk("FNAM"), mk("EML1"), mk("PHWK"),
	}}

	want := &record.Address{
		LastName:  "Ritchie",
		FirstName: "Dennis",
		Email1:    "dmr@example.com",
		PhoneWork: "555-0100",
	}
	tape := record.EncodeAddress(want, s)
	got, err := record.DecodeAddress(s, tape)
	require.NoError(t, err)
	assert.Equal(t, want.LastName, got.LastName)
	assert.Equal(t, want.FirstName, got.FirstName)
	assert.Equal(t, want.Email1, got.Email1)
	assert.Equal(t, want.PhoneWork, got.PhoneWork)
}

func TestAddressSupplementedFieldsRoundTrip(t *testing.T) {
	mk := func(abbrev string) schema.Descriptor {
		var a [4]byte
		copy(a[:], abbrev)
		return schema.Descriptor{Abbrev: a, TypeID: schema.TypeUTF8}
	}
	s := schema.Schema{Descriptors: []schema.Descriptor{
		mk("FULN"), mk("NICK"), mk("BDAY"), mk("CELL"), mk("GRUP"),
	}}

	want := &record.Address{
		FullName: "Dennis Ritchie",
		Nickname: "dmr",
		Birthday: "1941-09-09",
		Cellular: "555-0199",
		Group:    "colleagues",
	}
	tape := record.EncodeAddress(want, s)
	got, err := record.DecodeAddress(s, tape)
	require.NoError(t, err)
	assert.Equal(t, want.FullName, got.FullName)
	assert.Equal(t, want.Nickname, got.Nickname)
	assert.Equal(t, want.Birthday, got.Birthday)
	assert.Equal(t, want.Cellular, got.Cellular)
	assert.Equal(t, want.Group, got.Group)
}

func TestOpaqueAbbreviationRoundTripsAsAbsent(t *testing.T) {
	var a [4]byte
	copy(a[:], "ZZZZ")
	s := schema.Schema{Descriptors: []schema.Descriptor{{Abbrev: a, TypeID: schema.TypeUTF8}}}

	tape := record.EncodeTodo(&record.Todo{}, s)
	_, err := record.DecodeTodo(s, tape)
	require.NoError(t, err)
}
