package record

import (
	"github.com/zyncd/zyncd/schema"
)

// Schedule type values for Calendar.ScheduleType.
const (
	ScheduleNormal uint8 = 0
	ScheduleAllDay uint8 = 1
)

// Repeat type values for Calendar.RepeatType.
const (
	RepeatDaily         uint8 = 0
	RepeatWeekly        uint8 = 1
	RepeatMonthlyByDay  uint8 = 2
	RepeatMonthlyByDate uint8 = 3
	RepeatYearly        uint8 = 4
	RepeatNone          uint8 = 0xff
)

// Weekday bitmask values for Calendar.RepeatDate.
const (
	RepeatMon uint8 = 0x01
	RepeatTue uint8 = 0x02
	RepeatWed uint8 = 0x04
	RepeatThu uint8 = 0x08
	RepeatFri uint8 = 0x10
	RepeatSat uint8 = 0x20
	RepeatSun uint8 = 0x40
)

// Calendar is a calendar event record (§3.1).
type Calendar struct {
	Base

	Description           string
	Location               string
	Notes                  string
	StartTime              int64
	EndTime                int64
	ScheduleType           uint8
	Alarm                  uint8
	AlarmSetting           uint8
	AlarmTime              uint16
	RepeatType             uint8
	RepeatPeriod           uint16
	RepeatPosition         uint16
	RepeatDate             uint8
	RepeatEndDateSetting   uint8
	RepeatEndDate          int64
	AllDayStartDate        int64
	AllDayEndDate          int64
	MultipleDaysFlag       uint8
}

func (c *Calendar) Common() *Base { return &c.Base }
func (c *Calendar) Kind() Kind    { return KindCalendar }

// DecodeCalendar reads a Calendar's fields from tape against s. REDT is
// only interpreted when a preceding REND field reported 1; either way
// the tape cursor advances over it, per §4.F.
func DecodeCalendar(s schema.Schema, tape []byte) (*Calendar, error) {
	r := schema.NewReader(s, tape)
	c := &Calendar{}
	for !r.Done() {
		f, err := r.Next()
		if err != nil {
			return nil, err
		}
		abbrev := f.Descriptor.String()
		if applyCommonField(&c.Base, abbrev, f) {
			continue
		}
		switch abbrev {
		case "DSRP":
			c.Description = f.String()
		case "PLCE":
			c.Location = f.String()
		case "MEM1":
			c.Notes = f.String()
		case "TIM1", "TLM1":
			c.StartTime = readOptionalTime(f)
		case "TIM2", "TLM2":
			c.EndTime = readOptionalTime(f)
		case "ADAY":
			c.ScheduleType = uint8(f.Uint())
		case "ARON":
			c.Alarm = uint8(f.Uint())
		case "ARSD":
			c.AlarmSetting = uint8(f.Uint())
		case "ARMN":
			c.AlarmTime = uint16(f.Uint())
		case "RTYP":
			c.RepeatType = uint8(f.Uint())
		case "RFRQ":
			c.RepeatPeriod = uint16(f.Uint())
		case "RPOS":
			c.RepeatPosition = uint16(f.Uint())
		case "RDYS":
			c.RepeatDate = uint8(f.Uint())
		case "REND":
			c.RepeatEndDateSetting = uint8(f.Uint())
		case "REDT":
			if c.RepeatEndDateSetting == 1 {
				c.RepeatEndDate = readOptionalTime(f)
			}
		case "ALSD":
			c.AllDayStartDate = readOptionalTime(f)
		case "ALED":
			c.AllDayEndDate = readOptionalTime(f)
		case "MDAY":
			c.MultipleDaysFlag = uint8(f.Uint())
		}
	}
	return c, nil
}

// EncodeCalendar writes c's fields as tape against s.
func EncodeCalendar(c *Calendar, s schema.Schema) []byte {
	w := schema.NewWriter()
	for _, d := range s.Descriptors {
		abbrev := d.String()
		if writeCommonField(&c.Base, abbrev, w) {
			continue
		}
		switch abbrev {
		case "DSRP":
			w.WriteString(c.Description)
		case "PLCE":
			w.WriteString(c.Location)
		case "MEM1":
			w.WriteString(c.Notes)
		case "TIM1", "TLM1":
			writeOptionalTime(w, c.StartTime)
		case "TIM2", "TLM2":
			writeOptionalTime(w, c.EndTime)
		case "ADAY":
			w.WriteUint(uint64(c.ScheduleType), 1)
		case "ARON":
			w.WriteUint(uint64(c.Alarm), 1)
		case "ARSD":
			w.WriteUint(uint64(c.AlarmSetting), 1)
		case "ARMN":
			w.WriteUint(uint64(c.AlarmTime), 2)
		case "RTYP":
			w.WriteUint(uint64(c.RepeatType), 1)
		case "RFRQ":
			w.WriteUint(uint64(c.RepeatPeriod), 2)
		case "RPOS":
			w.WriteUint(uint64(c.RepeatPosition), 2)
		case "RDYS":
			w.WriteUint(uint64(c.RepeatDate), 1)
		case "REND":
			w.WriteUint(uint64(c.RepeatEndDateSetting), 1)
		case "REDT":
			if c.RepeatEndDateSetting == 1 {
				writeOptionalTime(w, c.RepeatEndDate)
			} else {
				w.WriteAbsent()
			}
		case "ALSD":
			writeOptionalTime(w, c.AllDayStartDate)
		case "ALED":
			writeOptionalTime(w, c.AllDayEndDate)
		case "MDAY":
			w.WriteUint(uint64(c.MultipleDaysFlag), 1)
		default:
			w.WriteAbsent()
		}
	}
	return w.Bytes()
}
