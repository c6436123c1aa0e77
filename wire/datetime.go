package wire

import (
	"fmt"
	"time"

	"github.com/zyncd/zyncd/zyncerr"
)

// PackedDateTime is the device's 5-byte bit-packed date-time encoding.
// Read as a single 40-bit little-endian integer, the fields are, from the
// least-significant bit up: 2 unused bits, seconds (6 bits, 0..59),
// minutes (6 bits, 0..59), hour (5 bits, 0..23), day-of-month (5 bits,
// 1..31), month (4 bits, 1..12), year-since-1900 (12 bits). All values
// are UTC; no local time zone ever participates in encode or decode.
type PackedDateTime [5]byte

// Pack encodes t, which must be UTC-normalized by the caller's intent
// (Pack itself converts via t.UTC()), into a PackedDateTime.
func Pack(t time.Time) PackedDateTime {
	u := t.UTC()
	year, month, day := u.Date()
	hour, minute, second := u.Clock()

	var v uint64
	v |= uint64(second&0x3f) << 2
	v |= uint64(minute&0x3f) << 8
	v |= uint64(hour&0x1f) << 14
	v |= uint64(day&0x1f) << 19
	v |= uint64(month&0x0f) << 24
	v |= uint64((year-1900)&0x0fff) << 28

	var p PackedDateTime
	for i := range p {
		p[i] = byte(v >> (8 * uint(i)))
	}
	return p
}

// Unpack decodes p into a UTC time.Time. It returns ErrInvalidDateTime
// when any field lies outside its valid range.
func Unpack(p PackedDateTime) (time.Time, error) {
	var v uint64
	for i := range p {
		v |= uint64(p[i]) << (8 * uint(i))
	}

	second := int((v >> 2) & 0x3f)
	minute := int((v >> 8) & 0x3f)
	hour := int((v >> 14) & 0x1f)
	day := int((v >> 19) & 0x1f)
	month := int((v >> 24) & 0x0f)
	year := int((v>>28)&0x0fff) + 1900

	switch {
	case second > 59:
		return time.Time{}, fmt.Errorf("%w: second %d out of range", zyncerr.ErrInvalidDateTime, second)
	case minute > 59:
		return time.Time{}, fmt.Errorf("%w: minute %d out of range", zyncerr.ErrInvalidDateTime, minute)
	case hour > 23:
		return time.Time{}, fmt.Errorf("%w: hour %d out of range", zyncerr.ErrInvalidDateTime, hour)
	case day < 1 || day > 31:
		return time.Time{}, fmt.Errorf("%w: day %d out of range", zyncerr.ErrInvalidDateTime, day)
	case month < 1 || month > 12:
		return time.Time{}, fmt.Errorf("%w: month %d out of range", zyncerr.ErrInvalidDateTime, month)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

// PackEpoch and UnpackEpoch convert between Unix epoch seconds and the
// wire encoding, the form record fields and message payloads use.
func PackEpoch(secs int64) PackedDateTime {
	return Pack(time.Unix(secs, 0))
}

// UnpackEpoch decodes p into Unix epoch seconds.
func UnpackEpoch(p PackedDateTime) (int64, error) {
	t, err := Unpack(p)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
