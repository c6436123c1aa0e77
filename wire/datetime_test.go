package wire_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyncd/zyncd/wire"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1999, time.December, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2026, time.August, 1, 12, 30, 45, 0, time.UTC),
	}

	for _, want := range cases {
		p := wire.Pack(want)
		got, err := wire.Unpack(p)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "want %v got %v", want, got)
	}
}

func TestUnpackInvalidSecond(t *testing.T) {
	p := wire.Pack(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	// force seconds field to 60, out of range
	var v uint64
	for i := range p {
		v |= uint64(p[i]) << (8 * uint(i))
	}
	v &^= 0x3f << 2
	v |= 60 << 2
	for i := range p {
		p[i] = byte(v >> (8 * uint(i)))
	}

	_, err := wire.Unpack(p)
	require.Error(t, err)
}

func TestPackEpochUnpackEpoch(t *testing.T) {
	secs := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC).Unix()
	got, err := wire.UnpackEpoch(wire.PackEpoch(secs))
	require.NoError(t, err)
	assert.Equal(t, secs, got)
}
