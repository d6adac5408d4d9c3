package eghl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		minor int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{9950, "99.50"},
		{123456789, "1234567.89"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatAmount(tc.minor))
	}
}

func TestAmountRoundTrip(t *testing.T) {
	for _, minor := range []int64{0, 1, 5, 99, 100, 101, 9950, 10000, 999999999} {
		got, err := ParseAmount(FormatAmount(minor))
		require.NoError(t, err)
		assert.Equal(t, minor, got)
	}
}

func TestAmountRoundTripExhaustiveLow(t *testing.T) {
	for minor := int64(0); minor < 10000; minor++ {
		got, err := ParseAmount(FormatAmount(minor))
		require.NoError(t, err)
		require.Equal(t, minor, got)
	}
}

func TestParseAmountRejectsBadFormats(t *testing.T) {
	for _, raw := range []string{"", "99.5", "99.500", "99", ".50", "99.50.00", "-1.00", "1,00", "abc", "1.0a"} {
		_, err := ParseAmount(raw)
		assert.Error(t, err, "input %q", raw)
	}
}
