package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"10.00", 1000},
		{"12.99", 1299},
		{"0.1", 10},
		{"0", 0},
		{"19.999", 2000}, // rounded, never truncated
	}
	for _, tc := range cases {
		cents, err := ParsePrice(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.cents, cents, tc.in)
	}

	for _, bad := range []string{"", "abc", "-1", "-0.01", "NaN", "Inf"} {
		_, err := ParsePrice(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "25.00", FormatCents(2500))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "12.99", FormatCents(1299))
}

func TestProductPriceDisplay(t *testing.T) {
	p := Product{PriceCents: 1299}
	assert.Equal(t, 12.99, p.Price())
}
