package units_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-agent/internal/chain/units"
)

func TestParse(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"0.1", 18, "100000000000000000"},
		{"1", 18, "1000000000000000000"},
		{"1.5", 18, "1500000000000000000"},
		{"0.000000000000000001", 18, "1"},
		{"", 18, "0"},
		{"0", 18, "0"},
		{".5", 18, "500000000000000000"},
		{"2", 6, "2000000"},
		{"123456789.987654321", 18, "123456789987654321000000000"},
	}

	for _, tt := range tests {
		got, err := units.Parse(tt.amount, tt.decimals)
		require.NoError(t, err, tt.amount)
		assert.Equal(t, tt.want, got.String(), tt.amount)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, amount := range []string{"-1", "1.2.3", "abc", "0x10", "0.0000000000000000001"} {
		_, err := units.Parse(amount, 18)
		assert.Error(t, err, amount)
	}
}

func TestFormat(t *testing.T) {
	wei := func(s string) *big.Int {
		v, ok := new(big.Int).SetString(s, 10)
		require.True(t, ok)
		return v
	}

	assert.Equal(t, "0.1", units.Format(wei("100000000000000000"), 18))
	assert.Equal(t, "1", units.Format(wei("1000000000000000000"), 18))
	assert.Equal(t, "1.5", units.Format(wei("1500000000000000000"), 18))
	assert.Equal(t, "0.000000000000000001", units.Format(wei("1"), 18))
	assert.Equal(t, "0", units.Format(big.NewInt(0), 18))
	assert.Equal(t, "0", units.Format(nil, 18))
	assert.Equal(t, "-2.5", units.Format(wei("-2500000"), 6))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, amount := range []string{"0.1", "42", "0.000001", "99999.999999"} {
		parsed, err := units.Parse(amount, 18)
		require.NoError(t, err)
		assert.Equal(t, amount, units.Format(parsed, 18))
	}
}
