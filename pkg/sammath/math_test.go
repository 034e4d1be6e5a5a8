package sammath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		x, y, z  uint64
		expected int64
	}{
		{"exact", 10, 6, 3, 20},
		{"truncates", 10, 10, 3, 33},
		{"truncates_toward_zero", 7, 1, 2, 3},
		{"zero_numerator", 0, 100, 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := MulDiv(Big(tt.x), Big(tt.y), Big(tt.z))
			require.Equal(t, tt.expected, res.Int64())
		})
	}
}

func TestMulDivCeil(t *testing.T) {
	tests := []struct {
		name     string
		x, y, z  uint64
		expected int64
	}{
		{"exact", 10, 6, 3, 20},
		{"rounds_up", 10, 10, 3, 34},
		{"rounds_up_by_one", 7, 1, 2, 4},
		{"zero_numerator", 0, 100, 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := MulDivCeil(Big(tt.x), Big(tt.y), Big(tt.z))
			require.Equal(t, tt.expected, res.Int64())
		})
	}
}

func TestMulDivCeilNeverBelowMulDiv(t *testing.T) {
	for x := uint64(1); x < 50; x++ {
		for z := uint64(1); z < 9; z++ {
			floor := MulDiv(Big(x), Big(7), Big(z))
			ceil := MulDivCeil(Big(x), Big(7), Big(z))
			require.True(t, ceil.Cmp(floor) >= 0)
			diff := new(big.Int).Sub(ceil, floor)
			require.True(t, diff.Int64() <= 1)
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		x, y     uint64
		expected int64
	}{
		{"whole_reserve", 10000, 10000, 1000000},
		{"small_fraction", 10, 10000, 1000},
		{"truncated", 1, 3, 333333},
		{"zero_denominator", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Ratio(tt.x, tt.y).Int64())
		})
	}
}

func TestUint64(t *testing.T) {
	require.Equal(t, uint64(42), Uint64(big.NewInt(42)))
	require.Equal(t, uint64(0), Uint64(big.NewInt(0)))
	require.Equal(t, uint64(0), Uint64(big.NewInt(-7)))
}

func TestDecRatio(t *testing.T) {
	require.True(t, DecRatio(1, 0).IsZero())
	require.Equal(t, "0.5", DecRatio(1, 2).String())
}
