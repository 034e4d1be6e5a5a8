// Package sammath provides the fixed-point integer helpers shared by the
// curve math and the routing services. All on-chain-equivalent arithmetic is
// performed on big.Int with truncating division; decimal.Decimal is only
// used for off-chain comparison math (prices, impact, scores).
package sammath

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Scale is the fixed-point scaling factor used by curve parameters.
var Scale = uint64(1000000)

// ScaleBig is Scale as big.Int.
var ScaleBig = new(big.Int).SetUint64(Scale)

func init() {
	decimal.DivisionPrecision = 12
}

// Big converts a uint64 amount to big.Int.
func Big(x uint64) *big.Int {
	return new(big.Int).SetUint64(x)
}

// MulDiv computes x*y/z with truncating (floor-toward-zero) division,
// matching on-chain integer division. z must not be zero.
func MulDiv(x, y, z *big.Int) *big.Int {
	p := new(big.Int).Mul(x, y)
	return p.Quo(p, z)
}

// MulDivCeil computes ceil(x*y/z). z must not be zero.
func MulDivCeil(x, y, z *big.Int) *big.Int {
	p := new(big.Int).Mul(x, y)
	q, r := new(big.Int).QuoRem(p, z, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// Ratio computes x*Scale/y truncated. Returns 0 when y is zero.
func Ratio(x, y uint64) *big.Int {
	if y == 0 {
		return new(big.Int)
	}
	return MulDiv(Big(x), ScaleBig, Big(y))
}

// Uint64 clamps a non-negative big.Int to uint64. Negative values map to 0.
func Uint64(x *big.Int) uint64 {
	if x.Sign() <= 0 {
		return 0
	}
	return x.Uint64()
}

// Dec converts a uint64 amount to decimal.Decimal.
func Dec(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(Big(x), 0)
}

// DecRatio returns x/y as decimal. Returns zero when y is zero.
func DecRatio(x, y uint64) decimal.Decimal {
	if y == 0 {
		return decimal.Zero
	}
	return Dec(x).Div(Dec(y))
}
