// Package feecurve implements the SAMM bounded-ratio fee curve and the
// exact-output constant-product swap math for a single shard.
//
// Every function here is pure and total over its documented domain. The
// arithmetic mirrors the on-chain integer pipeline: all intermediate values
// are big.Int, divisions truncate toward zero, and the multiply/divide
// ordering is fixed. Changing the ordering changes rounding and breaks
// on-chain equivalence.
package feecurve

import (
	"errors"
	"math/big"

	"github.com/samm-network/samm-daemon/pkg/sammath"
)

// maxFeeMultiplier caps the adaptive rate at this multiple of the shard's
// base trade-fee rate. Beyond the cap the curve falls back to RMin.
const maxFeeMultiplier = 5

var (
	// ErrAmountTooLow ...
	ErrAmountTooLow = errors.New("provided amount is too low")
	// ErrAmountTooBig is returned when the desired output would drain the shard.
	ErrAmountTooBig = errors.New("provided amount is too big")
	// ErrBalanceTooLow ...
	ErrBalanceTooLow = errors.New("reserve balance amount is too low")
	// ErrInvalidFee ...
	ErrInvalidFee = errors.New("fee fraction is not valid")
)

// CurveOpts holds the per-shard fee curve parameters, all scaled by 1e6.
type CurveOpts struct {
	// Beta1 is the (negative) slope of the adaptive fee polynomial.
	Beta1 int64
	// RMin is the minimal fee rate.
	RMin uint64
	// RMax is the zero-size-trade fee rate.
	RMax uint64
	// C is the admission threshold: max allowed output/reserve ratio.
	C uint64
}

// FeeOpts holds the shard's trade and owner fee fractions.
type FeeOpts struct {
	TradeFeeNum uint64
	TradeFeeDen uint64
	OwnerFeeNum uint64
	OwnerFeeDen uint64
}

// SwapOpts defines the reserves and fees needed to quote an exact-output swap.
type SwapOpts struct {
	SourceReserve uint64
	DestReserve   uint64
	Curve         CurveOpts
	Fees          FeeOpts
}

// SwapResult is the outcome of an exact-output swap quote.
type SwapResult struct {
	AmountIn  uint64
	AmountOut uint64
	TradeFee  uint64
	OwnerFee  uint64
}

// feeRate selects the fee rate (1e6-scaled) for the given output/reserve
// ratio. Pipeline order is part of the contract:
//
//	ratio = OA*1e6/RA            (truncated)
//	tmp   = Beta1*ratio/1e6      (truncated)
//	adaptive = tmp + RMax
//
// The minimal branch activates when the adaptive numerator exceeds
// maxFeeMultiplier times the base trade-fee rate, or falls below RMin.
func feeRate(outputAmount, inputReserve uint64, curve CurveOpts, fees FeeOpts) *big.Int {
	ratio := sammath.Ratio(outputAmount, inputReserve)
	tmp := new(big.Int).Mul(big.NewInt(curve.Beta1), ratio)
	tmp.Quo(tmp, sammath.ScaleBig)

	adaptive := new(big.Int).Add(tmp, sammath.Big(curve.RMax))
	rmin := sammath.Big(curve.RMin)

	if fees.TradeFeeDen > 0 {
		maxFeeNum := sammath.MulDiv(
			sammath.Big(maxFeeMultiplier*fees.TradeFeeNum),
			sammath.ScaleBig,
			sammath.Big(fees.TradeFeeDen),
		)
		if adaptive.Cmp(maxFeeNum) > 0 {
			return rmin
		}
	}
	if adaptive.Cmp(rmin) < 0 {
		return rmin
	}
	return adaptive
}

// FeeForOutput computes the SAMM fee, in input-token units, charged for
// withdrawing outputAmount from a shard with the given reserves:
//
//	fee = (RB*OA/RA) * rate / 1e6
//
// with rate given by the bounded-ratio polynomial. A zero output amount or a
// zero reserve yields a zero fee; this is defined behavior, not an error.
func FeeForOutput(
	outputAmount, outputReserve, inputReserve uint64,
	curve CurveOpts, fees FeeOpts,
) uint64 {
	if outputAmount == 0 || outputReserve == 0 || inputReserve == 0 {
		return 0
	}

	rate := feeRate(outputAmount, inputReserve, curve, fees)

	converted := sammath.MulDiv(
		sammath.Big(outputReserve),
		sammath.Big(outputAmount),
		sammath.Big(inputReserve),
	)
	fee := new(big.Int).Mul(converted, rate)
	fee.Quo(fee, sammath.ScaleBig)
	return sammath.Uint64(fee)
}

// CThresholdValid reports whether the trade passes the shard's admission
// threshold: outputAmount*1e6/inputReserve <= c, upper bound inclusive.
func CThresholdValid(outputAmount, inputReserve uint64, c uint64) bool {
	if outputAmount == 0 {
		return true
	}
	if inputReserve == 0 {
		return false
	}
	ratio := sammath.Ratio(outputAmount, inputReserve)
	return ratio.Cmp(sammath.Big(c)) <= 0
}

// ExactOutputSwap computes the input amount required to withdraw exactly
// outputAmount from the shard. The constant-product adjustment uses ceiling
// division so the invariant after the swap is never below the invariant
// before it; the trade fee and owner fee are added on top of the base amount.
func ExactOutputSwap(outputAmount uint64, opts SwapOpts) (*SwapResult, error) {
	if opts.SourceReserve == 0 || opts.DestReserve == 0 {
		return nil, ErrBalanceTooLow
	}
	if outputAmount == 0 {
		return nil, ErrAmountTooLow
	}
	if outputAmount >= opts.DestReserve {
		return nil, ErrAmountTooBig
	}
	if (opts.Fees.TradeFeeNum > 0 && opts.Fees.TradeFeeDen == 0) ||
		(opts.Fees.OwnerFeeNum > 0 && opts.Fees.OwnerFeeDen == 0) {
		return nil, ErrInvalidFee
	}

	base := sammath.MulDivCeil(
		sammath.Big(opts.SourceReserve),
		sammath.Big(outputAmount),
		sammath.Big(opts.DestReserve-outputAmount),
	)

	tradeFee := FeeForOutput(
		outputAmount, opts.DestReserve, opts.SourceReserve,
		opts.Curve, opts.Fees,
	)

	var ownerFee uint64
	if opts.Fees.OwnerFeeDen > 0 {
		ownerFee = sammath.Uint64(sammath.MulDiv(
			sammath.Big(outputAmount),
			sammath.Big(opts.Fees.OwnerFeeNum),
			sammath.Big(opts.Fees.OwnerFeeDen),
		))
	}

	amountIn := new(big.Int).Add(base, sammath.Big(tradeFee))
	amountIn.Add(amountIn, sammath.Big(ownerFee))

	return &SwapResult{
		AmountIn:  sammath.Uint64(amountIn),
		AmountOut: outputAmount,
		TradeFee:  tradeFee,
		OwnerFee:  ownerFee,
	}, nil
}
