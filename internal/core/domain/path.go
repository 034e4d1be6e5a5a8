package domain

import (
	"github.com/shopspring/decimal"
)

// Hop is one shard traversal within a path.
type Hop struct {
	ShardId           string
	TokenIn           Token
	TokenOut          Token
	ExpectedAmountIn  uint64
	ExpectedAmountOut uint64
	EstimatedFee      uint64
	// PriceImpact is the fractional deviation of the execution price from
	// the shard's pre-trade spot price.
	PriceImpact decimal.Decimal
	HopIndex    int
}

// Path is an ordered sequence of hops connecting an overall input token to an
// output token. Aggregates are derived once at construction.
type Path struct {
	Hops            []Hop
	TotalAmountIn   uint64
	FinalAmountOut  uint64
	TotalFees       uint64
	EfficiencyScore decimal.Decimal
	EstimatedGas    uint64
}

// gasPerHop is a flat per-hop gas estimate used for path ranking metadata.
const gasPerHop = 120000

// NewPath builds a path from the given hops, validating connectivity and
// deriving the aggregate amounts. The first hop's input is the path's total
// input and the last hop's output is the path's final output.
func NewPath(hops []Hop) (*Path, error) {
	if len(hops) == 0 {
		return nil, ErrPathEmpty
	}
	totalFees := uint64(0)
	for i := range hops {
		hops[i].HopIndex = i
		totalFees += hops[i].EstimatedFee
		if i == 0 {
			continue
		}
		if !hops[i-1].TokenOut.Equals(hops[i].TokenIn) {
			return nil, ErrPathDisconnected
		}
	}

	return &Path{
		Hops:           hops,
		TotalAmountIn:  hops[0].ExpectedAmountIn,
		FinalAmountOut: hops[len(hops)-1].ExpectedAmountOut,
		TotalFees:      totalFees,
		EstimatedGas:   uint64(gasPerHop * len(hops)),
	}, nil
}

// TokenIn returns the path's overall input token.
func (p *Path) TokenIn() Token {
	return p.Hops[0].TokenIn
}

// TokenOut returns the path's overall output token.
func (p *Path) TokenOut() Token {
	return p.Hops[len(p.Hops)-1].TokenOut
}

// HopCount ...
func (p *Path) HopCount() int {
	return len(p.Hops)
}

// TotalPriceImpact returns the sum of the per-hop price impacts.
func (p *Path) TotalPriceImpact() decimal.Decimal {
	impact := decimal.Zero
	for _, hop := range p.Hops {
		impact = impact.Add(hop.PriceImpact)
	}
	return impact
}

// Validate re-checks the path invariants. Useful on paths received from
// callers rather than built by the router.
func (p *Path) Validate() error {
	if len(p.Hops) == 0 {
		return ErrPathEmpty
	}
	for i := 1; i < len(p.Hops); i++ {
		if !p.Hops[i-1].TokenOut.Equals(p.Hops[i].TokenIn) {
			return ErrPathDisconnected
		}
	}
	return nil
}
