package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/samm-network/samm-daemon/pkg/feecurve"
)

// Shard is one liquidity pool instance among several serving the same token
// pair. Its reserves are a point-in-time snapshot fetched from the chain
// collaborator; the daemon never owns the authoritative value.
type Shard struct {
	// Id is the on-chain address of the pool.
	Id string
	// Pair of tokens served by the shard.
	Pair Pair
	// ReserveA is the reserve of Pair.TokenA, in native token units.
	ReserveA uint64
	// ReserveB is the reserve of Pair.TokenB, in native token units.
	ReserveB uint64
	// Curve parameters of the shard's fee polynomial.
	Curve feecurve.CurveOpts
	// Fees are the shard's trade and owner fee fractions.
	Fees feecurve.FeeOpts
	// Status of the shard.
	Status int
	// AsOf is the time the reserve snapshot was taken.
	AsOf time.Time
}

// NewShard returns an active shard with empty reserves.
func NewShard(
	id string, pair Pair, curve feecurve.CurveOpts, fees feecurve.FeeOpts,
) (*Shard, error) {
	if id == "" {
		return nil, ErrShardInvalidId
	}
	return &Shard{
		Id:     id,
		Pair:   pair,
		Curve:  curve,
		Fees:   fees,
		Status: ShardStatusActive,
	}, nil
}

// IsActive returns true if the shard accepts trades and deposits.
func (s *Shard) IsActive() bool {
	return s.Status == ShardStatusActive
}

// Activate ...
func (s *Shard) Activate() {
	s.Status = ShardStatusActive
}

// Deactivate ...
func (s *Shard) Deactivate() {
	s.Status = ShardStatusInactive
}

// ReserveSum returns the sum of both reserves, the default fillup metric.
func (s *Shard) ReserveSum() uint64 {
	return s.ReserveA + s.ReserveB
}

// ReserveOf returns the reserve of the given token.
func (s *Shard) ReserveOf(t Token) (uint64, error) {
	switch {
	case s.Pair.TokenA.Equals(t):
		return s.ReserveA, nil
	case s.Pair.TokenB.Equals(t):
		return s.ReserveB, nil
	default:
		return 0, ErrTokenNotInPair
	}
}

// ReservesFor returns the source (tokenIn side) and destination reserves for
// a swap entering the shard with the given token.
func (s *Shard) ReservesFor(tokenIn Token) (source, dest uint64, err error) {
	switch {
	case s.Pair.TokenA.Equals(tokenIn):
		return s.ReserveA, s.ReserveB, nil
	case s.Pair.TokenB.Equals(tokenIn):
		return s.ReserveB, s.ReserveA, nil
	default:
		return 0, 0, ErrTokenNotInPair
	}
}

// SpotPrice returns the pre-trade price of one unit of the output token
// expressed in input token units, ie. sourceReserve/destReserve.
func (s *Shard) SpotPrice(tokenIn Token) (decimal.Decimal, error) {
	source, dest, err := s.ReservesFor(tokenIn)
	if err != nil {
		return decimal.Zero, err
	}
	if source == 0 || dest == 0 {
		return decimal.Zero, feecurve.ErrBalanceTooLow
	}
	return decimal.NewFromInt(int64(source)).
		Div(decimal.NewFromInt(int64(dest))), nil
}

// IsStale returns true if the snapshot is older than the given TTL.
func (s *Shard) IsStale(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.AsOf) > ttl
}

// ApplySnapshot updates the shard reserves from a fetched snapshot. Snapshots
// older than the current one are rejected so that a slow fetch cannot rewind
// the reserves behind a feed update.
func (s *Shard) ApplySnapshot(reserveA, reserveB uint64, asOf time.Time) error {
	if asOf.Before(s.AsOf) {
		return ErrShardStaleSnapshot
	}
	s.ReserveA = reserveA
	s.ReserveB = reserveB
	s.AsOf = asOf
	return nil
}

// SwapOpts assembles the curve options for a swap entering with tokenIn.
func (s *Shard) SwapOpts(tokenIn Token) (feecurve.SwapOpts, error) {
	source, dest, err := s.ReservesFor(tokenIn)
	if err != nil {
		return feecurve.SwapOpts{}, err
	}
	return feecurve.SwapOpts{
		SourceReserve: source,
		DestReserve:   dest,
		Curve:         s.Curve,
		Fees:          s.Fees,
	}, nil
}
