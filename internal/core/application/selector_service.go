package application

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/samm-network/samm-daemon/internal/core/domain"
	"github.com/samm-network/samm-daemon/pkg/feecurve"
	"github.com/samm-network/samm-daemon/pkg/sammath"
)

// SelectorService implements the two shard selection policies: cheapest
// shard for an exact-output swap and smallest shard for a liquidity deposit.
type SelectorService interface {
	// GetBestShard returns the active shard requiring the minimum input for
	// the desired output, with ties broken by lowest shard id so quotes are
	// reproducible for a given snapshot.
	GetBestShard(
		ctx context.Context,
		tokenIn, tokenOut domain.Token, amountOut uint64,
	) (*BestShardReply, error)
	// GetSmallestShards returns the pair's active shards sorted by
	// ascending reserve metric. Shards with equal metrics are ordered
	// uniformly at random; depositing into the first entry implements the
	// fillup strategy. When referenceToken is set the metric is that
	// token's reserve instead of the reserve sum.
	GetSmallestShards(
		ctx context.Context,
		tokenA, tokenB domain.Token, referenceToken *domain.Token,
	) ([]domain.Shard, error)
}

type selectorService struct {
	registrySvc RegistryService

	rngMtx *sync.Mutex
	rng    *rand.Rand
}

// NewSelectorService returns a selector on top of the given registry. The
// random source drives only the smallest-shard tie-break and is injected so
// tests can seed it.
func NewSelectorService(
	registrySvc RegistryService, rng *rand.Rand,
) SelectorService {
	return &selectorService{
		registrySvc: registrySvc,
		rngMtx:      &sync.Mutex{},
		rng:         rng,
	}
}

func (s *selectorService) GetBestShard(
	ctx context.Context,
	tokenIn, tokenOut domain.Token, amountOut uint64,
) (*BestShardReply, error) {
	if amountOut == 0 {
		return nil, ErrInvalidAmount
	}
	if tokenIn.Equals(tokenOut) {
		return nil, ErrSameToken
	}
	pair, err := domain.NewPair(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}

	shards, err := s.registrySvc.GetShardsForPair(ctx, pair)
	if err != nil {
		if err == ErrNoShardsForPair {
			return nil, ErrNoLiquidity
		}
		return nil, err
	}

	candidates := make([]domain.Shard, 0, len(shards))
	for _, shard := range shards {
		if !shard.IsActive() {
			continue
		}
		_, dest, err := shard.ReservesFor(tokenIn)
		if err != nil || amountOut >= dest {
			continue
		}
		candidates = append(candidates, shard)
	}
	if len(candidates) == 0 {
		return nil, ErrNoLiquidity
	}

	quotes := make([]ShardQuote, 0, len(candidates))
	for _, shard := range candidates {
		quote, err := quoteShard(shard, tokenIn, amountOut)
		if err != nil {
			log.Debugf(
				"selector: quote failed for shard %s: %v", shard.Id, err,
			)
			continue
		}
		quotes = append(quotes, *quote)
	}
	if len(quotes) == 0 {
		return nil, ErrAllQuotesFailed
	}

	// Candidates come sorted by ascending id, so a strict comparison keeps
	// the lowest id on ties.
	best := quotes[0]
	for _, quote := range quotes[1:] {
		if quote.AmountIn < best.AmountIn {
			best = quote
		}
	}

	return &BestShardReply{Best: best, AllShards: quotes}, nil
}

func (s *selectorService) GetSmallestShards(
	ctx context.Context,
	tokenA, tokenB domain.Token, referenceToken *domain.Token,
) ([]domain.Shard, error) {
	pair, err := domain.NewPair(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	if referenceToken != nil && !pair.Contains(*referenceToken) {
		return nil, domain.ErrTokenNotInPair
	}

	shards, err := s.registrySvc.GetShardsForPair(ctx, pair)
	if err != nil {
		if err == ErrNoShardsForPair {
			return nil, ErrNoLiquidity
		}
		return nil, err
	}

	active := make([]domain.Shard, 0, len(shards))
	for _, shard := range shards {
		if shard.IsActive() {
			active = append(active, shard)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoLiquidity
	}

	metric := func(shard domain.Shard) uint64 {
		if referenceToken != nil {
			reserve, _ := shard.ReserveOf(*referenceToken)
			return reserve
		}
		return shard.ReserveSum()
	}

	// Shuffle before the stable sort so shards with equal metrics end up
	// in uniformly random relative order. Spreads deposits evenly across
	// equally small shards.
	s.rngMtx.Lock()
	s.rng.Shuffle(len(active), func(i, j int) {
		active[i], active[j] = active[j], active[i]
	})
	s.rngMtx.Unlock()

	sort.SliceStable(active, func(i, j int) bool {
		return metric(active[i]) < metric(active[j])
	})
	return active, nil
}

// quoteShard runs the exact-output curve math for one shard and derives the
// quote's price impact against the pre-trade spot price.
func quoteShard(
	shard domain.Shard, tokenIn domain.Token, amountOut uint64,
) (*ShardQuote, error) {
	opts, err := shard.SwapOpts(tokenIn)
	if err != nil {
		return nil, err
	}
	res, err := feecurve.ExactOutputSwap(amountOut, opts)
	if err != nil {
		return nil, err
	}

	spot, err := shard.SpotPrice(tokenIn)
	if err != nil {
		return nil, err
	}
	execPrice := sammath.Dec(res.AmountIn).Div(sammath.Dec(res.AmountOut))
	impact := execPrice.Div(spot).Sub(decimal.NewFromInt(1))
	if impact.IsNegative() {
		impact = decimal.Zero
	}

	return &ShardQuote{
		Shard:       shard,
		AmountIn:    res.AmountIn,
		AmountOut:   res.AmountOut,
		TradeFee:    res.TradeFee,
		OwnerFee:    res.OwnerFee,
		PriceImpact: impact,
	}, nil
}
