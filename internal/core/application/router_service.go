package application

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/samm-network/samm-daemon/internal/core/domain"
	"github.com/samm-network/samm-daemon/pkg/feecurve"
	"github.com/samm-network/samm-daemon/pkg/sammath"
)

// RouterService discovers and ranks multi-hop paths across the token graph.
type RouterService interface {
	DiscoverPaths(
		ctx context.Context, req DiscoverPathsRequest,
	) (*DiscoverPathsReply, error)
}

type routerService struct {
	registrySvc RegistryService
	selectorSvc SelectorService

	defaultMaxHops int
	quoteTTL       time.Duration
	scoreTolerance decimal.Decimal
}

// NewRouterService ...
func NewRouterService(
	registrySvc RegistryService, selectorSvc SelectorService,
	defaultMaxHops int, quoteTTL time.Duration,
	scoreTolerance decimal.Decimal,
) RouterService {
	return &routerService{
		registrySvc:    registrySvc,
		selectorSvc:    selectorSvc,
		defaultMaxHops: defaultMaxHops,
		quoteTTL:       quoteTTL,
		scoreTolerance: scoreTolerance,
	}
}

func (s *routerService) DiscoverPaths(
	ctx context.Context, req DiscoverPathsRequest,
) (*DiscoverPathsReply, error) {
	if req.DesiredOutput == 0 {
		return nil, ErrInvalidAmount
	}
	if req.TokenIn.Equals(req.TokenOut) {
		return nil, ErrSameToken
	}
	maxHops := req.MaxHops
	if maxHops == 0 {
		maxHops = s.defaultMaxHops
	}
	if maxHops < 1 {
		return nil, ErrInvalidMaxHops
	}

	start := time.Now()

	graph, err := s.registrySvc.TokenGraph(ctx)
	if err != nil {
		return nil, err
	}

	sequences := enumerateTokenSequences(graph, req.TokenIn, req.TokenOut, maxHops)

	var (
		paths           []domain.Path
		pathsEvaluated  int
		poolsConsidered int
	)
	for _, seq := range sequences {
		pathsEvaluated++
		pathsEvaluatedCounter.Inc()

		path, pools, err := s.buildPath(ctx, seq, req.DesiredOutput)
		poolsConsidered += pools
		if err != nil {
			pathsDiscardedCounter.Inc()
			log.Debugf(
				"router: discarded candidate %s -> %s (%d hops): %v",
				req.TokenIn, req.TokenOut, len(seq)-1, err,
			)
			continue
		}
		if !req.SlippageTolerance.IsZero() &&
			path.TotalPriceImpact().GreaterThan(req.SlippageTolerance) {
			pathsDiscardedCounter.Inc()
			continue
		}
		path.EfficiencyScore = efficiencyScore(path)
		paths = append(paths, *path)
	}

	if len(paths) == 0 {
		return nil, ErrNoPathFound
	}

	s.sortPaths(paths)

	best := paths[0]
	quote := domain.NewQuote(best, s.quoteTTL)
	quotesIssuedCounter.Inc()

	return &DiscoverPathsReply{
		Paths:    paths,
		BestPath: &best,
		Quote:    quote,
		Metadata: SearchMetadata{
			PathsEvaluated:  pathsEvaluated,
			PoolsConsidered: poolsConsidered,
			SearchTimeMs:    time.Since(start).Milliseconds(),
		},
	}, nil
}

// buildPath computes per-hop amounts for one token sequence by working
// backward from the desired final output: each hop's required input becomes
// the previous hop's desired output. Every hop must pass the chosen shard's
// c-threshold.
func (s *routerService) buildPath(
	ctx context.Context, seq []domain.Token, desiredOutput uint64,
) (*domain.Path, int, error) {
	var (
		poolsConsidered = 0
		required        = desiredOutput
		backward        = make([]domain.Hop, 0, len(seq)-1)
	)

	for i := len(seq) - 1; i > 0; i-- {
		hopIn, hopOut := seq[i-1], seq[i]

		reply, err := s.selectorSvc.GetBestShard(ctx, hopIn, hopOut, required)
		if err != nil {
			return nil, poolsConsidered, err
		}
		poolsConsidered += len(reply.AllShards)

		best := reply.Best
		source, _, err := best.Shard.ReservesFor(hopIn)
		if err != nil {
			return nil, poolsConsidered, err
		}
		if !feecurve.CThresholdValid(required, source, best.Shard.Curve.C) {
			return nil, poolsConsidered, feecurve.ErrAmountTooBig
		}

		backward = append(backward, domain.Hop{
			ShardId:           best.Shard.Id,
			TokenIn:           hopIn,
			TokenOut:          hopOut,
			ExpectedAmountIn:  best.AmountIn,
			ExpectedAmountOut: best.AmountOut,
			EstimatedFee:      best.TradeFee + best.OwnerFee,
			PriceImpact:       best.PriceImpact,
		})
		required = best.AmountIn
	}

	forward := make([]domain.Hop, len(backward))
	for i, hop := range backward {
		forward[len(backward)-1-i] = hop
	}
	path, err := domain.NewPath(forward)
	if err != nil {
		return nil, poolsConsidered, err
	}
	return path, poolsConsidered, nil
}

// sortPaths orders paths by descending efficiency score. Paths whose scores
// differ by no more than the tolerance are ordered by ascending hop count
// instead, so a marginally better long route never beats a short one.
func (s *routerService) sortPaths(paths []domain.Path) {
	sort.SliceStable(paths, func(i, j int) bool {
		diff := paths[i].EfficiencyScore.Sub(paths[j].EfficiencyScore)
		if diff.Abs().LessThanOrEqual(s.scoreTolerance) {
			return paths[i].HopCount() < paths[j].HopCount()
		}
		return diff.IsPositive()
	})
}

var scoreBase = decimal.NewFromInt(100)

// efficiencyScore ranks a path: monotonically decreasing in the path's fee
// fraction, total price impact and hop count.
func efficiencyScore(path *domain.Path) decimal.Decimal {
	feeFraction := decimal.Zero
	if path.TotalAmountIn > 0 {
		feeFraction = sammath.DecRatio(path.TotalFees, path.TotalAmountIn)
	}
	penalty := decimal.NewFromInt(int64(path.HopCount() - 1))
	return scoreBase.
		Div(decimal.NewFromInt(1).Add(feeFraction).Add(path.TotalPriceImpact())).
		Sub(penalty)
}

// enumerateTokenSequences lists every simple token sequence from tokenIn to
// tokenOut with at most maxHops edges, shortest first.
func enumerateTokenSequences(
	graph map[string][]domain.Token,
	tokenIn, tokenOut domain.Token, maxHops int,
) [][]domain.Token {
	var (
		results [][]domain.Token
		queue   = [][]domain.Token{{tokenIn}}
	)
	for len(queue) > 0 {
		seq := queue[0]
		queue = queue[1:]

		last := seq[len(seq)-1]
		for _, neighbor := range graph[last.String()] {
			if containsToken(seq, neighbor) {
				continue
			}
			next := make([]domain.Token, len(seq), len(seq)+1)
			copy(next, seq)
			next = append(next, neighbor)

			if neighbor.Equals(tokenOut) {
				results = append(results, next)
				continue
			}
			if len(next)-1 < maxHops {
				queue = append(queue, next)
			}
		}
	}
	return results
}

func containsToken(seq []domain.Token, token domain.Token) bool {
	for _, t := range seq {
		if t.Equals(token) {
			return true
		}
	}
	return false
}
