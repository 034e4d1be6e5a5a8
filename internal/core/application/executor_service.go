package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/samm-network/samm-daemon/internal/core/domain"
	"github.com/samm-network/samm-daemon/internal/core/ports"
	"github.com/samm-network/samm-daemon/pkg/sammath"
)

// ExecutorService coordinates the sequential execution of a quoted path.
//
// The returned ExecutionResult is always non-nil for a well-formed request.
// Validation failures settle the attempt before any hop call, with the typed
// error also returned so callers can branch on it; a hop failure is a
// reported outcome, not an error: the result carries the failing hop index
// and cause, and the hops completed before it so callers can reconcile
// on-chain state. The coordinator never retries; retrying needs a fresh
// quote.
type ExecutorService interface {
	ExecuteMultiHopSwap(
		ctx context.Context, req ExecuteRequest,
	) (*domain.ExecutionResult, error)
}

type executorService struct {
	registrySvc  RegistryService
	swapExecutor ports.SwapExecutor

	// slippageBuffer widens each hop's maximal input bound over the quoted
	// amount, absorbing reserve drift between quote and execution.
	slippageBuffer decimal.Decimal
}

// NewExecutorService ...
func NewExecutorService(
	registrySvc RegistryService, swapExecutor ports.SwapExecutor,
	slippageBuffer decimal.Decimal,
) ExecutorService {
	return &executorService{
		registrySvc:    registrySvc,
		swapExecutor:   swapExecutor,
		slippageBuffer: slippageBuffer,
	}
}

func (s *executorService) ExecuteMultiHopSwap(
	ctx context.Context, req ExecuteRequest,
) (*domain.ExecutionResult, error) {
	if err := req.Quote.Path.Validate(); err != nil {
		return nil, err
	}

	execution := domain.NewExecution(
		req.Quote, req.UserAddress, req.Recipient,
		req.Deadline, req.MaxSlippage,
	)

	// Shard liveness is checked while still validating so an inactive
	// shard fails the attempt with zero hops attempted.
	for _, hop := range req.Quote.Path.Hops {
		shard, err := s.registrySvc.GetShard(ctx, hop.ShardId)
		if err != nil {
			execution.FailValidation(err.Error())
			executionsCounter.WithLabelValues("validation_failed").Inc()
			return execution.Result(), err
		}
		if !shard.IsActive() {
			execution.FailValidation(domain.ErrShardNotActive.Error())
			executionsCounter.WithLabelValues("validation_failed").Inc()
			return execution.Result(), domain.ErrShardNotActive
		}
	}

	if err := execution.Validate(time.Now()); err != nil {
		executionsCounter.WithLabelValues("validation_failed").Inc()
		return execution.Result(), err
	}

	log.Infof(
		"executor: attempt %s started, %d hops, %s -> %s",
		execution.Id, req.Quote.Path.HopCount(),
		req.Quote.Path.TokenIn(), req.Quote.Path.TokenOut(),
	)

	for _, hop := range req.Quote.Path.Hops {
		receipt, err := s.swapExecutor.ExecuteHop(ctx, ports.HopCall{
			ShardId:         hop.ShardId,
			AmountOut:       hop.ExpectedAmountOut,
			MaximalAmountIn: s.maximalAmountIn(hop.ExpectedAmountIn),
			TokenIn:         hop.TokenIn.String(),
			TokenOut:        hop.TokenOut.String(),
			Recipient:       req.Recipient,
		})
		if err != nil {
			log.Warnf(
				"executor: attempt %s failed at hop %d: %v",
				execution.Id, hop.HopIndex, err,
			)
			execution.FailHop(err.Error())
			executionsCounter.WithLabelValues("hop_failed").Inc()
			return execution.Result(), nil
		}

		if err := execution.CompleteHop(domain.HopResult{
			HopIndex:  hop.HopIndex,
			ShardId:   hop.ShardId,
			AmountIn:  receipt.AmountIn,
			AmountOut: receipt.AmountOut,
			Fee:       receipt.Fee,
		}); err != nil {
			return nil, err
		}
	}

	if err := execution.Succeed(); err != nil {
		return nil, err
	}
	executionsCounter.WithLabelValues("succeeded").Inc()

	res := execution.Result()
	log.Infof(
		"executor: attempt %s succeeded, in=%d out=%d fees=%d",
		execution.Id, res.AmountIn, res.AmountOut, res.TotalFees,
	)
	return res, nil
}

func (s *executorService) maximalAmountIn(expected uint64) uint64 {
	maximal := sammath.Dec(expected).
		Mul(decimal.NewFromInt(1).Add(s.slippageBuffer))
	return uint64(maximal.IntPart())
}
