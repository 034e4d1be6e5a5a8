package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samm-network/samm-daemon/internal/core/application"
	"github.com/samm-network/samm-daemon/internal/core/domain"
	"github.com/samm-network/samm-daemon/internal/core/ports"
)

type executorFixture struct {
	tokenA, tokenB, tokenC domain.Token
	shardAB, shardBC       *domain.Shard
	path                   domain.Path
}

func newExecutorFixture(t *testing.T) *executorFixture {
	t.Helper()
	tokenA := newToken(t, "aa")
	tokenB := newToken(t, "bb")
	tokenC := newToken(t, "cc")

	shardAB := newShard(t, shardSpec{
		id: "shard-ab", pair: newPair(t, tokenA, tokenB),
		reserveA: 10000000000, reserveB: 10000000000,
	})
	shardBC := newShard(t, shardSpec{
		id: "shard-bc", pair: newPair(t, tokenB, tokenC),
		reserveA: 10000000000, reserveB: 10000000000,
	})

	path, err := domain.NewPath([]domain.Hop{
		{
			ShardId: "shard-ab", TokenIn: tokenA, TokenOut: tokenB,
			ExpectedAmountIn: 1000000, ExpectedAmountOut: 950000,
			EstimatedFee: 3000,
		},
		{
			ShardId: "shard-bc", TokenIn: tokenB, TokenOut: tokenC,
			ExpectedAmountIn: 950000, ExpectedAmountOut: 900000,
			EstimatedFee: 2800,
		},
	})
	require.NoError(t, err)

	return &executorFixture{
		tokenA: tokenA, tokenB: tokenB, tokenC: tokenC,
		shardAB: shardAB, shardBC: shardBC,
		path: *path,
	}
}

func (f *executorFixture) quote(ttl time.Duration) domain.Quote {
	now := time.Now()
	return domain.Quote{
		Id:        "quote-test",
		Path:      f.path,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (f *executorFixture) request(ttl time.Duration) application.ExecuteRequest {
	return application.ExecuteRequest{
		Quote:       f.quote(ttl),
		UserAddress: "user-address",
		Recipient:   "recipient-address",
		Deadline:    time.Now().Add(time.Minute),
		MaxSlippage: decimal.NewFromFloat(0.05),
	}
}

func newExecutor(
	t *testing.T, f *executorFixture, swapExecutor ports.SwapExecutor,
) application.ExecutorService {
	t.Helper()
	return application.NewExecutorService(
		newRegistry(t, f.shardAB, f.shardBC),
		swapExecutor,
		decimal.NewFromFloat(0.05),
	)
}

func TestExecuteMultiHopSwap(t *testing.T) {
	fixture := newExecutorFixture(t)

	swapExecutor := &mockSwapExecutor{}
	swapExecutor.
		On("ExecuteHop", mock.Anything, ports.HopCall{
			ShardId:   "shard-ab",
			AmountOut: 950000,
			// Quoted input widened by the 5% buffer.
			MaximalAmountIn: 1050000,
			TokenIn:         fixture.tokenA.String(),
			TokenOut:        fixture.tokenB.String(),
			Recipient:       "recipient-address",
		}).
		Return(&ports.HopReceipt{
			AmountIn: 1000100, AmountOut: 950000, Fee: 3000,
		}, nil).
		Once()
	swapExecutor.
		On("ExecuteHop", mock.Anything, ports.HopCall{
			ShardId:         "shard-bc",
			AmountOut:       900000,
			MaximalAmountIn: 997500,
			TokenIn:         fixture.tokenB.String(),
			TokenOut:        fixture.tokenC.String(),
			Recipient:       "recipient-address",
		}).
		Return(&ports.HopReceipt{
			AmountIn: 950000, AmountOut: 899500, Fee: 2800,
		}, nil).
		Once()

	executorSvc := newExecutor(t, fixture, swapExecutor)
	res, err := executorSvc.ExecuteMultiHopSwap(
		context.Background(), fixture.request(time.Minute),
	)
	require.NoError(t, err)
	require.NotNil(t, res)
	swapExecutor.AssertExpectations(t)

	require.True(t, res.Success)
	require.Len(t, res.HopResults, 2)
	require.Equal(t, domain.NoFailedHop, res.FailedHopIndex)
	require.Empty(t, res.FailureReason)
	// Actual amounts come from the receipts, not the quote.
	require.Equal(t, uint64(1000100), res.AmountIn)
	require.Equal(t, uint64(899500), res.AmountOut)
	require.Equal(t, uint64(5800), res.TotalFees)

	for i, hr := range res.HopResults {
		require.Equal(t, i, hr.HopIndex)
		require.Equal(t, fixture.path.Hops[i].ShardId, hr.ShardId)
	}
}

func TestExecuteMultiHopSwapReportsHopFailure(t *testing.T) {
	fixture := newExecutorFixture(t)

	swapExecutor := &mockSwapExecutor{}
	swapExecutor.
		On("ExecuteHop", mock.Anything, mock.MatchedBy(func(c ports.HopCall) bool {
			return c.ShardId == "shard-ab"
		})).
		Return(&ports.HopReceipt{
			AmountIn: 1000100, AmountOut: 950000, Fee: 3000,
		}, nil).
		Once()
	swapExecutor.
		On("ExecuteHop", mock.Anything, mock.MatchedBy(func(c ports.HopCall) bool {
			return c.ShardId == "shard-bc"
		})).
		Return(nil, errors.New("shard reverted")).
		Once()

	executorSvc := newExecutor(t, fixture, swapExecutor)
	res, err := executorSvc.ExecuteMultiHopSwap(
		context.Background(), fixture.request(time.Minute),
	)
	// A mid-path failure is a reported outcome, not a call error.
	require.NoError(t, err)
	require.NotNil(t, res)
	swapExecutor.AssertExpectations(t)

	require.False(t, res.Success)
	require.Equal(t, 1, res.FailedHopIndex)
	require.Equal(t, "shard reverted", res.FailureReason)
	// Only the hop completed before the failure is reported, so callers can
	// reconcile what actually moved.
	require.Len(t, res.HopResults, 1)
	require.Equal(t, "shard-ab", res.HopResults[0].ShardId)
	require.Zero(t, res.AmountIn)
	require.Zero(t, res.AmountOut)
	require.Zero(t, res.TotalFees)
}

func TestExecuteMultiHopSwapValidationFailures(t *testing.T) {
	t.Run("expired_quote", func(t *testing.T) {
		fixture := newExecutorFixture(t)
		swapExecutor := &mockSwapExecutor{}

		executorSvc := newExecutor(t, fixture, swapExecutor)
		res, err := executorSvc.ExecuteMultiHopSwap(
			context.Background(), fixture.request(-time.Second),
		)
		require.EqualError(t, err, domain.ErrQuoteExpired.Error())
		require.NotNil(t, res)
		require.False(t, res.Success)
		require.Empty(t, res.HopResults)
		require.Equal(t, domain.NoFailedHop, res.FailedHopIndex)
		require.Equal(t, domain.ErrQuoteExpired.Error(), res.FailureReason)
		swapExecutor.AssertNotCalled(t, "ExecuteHop", mock.Anything, mock.Anything)
	})

	t.Run("deadline_exceeded", func(t *testing.T) {
		fixture := newExecutorFixture(t)
		swapExecutor := &mockSwapExecutor{}

		req := fixture.request(time.Minute)
		req.Deadline = time.Now().Add(-time.Second)

		executorSvc := newExecutor(t, fixture, swapExecutor)
		res, err := executorSvc.ExecuteMultiHopSwap(context.Background(), req)
		require.EqualError(t, err, domain.ErrDeadlineExceeded.Error())
		require.NotNil(t, res)
		require.False(t, res.Success)
		swapExecutor.AssertNotCalled(t, "ExecuteHop", mock.Anything, mock.Anything)
	})

	t.Run("slippage_exceeded", func(t *testing.T) {
		fixture := newExecutorFixture(t)
		swapExecutor := &mockSwapExecutor{}

		req := fixture.request(time.Minute)
		req.Quote.Path.Hops[0].PriceImpact = decimal.NewFromFloat(0.04)
		req.Quote.Path.Hops[1].PriceImpact = decimal.NewFromFloat(0.04)

		executorSvc := newExecutor(t, fixture, swapExecutor)
		res, err := executorSvc.ExecuteMultiHopSwap(context.Background(), req)
		require.EqualError(t, err, domain.ErrSlippageExceeded.Error())
		require.NotNil(t, res)
		require.False(t, res.Success)
		swapExecutor.AssertNotCalled(t, "ExecuteHop", mock.Anything, mock.Anything)
	})

	t.Run("inactive_shard", func(t *testing.T) {
		fixture := newExecutorFixture(t)
		fixture.shardBC.Deactivate()
		swapExecutor := &mockSwapExecutor{}

		executorSvc := newExecutor(t, fixture, swapExecutor)
		res, err := executorSvc.ExecuteMultiHopSwap(
			context.Background(), fixture.request(time.Minute),
		)
		require.EqualError(t, err, domain.ErrShardNotActive.Error())
		require.NotNil(t, res)
		require.False(t, res.Success)
		require.Equal(t, domain.ErrShardNotActive.Error(), res.FailureReason)
		swapExecutor.AssertNotCalled(t, "ExecuteHop", mock.Anything, mock.Anything)
	})

	t.Run("unknown_shard", func(t *testing.T) {
		fixture := newExecutorFixture(t)
		fixture.path.Hops[1].ShardId = "shard-unknown"
		swapExecutor := &mockSwapExecutor{}

		executorSvc := newExecutor(t, fixture, swapExecutor)
		res, err := executorSvc.ExecuteMultiHopSwap(
			context.Background(), fixture.request(time.Minute),
		)
		require.EqualError(t, err, domain.ErrShardNotFound.Error())
		require.NotNil(t, res)
		require.False(t, res.Success)
		swapExecutor.AssertNotCalled(t, "ExecuteHop", mock.Anything, mock.Anything)
	})
}

func TestExecuteMultiHopSwapRejectsMalformedPath(t *testing.T) {
	fixture := newExecutorFixture(t)
	swapExecutor := &mockSwapExecutor{}

	req := fixture.request(time.Minute)
	// Break the hop chain: the second hop no longer consumes what the first
	// one produces.
	req.Quote.Path.Hops[1].TokenIn = fixture.tokenA

	executorSvc := newExecutor(t, fixture, swapExecutor)
	res, err := executorSvc.ExecuteMultiHopSwap(context.Background(), req)
	require.EqualError(t, err, domain.ErrPathDisconnected.Error())
	require.Nil(t, res)
	swapExecutor.AssertNotCalled(t, "ExecuteHop", mock.Anything, mock.Anything)
}
