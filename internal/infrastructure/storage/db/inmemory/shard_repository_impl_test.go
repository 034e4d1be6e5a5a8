package inmemory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samm-network/samm-daemon/internal/core/domain"
	"github.com/samm-network/samm-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/samm-network/samm-daemon/pkg/feecurve"
)

var (
	testCurve = feecurve.CurveOpts{Beta1: -1050000, RMin: 1000, RMax: 12000, C: 10400}
	testFees  = feecurve.FeeOpts{
		TradeFeeNum: 30, TradeFeeDen: 10000,
		OwnerFeeNum: 10, OwnerFeeDen: 10000,
	}
)

func newTestShard(t *testing.T, id string, pair domain.Pair) *domain.Shard {
	t.Helper()
	shard, err := domain.NewShard(id, pair, testCurve, testFees)
	require.NoError(t, err)
	require.NoError(t, shard.ApplySnapshot(10000000000, 10000000000, time.Now()))
	return shard
}

func newTestPair(t *testing.T, byteA, byteB string) domain.Pair {
	t.Helper()
	addr := func(b string) string {
		s := ""
		for i := 0; i < 20; i++ {
			s += b
		}
		return s
	}
	tokenA, err := domain.NewToken("1", addr(byteA), 6)
	require.NoError(t, err)
	tokenB, err := domain.NewToken("1", addr(byteB), 6)
	require.NoError(t, err)
	pair, err := domain.NewPair(tokenA, tokenB)
	require.NoError(t, err)
	return pair
}

func TestShardRepositoryImpl(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewShardRepositoryImpl()
	pair := newTestPair(t, "aa", "bb")
	otherPair := newTestPair(t, "aa", "cc")

	require.NoError(t, repo.AddShard(ctx, newTestShard(t, "shard-03", pair)))
	require.NoError(t, repo.AddShard(ctx, newTestShard(t, "shard-01", pair)))
	require.NoError(t, repo.AddShard(ctx, newTestShard(t, "shard-02", otherPair)))

	err := repo.AddShard(ctx, newTestShard(t, "shard-01", pair))
	require.EqualError(t, err, domain.ErrShardAlreadyExists.Error())

	shard, err := repo.GetShard(ctx, "shard-01")
	require.NoError(t, err)
	require.Equal(t, "shard-01", shard.Id)

	_, err = repo.GetShard(ctx, "shard-99")
	require.EqualError(t, err, domain.ErrShardNotFound.Error())

	// Pair listings come back sorted by ascending id, insertion order aside.
	shards, err := repo.GetShardsForPair(ctx, pair)
	require.NoError(t, err)
	require.Len(t, shards, 2)
	require.Equal(t, "shard-01", shards[0].Id)
	require.Equal(t, "shard-03", shards[1].Id)

	all, err := repo.GetAllShards(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "shard-01", all[0].Id)
	require.Equal(t, "shard-02", all[1].Id)
	require.Equal(t, "shard-03", all[2].Id)
}

func TestShardRepositoryImplUpdateShard(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewShardRepositoryImpl()
	pair := newTestPair(t, "aa", "bb")

	require.NoError(t, repo.AddShard(ctx, newTestShard(t, "shard-01", pair)))

	err := repo.UpdateShard(ctx, "shard-01",
		func(shard *domain.Shard) (*domain.Shard, error) {
			if err := shard.ApplySnapshot(
				12000000000, 8000000000, time.Now(),
			); err != nil {
				return nil, err
			}
			return shard, nil
		},
	)
	require.NoError(t, err)

	shard, err := repo.GetShard(ctx, "shard-01")
	require.NoError(t, err)
	require.Equal(t, uint64(12000000000), shard.ReserveA)
	require.Equal(t, uint64(8000000000), shard.ReserveB)

	// An error from the update closure aborts the update.
	expectedErr := errors.New("something went wrong")
	err = repo.UpdateShard(ctx, "shard-01",
		func(shard *domain.Shard) (*domain.Shard, error) {
			shard.ReserveA = 0
			return nil, expectedErr
		},
	)
	require.EqualError(t, err, expectedErr.Error())

	shard, err = repo.GetShard(ctx, "shard-01")
	require.NoError(t, err)
	require.Equal(t, uint64(12000000000), shard.ReserveA)

	err = repo.UpdateShard(ctx, "shard-99",
		func(shard *domain.Shard) (*domain.Shard, error) {
			return shard, nil
		},
	)
	require.EqualError(t, err, domain.ErrShardNotFound.Error())
}
