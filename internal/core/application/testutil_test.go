package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samm-network/samm-daemon/internal/core/application"
	"github.com/samm-network/samm-daemon/internal/core/domain"
	"github.com/samm-network/samm-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/samm-network/samm-daemon/pkg/feecurve"
)

var (
	testCurve = feecurve.CurveOpts{
		Beta1: -1050000,
		RMin:  1000,
		RMax:  12000,
		C:     10400,
	}
	testFees = feecurve.FeeOpts{
		TradeFeeNum: 30,
		TradeFeeDen: 10000,
		OwnerFeeNum: 10,
		OwnerFeeDen: 10000,
	}
)

func newToken(t *testing.T, lastByte string) domain.Token {
	t.Helper()
	addr := ""
	for i := 0; i < 20; i++ {
		addr += lastByte
	}
	token, err := domain.NewToken("1", addr, 6)
	require.NoError(t, err)
	return token
}

func newPair(t *testing.T, a, b domain.Token) domain.Pair {
	t.Helper()
	pair, err := domain.NewPair(a, b)
	require.NoError(t, err)
	return pair
}

type shardSpec struct {
	id       string
	pair     domain.Pair
	reserveA uint64
	reserveB uint64
	inactive bool
	curve    *feecurve.CurveOpts
}

func newShard(t *testing.T, spec shardSpec) *domain.Shard {
	t.Helper()
	curve := testCurve
	if spec.curve != nil {
		curve = *spec.curve
	}
	shard, err := domain.NewShard(spec.id, spec.pair, curve, testFees)
	require.NoError(t, err)
	require.NoError(
		t, shard.ApplySnapshot(spec.reserveA, spec.reserveB, time.Now()),
	)
	if spec.inactive {
		shard.Deactivate()
	}
	return shard
}

// newRegistry builds a registry over the in-memory repository with a TTL
// long enough that no refresh ever triggers.
func newRegistry(
	t *testing.T, shards ...*domain.Shard,
) application.RegistryService {
	t.Helper()
	repo := inmemory.NewShardRepositoryImpl()
	for _, shard := range shards {
		require.NoError(t, repo.AddShard(context.Background(), shard))
	}
	return application.NewRegistryService(repo, nil, nil, time.Hour, 100)
}
